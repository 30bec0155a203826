package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vitalboard/internal/models"
	"vitalboard/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionRevoked     = errors.New("session revoked or expired")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// AuthService owns session state. There is deliberately no package-level
// session value; everything flows through this object.
type AuthService struct {
	userRepo    repository.UserRepo
	sessionRepo repository.SessionRepo
	signingKey  []byte
	tokenTTL    time.Duration
}

func NewAuthService(users repository.UserRepo, sessions repository.SessionRepo, cfg Config) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		userRepo:    users,
		sessionRepo: sessions,
		signingKey:  []byte(cfg.SigningKey),
		tokenTTL:    ttl,
	}
}

var _ Authorization = (*AuthService)(nil)

// Claims carry the user identity plus the free-form metadata bag the role is
// derived from.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int            `json:"user_id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SignUp hashes the password and creates the user with the default role claim
// in its metadata bag.
func (s *AuthService) SignUp(email, password string) (int, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return 0, ErrInvalidEmail
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, err
	}
	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrUserExists
	}
	// every account starts as a patient
	return s.userRepo.Create(email, hash, map[string]any{"role": string(models.RolePatient)})
}

// SignIn validates credentials, persists a session row and returns a signed
// token whose jti is the session id.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	u, err := s.userRepo.GetByEmail(normalizeEmail(email))
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	expiresAt := time.Now().Add(s.tokenTTL)
	if err := s.sessionRepo.Create(ctx, sessionID, u.ID, expiresAt); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return s.issueToken(sessionID, u, expiresAt)
}

// RequestMagicLink accepts a passwordless sign-in request. There is no mail
// provider wired behind it; the caller surfaces the check-your-email outcome
// regardless, matching the provider contract.
func (s *AuthService) RequestMagicLink(email string) error {
	if !validEmail(normalizeEmail(email)) {
		return ErrInvalidEmail
	}
	return nil
}

// ParseSession verifies the token and requires a live session row, so a
// sign-out anywhere revokes the token everywhere. The role is re-derived from
// the metadata bag on every call; an absent or unrecognized role yields a nil
// role, not an error.
func (s *AuthService) ParseSession(ctx context.Context, accessToken string) (models.Session, error) {
	claims, err := s.parseClaims(accessToken)
	if err != nil {
		return models.Session{}, err
	}

	live, err := s.sessionRepo.Exists(ctx, claims.ID)
	if err != nil {
		return models.Session{}, fmt.Errorf("check session: %w", err)
	}
	if !live {
		return models.Session{}, ErrSessionRevoked
	}

	session := models.Session{
		ID:     claims.ID,
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   roleFromMetadata(claims.Metadata),
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// SignOut deletes the session row. Calling it with an invalid token or when
// already signed out is a no-op.
func (s *AuthService) SignOut(ctx context.Context, accessToken string) error {
	claims, err := s.parseClaims(accessToken)
	if err != nil {
		return nil // nothing to invalidate
	}
	return s.sessionRepo.Delete(ctx, claims.ID)
}

func (s *AuthService) parseClaims(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) issueToken(sessionID string, u *models.User, expiresAt time.Time) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   u.ID,
		Email:    u.Email,
		Metadata: u.Metadata,
	})
	return token.SignedString(s.signingKey)
}

// roleFromMetadata reads the role claim out of the free-form bag.
func roleFromMetadata(meta map[string]any) *models.Role {
	if meta == nil {
		return nil
	}
	v, ok := meta["role"].(string)
	if !ok {
		return nil
	}
	return models.ParseRole(v)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail is a shape check only; the address is never mailed from here.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
