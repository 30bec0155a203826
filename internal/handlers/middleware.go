package handlers

import (
	"net/http"
	"strings"

	"vitalboard/internal/models"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// Public surfaces a thin client should navigate to when the guard rejects a
// request.
const (
	loginRedirect        = "/login"
	unauthorizedRedirect = "/unauthorized"
)

// bearerToken extracts the token from the Authorization header, empty when
// the header is missing or malformed.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// sessionMiddleware resolves the bearer token into a session and stores it in
// the request context. Unauthenticated requests are pointed at the login
// surface.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":    "authentication required",
			"redirect": loginRedirect,
		})
		return
	}

	session, err := h.services.ParseSession(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":    "invalid or expired session",
			"redirect": loginRedirect,
		})
		return
	}

	c.Set(sessionContextKey, session)
	c.Next()
}

// requireRoles gates a route group on membership in the allowed set. An empty
// set admits any authenticated session. The check runs on every request, so a
// sign-out elsewhere revokes access on the next evaluation.
func (h *Handler) requireRoles(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}
		session, ok := sessionFromContext(c)
		if !ok || session.Role == nil || !session.Role.In(allowed) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "insufficient role",
				"redirect": unauthorizedRedirect,
			})
			return
		}
		c.Next()
	}
}

func sessionFromContext(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return models.Session{}, false
	}
	session, ok := v.(models.Session)
	return session, ok
}
