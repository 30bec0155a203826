package models

import "time"

// Role is the coarse access level attached to a session. It is a closed set
// with a single recognized value today; checks are always set membership so
// adding roles later does not touch call sites.
type Role string

const RolePatient Role = "patient"

// ParseRole maps a metadata value to a recognized Role. Unrecognized or empty
// values yield nil: "no privileges", not an error.
func ParseRole(s string) *Role {
	if Role(s) == RolePatient {
		r := RolePatient
		return &r
	}
	return nil
}

// In reports whether the role is a member of the allowed set.
func (r Role) In(allowed []Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

type User struct {
	ID           int            `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // never exposed
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Session is the authenticated state observed by the dashboard. Role is
// re-derived from the metadata bag on every token parse, never cached.
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Email     string    `json:"email"`
	Role      *Role     `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
