package models

import (
	"strings"
	"time"
)

// User is the single logged-in identity kept on the device.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Valid reports whether u satisfies the session invariants.
func (u User) Valid() bool {
	return strings.TrimSpace(u.Name) != "" && strings.TrimSpace(u.Email) != ""
}

// UserPatch carries a partial profile update. Nil fields are left unchanged.
type UserPatch struct {
	Name  *string
	Email *string
}

// Apply merges p into u. Blank values are ignored so a patch can never empty
// a field.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) != "" {
		u.Email = strings.TrimSpace(*p.Email)
	}
	return u
}

// ResetTicket authorizes exactly one password change.
type ResetTicket struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid holds iff token matches exactly and now is not past ExpiresAt.
func (t ResetTicket) Valid(token string, now time.Time) bool {
	return t.Token != "" && token == t.Token && !now.After(t.ExpiresAt)
}
