package domain

import "time"

// MaxBlockDays caps a single suspension at roughly one hundred years, well
// inside both time.Time arithmetic and the BSON datetime range.
const MaxBlockDays = 36500

// User models an account that can authenticate against the service.
type User struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Roles          []Role     `json:"roles"`
	BlockExpiresAt *time.Time `json:"block_expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsBlocked reports whether the account is suspended at now. The suspension
// lifts by itself once now reaches BlockExpiresAt; nothing is stored for it.
func (u *User) IsBlocked(now time.Time) bool {
	if u.BlockExpiresAt == nil {
		return false
	}
	return now.Before(*u.BlockExpiresAt)
}

// BlockFor suspends the account for the given number of days starting at now.
func (u *User) BlockFor(days int, now time.Time) {
	until := now.AddDate(0, 0, days).UTC()
	u.BlockExpiresAt = &until
	u.UpdatedAt = now.UTC()
}

// Unblock lifts any suspension immediately.
func (u *User) Unblock(now time.Time) {
	u.BlockExpiresAt = nil
	u.UpdatedAt = now.UTC()
}

// AuthContext is the request-scoped view of an authenticated user.
type AuthContext struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Roles    []Role `json:"roles"`
}

// NewAuthContext copies the identity fields a request is allowed to see.
func NewAuthContext(u *User) *AuthContext {
	roles := make([]Role, len(u.Roles))
	copy(roles, u.Roles)
	return &AuthContext{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    roles,
	}
}
