package models

import (
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account that can log in and be assigned as a framework manager.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

func (u *User) Prepare() {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Email)))
	u.Name = strings.TrimSpace(u.Name)
}

// DisplayName is the name shown next to the user's records, falling back to the email local part.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
