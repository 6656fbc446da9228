package domain

import "time"

// Role is the authorization role carried in identity tokens.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator
}

// User is an account that can report, moderate or claim items.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
