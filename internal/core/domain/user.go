package domain

import "time"

const (
	RoleAdmin       = "admin"
	RoleTrustedUser = "trusted_user"
	RoleUser        = "user"
)

// ValidRole reports whether role is one of the three enumerated roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTrustedUser, RoleUser:
		return true
	}
	return false
}

// User models an authenticated account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
