package domain

import "time"

// Identity is the verified caller of a request. It is rebuilt from the bearer
// token on every request and never persisted.
type Identity struct {
	UserID    string
	Username  string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
