package domain

import "time"

// Role differentiates platform administrators from couriers.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleCourier Role = "COURIER"
)

// Valid reports whether the role is one the service issues tokens for.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCourier
}

// Token represents issued authentication token metadata.
type Token struct {
	SubjectID string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}
