package models

// RoleType represents the authorization tier of a profile
type RoleType string

const (
	// RoleAdmin is the administrator role
	RoleAdmin RoleType = "admin"
	// RoleStudent is the student role
	RoleStudent RoleType = "student"
)

// IsValid reports whether the role is one of the known tiers
func (r RoleType) IsValid() bool {
	return r == RoleAdmin || r == RoleStudent
}
