package domain

import "time"

// Role enumerates CRM user roles.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleSalesEngineer Role = "sales_engineer"
	RoleManager       Role = "manager"
	RoleViewer        Role = "viewer"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleAdmin, RoleSalesEngineer, RoleManager, RoleViewer}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSalesEngineer, RoleManager, RoleViewer:
		return true
	}
	return false
}

// User is a CRM operator. Role is fixed once the user is created.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
