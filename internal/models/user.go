package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleFaculty   UserRole = "FACULTY"
	RoleHOD       UserRole = "HOD"
	RolePrincipal UserRole = "PRINCIPAL"
	RoleAdmin     UserRole = "ADMIN"
)

// User represents a portal account. The password hash carries a JSON tag
// because the kv store persists users as JSON documents; handlers must only
// ever expose UserInfo, never User.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	FullName     string    `json:"full_name"`
	Role         UserRole  `json:"role"`
	Department   string    `json:"department"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
