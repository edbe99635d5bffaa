package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleCitizen UserRole = "CITIZEN"
	RoleOfficer UserRole = "OFFICER"
)

// User represents a portal account stored in the users table. Citizens
// authenticate with their NIC number; officers additionally register with
// the shared officer key. RegisteredBy is set for proxy registrations
// performed by an officer on behalf of a citizen without portal access.
type User struct {
	ID                    string     `db:"id" json:"id"`
	NIC                   string     `db:"nic" json:"nic"`
	Email                 string     `db:"email" json:"email"`
	PasswordHash          string     `db:"password_hash" json:"-"`
	FullName              string     `db:"full_name" json:"full_name"`
	Address               string     `db:"address" json:"address"`
	Role                  UserRole   `db:"role" json:"role"`
	District              string     `db:"district" json:"district"`
	DivisionalSecretariat string     `db:"divisional_secretariat" json:"divisional_secretariat"`
	GNDivision            string     `db:"gn_division" json:"gn_division"`
	RegisteredBy          *string    `db:"registered_by" json:"registered_by,omitempty"`
	Active                bool       `db:"active" json:"active"`
	LastLogin             *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
