package models

import "time"

// Rôles — la hiérarchie est fixe, cf. middleware/roles.go
const (
	RoleCustomer   = "customer"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	ID        string    `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Password  string    `json:"-"` // vide pour les invités et comptes OAuth
	Role      string    `json:"role,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	IsGuest   bool      `json:"is_guest,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
