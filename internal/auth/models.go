package auth

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleBuyer Role = "buyer"
)

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
