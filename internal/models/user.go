package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
	RoleWaiter       Role = "waiter"
	RoleChef         Role = "chef"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleReceptionist, RoleWaiter, RoleChef:
		return true
	}
	return false
}

// User accounts are administered by the auth service; this service only
// reads id and role for authorization and attribution.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           string    `json:"id" bun:"id,pk"`
	Name         string    `json:"name" bun:"name"`
	Email        string    `json:"email" bun:"email,unique"`
	PasswordHash string    `json:"-" bun:"password_hash"`
	Role         Role      `json:"role" bun:"role"`
	CreatedAt    time.Time `json:"createdAt" bun:"created_at"`
}
