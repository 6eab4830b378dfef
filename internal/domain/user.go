package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is stored on the user record and resolved to capabilities by auth.Policy.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered user and their credit balance.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Credits   int       `json:"credits"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
