package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleWaiter = "waiter"
)

// User is a staff account. Password hashes and session tokens never leave
// the server.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Role         string    `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	SessionToken string    `json:"-" db:"session_token"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// CreateUserRequest is the payload for the admin create-user endpoint.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// UpdatePasswordRequest is the payload for the admin password-reset
// endpoint.
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}
