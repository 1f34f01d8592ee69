package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	List(ctx context.Context) ([]User, error)
}

// MaxPasswordBytes is the longest password a hasher accepts.
const MaxPasswordBytes = 72

// PasswordHasher produces and verifies salted one-way password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// User represents a registered account.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	Phone        string
	PasswordHash string
	ConsentGiven bool
	IsAdmin      bool
	CreatedAt    time.Time
}

// RegisterParams contains registration form input.
type RegisterParams struct {
	Username string
	Email    string
	Phone    string
	Password string
	Consent  bool
}

// AdminParams describes the account provisioned at startup.
type AdminParams struct {
	Username string
	Email    string
	Phone    string
	Password string
}
