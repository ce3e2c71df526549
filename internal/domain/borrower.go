package domain

import (
	"errors"
	"time"
)

var (
	ErrBorrowerNotFound      = errors.New("borrower not found")
	ErrBorrowerNameEmpty     = errors.New("borrower name is required")
	ErrBorrowerEmailEmpty    = errors.New("borrower email is required")
	ErrBorrowerEmailTaken    = errors.New("email already registered")
	ErrBorrowerPasswordEmpty = errors.New("password is required")
	ErrInvalidCredentials    = errors.New("invalid credentials")
)

// Role distinguishes admins from regular borrowers.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Borrower is an account holder. Admins live in the same table with a
// different role, mirroring how loans reference their owner.
type Borrower struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin reports whether the borrower holds the admin role.
func (b *Borrower) IsAdmin() bool {
	return b.Role == RoleAdmin
}

type BorrowerRepository interface {
	Create(borrower *Borrower) (*Borrower, error)
	GetByID(id int32) (*Borrower, error)
	GetByEmail(email string, role Role) (*Borrower, error)
}
