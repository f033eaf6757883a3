package auth

import (
	"errors"
	"time"
)

// Account approval statuses. New registrations start pending and must be
// approved by an admin before login succeeds.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an application account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so responses do not leak which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountPending rejects logins for not-yet-approved accounts.
	ErrAccountPending = errors.New("account is pending approval")
	// ErrAccountRejected rejects logins for rejected accounts.
	ErrAccountRejected = errors.New("account has been rejected")
	// ErrEmailTaken indicates a duplicate registration email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrNotFound indicates a missing user record.
	ErrNotFound = errors.New("auth: user not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("auth: invalid input")
)
