// Package clients tracks shop customers and the debts they owe.
package clients

import (
	"errors"
	"time"
)

// Client is a customer with an open account.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Debt is a single amount owed by a client.
type Debt struct {
	ID       int64     `json:"id"`
	ClientID int64     `json:"client_id"`
	Date     time.Time `json:"date"`
	Amount   float64   `json:"amount"`
}

var (
	// ErrNotFound indicates a missing client or debt.
	ErrNotFound = errors.New("clients: not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("clients: invalid input")
)
