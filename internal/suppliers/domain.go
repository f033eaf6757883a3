// Package suppliers tracks produce suppliers, their invoices and payments.
package suppliers

import (
	"errors"
	"time"
)

// Supplier is a produce provider the shop buys from.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Invoice is a bill received from a supplier. Rejected holds the portion of
// the amount disputed and returned.
type Invoice struct {
	ID         int64      `json:"id"`
	SupplierID int64      `json:"supplier_id"`
	Date       time.Time  `json:"date"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Number     string     `json:"number"`
	Amount     float64    `json:"amount"`
	Rejected   float64    `json:"rejected"`
}

// Payment is money handed to a supplier.
type Payment struct {
	ID         int64     `json:"id"`
	SupplierID int64     `json:"supplier_id"`
	Date       time.Time `json:"date"`
	Amount     float64   `json:"amount"`
}

var (
	// ErrNotFound indicates a missing supplier, invoice or payment.
	ErrNotFound = errors.New("suppliers: not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("suppliers: invalid input")
)
