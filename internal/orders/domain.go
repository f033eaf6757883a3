// Package orders manages purchase orders and the one-unit-per-scan
// receiving workflow.
package orders

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a purchase order. The scan flow only
// advances it; cancelled is reachable solely through a manual edit.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReceiving Status = "receiving"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReceiving, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Line is one product position on an order. Name, barcode and unit price
// are snapshotted from the catalog at the time the line is added.
type Line struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode"`
	Ordered   int       `json:"quantity_ordered"`
	Received  int       `json:"quantity_received"`
	UnitPrice float64   `json:"unit_price"`
	Complete  bool      `json:"received"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is a purchase order placed with one supplier.
type Order struct {
	ID         int64     `json:"id"`
	Number     string    `json:"number"`
	SupplierID int64     `json:"supplier_id"`
	Date       time.Time `json:"date"`
	Status     Status    `json:"status"`
	Notes      string    `json:"notes"`
	Total      float64   `json:"total"`
	Lines      []Line    `json:"lines,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ScanResult is returned by the receiving endpoint: the mutated line plus
// a progress message such as "Cherries 500g (2/3)".
type ScanResult struct {
	Line    Line   `json:"line"`
	Status  Status `json:"order_status"`
	Message string `json:"message"`
}

var (
	// ErrNotFound indicates a missing order.
	ErrNotFound = errors.New("orders: order not found")
	// ErrLineNotFound indicates a missing order line.
	ErrLineNotFound = errors.New("orders: line not found")
	// ErrCodeUnknown indicates a scanned code absent from the catalog.
	ErrCodeUnknown = errors.New("orders: code not found in catalog")
	// ErrProductNotInOrder indicates the scanned product has no line on this order.
	ErrProductNotInOrder = errors.New("orders: product not in this order")
	// ErrMaxReceived indicates the line is already fully received.
	ErrMaxReceived = errors.New("orders: maximum quantity reached")
	// ErrSupplierNotFound indicates the referenced supplier does not exist.
	ErrSupplierNotFound = errors.New("orders: supplier not found")
	// ErrNoSupplierPrice indicates the product has no price for the order's supplier.
	ErrNoSupplierPrice = errors.New("orders: product has no price for this supplier")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("orders: invalid input")
)
