// Package catalog holds the master product list: names, barcodes and the
// agreed price per supplier.
package catalog

import (
	"errors"
	"time"
)

// SupplierPrice is one entry of a product's per-supplier price list. The
// supplier name is snapshotted so listings need no extra lookup.
type SupplierPrice struct {
	ID           int64   `json:"id"`
	SupplierID   int64   `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	Price        float64 `json:"price"`
}

// Product is a master catalog item.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Barcodes    []string        `json:"barcodes"`
	Prices      []SupplierPrice `json:"prices"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Summary is the trimmed shape returned by the list endpoint: enough to
// populate pickers and resolve scanned codes client-side.
type Summary struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Barcodes []string `json:"barcodes"`
}

// PriceFor returns the price entry for the given supplier.
func (p Product) PriceFor(supplierID int64) (SupplierPrice, bool) {
	for _, entry := range p.Prices {
		if entry.SupplierID == supplierID {
			return entry, true
		}
	}
	return SupplierPrice{}, false
}

// ReferenceBarcode returns the first barcode, used as the cached reference
// on order lines.
func (p Product) ReferenceBarcode() string {
	if len(p.Barcodes) == 0 {
		return ""
	}
	return p.Barcodes[0]
}

var (
	// ErrNotFound indicates a missing product or price entry.
	ErrNotFound = errors.New("catalog: not found")
	// ErrSupplierNotFound indicates the referenced supplier does not exist.
	ErrSupplierNotFound = errors.New("catalog: supplier not found")
	// ErrDuplicate indicates a name or barcode already in use.
	ErrDuplicate = errors.New("catalog: product name or barcode already exists")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("catalog: invalid input")
)
