package catalog

import (
	"context"
	"fmt"
	"strings"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, name, description, barcode string) (Product, error)
	AddBarcode(ctx context.Context, productID int64, code string) error
	UpsertPrice(ctx context.Context, productID, supplierID int64, supplierName string, price float64) error
	DeletePrice(ctx context.Context, productID, priceID int64) error
	FindByBarcode(ctx context.Context, code string) (Product, error)
}

// SupplierDirectory resolves supplier names for price snapshots.
type SupplierDirectory interface {
	SupplierName(ctx context.Context, id int64) (string, error)
}

// Service wraps catalog business rules.
type Service struct {
	repo      RepositoryPort
	suppliers SupplierDirectory
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, suppliers SupplierDirectory) *Service {
	return &Service{repo: repo, suppliers: suppliers}
}

// List returns every product as a summary.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.List(ctx)
}

// Get fetches one product with its barcodes and price list.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new master product with its first barcode.
func (s *Service) Create(ctx context.Context, name, description, barcode string) (Product, error) {
	name = strings.TrimSpace(name)
	barcode = strings.TrimSpace(barcode)
	if name == "" {
		return Product{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if barcode == "" {
		return Product{}, fmt.Errorf("%w: barcode is required", ErrValidation)
	}
	return s.repo.Create(ctx, name, strings.TrimSpace(description), barcode)
}

// AddBarcode attaches another barcode to a product. Adding a code the
// product already carries is a no-op; a code owned by a different product
// fails with ErrDuplicate.
func (s *Service) AddBarcode(ctx context.Context, productID int64, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("%w: barcode is required", ErrValidation)
	}
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return err
	}
	return s.repo.AddBarcode(ctx, productID, code)
}

// SetPrice creates or updates the price entry for one supplier, snapshotting
// the supplier's current name.
func (s *Service) SetPrice(ctx context.Context, productID, supplierID int64, price float64) (Product, error) {
	if price < 0 {
		return Product{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return Product{}, err
	}
	supplierName, err := s.suppliers.SupplierName(ctx, supplierID)
	if err != nil {
		return Product{}, err
	}
	if err := s.repo.UpsertPrice(ctx, productID, supplierID, supplierName, price); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, productID)
}

// RemovePrice drops one price entry from a product.
func (s *Service) RemovePrice(ctx context.Context, productID, priceID int64) (Product, error) {
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return Product{}, err
	}
	if err := s.repo.DeletePrice(ctx, productID, priceID); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, productID)
}

// FindByBarcode resolves a scanned code to its catalog product.
func (s *Service) FindByBarcode(ctx context.Context, code string) (Product, error) {
	return s.repo.FindByBarcode(ctx, code)
}
