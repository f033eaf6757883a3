package suppliers

import (
	"context"
	"fmt"
	"strings"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	GetSupplier(ctx context.Context, id int64) (Supplier, error)
	ListInvoices(ctx context.Context, supplierID int64) ([]Invoice, error)
	GetInvoice(ctx context.Context, id int64) (Invoice, error)
	ListPayments(ctx context.Context, supplierID int64) ([]Payment, error)
	GetPayment(ctx context.Context, id int64) (Payment, error)
}

// TxRepository exposes transactional operations.
type TxRepository interface {
	CreateSupplier(ctx context.Context, supplier Supplier) (int64, error)
	DeleteSupplier(ctx context.Context, id int64) error
	CreateInvoice(ctx context.Context, invoice Invoice) (int64, error)
	UpdateInvoice(ctx context.Context, invoice Invoice) error
	DeleteInvoice(ctx context.Context, id int64) error
	DeleteInvoicesBySupplier(ctx context.Context, supplierID int64) error
	CreatePayment(ctx context.Context, payment Payment) (int64, error)
	UpdatePayment(ctx context.Context, payment Payment) error
	DeletePayment(ctx context.Context, id int64) error
	DeletePaymentsBySupplier(ctx context.Context, supplierID int64) error
}

// Service wraps supplier, invoice and payment business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListSuppliers returns every supplier.
func (s *Service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

// GetSupplier fetches one supplier.
func (s *Service) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

// CreateSupplier stores a new supplier.
func (s *Service) CreateSupplier(ctx context.Context, name string) (Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Supplier{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	supplier := Supplier{Name: name}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateSupplier(ctx, supplier)
		if err != nil {
			return err
		}
		supplier.ID = id
		return nil
	})
	if err != nil {
		return Supplier{}, err
	}
	return supplier, nil
}

// DeleteSupplier removes a supplier plus all its invoices and payments,
// atomically.
func (s *Service) DeleteSupplier(ctx context.Context, id int64) error {
	if _, err := s.repo.GetSupplier(ctx, id); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.DeleteInvoicesBySupplier(ctx, id); err != nil {
			return err
		}
		if err := tx.DeletePaymentsBySupplier(ctx, id); err != nil {
			return err
		}
		return tx.DeleteSupplier(ctx, id)
	})
}

// ListInvoices returns the invoices of one supplier.
func (s *Service) ListInvoices(ctx context.Context, supplierID int64) ([]Invoice, error) {
	return s.repo.ListInvoices(ctx, supplierID)
}

// AddInvoice records an invoice against an existing supplier.
func (s *Service) AddInvoice(ctx context.Context, invoice Invoice) (Invoice, error) {
	if _, err := s.repo.GetSupplier(ctx, invoice.SupplierID); err != nil {
		return Invoice{}, err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateInvoice(ctx, invoice)
		if err != nil {
			return err
		}
		invoice.ID = id
		return nil
	})
	if err != nil {
		return Invoice{}, err
	}
	return invoice, nil
}

// UpdateInvoice edits an invoice. The supplier reference is immutable.
func (s *Service) UpdateInvoice(ctx context.Context, invoice Invoice) (Invoice, error) {
	current, err := s.repo.GetInvoice(ctx, invoice.ID)
	if err != nil {
		return Invoice{}, err
	}
	invoice.SupplierID = current.SupplierID
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateInvoice(ctx, invoice)
	})
	if err != nil {
		return Invoice{}, err
	}
	return invoice, nil
}

// DeleteInvoice removes a single invoice.
func (s *Service) DeleteInvoice(ctx context.Context, id int64) error {
	if _, err := s.repo.GetInvoice(ctx, id); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteInvoice(ctx, id)
	})
}

// ListPayments returns the payments of one supplier.
func (s *Service) ListPayments(ctx context.Context, supplierID int64) ([]Payment, error) {
	return s.repo.ListPayments(ctx, supplierID)
}

// AddPayment records a payment against an existing supplier.
func (s *Service) AddPayment(ctx context.Context, payment Payment) (Payment, error) {
	if _, err := s.repo.GetSupplier(ctx, payment.SupplierID); err != nil {
		return Payment{}, err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreatePayment(ctx, payment)
		if err != nil {
			return err
		}
		payment.ID = id
		return nil
	})
	if err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// UpdatePayment edits a payment. The supplier reference is immutable.
func (s *Service) UpdatePayment(ctx context.Context, payment Payment) (Payment, error) {
	current, err := s.repo.GetPayment(ctx, payment.ID)
	if err != nil {
		return Payment{}, err
	}
	payment.SupplierID = current.SupplierID
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdatePayment(ctx, payment)
	})
	if err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// DeletePayment removes a single payment.
func (s *Service) DeletePayment(ctx context.Context, id int64) error {
	if _, err := s.repo.GetPayment(ctx, id); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeletePayment(ctx, id)
	})
}
