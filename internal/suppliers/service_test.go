package suppliers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memorySupplierRepo struct {
	suppliers map[int64]Supplier
	invoices  map[int64]Invoice
	payments  map[int64]Payment
	nextID    int64
}

type memorySupplierTx struct {
	repo *memorySupplierRepo
}

func newMemorySupplierRepo() *memorySupplierRepo {
	return &memorySupplierRepo{
		suppliers: make(map[int64]Supplier),
		invoices:  make(map[int64]Invoice),
		payments:  make(map[int64]Payment),
	}
}

func (r *memorySupplierRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memorySupplierTx{repo: r})
}

func (r *memorySupplierRepo) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	list := make([]Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		list = append(list, s)
	}
	return list, nil
}

func (r *memorySupplierRepo) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return Supplier{}, ErrNotFound
	}
	return s, nil
}

func (r *memorySupplierRepo) ListInvoices(ctx context.Context, supplierID int64) ([]Invoice, error) {
	var list []Invoice
	for _, inv := range r.invoices {
		if inv.SupplierID == supplierID {
			list = append(list, inv)
		}
	}
	return list, nil
}

func (r *memorySupplierRepo) GetInvoice(ctx context.Context, id int64) (Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return Invoice{}, ErrNotFound
	}
	return inv, nil
}

func (r *memorySupplierRepo) ListPayments(ctx context.Context, supplierID int64) ([]Payment, error) {
	var list []Payment
	for _, p := range r.payments {
		if p.SupplierID == supplierID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (r *memorySupplierRepo) GetPayment(ctx context.Context, id int64) (Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return p, nil
}

func (tx *memorySupplierTx) nextID() int64 {
	tx.repo.nextID++
	return tx.repo.nextID
}

func (tx *memorySupplierTx) CreateSupplier(ctx context.Context, supplier Supplier) (int64, error) {
	id := tx.nextID()
	supplier.ID = id
	tx.repo.suppliers[id] = supplier
	return id, nil
}

func (tx *memorySupplierTx) DeleteSupplier(ctx context.Context, id int64) error {
	if _, ok := tx.repo.suppliers[id]; !ok {
		return ErrNotFound
	}
	delete(tx.repo.suppliers, id)
	return nil
}

func (tx *memorySupplierTx) CreateInvoice(ctx context.Context, invoice Invoice) (int64, error) {
	id := tx.nextID()
	invoice.ID = id
	tx.repo.invoices[id] = invoice
	return id, nil
}

func (tx *memorySupplierTx) UpdateInvoice(ctx context.Context, invoice Invoice) error {
	if _, ok := tx.repo.invoices[invoice.ID]; !ok {
		return ErrNotFound
	}
	tx.repo.invoices[invoice.ID] = invoice
	return nil
}

func (tx *memorySupplierTx) DeleteInvoice(ctx context.Context, id int64) error {
	if _, ok := tx.repo.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(tx.repo.invoices, id)
	return nil
}

func (tx *memorySupplierTx) DeleteInvoicesBySupplier(ctx context.Context, supplierID int64) error {
	for id, inv := range tx.repo.invoices {
		if inv.SupplierID == supplierID {
			delete(tx.repo.invoices, id)
		}
	}
	return nil
}

func (tx *memorySupplierTx) CreatePayment(ctx context.Context, payment Payment) (int64, error) {
	id := tx.nextID()
	payment.ID = id
	tx.repo.payments[id] = payment
	return id, nil
}

func (tx *memorySupplierTx) UpdatePayment(ctx context.Context, payment Payment) error {
	if _, ok := tx.repo.payments[payment.ID]; !ok {
		return ErrNotFound
	}
	tx.repo.payments[payment.ID] = payment
	return nil
}

func (tx *memorySupplierTx) DeletePayment(ctx context.Context, id int64) error {
	if _, ok := tx.repo.payments[id]; !ok {
		return ErrNotFound
	}
	delete(tx.repo.payments, id)
	return nil
}

func (tx *memorySupplierTx) DeletePaymentsBySupplier(ctx context.Context, supplierID int64) error {
	for id, p := range tx.repo.payments {
		if p.SupplierID == supplierID {
			delete(tx.repo.payments, id)
		}
	}
	return nil
}

func TestInvoiceAndPaymentLifecycle(t *testing.T) {
	svc := NewService(newMemorySupplierRepo())
	ctx := context.Background()

	supplier, err := svc.CreateSupplier(ctx, "Mercado Central")
	require.NoError(t, err)

	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	due := day.AddDate(0, 0, 30)
	invoice, err := svc.AddInvoice(ctx, Invoice{SupplierID: supplier.ID, Date: day, DueDate: &due, Number: "A-0001", Amount: 5000, Rejected: 250})
	require.NoError(t, err)
	require.NotZero(t, invoice.ID)

	invoice.Amount = 5200
	updated, err := svc.UpdateInvoice(ctx, invoice)
	require.NoError(t, err)
	require.Equal(t, 5200.0, updated.Amount)
	require.Equal(t, supplier.ID, updated.SupplierID)

	payment, err := svc.AddPayment(ctx, Payment{SupplierID: supplier.ID, Date: day, Amount: 2000})
	require.NoError(t, err)

	_, err = svc.AddInvoice(ctx, Invoice{SupplierID: 999, Date: day, Amount: 1})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeletePayment(ctx, payment.ID))
	require.ErrorIs(t, svc.DeletePayment(ctx, payment.ID), ErrNotFound)
}

func TestDeleteSupplierCascadesInvoicesAndPayments(t *testing.T) {
	svc := NewService(newMemorySupplierRepo())
	ctx := context.Background()

	supplier, err := svc.CreateSupplier(ctx, "Mercado Central")
	require.NoError(t, err)
	other, err := svc.CreateSupplier(ctx, "Frutas del Sur")
	require.NoError(t, err)

	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.AddInvoice(ctx, Invoice{SupplierID: supplier.ID, Date: day, Amount: 100})
	require.NoError(t, err)
	_, err = svc.AddPayment(ctx, Payment{SupplierID: supplier.ID, Date: day, Amount: 50})
	require.NoError(t, err)
	keptInvoice, err := svc.AddInvoice(ctx, Invoice{SupplierID: other.ID, Date: day, Amount: 900})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSupplier(ctx, supplier.ID))

	invoices, err := svc.ListInvoices(ctx, supplier.ID)
	require.NoError(t, err)
	require.Empty(t, invoices)
	payments, err := svc.ListPayments(ctx, supplier.ID)
	require.NoError(t, err)
	require.Empty(t, payments)

	remaining, err := svc.ListInvoices(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, keptInvoice.ID, remaining[0].ID)
}
