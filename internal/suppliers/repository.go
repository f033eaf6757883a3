package suppliers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps callback in a transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	wrapper := &txRepo{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// ListSuppliers returns all suppliers ordered by name.
func (r *Repository) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetSupplier fetches one supplier.
func (r *Repository) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	var s Supplier
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM suppliers WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, ErrNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

// ListInvoices returns the invoices of one supplier ordered by date.
func (r *Repository) ListInvoices(ctx context.Context, supplierID int64) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, supplier_id, invoice_date, due_date, number, amount, rejected
		 FROM invoices WHERE supplier_id = $1 ORDER BY invoice_date`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.SupplierID, &inv.Date, &inv.DueDate, &inv.Number, &inv.Amount, &inv.Rejected); err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// GetInvoice fetches one invoice.
func (r *Repository) GetInvoice(ctx context.Context, id int64) (Invoice, error) {
	var inv Invoice
	err := r.pool.QueryRow(ctx,
		`SELECT id, supplier_id, invoice_date, due_date, number, amount, rejected FROM invoices WHERE id = $1`, id).
		Scan(&inv.ID, &inv.SupplierID, &inv.Date, &inv.DueDate, &inv.Number, &inv.Amount, &inv.Rejected)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, ErrNotFound
		}
		return Invoice{}, err
	}
	return inv, nil
}

// ListPayments returns the payments of one supplier ordered by date.
func (r *Repository) ListPayments(ctx context.Context, supplierID int64) ([]Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, supplier_id, payment_date, amount FROM payments WHERE supplier_id = $1 ORDER BY payment_date`,
		supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.Date, &p.Amount); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetPayment fetches one payment.
func (r *Repository) GetPayment(ctx context.Context, id int64) (Payment, error) {
	var p Payment
	err := r.pool.QueryRow(ctx,
		`SELECT id, supplier_id, payment_date, amount FROM payments WHERE id = $1`, id).
		Scan(&p.ID, &p.SupplierID, &p.Date, &p.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	return p, nil
}

func (t *txRepo) CreateSupplier(ctx context.Context, supplier Supplier) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO suppliers (name, created_at) VALUES ($1, $2) RETURNING id`,
		supplier.Name, time.Now(),
	).Scan(&id)
	return id, err
}

func (t *txRepo) DeleteSupplier(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) CreateInvoice(ctx context.Context, invoice Invoice) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO invoices (supplier_id, invoice_date, due_date, number, amount, rejected, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		invoice.SupplierID, invoice.Date, invoice.DueDate, invoice.Number, invoice.Amount, invoice.Rejected, time.Now(),
	).Scan(&id)
	return id, err
}

func (t *txRepo) UpdateInvoice(ctx context.Context, invoice Invoice) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE invoices SET invoice_date = $1, due_date = $2, number = $3, amount = $4, rejected = $5 WHERE id = $6`,
		invoice.Date, invoice.DueDate, invoice.Number, invoice.Amount, invoice.Rejected, invoice.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) DeleteInvoice(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) DeleteInvoicesBySupplier(ctx context.Context, supplierID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM invoices WHERE supplier_id = $1`, supplierID)
	return err
}

func (t *txRepo) CreatePayment(ctx context.Context, payment Payment) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO payments (supplier_id, payment_date, amount, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		payment.SupplierID, payment.Date, payment.Amount, time.Now(),
	).Scan(&id)
	return id, err
}

func (t *txRepo) UpdatePayment(ctx context.Context, payment Payment) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE payments SET payment_date = $1, amount = $2 WHERE id = $3`,
		payment.Date, payment.Amount, payment.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) DeletePayment(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) DeletePaymentsBySupplier(ctx context.Context, supplierID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM payments WHERE supplier_id = $1`, supplierID)
	return err
}
