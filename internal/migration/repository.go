package migration

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the destructive wipe against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Wipe truncates every business table. User accounts survive.
func (r *Repository) Wipe(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		TRUNCATE TABLE
			debts, clients,
			invoices, payments,
			order_lines, purchase_orders, order_counters,
			product_prices, product_barcodes, products,
			sales, fixed_expenses, months,
			suppliers
		RESTART IDENTITY CASCADE`)
	return err
}
