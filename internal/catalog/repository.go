package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// List returns all products with their barcodes, ordered by name.
func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, COALESCE(array_agg(b.barcode ORDER BY b.id) FILTER (WHERE b.barcode IS NOT NULL), '{}')
		FROM products p
		LEFT JOIN product_barcodes b ON b.product_id = p.id
		GROUP BY p.id, p.name
		ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Barcodes); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Get fetches one product with barcodes and price list.
func (r *Repository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	if err := r.loadDetails(ctx, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repository) loadDetails(ctx context.Context, p *Product) error {
	rows, err := r.pool.Query(ctx,
		`SELECT barcode FROM product_barcodes WHERE product_id = $1 ORDER BY id`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return err
		}
		p.Barcodes = append(p.Barcodes, code)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	priceRows, err := r.pool.Query(ctx,
		`SELECT id, supplier_id, supplier_name, price FROM product_prices WHERE product_id = $1 ORDER BY id`, p.ID)
	if err != nil {
		return err
	}
	defer priceRows.Close()
	for priceRows.Next() {
		var entry SupplierPrice
		if err := priceRows.Scan(&entry.ID, &entry.SupplierID, &entry.SupplierName, &entry.Price); err != nil {
			return err
		}
		p.Prices = append(p.Prices, entry)
	}
	return priceRows.Err()
}

// Create inserts a product and its first barcode in one transaction.
func (r *Repository) Create(ctx context.Context, name, description, barcode string) (Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Product{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now()
	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO products (name, description, created_at, updated_at) VALUES ($1, $2, $3, $3) RETURNING id`,
		name, description, now,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return Product{}, ErrDuplicate
		}
		return Product{}, err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO product_barcodes (product_id, barcode) VALUES ($1, $2)`, id, barcode); err != nil {
		if isUniqueViolation(err) {
			return Product{}, ErrDuplicate
		}
		return Product{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Product{}, err
	}
	return Product{ID: id, Name: name, Description: description, Barcodes: []string{barcode}, CreatedAt: now, UpdatedAt: now}, nil
}

// AddBarcode attaches a barcode to a product, set-add semantics.
func (r *Repository) AddBarcode(ctx context.Context, productID int64, code string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO product_barcodes (product_id, barcode) VALUES ($1, $2)`, productID, code)
	if err == nil {
		return nil
	}
	if !isUniqueViolation(err) {
		return err
	}
	var owner int64
	lookupErr := r.pool.QueryRow(ctx,
		`SELECT product_id FROM product_barcodes WHERE barcode = $1`, code).Scan(&owner)
	if lookupErr == nil && owner == productID {
		return nil
	}
	return ErrDuplicate
}

// UpsertPrice creates or replaces the price entry for one supplier.
func (r *Repository) UpsertPrice(ctx context.Context, productID, supplierID int64, supplierName string, price float64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO product_prices (product_id, supplier_id, supplier_name, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, supplier_id)
		DO UPDATE SET supplier_name = EXCLUDED.supplier_name, price = EXCLUDED.price`,
		productID, supplierID, supplierName, price)
	return err
}

// DeletePrice drops one price entry.
func (r *Repository) DeletePrice(ctx context.Context, productID, priceID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM product_prices WHERE id = $1 AND product_id = $2`, priceID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByBarcode resolves a scanned code to its product.
func (r *Repository) FindByBarcode(ctx context.Context, code string) (Product, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT product_id FROM product_barcodes WHERE barcode = $1`, code).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return r.Get(ctx, id)
}
