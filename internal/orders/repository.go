package orders

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

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const orderColumns = `id, number, supplier_id, order_date, status, notes, total, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Number, &o.SupplierID, &o.Date, &o.Status, &o.Notes, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// ListOrders returns all orders, newest first.
func (r *Repository) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM purchase_orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// GetOrder fetches one order with its lines.
func (r *Repository) GetOrder(ctx context.Context, id int64) (Order, error) {
	return getOrder(ctx, r.pool, id)
}

// GetLine fetches one line.
func (r *Repository) GetLine(ctx context.Context, id int64) (Line, error) {
	return getLine(ctx, r.pool, id)
}

// ListLines returns the lines of one order.
func (r *Repository) ListLines(ctx context.Context, orderID int64) ([]Line, error) {
	return queryLines(ctx, r.pool, orderID)
}

func getOrder(ctx context.Context, q querier, id int64) (Order, error) {
	o, err := scanOrder(q.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	o.Lines, err = queryLines(ctx, q, id)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func getLine(ctx context.Context, q querier, id int64) (Line, error) {
	var l Line
	err := q.QueryRow(ctx, `
		SELECT id, order_id, product_id, name, barcode, qty_ordered, qty_received, unit_price, received, created_at
		FROM order_lines WHERE id = $1`, id).
		Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Name, &l.Barcode, &l.Ordered, &l.Received, &l.UnitPrice, &l.Complete, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Line{}, ErrLineNotFound
		}
		return Line{}, err
	}
	return l, nil
}

func queryLines(ctx context.Context, q querier, orderID int64) ([]Line, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, product_id, name, barcode, qty_ordered, qty_received, unit_price, received, created_at
		FROM order_lines WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Name, &l.Barcode, &l.Ordered, &l.Received, &l.UnitPrice, &l.Complete, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// NextSequence atomically bumps and returns the per-year order counter.
func (t *txRepo) NextSequence(ctx context.Context, year int) (int, error) {
	var seq int
	err := t.tx.QueryRow(ctx, `
		INSERT INTO order_counters (year, seq) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq`, year).Scan(&seq)
	return seq, err
}

func (t *txRepo) CreateOrder(ctx context.Context, order Order) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO purchase_orders (number, supplier_id, order_date, status, notes, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`,
		order.Number, order.SupplierID, order.Date, order.Status, order.Notes, order.Total, time.Now(),
	).Scan(&id)
	return id, err
}

// GetOrder re-reads the order inside the transaction, with its row locked
// so a concurrent writer cannot slip between read and write.
func (t *txRepo) GetOrder(ctx context.Context, id int64) (Order, error) {
	o, err := scanOrder(t.tx.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	o.Lines, err = queryLines(ctx, t.tx, id)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (t *txRepo) GetLine(ctx context.Context, id int64) (Line, error) {
	return getLine(ctx, t.tx, id)
}

func (t *txRepo) UpdateOrder(ctx context.Context, id int64, status Status, notes string) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE purchase_orders SET status = $1, notes = $2, updated_at = $3 WHERE id = $4`,
		status, notes, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) UpdateOrderStatus(ctx context.Context, id int64, status Status) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE purchase_orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) UpdateOrderTotal(ctx context.Context, id int64, total float64) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE purchase_orders SET total = $1, updated_at = $2 WHERE id = $3`,
		total, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) CreateLine(ctx context.Context, line Line) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO order_lines (order_id, product_id, name, barcode, qty_ordered, qty_received, unit_price, received, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		line.OrderID, line.ProductID, line.Name, line.Barcode, line.Ordered, line.Received, line.UnitPrice, line.Complete, time.Now(),
	).Scan(&id)
	return id, err
}

func (t *txRepo) UpdateLine(ctx context.Context, line Line) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE order_lines SET qty_ordered = $1, qty_received = $2, unit_price = $3, received = $4 WHERE id = $5`,
		line.Ordered, line.Received, line.UnitPrice, line.Complete, line.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (t *txRepo) DeleteLine(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM order_lines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (t *txRepo) DeleteLinesByOrder(ctx context.Context, orderID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, orderID)
	return err
}

func (t *txRepo) ListLines(ctx context.Context, orderID int64) ([]Line, error) {
	return queryLines(ctx, t.tx, orderID)
}
