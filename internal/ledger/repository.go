package ledger

import (
	"context"
	"errors"

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

// ListMonths returns all months, newest first.
func (r *Repository) ListMonths(ctx context.Context) ([]Month, error) {
	rows, err := r.pool.Query(ctx, `SELECT month_id, name FROM months ORDER BY month_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Month
	for rows.Next() {
		var m Month
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// GetMonth fetches one month.
func (r *Repository) GetMonth(ctx context.Context, id string) (Month, error) {
	var m Month
	err := r.pool.QueryRow(ctx, `SELECT month_id, name FROM months WHERE month_id = $1`, id).
		Scan(&m.ID, &m.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Month{}, ErrNotFound
		}
		return Month{}, err
	}
	return m, nil
}

// ListSales returns the sales of one month ordered by date.
func (r *Repository) ListSales(ctx context.Context, monthID string) ([]Sale, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, month_id, to_char(sale_date, 'YYYY-MM-DD'), weekday, cost, expenses, amount, margin
		FROM sales WHERE month_id = $1 ORDER BY sale_date`, monthID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.MonthID, &s.Date, &s.Weekday, &s.Cost, &s.Expenses, &s.Amount, &s.Margin); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetSale fetches one sale.
func (r *Repository) GetSale(ctx context.Context, id int64) (Sale, error) {
	var s Sale
	err := r.pool.QueryRow(ctx, `
		SELECT id, month_id, to_char(sale_date, 'YYYY-MM-DD'), weekday, cost, expenses, amount, margin
		FROM sales WHERE id = $1`, id).
		Scan(&s.ID, &s.MonthID, &s.Date, &s.Weekday, &s.Cost, &s.Expenses, &s.Amount, &s.Margin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, ErrNotFound
		}
		return Sale{}, err
	}
	return s, nil
}

// ListExpenses returns the fixed expenses of one month.
func (r *Repository) ListExpenses(ctx context.Context, monthID string) ([]FixedExpense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, month_id, concept, total, percentage, allocated
		FROM fixed_expenses WHERE month_id = $1 ORDER BY id`, monthID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []FixedExpense
	for rows.Next() {
		var e FixedExpense
		if err := rows.Scan(&e.ID, &e.MonthID, &e.Concept, &e.Total, &e.Percentage, &e.Allocated); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// GetExpense fetches one fixed expense.
func (r *Repository) GetExpense(ctx context.Context, id int64) (FixedExpense, error) {
	var e FixedExpense
	err := r.pool.QueryRow(ctx, `
		SELECT id, month_id, concept, total, percentage, allocated
		FROM fixed_expenses WHERE id = $1`, id).
		Scan(&e.ID, &e.MonthID, &e.Concept, &e.Total, &e.Percentage, &e.Allocated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FixedExpense{}, ErrNotFound
		}
		return FixedExpense{}, err
	}
	return e, nil
}

func (t *txRepo) CreateMonth(ctx context.Context, month Month) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO months (month_id, name) VALUES ($1, $2)`, month.ID, month.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
	}
	return err
}

func (t *txRepo) DeleteMonth(ctx context.Context, id string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM months WHERE month_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) CreateSale(ctx context.Context, sale Sale) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO sales (month_id, sale_date, weekday, cost, expenses, amount, margin)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		sale.MonthID, sale.Date, sale.Weekday, sale.Cost, sale.Expenses, sale.Amount, sale.Margin,
	).Scan(&id)
	return id, err
}

func (t *txRepo) UpdateSale(ctx context.Context, sale Sale) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE sales SET sale_date = $1, weekday = $2, cost = $3, expenses = $4, amount = $5, margin = $6
		WHERE id = $7`,
		sale.Date, sale.Weekday, sale.Cost, sale.Expenses, sale.Amount, sale.Margin, sale.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) DeleteSale(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) DeleteSalesByMonth(ctx context.Context, monthID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM sales WHERE month_id = $1`, monthID)
	return err
}

func (t *txRepo) CreateExpense(ctx context.Context, expense FixedExpense) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO fixed_expenses (month_id, concept, total, percentage, allocated)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		expense.MonthID, expense.Concept, expense.Total, expense.Percentage, expense.Allocated,
	).Scan(&id)
	return id, err
}

func (t *txRepo) UpdateExpense(ctx context.Context, expense FixedExpense) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE fixed_expenses SET concept = $1, total = $2, percentage = $3, allocated = $4 WHERE id = $5`,
		expense.Concept, expense.Total, expense.Percentage, expense.Allocated, expense.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) DeleteExpense(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM fixed_expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) DeleteExpensesByMonth(ctx context.Context, monthID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM fixed_expenses WHERE month_id = $1`, monthID)
	return err
}
