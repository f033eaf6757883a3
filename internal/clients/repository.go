package clients

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

// ListClients returns all clients ordered by name.
func (r *Repository) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetClient fetches one client.
func (r *Repository) GetClient(ctx context.Context, id int64) (Client, error) {
	var c Client
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM clients WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return c, nil
}

// GetDebt fetches one debt.
func (r *Repository) GetDebt(ctx context.Context, id int64) (Debt, error) {
	var d Debt
	err := r.pool.QueryRow(ctx, `SELECT id, client_id, debt_date, amount FROM debts WHERE id = $1`, id).
		Scan(&d.ID, &d.ClientID, &d.Date, &d.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Debt{}, ErrNotFound
		}
		return Debt{}, err
	}
	return d, nil
}

// ListDebts returns the debts of one client ordered by date.
func (r *Repository) ListDebts(ctx context.Context, clientID int64) ([]Debt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, client_id, debt_date, amount FROM debts WHERE client_id = $1 ORDER BY debt_date`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Debt
	for rows.Next() {
		var d Debt
		if err := rows.Scan(&d.ID, &d.ClientID, &d.Date, &d.Amount); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (t *txRepo) CreateClient(ctx context.Context, client Client) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO clients (name, created_at) VALUES ($1, $2) RETURNING id`,
		client.Name, time.Now(),
	).Scan(&id)
	return id, err
}

func (t *txRepo) DeleteClient(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) CreateDebt(ctx context.Context, debt Debt) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO debts (client_id, debt_date, amount, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		debt.ClientID, debt.Date, debt.Amount, time.Now(),
	).Scan(&id)
	return id, err
}

func (t *txRepo) UpdateDebt(ctx context.Context, debt Debt) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE debts SET debt_date = $1, amount = $2 WHERE id = $3`, debt.Date, debt.Amount, debt.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) DeleteDebt(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM debts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) DeleteDebtsByClient(ctx context.Context, clientID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM debts WHERE client_id = $1`, clientID)
	return err
}
