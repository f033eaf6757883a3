package clients

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryClientRepo struct {
	clients map[int64]Client
	debts   map[int64]Debt
	nextID  int64
}

type memoryClientTx struct {
	repo *memoryClientRepo
}

func newMemoryClientRepo() *memoryClientRepo {
	return &memoryClientRepo{clients: make(map[int64]Client), debts: make(map[int64]Debt)}
}

func (r *memoryClientRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryClientTx{repo: r})
}

func (r *memoryClientRepo) ListClients(ctx context.Context) ([]Client, error) {
	list := make([]Client, 0, len(r.clients))
	for _, c := range r.clients {
		list = append(list, c)
	}
	return list, nil
}

func (r *memoryClientRepo) GetClient(ctx context.Context, id int64) (Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryClientRepo) GetDebt(ctx context.Context, id int64) (Debt, error) {
	d, ok := r.debts[id]
	if !ok {
		return Debt{}, ErrNotFound
	}
	return d, nil
}

func (r *memoryClientRepo) ListDebts(ctx context.Context, clientID int64) ([]Debt, error) {
	var list []Debt
	for _, d := range r.debts {
		if d.ClientID == clientID {
			list = append(list, d)
		}
	}
	return list, nil
}

func (tx *memoryClientTx) nextID() int64 {
	tx.repo.nextID++
	return tx.repo.nextID
}

func (tx *memoryClientTx) CreateClient(ctx context.Context, client Client) (int64, error) {
	id := tx.nextID()
	client.ID = id
	tx.repo.clients[id] = client
	return id, nil
}

func (tx *memoryClientTx) DeleteClient(ctx context.Context, id int64) error {
	if _, ok := tx.repo.clients[id]; !ok {
		return ErrNotFound
	}
	delete(tx.repo.clients, id)
	return nil
}

func (tx *memoryClientTx) CreateDebt(ctx context.Context, debt Debt) (int64, error) {
	id := tx.nextID()
	debt.ID = id
	tx.repo.debts[id] = debt
	return id, nil
}

func (tx *memoryClientTx) UpdateDebt(ctx context.Context, debt Debt) error {
	if _, ok := tx.repo.debts[debt.ID]; !ok {
		return ErrNotFound
	}
	tx.repo.debts[debt.ID] = debt
	return nil
}

func (tx *memoryClientTx) DeleteDebt(ctx context.Context, id int64) error {
	if _, ok := tx.repo.debts[id]; !ok {
		return ErrNotFound
	}
	delete(tx.repo.debts, id)
	return nil
}

func (tx *memoryClientTx) DeleteDebtsByClient(ctx context.Context, clientID int64) error {
	for id, d := range tx.repo.debts {
		if d.ClientID == clientID {
			delete(tx.repo.debts, id)
		}
	}
	return nil
}

func TestCreateClientRequiresName(t *testing.T) {
	svc := NewService(newMemoryClientRepo())
	_, err := svc.CreateClient(context.Background(), "   ")
	require.ErrorIs(t, err, ErrValidation)
}

func TestDebtLifecycle(t *testing.T) {
	svc := NewService(newMemoryClientRepo())
	ctx := context.Background()

	client, err := svc.CreateClient(ctx, "Dona Rosa")
	require.NoError(t, err)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	debt, err := svc.AddDebt(ctx, client.ID, day, 1500)
	require.NoError(t, err)
	require.Equal(t, client.ID, debt.ClientID)

	_, err = svc.AddDebt(ctx, 999, day, 10)
	require.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.UpdateDebt(ctx, debt.ID, day.AddDate(0, 0, 1), 1800)
	require.NoError(t, err)
	require.Equal(t, 1800.0, updated.Amount)

	require.NoError(t, svc.DeleteDebt(ctx, debt.ID))
	require.ErrorIs(t, svc.DeleteDebt(ctx, debt.ID), ErrNotFound)
}

func TestDeleteClientCascadesDebts(t *testing.T) {
	repo := newMemoryClientRepo()
	svc := NewService(repo)
	ctx := context.Background()

	client, err := svc.CreateClient(ctx, "Dona Rosa")
	require.NoError(t, err)
	other, err := svc.CreateClient(ctx, "Don Pedro")
	require.NoError(t, err)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = svc.AddDebt(ctx, client.ID, day, 100)
	require.NoError(t, err)
	_, err = svc.AddDebt(ctx, client.ID, day, 200)
	require.NoError(t, err)
	kept, err := svc.AddDebt(ctx, other.ID, day, 300)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClient(ctx, client.ID))

	orphaned, err := svc.ListDebts(ctx, client.ID)
	require.NoError(t, err)
	require.Empty(t, orphaned)

	remaining, err := svc.ListDebts(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, kept.ID, remaining[0].ID)
}
