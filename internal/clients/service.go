package clients

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListClients(ctx context.Context) ([]Client, error)
	GetClient(ctx context.Context, id int64) (Client, error)
	GetDebt(ctx context.Context, id int64) (Debt, error)
	ListDebts(ctx context.Context, clientID int64) ([]Debt, error)
}

// TxRepository exposes transactional operations.
type TxRepository interface {
	CreateClient(ctx context.Context, client Client) (int64, error)
	DeleteClient(ctx context.Context, id int64) error
	CreateDebt(ctx context.Context, debt Debt) (int64, error)
	UpdateDebt(ctx context.Context, debt Debt) error
	DeleteDebt(ctx context.Context, id int64) error
	DeleteDebtsByClient(ctx context.Context, clientID int64) error
}

// Service wraps client and debt business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListClients returns every client.
func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	return s.repo.ListClients(ctx)
}

// CreateClient stores a new client.
func (s *Service) CreateClient(ctx context.Context, name string) (Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Client{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	client := Client{Name: name}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateClient(ctx, client)
		if err != nil {
			return err
		}
		client.ID = id
		return nil
	})
	if err != nil {
		return Client{}, err
	}
	return client, nil
}

// DeleteClient removes a client and every debt referencing it, atomically.
func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	if _, err := s.repo.GetClient(ctx, id); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.DeleteDebtsByClient(ctx, id); err != nil {
			return err
		}
		return tx.DeleteClient(ctx, id)
	})
}

// ListDebts returns the debts of one client.
func (s *Service) ListDebts(ctx context.Context, clientID int64) ([]Debt, error) {
	return s.repo.ListDebts(ctx, clientID)
}

// AddDebt records a debt against an existing client.
func (s *Service) AddDebt(ctx context.Context, clientID int64, date time.Time, amount float64) (Debt, error) {
	if _, err := s.repo.GetClient(ctx, clientID); err != nil {
		return Debt{}, err
	}
	debt := Debt{ClientID: clientID, Date: date, Amount: amount}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateDebt(ctx, debt)
		if err != nil {
			return err
		}
		debt.ID = id
		return nil
	})
	if err != nil {
		return Debt{}, err
	}
	return debt, nil
}

// UpdateDebt edits the date and amount of a debt.
func (s *Service) UpdateDebt(ctx context.Context, id int64, date time.Time, amount float64) (Debt, error) {
	debt, err := s.repo.GetDebt(ctx, id)
	if err != nil {
		return Debt{}, err
	}
	debt.Date = date
	debt.Amount = amount
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateDebt(ctx, debt)
	})
	if err != nil {
		return Debt{}, err
	}
	return debt, nil
}

// DeleteDebt removes a single debt.
func (s *Service) DeleteDebt(ctx context.Context, id int64) error {
	if _, err := s.repo.GetDebt(ctx, id); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteDebt(ctx, id)
	})
}
