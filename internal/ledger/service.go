package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListMonths(ctx context.Context) ([]Month, error)
	GetMonth(ctx context.Context, id string) (Month, error)
	ListSales(ctx context.Context, monthID string) ([]Sale, error)
	GetSale(ctx context.Context, id int64) (Sale, error)
	ListExpenses(ctx context.Context, monthID string) ([]FixedExpense, error)
	GetExpense(ctx context.Context, id int64) (FixedExpense, error)
}

// TxRepository exposes transactional operations.
type TxRepository interface {
	CreateMonth(ctx context.Context, month Month) error
	DeleteMonth(ctx context.Context, id string) error
	CreateSale(ctx context.Context, sale Sale) (int64, error)
	UpdateSale(ctx context.Context, sale Sale) error
	DeleteSale(ctx context.Context, id int64) error
	DeleteSalesByMonth(ctx context.Context, monthID string) error
	CreateExpense(ctx context.Context, expense FixedExpense) (int64, error)
	UpdateExpense(ctx context.Context, expense FixedExpense) error
	DeleteExpense(ctx context.Context, id int64) error
	DeleteExpensesByMonth(ctx context.Context, monthID string) error
}

// Service wraps ledger business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListMonths returns every accounting period.
func (s *Service) ListMonths(ctx context.Context) ([]Month, error) {
	return s.repo.ListMonths(ctx)
}

// CreateMonth opens a new accounting period keyed by "YYYY-MM".
func (s *Service) CreateMonth(ctx context.Context, id, name string) (Month, error) {
	id = strings.TrimSpace(id)
	if _, err := time.Parse("2006-01", id); err != nil {
		return Month{}, fmt.Errorf("%w: month id must be YYYY-MM", ErrValidation)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Month{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	month := Month{ID: id, Name: name}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.CreateMonth(ctx, month)
	})
	if err != nil {
		return Month{}, err
	}
	return month, nil
}

// DeleteMonth removes a month and every sale and expense in it, atomically.
func (s *Service) DeleteMonth(ctx context.Context, id string) error {
	if _, err := s.repo.GetMonth(ctx, id); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.DeleteSalesByMonth(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteExpensesByMonth(ctx, id); err != nil {
			return err
		}
		return tx.DeleteMonth(ctx, id)
	})
}

// ListSales returns the daily figures of one month.
func (s *Service) ListSales(ctx context.Context, monthID string) ([]Sale, error) {
	if _, err := s.repo.GetMonth(ctx, monthID); err != nil {
		return nil, err
	}
	return s.repo.ListSales(ctx, monthID)
}

// AddSale records one day's figures. The margin is derived here.
func (s *Service) AddSale(ctx context.Context, monthID string, date time.Time, cost, expenses, amount float64) (Sale, error) {
	if _, err := s.repo.GetMonth(ctx, monthID); err != nil {
		return Sale{}, err
	}
	if date.IsZero() {
		return Sale{}, fmt.Errorf("%w: date is required", ErrValidation)
	}
	sale := Sale{
		MonthID:  monthID,
		Date:     date.Format("2006-01-02"),
		Weekday:  date.Weekday().String(),
		Cost:     cost,
		Expenses: expenses,
		Amount:   amount,
		Margin:   amount - cost - expenses,
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateSale(ctx, sale)
		if err != nil {
			return err
		}
		sale.ID = id
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

// UpdateSale edits one day's figures, re-deriving weekday and margin.
func (s *Service) UpdateSale(ctx context.Context, id int64, date time.Time, cost, expenses, amount float64) (Sale, error) {
	sale, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return Sale{}, err
	}
	if date.IsZero() {
		return Sale{}, fmt.Errorf("%w: date is required", ErrValidation)
	}
	sale.Date = date.Format("2006-01-02")
	sale.Weekday = date.Weekday().String()
	sale.Cost = cost
	sale.Expenses = expenses
	sale.Amount = amount
	sale.Margin = amount - cost - expenses
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateSale(ctx, sale)
	})
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

// DeleteSale removes one day's figures.
func (s *Service) DeleteSale(ctx context.Context, id int64) error {
	if _, err := s.repo.GetSale(ctx, id); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteSale(ctx, id)
	})
}

// ListExpenses returns the fixed expenses of one month.
func (s *Service) ListExpenses(ctx context.Context, monthID string) ([]FixedExpense, error) {
	if _, err := s.repo.GetMonth(ctx, monthID); err != nil {
		return nil, err
	}
	return s.repo.ListExpenses(ctx, monthID)
}

// AddExpense records a fixed expense. The allocated share is derived here.
func (s *Service) AddExpense(ctx context.Context, monthID, concept string, total, percentage float64) (FixedExpense, error) {
	if _, err := s.repo.GetMonth(ctx, monthID); err != nil {
		return FixedExpense{}, err
	}
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return FixedExpense{}, fmt.Errorf("%w: concept is required", ErrValidation)
	}
	if percentage < 0 || percentage > 100 {
		return FixedExpense{}, fmt.Errorf("%w: percentage must be between 0 and 100", ErrValidation)
	}
	expense := FixedExpense{
		MonthID:    monthID,
		Concept:    concept,
		Total:      total,
		Percentage: percentage,
		Allocated:  total * percentage / 100,
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateExpense(ctx, expense)
		if err != nil {
			return err
		}
		expense.ID = id
		return nil
	})
	if err != nil {
		return FixedExpense{}, err
	}
	return expense, nil
}

// UpdateExpense edits a fixed expense, re-deriving the allocated share.
func (s *Service) UpdateExpense(ctx context.Context, id int64, concept string, total, percentage float64) (FixedExpense, error) {
	expense, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return FixedExpense{}, err
	}
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return FixedExpense{}, fmt.Errorf("%w: concept is required", ErrValidation)
	}
	if percentage < 0 || percentage > 100 {
		return FixedExpense{}, fmt.Errorf("%w: percentage must be between 0 and 100", ErrValidation)
	}
	expense.Concept = concept
	expense.Total = total
	expense.Percentage = percentage
	expense.Allocated = total * percentage / 100
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateExpense(ctx, expense)
	})
	if err != nil {
		return FixedExpense{}, err
	}
	return expense, nil
}

// DeleteExpense removes a fixed expense.
func (s *Service) DeleteExpense(ctx context.Context, id int64) error {
	if _, err := s.repo.GetExpense(ctx, id); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteExpense(ctx, id)
	})
}
