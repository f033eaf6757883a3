package ledger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type memoryLedgerRepo struct {
	months   map[string]Month
	sales    map[int64]Sale
	expenses map[int64]FixedExpense
	nextID   int64
}

func newMemoryLedgerRepo() *memoryLedgerRepo {
	return &memoryLedgerRepo{
		months:   make(map[string]Month),
		sales:    make(map[int64]Sale),
		expenses: make(map[int64]FixedExpense),
	}
}

func (r *memoryLedgerRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, r)
}

func (r *memoryLedgerRepo) ListMonths(ctx context.Context) ([]Month, error) {
	list := make([]Month, 0, len(r.months))
	for _, m := range r.months {
		list = append(list, m)
	}
	return list, nil
}

func (r *memoryLedgerRepo) GetMonth(ctx context.Context, id string) (Month, error) {
	m, ok := r.months[id]
	if !ok {
		return Month{}, ErrNotFound
	}
	return m, nil
}

func (r *memoryLedgerRepo) ListSales(ctx context.Context, monthID string) ([]Sale, error) {
	var list []Sale
	for id := int64(1); id <= r.nextID; id++ {
		if s, ok := r.sales[id]; ok && s.MonthID == monthID {
			list = append(list, s)
		}
	}
	return list, nil
}

func (r *memoryLedgerRepo) GetSale(ctx context.Context, id int64) (Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return Sale{}, ErrNotFound
	}
	return s, nil
}

func (r *memoryLedgerRepo) ListExpenses(ctx context.Context, monthID string) ([]FixedExpense, error) {
	var list []FixedExpense
	for id := int64(1); id <= r.nextID; id++ {
		if e, ok := r.expenses[id]; ok && e.MonthID == monthID {
			list = append(list, e)
		}
	}
	return list, nil
}

func (r *memoryLedgerRepo) GetExpense(ctx context.Context, id int64) (FixedExpense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return FixedExpense{}, ErrNotFound
	}
	return e, nil
}

func (r *memoryLedgerRepo) CreateMonth(ctx context.Context, month Month) error {
	if _, ok := r.months[month.ID]; ok {
		return ErrDuplicate
	}
	r.months[month.ID] = month
	return nil
}

func (r *memoryLedgerRepo) DeleteMonth(ctx context.Context, id string) error {
	if _, ok := r.months[id]; !ok {
		return ErrNotFound
	}
	delete(r.months, id)
	return nil
}

func (r *memoryLedgerRepo) CreateSale(ctx context.Context, sale Sale) (int64, error) {
	r.nextID++
	sale.ID = r.nextID
	r.sales[sale.ID] = sale
	return sale.ID, nil
}

func (r *memoryLedgerRepo) UpdateSale(ctx context.Context, sale Sale) error {
	if _, ok := r.sales[sale.ID]; !ok {
		return ErrNotFound
	}
	r.sales[sale.ID] = sale
	return nil
}

func (r *memoryLedgerRepo) DeleteSale(ctx context.Context, id int64) error {
	if _, ok := r.sales[id]; !ok {
		return ErrNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *memoryLedgerRepo) DeleteSalesByMonth(ctx context.Context, monthID string) error {
	for id, s := range r.sales {
		if s.MonthID == monthID {
			delete(r.sales, id)
		}
	}
	return nil
}

func (r *memoryLedgerRepo) CreateExpense(ctx context.Context, expense FixedExpense) (int64, error) {
	r.nextID++
	expense.ID = r.nextID
	r.expenses[expense.ID] = expense
	return expense.ID, nil
}

func (r *memoryLedgerRepo) UpdateExpense(ctx context.Context, expense FixedExpense) error {
	if _, ok := r.expenses[expense.ID]; !ok {
		return ErrNotFound
	}
	r.expenses[expense.ID] = expense
	return nil
}

func (r *memoryLedgerRepo) DeleteExpense(ctx context.Context, id int64) error {
	if _, ok := r.expenses[id]; !ok {
		return ErrNotFound
	}
	delete(r.expenses, id)
	return nil
}

func (r *memoryLedgerRepo) DeleteExpensesByMonth(ctx context.Context, monthID string) error {
	for id, e := range r.expenses {
		if e.MonthID == monthID {
			delete(r.expenses, id)
		}
	}
	return nil
}

func TestCreateMonthValidatesID(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()

	_, err := svc.CreateMonth(ctx, "august", "August 2026")
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateMonth(ctx, "2026-08", "")
	require.ErrorIs(t, err, ErrValidation)

	month, err := svc.CreateMonth(ctx, "2026-08", "August 2026")
	require.NoError(t, err)
	require.Equal(t, "2026-08", month.ID)

	_, err = svc.CreateMonth(ctx, "2026-08", "again")
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestAddSaleDerivesWeekdayAndMargin(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()

	_, err := svc.CreateMonth(ctx, "2026-08", "August 2026")
	require.NoError(t, err)

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	sale, err := svc.AddSale(ctx, "2026-08", date, 200, 50, 400)
	require.NoError(t, err)
	require.Equal(t, "Friday", sale.Weekday)
	require.Equal(t, 150.0, sale.Margin)

	updated, err := svc.UpdateSale(ctx, sale.ID, date.AddDate(0, 0, 1), 100, 0, 300)
	require.NoError(t, err)
	require.Equal(t, "Saturday", updated.Weekday)
	require.Equal(t, 200.0, updated.Margin)

	_, err = svc.AddSale(ctx, "2026-09", date, 1, 1, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExpenseAllocationDerived(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()

	_, err := svc.CreateMonth(ctx, "2026-08", "August 2026")
	require.NoError(t, err)

	expense, err := svc.AddExpense(ctx, "2026-08", "Rent", 1000, 40)
	require.NoError(t, err)
	require.Equal(t, 400.0, expense.Allocated)

	updated, err := svc.UpdateExpense(ctx, expense.ID, "Rent", 1200, 50)
	require.NoError(t, err)
	require.Equal(t, 600.0, updated.Allocated)

	_, err = svc.AddExpense(ctx, "2026-08", "Rent", 100, 150)
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeleteMonthCascades(t *testing.T) {
	repo := newMemoryLedgerRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateMonth(ctx, "2026-08", "August 2026")
	require.NoError(t, err)
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	sale, err := svc.AddSale(ctx, "2026-08", date, 10, 5, 40)
	require.NoError(t, err)
	expense, err := svc.AddExpense(ctx, "2026-08", "Rent", 1000, 40)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMonth(ctx, "2026-08"))
	_, err = repo.GetSale(ctx, sale.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetExpense(ctx, expense.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.DeleteMonth(ctx, "2026-08"), ErrNotFound)
}

func TestExportWritesWorkbook(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()

	_, err := svc.CreateMonth(ctx, "2026-08", "August 2026")
	require.NoError(t, err)
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	_, err = svc.AddSale(ctx, "2026-08", date, 200, 50, 400)
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, "2026-08", "Rent", 1000, 40)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, "2026-08", &buf))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	title, err := book.GetCellValue("Sales", "A1")
	require.NoError(t, err)
	require.Equal(t, "August 2026", title)
	weekday, err := book.GetCellValue("Sales", "B3")
	require.NoError(t, err)
	require.Equal(t, "Friday", weekday)
	concept, err := book.GetCellValue("Fixed expenses", "A2")
	require.NoError(t, err)
	require.Equal(t, "Rent", concept)

	require.ErrorIs(t, svc.Export(ctx, "2026-09", &buf), ErrNotFound)
}
