package migration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cherryapp/cherry/internal/clients"
	"github.com/cherryapp/cherry/internal/ledger"
	"github.com/cherryapp/cherry/internal/suppliers"
)

type fakeStores struct {
	nextID   int64
	clients  map[int64]string
	debts    []clients.Debt
	sups     map[int64]string
	invoices []suppliers.Invoice
	payments []suppliers.Payment
	months   map[string]string
	sales    []ledger.Sale
	expenses []ledger.FixedExpense
	wiped    bool
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		clients: make(map[int64]string),
		sups:    make(map[int64]string),
		months:  make(map[string]string),
	}
}

func (f *fakeStores) CreateClient(ctx context.Context, name string) (clients.Client, error) {
	if name == "" {
		return clients.Client{}, clients.ErrValidation
	}
	f.nextID++
	f.clients[f.nextID] = name
	return clients.Client{ID: f.nextID, Name: name}, nil
}

func (f *fakeStores) AddDebt(ctx context.Context, clientID int64, date time.Time, amount float64) (clients.Debt, error) {
	if _, ok := f.clients[clientID]; !ok {
		return clients.Debt{}, clients.ErrNotFound
	}
	debt := clients.Debt{ClientID: clientID, Date: date, Amount: amount}
	f.debts = append(f.debts, debt)
	return debt, nil
}

func (f *fakeStores) CreateSupplier(ctx context.Context, name string) (suppliers.Supplier, error) {
	if name == "" {
		return suppliers.Supplier{}, suppliers.ErrValidation
	}
	f.nextID++
	f.sups[f.nextID] = name
	return suppliers.Supplier{ID: f.nextID, Name: name}, nil
}

func (f *fakeStores) AddInvoice(ctx context.Context, invoice suppliers.Invoice) (suppliers.Invoice, error) {
	if _, ok := f.sups[invoice.SupplierID]; !ok {
		return suppliers.Invoice{}, suppliers.ErrNotFound
	}
	f.invoices = append(f.invoices, invoice)
	return invoice, nil
}

func (f *fakeStores) AddPayment(ctx context.Context, payment suppliers.Payment) (suppliers.Payment, error) {
	if _, ok := f.sups[payment.SupplierID]; !ok {
		return suppliers.Payment{}, suppliers.ErrNotFound
	}
	f.payments = append(f.payments, payment)
	return payment, nil
}

func (f *fakeStores) CreateMonth(ctx context.Context, id, name string) (ledger.Month, error) {
	if _, ok := f.months[id]; ok {
		return ledger.Month{}, ledger.ErrDuplicate
	}
	f.months[id] = name
	return ledger.Month{ID: id, Name: name}, nil
}

func (f *fakeStores) AddSale(ctx context.Context, monthID string, date time.Time, cost, expenses, amount float64) (ledger.Sale, error) {
	if _, ok := f.months[monthID]; !ok {
		return ledger.Sale{}, ledger.ErrNotFound
	}
	sale := ledger.Sale{MonthID: monthID, Date: date.Format("2006-01-02"), Cost: cost, Expenses: expenses, Amount: amount}
	f.sales = append(f.sales, sale)
	return sale, nil
}

func (f *fakeStores) AddExpense(ctx context.Context, monthID, concept string, total, percentage float64) (ledger.FixedExpense, error) {
	if _, ok := f.months[monthID]; !ok {
		return ledger.FixedExpense{}, ledger.ErrNotFound
	}
	expense := ledger.FixedExpense{MonthID: monthID, Concept: concept, Total: total, Percentage: percentage}
	f.expenses = append(f.expenses, expense)
	return expense, nil
}

func (f *fakeStores) Wipe(ctx context.Context) error {
	f.wiped = true
	return nil
}

func TestImportRemapsLegacyIDs(t *testing.T) {
	stores := newFakeStores()
	svc := NewService(stores, stores, stores, stores)
	ctx := context.Background()

	report, err := svc.Import(ctx, Payload{
		Clients: []LegacyClient{{ID: "c1", Name: "Ana"}, {ID: "c2", Name: "Luis"}},
		Debts: []LegacyDebt{
			{ID: "d1", ClientID: "c2", Date: "2026-08-01", Amount: 120},
			{ID: "d2", ClientID: "ghost", Date: "2026-08-02", Amount: 50},
		},
		Suppliers: []LegacySupplier{{ID: "s1", Name: "Mercado Central"}},
		Invoices: []LegacyInvoice{
			{ID: "i1", SupplierID: "s1", Date: "2026-08-03T00:00:00Z", DueDate: "2026-09-03", Number: "A-17", Amount: 900},
		},
		Payments: []LegacyPayment{{ID: "p1", SupplierID: "s1", Date: "2026-08-10", Amount: 400}},
		Months:   []LegacyMonth{{ID: "m1", MonthID: "2026-08", Name: "August 2026"}},
		Sales:    []LegacySale{{ID: "v1", MonthID: "m1", Date: "2026-08-28", Cost: 100, Expenses: 20, Amount: 250}},
		Expenses: []LegacyExpense{{ID: "e1", MonthID: "m1", Concept: "Rent", Total: 1000, Percentage: 40}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, report.BatchID)

	require.Equal(t, EntityReport{Imported: 2}, report.Clients)
	require.Equal(t, EntityReport{Imported: 1, Failed: 1}, report.Debts)
	require.Equal(t, EntityReport{Imported: 1}, report.Invoices)
	require.Equal(t, EntityReport{Imported: 1}, report.Payments)
	require.Equal(t, EntityReport{Imported: 1}, report.Months)
	require.Equal(t, EntityReport{Imported: 1}, report.Sales)
	require.Equal(t, EntityReport{Imported: 1}, report.Expenses)

	require.Len(t, report.Errors, 1)
	require.Equal(t, "debt", report.Errors[0].Entity)
	require.Equal(t, "d2", report.Errors[0].LegacyID)
	require.Contains(t, report.Errors[0].Error, "ghost")

	// The surviving debt points at Luis's new numeric id.
	require.Len(t, stores.debts, 1)
	require.Equal(t, "Luis", stores.clients[stores.debts[0].ClientID])
	require.NotNil(t, stores.invoices[0].DueDate)
}

func TestImportCollectsRowErrorsWithoutAborting(t *testing.T) {
	stores := newFakeStores()
	svc := NewService(stores, stores, stores, stores)
	ctx := context.Background()

	report, err := svc.Import(ctx, Payload{
		Clients: []LegacyClient{{ID: "c1", Name: ""}, {ID: "c2", Name: "Ana"}},
		Debts: []LegacyDebt{
			{ID: "d1", ClientID: "c1", Date: "2026-08-01", Amount: 10},
			{ID: "d2", ClientID: "c2", Date: "not-a-date", Amount: 10},
			{ID: "d3", ClientID: "c2", Date: "2026-08-01", Amount: 10},
		},
	})
	require.NoError(t, err)

	require.Equal(t, EntityReport{Imported: 1, Failed: 1}, report.Clients)
	require.Equal(t, EntityReport{Imported: 1, Failed: 2}, report.Debts)
	require.Len(t, report.Errors, 3)
}

func TestWipeDelegates(t *testing.T) {
	stores := newFakeStores()
	svc := NewService(stores, stores, stores, stores)
	require.NoError(t, svc.Wipe(context.Background()))
	require.True(t, stores.wiped)
}
