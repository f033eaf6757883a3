package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cherryapp/cherry/internal/clients"
	"github.com/cherryapp/cherry/internal/ledger"
	"github.com/cherryapp/cherry/internal/suppliers"
)

// ClientStore is the slice of the clients service the importer needs.
type ClientStore interface {
	CreateClient(ctx context.Context, name string) (clients.Client, error)
	AddDebt(ctx context.Context, clientID int64, date time.Time, amount float64) (clients.Debt, error)
}

// SupplierStore is the slice of the suppliers service the importer needs.
type SupplierStore interface {
	CreateSupplier(ctx context.Context, name string) (suppliers.Supplier, error)
	AddInvoice(ctx context.Context, invoice suppliers.Invoice) (suppliers.Invoice, error)
	AddPayment(ctx context.Context, payment suppliers.Payment) (suppliers.Payment, error)
}

// LedgerStore is the slice of the ledger service the importer needs.
type LedgerStore interface {
	CreateMonth(ctx context.Context, id, name string) (ledger.Month, error)
	AddSale(ctx context.Context, monthID string, date time.Time, cost, expenses, amount float64) (ledger.Sale, error)
	AddExpense(ctx context.Context, monthID, concept string, total, percentage float64) (ledger.FixedExpense, error)
}

// Wiper empties every business table.
type Wiper interface {
	Wipe(ctx context.Context) error
}

// Service drives legacy imports through the regular domain services so all
// validation and derived fields apply to migrated rows too.
type Service struct {
	clients   ClientStore
	suppliers SupplierStore
	ledger    LedgerStore
	wiper     Wiper
}

// NewService constructs a Service.
func NewService(clientStore ClientStore, supplierStore SupplierStore, ledgerStore LedgerStore, wiper Wiper) *Service {
	return &Service{clients: clientStore, suppliers: supplierStore, ledger: ledgerStore, wiper: wiper}
}

// Import loads one legacy export. Parents are imported before children so
// legacy foreign keys can be remapped; each failed row is recorded in the
// report and the batch continues.
func (s *Service) Import(ctx context.Context, payload Payload) (Report, error) {
	report := Report{BatchID: uuid.NewString()}

	clientIDs := make(map[string]int64, len(payload.Clients))
	for _, row := range payload.Clients {
		created, err := s.clients.CreateClient(ctx, row.Name)
		if err != nil {
			report.fail(&report.Clients, "client", row.ID, err)
			continue
		}
		clientIDs[row.ID] = created.ID
		report.Clients.Imported++
	}

	for _, row := range payload.Debts {
		clientID, ok := clientIDs[row.ClientID]
		if !ok {
			report.fail(&report.Debts, "debt", row.ID, fmt.Errorf("unknown client id %q", row.ClientID))
			continue
		}
		date, err := parseDate(row.Date)
		if err != nil {
			report.fail(&report.Debts, "debt", row.ID, err)
			continue
		}
		if _, err := s.clients.AddDebt(ctx, clientID, date, row.Amount); err != nil {
			report.fail(&report.Debts, "debt", row.ID, err)
			continue
		}
		report.Debts.Imported++
	}

	supplierIDs := make(map[string]int64, len(payload.Suppliers))
	for _, row := range payload.Suppliers {
		created, err := s.suppliers.CreateSupplier(ctx, row.Name)
		if err != nil {
			report.fail(&report.Suppliers, "supplier", row.ID, err)
			continue
		}
		supplierIDs[row.ID] = created.ID
		report.Suppliers.Imported++
	}

	for _, row := range payload.Invoices {
		supplierID, ok := supplierIDs[row.SupplierID]
		if !ok {
			report.fail(&report.Invoices, "invoice", row.ID, fmt.Errorf("unknown supplier id %q", row.SupplierID))
			continue
		}
		date, err := parseDate(row.Date)
		if err != nil {
			report.fail(&report.Invoices, "invoice", row.ID, err)
			continue
		}
		invoice := suppliers.Invoice{
			SupplierID: supplierID,
			Date:       date,
			Number:     row.Number,
			Amount:     row.Amount,
			Rejected:   row.Rejected,
		}
		if row.DueDate != "" {
			due, err := parseDate(row.DueDate)
			if err != nil {
				report.fail(&report.Invoices, "invoice", row.ID, err)
				continue
			}
			invoice.DueDate = &due
		}
		if _, err := s.suppliers.AddInvoice(ctx, invoice); err != nil {
			report.fail(&report.Invoices, "invoice", row.ID, err)
			continue
		}
		report.Invoices.Imported++
	}

	for _, row := range payload.Payments {
		supplierID, ok := supplierIDs[row.SupplierID]
		if !ok {
			report.fail(&report.Payments, "payment", row.ID, fmt.Errorf("unknown supplier id %q", row.SupplierID))
			continue
		}
		date, err := parseDate(row.Date)
		if err != nil {
			report.fail(&report.Payments, "payment", row.ID, err)
			continue
		}
		if _, err := s.suppliers.AddPayment(ctx, suppliers.Payment{SupplierID: supplierID, Date: date, Amount: row.Amount}); err != nil {
			report.fail(&report.Payments, "payment", row.ID, err)
			continue
		}
		report.Payments.Imported++
	}

	monthIDs := make(map[string]string, len(payload.Months))
	for _, row := range payload.Months {
		created, err := s.ledger.CreateMonth(ctx, row.MonthID, row.Name)
		if err != nil {
			report.fail(&report.Months, "month", row.ID, err)
			continue
		}
		monthIDs[row.ID] = created.ID
		report.Months.Imported++
	}

	for _, row := range payload.Sales {
		monthID, ok := monthIDs[row.MonthID]
		if !ok {
			report.fail(&report.Sales, "sale", row.ID, fmt.Errorf("unknown month id %q", row.MonthID))
			continue
		}
		date, err := parseDate(row.Date)
		if err != nil {
			report.fail(&report.Sales, "sale", row.ID, err)
			continue
		}
		if _, err := s.ledger.AddSale(ctx, monthID, date, row.Cost, row.Expenses, row.Amount); err != nil {
			report.fail(&report.Sales, "sale", row.ID, err)
			continue
		}
		report.Sales.Imported++
	}

	for _, row := range payload.Expenses {
		monthID, ok := monthIDs[row.MonthID]
		if !ok {
			report.fail(&report.Expenses, "expense", row.ID, fmt.Errorf("unknown month id %q", row.MonthID))
			continue
		}
		if _, err := s.ledger.AddExpense(ctx, monthID, row.Concept, row.Total, row.Percentage); err != nil {
			report.fail(&report.Expenses, "expense", row.ID, err)
			continue
		}
		report.Expenses.Imported++
	}

	return report, nil
}

// Wipe empties every business table.
func (s *Service) Wipe(ctx context.Context) error {
	return s.wiper.Wipe(ctx)
}

func (r *Report) fail(entity *EntityReport, kind, legacyID string, err error) {
	entity.Failed++
	r.Errors = append(r.Errors, RowError{Entity: kind, LegacyID: legacyID, Error: err.Error()})
}

// parseDate accepts the two formats the legacy export produces.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q", value)
	}
	return t, nil
}
