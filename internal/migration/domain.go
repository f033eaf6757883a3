// Package migration imports data exported from the legacy system. Legacy
// records carry string ids; the importer remaps them onto the new numeric
// keys and reports per-row failures instead of aborting the batch.
package migration

// LegacyClient is a customer row from the old system.
type LegacyClient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LegacyDebt references its client by legacy id.
type LegacyDebt struct {
	ID       string  `json:"id"`
	ClientID string  `json:"client_id"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
}

// LegacySupplier is a supplier row from the old system.
type LegacySupplier struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LegacyInvoice references its supplier by legacy id.
type LegacyInvoice struct {
	ID         string  `json:"id"`
	SupplierID string  `json:"supplier_id"`
	Date       string  `json:"date"`
	DueDate    string  `json:"due_date"`
	Number     string  `json:"number"`
	Amount     float64 `json:"amount"`
	Rejected   float64 `json:"rejected"`
}

// LegacyPayment references its supplier by legacy id.
type LegacyPayment struct {
	ID         string  `json:"id"`
	SupplierID string  `json:"supplier_id"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
}

// LegacyMonth carries both its legacy id and the "YYYY-MM" key it becomes.
type LegacyMonth struct {
	ID      string `json:"id"`
	MonthID string `json:"month_id"`
	Name    string `json:"name"`
}

// LegacySale references its month by legacy id.
type LegacySale struct {
	ID       string  `json:"id"`
	MonthID  string  `json:"month_id"`
	Date     string  `json:"date"`
	Cost     float64 `json:"cost"`
	Expenses float64 `json:"expenses"`
	Amount   float64 `json:"amount"`
}

// LegacyExpense references its month by legacy id.
type LegacyExpense struct {
	ID         string  `json:"id"`
	MonthID    string  `json:"month_id"`
	Concept    string  `json:"concept"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Payload is the full legacy export.
type Payload struct {
	Clients   []LegacyClient   `json:"clients"`
	Debts     []LegacyDebt     `json:"debts"`
	Suppliers []LegacySupplier `json:"suppliers"`
	Invoices  []LegacyInvoice  `json:"invoices"`
	Payments  []LegacyPayment  `json:"payments"`
	Months    []LegacyMonth    `json:"months"`
	Sales     []LegacySale     `json:"sales"`
	Expenses  []LegacyExpense  `json:"expenses"`
}

// EntityReport counts the outcome for one entity kind.
type EntityReport struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// RowError describes one failed row.
type RowError struct {
	Entity   string `json:"entity"`
	LegacyID string `json:"legacy_id"`
	Error    string `json:"error"`
}

// Report summarises one import batch.
type Report struct {
	BatchID   string       `json:"batch_id"`
	Clients   EntityReport `json:"clients"`
	Debts     EntityReport `json:"debts"`
	Suppliers EntityReport `json:"suppliers"`
	Invoices  EntityReport `json:"invoices"`
	Payments  EntityReport `json:"payments"`
	Months    EntityReport `json:"months"`
	Sales     EntityReport `json:"sales"`
	Expenses  EntityReport `json:"expenses"`
	Errors    []RowError   `json:"errors"`
}
