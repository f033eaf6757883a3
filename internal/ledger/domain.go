// Package ledger tracks the monthly produce book: daily sales figures and
// the fixed expenses allocated to the shop.
package ledger

import "errors"

// Month is one accounting period, keyed by its "YYYY-MM" id.
type Month struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Sale is one day's figures inside a month. Margin is derived from the
// other three amounts and never accepted from the client.
type Sale struct {
	ID       int64   `json:"id"`
	MonthID  string  `json:"month_id"`
	Date     string  `json:"date"`
	Weekday  string  `json:"weekday"`
	Cost     float64 `json:"cost"`
	Expenses float64 `json:"expenses"`
	Amount   float64 `json:"amount"`
	Margin   float64 `json:"margin"`
}

// FixedExpense is a recurring cost partially allocated to the shop.
// Allocated is derived from total and percentage.
type FixedExpense struct {
	ID         int64   `json:"id"`
	MonthID    string  `json:"month_id"`
	Concept    string  `json:"concept"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
	Allocated  float64 `json:"allocated"`
}

var (
	// ErrNotFound indicates a missing month, sale or expense.
	ErrNotFound = errors.New("ledger: not found")
	// ErrDuplicate indicates the month already exists.
	ErrDuplicate = errors.New("ledger: month already exists")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("ledger: invalid input")
)
