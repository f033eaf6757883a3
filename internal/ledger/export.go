package ledger

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	salesSheet    = "Sales"
	expensesSheet = "Fixed expenses"
)

// Export writes the month's ledger as an xlsx workbook: one sheet of daily
// sales, one of fixed expenses, each with a totals row.
func (s *Service) Export(ctx context.Context, monthID string, w io.Writer) error {
	month, err := s.repo.GetMonth(ctx, monthID)
	if err != nil {
		return err
	}
	sales, err := s.repo.ListSales(ctx, monthID)
	if err != nil {
		return err
	}
	expenses, err := s.repo.ListExpenses(ctx, monthID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(expensesSheet); err != nil {
		return err
	}

	if err := writeSalesSheet(f, month, sales); err != nil {
		return err
	}
	if err := writeExpensesSheet(f, expenses); err != nil {
		return err
	}
	return f.Write(w)
}

func writeSalesSheet(f *excelize.File, month Month, sales []Sale) error {
	header := []any{"Date", "Weekday", "Cost", "Expenses", "Amount", "Margin"}
	if err := f.SetSheetRow(salesSheet, "A1", &[]any{month.Name}); err != nil {
		return err
	}
	if err := f.SetSheetRow(salesSheet, "A2", &header); err != nil {
		return err
	}
	var cost, expenses, amount, margin float64
	for i, sale := range sales {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		row := []any{sale.Date, sale.Weekday, sale.Cost, sale.Expenses, sale.Amount, sale.Margin}
		if err := f.SetSheetRow(salesSheet, cell, &row); err != nil {
			return err
		}
		cost += sale.Cost
		expenses += sale.Expenses
		amount += sale.Amount
		margin += sale.Margin
	}
	totalCell := fmt.Sprintf("A%d", len(sales)+3)
	totals := []any{"Total", "", cost, expenses, amount, margin}
	return f.SetSheetRow(salesSheet, totalCell, &totals)
}

func writeExpensesSheet(f *excelize.File, expenses []FixedExpense) error {
	header := []any{"Concept", "Total", "Percentage", "Allocated"}
	if err := f.SetSheetRow(expensesSheet, "A1", &header); err != nil {
		return err
	}
	var total, allocated float64
	for i, e := range expenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{e.Concept, e.Total, e.Percentage, e.Allocated}
		if err := f.SetSheetRow(expensesSheet, cell, &row); err != nil {
			return err
		}
		total += e.Total
		allocated += e.Allocated
	}
	totalCell := fmt.Sprintf("A%d", len(expenses)+2)
	totals := []any{"Total", total, "", allocated}
	return f.SetSheetRow(expensesSheet, totalCell, &totals)
}
