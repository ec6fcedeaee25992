package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"budgeteer/internal/core"
)

// ChaseAdapter imports Chase credit card exports.
//
// Columns: Transaction Date, Post Date, Description, Category, Type, Amount,
// Memo. Dates are MM/DD/YYYY. Negative amounts are charges (expenses),
// positive amounts are credits (income). Chase's own category column is
// translated through the category map; unknown labels pass through.
type ChaseAdapter struct{}

func (ChaseAdapter) Format() Format { return FormatChase }

func (ChaseAdapter) Header() []string {
	return []string{"Transaction Date", "Post Date", "Description", "Category", "Type", "Amount", "Memo"}
}

func (ChaseAdapter) DefaultAccount() string { return "Chase Credit Card" }

func (ChaseAdapter) RowToTransaction(row []string, accountLabel string, rowIndex int) (*core.Transaction, error) {
	date, err := parseUSDate(field(row, 0))
	if err != nil {
		return nil, fmt.Errorf("transaction date: %w", err)
	}

	description := strings.TrimSpace(field(row, 2))
	if description == "" {
		return nil, core.ErrEmptyDescription
	}

	cents, err := core.ParseSignedDecimalToCents(field(row, 5))
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", field(row, 5), err)
	}

	txnType := core.Income
	if cents < 0 {
		txnType = core.Expense
	}

	return &core.Transaction{
		ID:          newImportID("chase", rowIndex),
		Date:        date,
		Description: description,
		Amount:      core.Money{Cents: cents}.Abs(),
		Type:        txnType,
		Category:    mapChaseCategory(field(row, 3)),
		Account:     accountLabel,
		Notes:       strings.TrimSpace(field(row, 6)),
		Status:      core.StatusCleared,
	}, nil
}

// parseUSDate parses MM/DD/YYYY, tolerating unpadded month and day.
func parseUSDate(s string) (core.Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return core.Date{}, fmt.Errorf("malformed date %q", s)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return core.Date{}, fmt.Errorf("malformed date %q", s)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return core.Date{}, fmt.Errorf("malformed date %q", s)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return core.Date{}, fmt.Errorf("malformed date %q", s)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return core.Date{}, fmt.Errorf("date out of range %q", s)
	}
	return core.NewDate(year, month, day), nil
}
