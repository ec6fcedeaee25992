package ingest

import (
	"fmt"
	"strings"

	"budgeteer/internal/core"
)

// PayPalAdapter imports PayPal activity exports.
//
// Columns: Date, Time, TimeZone, Name, Type, Status, Currency, Amount, Fees,
// Total, Exchange Rate, Receipt ID, Balance, Transaction ID, Item Title.
// Dates are MM/DD/YYYY. Pending payments, internal transfers between PayPal
// and the linked bank, and zero-amount rows are not real spending events and
// are skipped, not errored. PayPal has no category column, so categorization
// relies entirely on merchant-name heuristics.
type PayPalAdapter struct{}

func (PayPalAdapter) Format() Format { return FormatPayPal }

func (PayPalAdapter) Header() []string {
	return []string{
		"Date", "Time", "TimeZone", "Name", "Type", "Status", "Currency", "Amount",
		"Fees", "Total", "Exchange Rate", "Receipt ID", "Balance", "Transaction ID", "Item Title",
	}
}

func (PayPalAdapter) DefaultAccount() string { return "PayPal" }

func (PayPalAdapter) RowToTransaction(row []string, accountLabel string, rowIndex int) (*core.Transaction, error) {
	if strings.EqualFold(strings.TrimSpace(field(row, 5)), "pending") {
		return nil, nil
	}

	srcType := strings.ToLower(field(row, 4))
	if strings.Contains(srcType, "deposit to pp account") ||
		strings.Contains(srcType, "general card deposit") ||
		strings.Contains(srcType, "bank deposit") {
		// Money moving between the user's own accounts, not spending.
		return nil, nil
	}

	cents, err := core.ParseSignedDecimalToCents(field(row, 7))
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", field(row, 7), err)
	}
	if cents == 0 {
		return nil, nil
	}

	date, err := parseUSDate(field(row, 0))
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	txnType := core.Income
	if cents < 0 {
		txnType = core.Expense
	}

	// Merchant name is the best description; fall back to the source type
	// for rows without one.
	name := strings.TrimSpace(field(row, 3))
	description := name
	if description == "" {
		description = field(row, 4)
	}

	return &core.Transaction{
		ID:          newImportID("paypal", rowIndex),
		Date:        date,
		Description: description,
		Amount:      core.Money{Cents: cents}.Abs(),
		Type:        txnType,
		Category:    categorizeMerchant(name, field(row, 4)),
		Account:     accountLabel,
		Notes:       strings.TrimSpace(field(row, 14)),
		Status:      core.StatusCleared,
	}, nil
}
