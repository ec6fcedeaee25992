package ingest

import (
	"fmt"
	"strings"

	"budgeteer/internal/core"
)

// CreditUnionAdapter imports TFCU-style credit union exports.
//
// Columns: Account Name, Processed Date, Description, Check Number, Credit
// or Debit, Amount. Dates are already YYYY-MM-DD. The explicit Credit or
// Debit column decides the transaction type regardless of the amount's sign.
// Like PayPal there is no category column, so merchant heuristics apply.
type CreditUnionAdapter struct{}

func (CreditUnionAdapter) Format() Format { return FormatCreditUnion }

func (CreditUnionAdapter) Header() []string {
	return []string{"Account Name", "Processed Date", "Description", "Check Number", "Credit or Debit", "Amount"}
}

func (CreditUnionAdapter) DefaultAccount() string { return "Credit Union" }

func (CreditUnionAdapter) RowToTransaction(row []string, accountLabel string, rowIndex int) (*core.Transaction, error) {
	date, err := core.ParseDate(field(row, 1))
	if err != nil {
		return nil, fmt.Errorf("processed date %q: %w", field(row, 1), err)
	}

	description := strings.TrimSpace(field(row, 2))
	if description == "" {
		return nil, core.ErrEmptyDescription
	}

	var txnType core.TransactionType
	switch strings.ToLower(strings.TrimSpace(field(row, 4))) {
	case "credit":
		txnType = core.Income
	case "debit":
		txnType = core.Expense
	default:
		return nil, fmt.Errorf("unknown credit or debit value %q", field(row, 4))
	}

	cents, err := core.ParseSignedDecimalToCents(field(row, 5))
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", field(row, 5), err)
	}
	if cents == 0 {
		return nil, nil
	}

	account := strings.TrimSpace(field(row, 0))
	if account == "" {
		account = accountLabel
	}

	notes := ""
	if check := strings.TrimSpace(field(row, 3)); check != "" {
		notes = "Check #" + check
	}

	return &core.Transaction{
		ID:          newImportID("cu", rowIndex),
		Date:        date,
		Description: description,
		Amount:      core.Money{Cents: cents}.Abs(),
		Type:        txnType,
		Category:    categorizeMerchant(description, ""),
		Account:     account,
		Notes:       notes,
		Status:      core.StatusCleared,
	}, nil
}
