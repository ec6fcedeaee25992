package ingest

import (
	"fmt"
	"strings"

	"budgeteer/internal/core"
)

// Format identifies a supported CSV export format.
type Format string

const (
	FormatChase       Format = "chase"
	FormatPayPal      Format = "paypal"
	FormatCreditUnion Format = "credit-union"
)

// ImportResult is the outcome of importing one CSV file. Errors are data,
// not panics: format-level failures (bad header, empty file) abort the whole
// import with zero transactions, row-level failures are recorded with their
// 1-based row number and skipped, and rows that parse fine but are not real
// transactions (pending payments, internal transfers, zero amounts) are
// silently counted in Skipped.
type ImportResult struct {
	Success      bool
	Transactions []core.Transaction
	Errors       []string
	Skipped      int
}

// Adapter maps one export format's rows to canonical transactions. RowToTransaction
// returns (nil, nil) for rows that should be skipped without error.
type Adapter interface {
	// Format returns the adapter's format tag.
	Format() Format
	// Header returns the expected header columns, in order.
	Header() []string
	// RowToTransaction converts a data row. rowIndex is the 0-based index of
	// the row within the file, used for synthetic id generation.
	RowToTransaction(row []string, accountLabel string, rowIndex int) (*core.Transaction, error)
	// DefaultAccount is the account label applied when the caller supplies none.
	DefaultAccount() string
}

// adapters maps format tags to their adapters. The registry allows new bank
// formats to be added without touching the import loop.
var adapters = map[Format]Adapter{
	FormatChase:       ChaseAdapter{},
	FormatPayPal:      PayPalAdapter{},
	FormatCreditUnion: CreditUnionAdapter{},
}

// AdapterFor returns the adapter for a format tag.
func AdapterFor(format Format) (Adapter, error) {
	a, ok := adapters[format]
	if !ok {
		return nil, fmt.Errorf("unsupported import format: %s", format)
	}
	return a, nil
}

// Import parses CSV text with the named format's adapter. The account label
// falls back to the adapter's default when empty.
func Import(format Format, text, account string) ImportResult {
	adapter, err := AdapterFor(format)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}}
	}
	return ImportWith(adapter, text, account)
}

// ImportWith runs the shared import loop with an explicit adapter.
func ImportWith(adapter Adapter, text, account string) ImportResult {
	var result ImportResult

	rows := ParseCSV(text)
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "file is empty")
		return result
	}

	expected := adapter.Header()
	if err := validateHeader(rows[0], expected); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("invalid %s CSV format: %v; expected headers: %s",
				adapter.Format(), err, strings.Join(expected, ", ")))
		return result
	}

	if account == "" {
		account = adapter.DefaultAccount()
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			result.Skipped++
			continue
		}

		t, err := adapter.RowToTransaction(row, account, i)
		if err != nil {
			// 1-based row number, counting the header row.
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if t == nil {
			result.Skipped++
			continue
		}
		result.Transactions = append(result.Transactions, *t)
	}

	result.Success = len(result.Transactions) > 0
	return result
}

// validateHeader checks each expected column name appears (case-insensitive
// substring match) at its position in the header row. The importer never
// guesses column order.
func validateHeader(header, expected []string) error {
	for i, want := range expected {
		got := field(header, i)
		if !strings.Contains(strings.ToLower(got), strings.ToLower(want)) {
			return fmt.Errorf("column %d is %q, want %q", i+1, got, want)
		}
	}
	return nil
}
