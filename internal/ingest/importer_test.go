package ingest

import (
	"strings"
	"testing"
)

func TestImportUnsupportedFormat(t *testing.T) {
	result := Import("quickbooks", "a,b\n", "")
	if result.Success {
		t.Error("expected failure for unsupported format")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "unsupported import format") {
		t.Errorf("Errors = %v, want unsupported format error", result.Errors)
	}
}

func TestImportEmptyFile(t *testing.T) {
	result := Import(FormatChase, "", "")
	if result.Success {
		t.Error("expected failure for empty file")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "file is empty" {
		t.Errorf("Errors = %v, want file is empty", result.Errors)
	}
}

func TestImportHeaderValidation(t *testing.T) {
	tests := []struct {
		name   string
		header string
		wantOK bool
	}{
		{"exact header", "Transaction Date,Post Date,Description,Category,Type,Amount,Memo", true},
		{"case-insensitive", "TRANSACTION DATE,POST DATE,DESCRIPTION,CATEGORY,TYPE,AMOUNT,MEMO", true},
		{"substring match tolerates decoration", `"Transaction Date (MM/DD/YYYY)",Post Date,Description,Category,Type,Amount,Memo`, true},
		{"wrong column order", "Post Date,Transaction Date,Description,Category,Type,Amount,Memo", false},
		{"missing column", "Transaction Date,Post Date,Description", false},
	}

	const row = "\n10/26/2025,10/27/2025,Coffee,Food & Drink,Sale,-4.50,\n"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Import(FormatChase, tt.header+row, "")
			if result.Success != tt.wantOK {
				t.Errorf("Success = %v, want %v (errors: %v)", result.Success, tt.wantOK, result.Errors)
			}
			if !tt.wantOK && len(result.Transactions) != 0 {
				t.Errorf("rejected file produced %d transactions", len(result.Transactions))
			}
		})
	}
}

func TestImportRowErrorsAreCollected(t *testing.T) {
	text := "Transaction Date,Post Date,Description,Category,Type,Amount,Memo\n" +
		"not-a-date,10/27/2025,Coffee,Food & Drink,Sale,-4.50,\n" +
		"10/27/2025,10/28/2025,Bagel,Food & Drink,Sale,-3.25,\n" +
		"10/28/2025,10/29/2025,Lunch,Food & Drink,Sale,abc,\n"

	result := Import(FormatChase, text, "")

	if !result.Success {
		t.Fatalf("import should succeed when any row parses: %v", result.Errors)
	}
	if len(result.Transactions) != 1 {
		t.Errorf("got %d transactions, want 1", len(result.Transactions))
	}
	if len(result.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(result.Errors), result.Errors)
	}
	// Row numbers are 1-based and count the header.
	if !strings.HasPrefix(result.Errors[0], "row 2:") {
		t.Errorf("first error = %q, want row 2 prefix", result.Errors[0])
	}
	if !strings.HasPrefix(result.Errors[1], "row 4:") {
		t.Errorf("second error = %q, want row 4 prefix", result.Errors[1])
	}
}

func TestImportSkipsBlankRows(t *testing.T) {
	text := "Transaction Date,Post Date,Description,Category,Type,Amount,Memo\n" +
		",,,,,,\n" +
		"10/27/2025,10/28/2025,Bagel,Food & Drink,Sale,-3.25,\n"

	result := Import(FormatChase, text, "")

	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if len(result.Transactions) != 1 {
		t.Errorf("got %d transactions, want 1", len(result.Transactions))
	}
}

func TestImportDefaultAccount(t *testing.T) {
	text := "Transaction Date,Post Date,Description,Category,Type,Amount,Memo\n" +
		"10/27/2025,10/28/2025,Bagel,Food & Drink,Sale,-3.25,\n"

	result := Import(FormatChase, text, "")
	if result.Transactions[0].Account != "Chase Credit Card" {
		t.Errorf("Account = %q, want default", result.Transactions[0].Account)
	}

	result = Import(FormatChase, text, "Sapphire")
	if result.Transactions[0].Account != "Sapphire" {
		t.Errorf("Account = %q, want %q", result.Transactions[0].Account, "Sapphire")
	}
}

func TestAdapterFor(t *testing.T) {
	for _, format := range []Format{FormatChase, FormatPayPal, FormatCreditUnion} {
		a, err := AdapterFor(format)
		if err != nil {
			t.Errorf("AdapterFor(%s) error = %v", format, err)
			continue
		}
		if a.Format() != format {
			t.Errorf("adapter for %s reports %s", format, a.Format())
		}
	}
	if _, err := AdapterFor("ofx"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestImportIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newImportID("chase", i)
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
