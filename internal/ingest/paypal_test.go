package ingest

import (
	"testing"

	"budgeteer/internal/core"
)

func paypalRow() []string {
	// Date, Time, TimeZone, Name, Type, Status, Currency, Amount, Fees,
	// Total, Exchange Rate, Receipt ID, Balance, Transaction ID, Item Title
	return []string{
		"10/26/2025", "08:15:00", "PDT", "Spotify", "PreApproved Payment Bill User Payment",
		"Completed", "USD", "-10.99", "0.00", "-10.99", "", "", "45.00", "TX123", "Premium plan",
	}
}

func TestPayPalRowToTransaction(t *testing.T) {
	adapter := PayPalAdapter{}

	got, err := adapter.RowToTransaction(paypalRow(), "PayPal", 3)
	if err != nil {
		t.Fatalf("RowToTransaction() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected a transaction")
	}

	if got.Description != "Spotify" {
		t.Errorf("Description = %q, want Spotify", got.Description)
	}
	if got.Amount.Cents != 1099 {
		t.Errorf("Amount = %d cents, want 1099", got.Amount.Cents)
	}
	if got.Type != core.Expense {
		t.Errorf("Type = %s, want expense", got.Type)
	}
	if got.Category != "Entertainment" {
		t.Errorf("Category = %q, want Entertainment", got.Category)
	}
	if got.Notes != "Premium plan" {
		t.Errorf("Notes = %q, want item title", got.Notes)
	}
}

func TestPayPalSkips(t *testing.T) {
	adapter := PayPalAdapter{}
	tests := []struct {
		name   string
		mutate func([]string)
	}{
		{"pending status", func(r []string) { r[5] = "Pending" }},
		{"bank transfer", func(r []string) { r[4] = "General Card Deposit" }},
		{"pp account deposit", func(r []string) { r[4] = "Deposit to PP Account from Bank" }},
		{"zero amount", func(r []string) { r[7] = "0.00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := paypalRow()
			tt.mutate(row)
			got, err := adapter.RowToTransaction(row, "PayPal", 1)
			if err != nil {
				t.Fatalf("RowToTransaction() error = %v", err)
			}
			if got != nil {
				t.Error("expected row to be skipped")
			}
		})
	}
}

func TestPayPalDescriptionFallsBackToType(t *testing.T) {
	adapter := PayPalAdapter{}
	row := paypalRow()
	row[3] = ""
	row[4] = "Express Checkout Payment"

	got, err := adapter.RowToTransaction(row, "PayPal", 1)
	if err != nil {
		t.Fatalf("RowToTransaction() error = %v", err)
	}
	if got.Description != "Express Checkout Payment" {
		t.Errorf("Description = %q, want the source type", got.Description)
	}
	if got.Category != "Shopping" {
		t.Errorf("Category = %q, want Shopping", got.Category)
	}
}

func TestCategorizeMerchant(t *testing.T) {
	tests := []struct {
		merchant string
		txnType  string
		want     string
	}{
		{"Spotify USA", "", "Entertainment"},
		{"Valve Corporation", "", "Entertainment"},
		{"Amazon Marketplace", "", "Shopping"},
		{"Southwest Airlines", "", "Travel"},
		{"Apple Services", "PreApproved Payment", "Entertainment"},
		{"Apple Store", "Express Checkout Payment", "Shopping"},
		{"Unknown Merchant", "PreApproved Payment Bill", "Subscriptions"},
		{"Corner Bakery", "", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.merchant, func(t *testing.T) {
			if got := categorizeMerchant(tt.merchant, tt.txnType); got != tt.want {
				t.Errorf("categorizeMerchant(%q, %q) = %q, want %q", tt.merchant, tt.txnType, got, tt.want)
			}
		})
	}
}
