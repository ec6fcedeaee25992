package amqp

import (
	"testing"
)

func TestLedgerEventRoundTrip(t *testing.T) {
	event := NewTransactionsImportedEvent("Chase Credit Card", 12)

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := LedgerEventFromJSON(data)
	if err != nil {
		t.Fatalf("LedgerEventFromJSON() error = %v", err)
	}
	if got.Kind != EventTransactionsImported {
		t.Errorf("Kind = %q, want %q", got.Kind, EventTransactionsImported)
	}
	if got.Account != "Chase Credit Card" || got.Count != 12 {
		t.Errorf("payload = %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestBudgetAllocatedEvent(t *testing.T) {
	event := NewBudgetAllocatedEvent("bud-1", 3)

	if event.Kind != EventBudgetAllocated {
		t.Errorf("Kind = %q, want %q", event.Kind, EventBudgetAllocated)
	}
	if event.BudgetID != "bud-1" || event.Count != 3 {
		t.Errorf("payload = %+v", event)
	}
}

func TestLedgerEventFromJSONInvalid(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
