package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEvent is published after a mutation worth reacting to: a batch of
// transactions imported, or a budget's allocation changed. Consumers fetch
// current state from storage; the event carries only what identifies it.
type LedgerEvent struct {
	Kind      string    `json:"kind"`
	BudgetID  string    `json:"budget_id,omitempty"`
	Account   string    `json:"account,omitempty"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventTransactionsImported = "transactions_imported"
	EventBudgetAllocated      = "budget_allocated"
)

// NewTransactionsImportedEvent creates an event for a completed CSV import.
func NewTransactionsImportedEvent(account string, count int) *LedgerEvent {
	return &LedgerEvent{
		Kind:      EventTransactionsImported,
		Account:   account,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// NewBudgetAllocatedEvent creates an event for an allocation change.
func NewBudgetAllocatedEvent(budgetID string, count int) *LedgerEvent {
	return &LedgerEvent{
		Kind:      EventBudgetAllocated,
		BudgetID:  budgetID,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON creates an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
