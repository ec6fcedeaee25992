package services

import (
	"context"

	"budgeteer/internal/core"
)

// Ports for outbound storage adapters. The core never touches persistence
// directly; callers inject an implementation (SQLite, in-memory).
type (
	TransactionStore interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		CreateTransaction(ctx context.Context, t core.Transaction) error
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		BulkCreateTransactions(ctx context.Context, ts []core.Transaction) error
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		GetBudget(ctx context.Context, id string) (core.Budget, error)
		CreateBudget(ctx context.Context, b core.Budget) error
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, id string) error
	}

	// Store is the unified storage port.
	Store interface {
		TransactionStore
		BudgetStore
	}
)

// EventPublisher publishes ledger events for downstream consumers. Publish
// failures are logged by the service and never fail the triggering
// operation.
type EventPublisher interface {
	PublishTransactionsImported(ctx context.Context, account string, count int) error
	PublishBudgetAllocated(ctx context.Context, budgetID string, count int) error
}
