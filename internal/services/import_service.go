package services

import (
	"context"
	"fmt"
	"log/slog"

	"budgeteer/internal/core"
	"budgeteer/internal/ingest"
)

// ImportOutcome reports what happened to one imported file after parsing and
// deduplication.
type ImportOutcome struct {
	Result     ingest.ImportResult
	Duplicates []core.Transaction
	Imported   []core.Transaction
}

// ImportService runs CSV text through a format adapter, drops candidates
// that duplicate existing transactions, and bulk-creates the survivors.
type ImportService struct {
	store  Store
	events EventPublisher
}

func NewImportService(store Store, events EventPublisher) *ImportService {
	return &ImportService{
		store:  store,
		events: events,
	}
}

// ImportCSV imports one file's worth of CSV text. Parse and row errors are
// carried inside the outcome, never returned as the error; the error return
// is reserved for storage failures.
func (s *ImportService) ImportCSV(ctx context.Context, format ingest.Format, text, account string) (ImportOutcome, error) {
	outcome := ImportOutcome{Result: ingest.Import(format, text, account)}
	if !outcome.Result.Success {
		return outcome, nil
	}

	existing, err := s.store.ListTransactions(ctx)
	if err != nil {
		return outcome, fmt.Errorf("list transactions: %w", err)
	}

	dedup := ingest.DetectDuplicates(outcome.Result.Transactions, existing)
	outcome.Duplicates = dedup.Duplicates
	outcome.Imported = dedup.Unique

	if len(dedup.Unique) > 0 {
		if err := s.store.BulkCreateTransactions(ctx, dedup.Unique); err != nil {
			return outcome, fmt.Errorf("bulk create transactions: %w", err)
		}
	}

	slog.InfoContext(ctx, "CSV import completed",
		"format", format,
		"parsed", len(outcome.Result.Transactions),
		"imported", len(dedup.Unique),
		"duplicates", len(dedup.Duplicates),
		"skipped", outcome.Result.Skipped,
		"row_errors", len(outcome.Result.Errors))

	if s.events != nil && len(dedup.Unique) > 0 {
		acct := account
		if acct == "" {
			if adapter, err := ingest.AdapterFor(format); err == nil {
				acct = adapter.DefaultAccount()
			}
		}
		if err := s.events.PublishTransactionsImported(ctx, acct, len(dedup.Unique)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish import event",
				"account", acct, "error", err)
			// The transactions are already persisted; don't fail the import.
		}
	}

	return outcome, nil
}
