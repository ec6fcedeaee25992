package services_test

import (
	"context"
	"testing"

	"budgeteer/internal/ingest"
	"budgeteer/internal/services"
	"budgeteer/internal/storage/memory"
)

const chaseSample = `Transaction Date,Post Date,Description,Category,Type,Amount,Memo
10/26/2025,10/27/2025,STARBUCKS #123,Food & Drink,Sale,-12.50,
10/27/2025,10/28/2025,PAYROLL DEPOSIT,,Payment,1500.00,
`

func TestImportCSVPersistsTransactions(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := services.NewImportService(store, nil)

	outcome, err := svc.ImportCSV(ctx, ingest.FormatChase, chaseSample, "")
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if !outcome.Result.Success {
		t.Fatalf("import failed: %v", outcome.Result.Errors)
	}
	if len(outcome.Imported) != 2 {
		t.Fatalf("imported %d transactions, want 2", len(outcome.Imported))
	}

	stored, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("stored %d transactions, want 2", len(stored))
	}
}

func TestImportCSVSkipsDuplicatesOnReimport(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := services.NewImportService(store, nil)

	if _, err := svc.ImportCSV(ctx, ingest.FormatChase, chaseSample, ""); err != nil {
		t.Fatalf("first ImportCSV() error = %v", err)
	}

	outcome, err := svc.ImportCSV(ctx, ingest.FormatChase, chaseSample, "")
	if err != nil {
		t.Fatalf("second ImportCSV() error = %v", err)
	}
	if len(outcome.Imported) != 0 {
		t.Errorf("re-import persisted %d transactions, want 0", len(outcome.Imported))
	}
	if len(outcome.Duplicates) != 2 {
		t.Errorf("re-import flagged %d duplicates, want 2", len(outcome.Duplicates))
	}

	stored, _ := store.ListTransactions(ctx)
	if len(stored) != 2 {
		t.Errorf("stored %d transactions after re-import, want 2", len(stored))
	}
}

func TestImportCSVBadHeaderIsNotAnError(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := services.NewImportService(store, nil)

	outcome, err := svc.ImportCSV(ctx, ingest.FormatChase, "Wrong,Header\n1,2\n", "")
	if err != nil {
		t.Fatalf("ImportCSV() error = %v, parse failures belong in the outcome", err)
	}
	if outcome.Result.Success {
		t.Error("expected failed result for bad header")
	}
	if len(outcome.Result.Errors) == 0 {
		t.Error("expected header error in result")
	}

	stored, _ := store.ListTransactions(ctx)
	if len(stored) != 0 {
		t.Errorf("stored %d transactions from rejected file, want 0", len(stored))
	}
}

func TestImportCSVPublishesEvent(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := services.NewImportService(memory.New(), pub)

	if _, err := svc.ImportCSV(ctx, ingest.FormatChase, chaseSample, "My Card"); err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if pub.imported != 1 {
		t.Errorf("publish calls = %d, want 1", pub.imported)
	}
}

func TestImportCSVPublishFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &recordingPublisher{fail: true}
	svc := services.NewImportService(store, pub)

	if _, err := svc.ImportCSV(ctx, ingest.FormatChase, chaseSample, ""); err != nil {
		t.Fatalf("ImportCSV() error = %v, want nil despite publish failure", err)
	}
	stored, _ := store.ListTransactions(ctx)
	if len(stored) != 2 {
		t.Errorf("stored %d transactions, want 2", len(stored))
	}
}
