package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"budgeteer/internal/core"
	"budgeteer/internal/services"
	"budgeteer/internal/storage/memory"
)

func newTestServer(t *testing.T) (http.Handler, services.Store) {
	t.Helper()
	store := memory.New()
	budgets := services.NewBudgetService(store, nil)
	imports := services.NewImportService(store, nil)
	srv := NewServer(":0", store, budgets, imports)
	return srv.Handler, store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestBudgetCRUDOverHTTP(t *testing.T) {
	h, _ := newTestServer(t)

	create := budgetPayload{
		Title:       "Groceries",
		AmountCents: 50000,
		Period:      "monthly",
		StartDate:   "2025-01-01",
		RolloverDay: 1,
	}
	rec := doJSON(t, h, http.MethodPost, "/api/budgets", create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[budgetPayload](t, rec)
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	rec = doJSON(t, h, http.MethodGet, "/api/budgets/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	created.Title = "Food"
	rec = doJSON(t, h, http.MethodPut, "/api/budgets/"+created.ID, created)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[budgetPayload](t, rec)
	if updated.Title != "Food" {
		t.Errorf("Title = %q, want Food", updated.Title)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/budgets/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/budgets/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateBudgetRejectsBadPayload(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name    string
		payload budgetPayload
	}{
		{"missing title", budgetPayload{AmountCents: 100, Period: "monthly"}},
		{"bad period", budgetPayload{Title: "x", AmountCents: 100, Period: "daily"}},
		{"negative amount", budgetPayload{Title: "x", AmountCents: -100, Period: "monthly"}},
		{"bad rollover day", budgetPayload{Title: "x", AmountCents: 100, Period: "monthly", RolloverDay: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/budgets", tt.payload)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestListBudgetsIncludesSummaries(t *testing.T) {
	h, store := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/budgets", budgetPayload{
		Title:       "Groceries",
		AmountCents: 50000,
		Period:      "monthly",
		StartDate:   "2025-01-01",
		RolloverDay: 1,
	})
	created := decodeBody[budgetPayload](t, rec)

	txn := core.Transaction{
		ID:          "t1",
		Date:        core.NewDate(2025, 1, 10),
		Description: "groceries run",
		Amount:      core.Money{Cents: 2000},
		Type:        core.Expense,
		BudgetID:    created.ID,
	}
	if err := store.CreateTransaction(context.Background(), txn); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/budgets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	listed := decodeBody[[]budgetWithSummary](t, rec)
	if len(listed) != 1 {
		t.Fatalf("got %d budgets, want 1", len(listed))
	}
	if listed[0].Summary.SpentCents != 2000 {
		t.Errorf("SpentCents = %d, want 2000", listed[0].Summary.SpentCents)
	}
	if listed[0].Summary.ElapsedPeriods < 1 {
		t.Errorf("ElapsedPeriods = %d, want >= 1", listed[0].Summary.ElapsedPeriods)
	}
}

func TestAllocateEndpoint(t *testing.T) {
	h, store := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/budgets", budgetPayload{
		Title: "Groceries", AmountCents: 50000, Period: "monthly",
	})
	created := decodeBody[budgetPayload](t, rec)

	for _, id := range []string{"t1", "t2"} {
		txn := core.Transaction{
			ID:          id,
			Date:        core.NewDate(2025, 1, 10),
			Description: "seed " + id,
			Amount:      core.Money{Cents: 100},
			Type:        core.Expense,
		}
		if err := store.CreateTransaction(context.Background(), txn); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/budgets/%s/allocate", created.ID),
		allocateRequest{TransactionIDs: []string{"t1", "t2"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("allocate status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[budgetPayload](t, rec)
	if len(updated.TransactionIDs) != 2 {
		t.Errorf("TransactionIDs = %v, want 2 members", updated.TransactionIDs)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/budgets/nope/allocate",
		allocateRequest{TransactionIDs: []string{"t1"}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("allocate to missing budget status = %d, want 404", rec.Code)
	}
}

func TestTransactionEndpoints(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/transactions", transactionPayload{
		Date:        "2025-10-26",
		Description: "STARBUCKS #123",
		AmountCents: 1250,
		Type:        "expense",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[transactionPayload](t, rec)

	created.Description = "Starbucks"
	rec = doJSON(t, h, http.MethodPut, "/api/transactions/"+created.ID, created)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/transactions", nil)
	listed := decodeBody[[]transactionPayload](t, rec)
	if len(listed) != 1 || listed[0].Description != "Starbucks" {
		t.Errorf("listed = %v", listed)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestUpdateTransactionKeepsBudgetLink(t *testing.T) {
	h, store := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/budgets", budgetPayload{
		Title: "Groceries", AmountCents: 50000, Period: "monthly",
	})
	bud := decodeBody[budgetPayload](t, rec)

	txn := core.Transaction{
		ID:          "t1",
		Date:        core.NewDate(2025, 1, 10),
		Description: "groceries",
		Amount:      core.Money{Cents: 100},
		Type:        core.Expense,
	}
	if err := store.CreateTransaction(context.Background(), txn); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/budgets/%s/allocate", bud.ID),
		allocateRequest{TransactionIDs: []string{"t1"}})

	rec = doJSON(t, h, http.MethodPut, "/api/transactions/t1", transactionPayload{
		Date:        "2025-01-10",
		Description: "weekly groceries",
		AmountCents: 100,
		Type:        "expense",
		BudgetID:    "someone-elses-budget",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	got, err := store.GetTransaction(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.BudgetID != bud.ID {
		t.Errorf("BudgetID = %q, want %q", got.BudgetID, bud.ID)
	}
}

func TestImportEndpoint(t *testing.T) {
	h, _ := newTestServer(t)

	csv := "Transaction Date,Post Date,Description,Category,Type,Amount,Memo\n" +
		"10/26/2025,10/27/2025,STARBUCKS #123,Food & Drink,Sale,-12.50,\n"

	rec := doJSON(t, h, http.MethodPost, "/api/import", importRequest{Format: "chase", Text: csv})
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[importResponse](t, rec)
	if !resp.Success || resp.ImportedCount != 1 {
		t.Errorf("response = %+v, want 1 imported", resp)
	}

	// Re-import: everything is a duplicate.
	rec = doJSON(t, h, http.MethodPost, "/api/import", importRequest{Format: "chase", Text: csv})
	resp = decodeBody[importResponse](t, rec)
	if resp.ImportedCount != 0 || len(resp.Duplicates) != 1 {
		t.Errorf("re-import response = %+v, want 0 imported and 1 duplicate", resp)
	}

	// Bad header is a 422 with the errors in the body.
	rec = doJSON(t, h, http.MethodPost, "/api/import", importRequest{Format: "chase", Text: "a,b\n1,2\n"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad header status = %d, want 422", rec.Code)
	}

	// Missing text is a plain bad request.
	rec = doJSON(t, h, http.MethodPost, "/api/import", importRequest{Format: "chase"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing text status = %d, want 400", rec.Code)
	}
}

func TestSummaryCacheInvalidation(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/budgets", budgetPayload{
		Title: "Groceries", AmountCents: 50000, Period: "monthly",
	})
	created := decodeBody[budgetPayload](t, rec)

	// Prime the cache.
	doJSON(t, h, http.MethodGet, "/api/budgets", nil)

	// A mutation must be visible on the next list, not after the TTL.
	rec = doJSON(t, h, http.MethodPost, "/api/transactions", transactionPayload{
		Date:        "2025-01-10",
		Description: "groceries run",
		AmountCents: 2000,
		Type:        "expense",
	})
	txn := decodeBody[transactionPayload](t, rec)
	doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/budgets/%s/allocate", created.ID),
		allocateRequest{TransactionIDs: []string{txn.ID}})

	rec = doJSON(t, h, http.MethodGet, "/api/budgets", nil)
	listed := decodeBody[[]budgetWithSummary](t, rec)
	if listed[0].Summary.SpentCents != 2000 {
		t.Errorf("SpentCents = %d after mutation, want 2000", listed[0].Summary.SpentCents)
	}
}
