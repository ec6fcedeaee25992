package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"budgeteer/internal/core"
)

// BudgetService orchestrates budget and transaction operations against the
// storage port. It is the sole authority for the Budget.TransactionIDs /
// Transaction.BudgetID relationship: every path that links or unlinks the
// two sides goes through here so no caller can desynchronize them.
type BudgetService struct {
	store  Store
	events EventPublisher
}

func NewBudgetService(store Store, events EventPublisher) *BudgetService {
	return &BudgetService{
		store:  store,
		events: events,
	}
}

// CreateBudget validates and persists a new budget, assigning an id when the
// caller left it empty.
func (s *BudgetService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.TransactionIDs == nil {
		b.TransactionIDs = []string{}
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("validate budget: %w", err)
	}
	if err := s.store.CreateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"id", b.ID,
		"title", b.Title,
		"period", b.Period,
		"amount_cents", b.Amount.Cents)

	return b, nil
}

// UpdateBudget persists changes to an existing budget. The member list is
// not touched here; use Allocate for that.
func (s *BudgetService) UpdateBudget(ctx context.Context, b core.Budget) error {
	existing, err := s.store.GetBudget(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("get budget: %w", err)
	}
	b.TransactionIDs = existing.TransactionIDs
	if b.CreatedAt.IsZero() {
		b.CreatedAt = existing.CreatedAt
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate budget: %w", err)
	}
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return nil
}

// Allocate replaces the budget's member set with transactionIDs. Members
// dropped from the set get their back-reference cleared; members added get
// it set. A transaction already owned by another budget is stolen: its
// back-reference moves here, and the previous owner's list is pruned. The
// whole thing is one logical operation from the caller's perspective.
func (s *BudgetService) Allocate(ctx context.Context, budgetID string, transactionIDs []string) error {
	b, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("get budget: %w", err)
	}

	newSet := make(map[string]bool, len(transactionIDs))
	for _, id := range transactionIDs {
		newSet[id] = true
	}

	// Clear the back-reference on members no longer in the set. Scanning by
	// back-reference rather than the stored list catches both sides even if
	// they had drifted.
	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	for _, t := range all {
		if t.BudgetID == budgetID && !newSet[t.ID] {
			t.BudgetID = ""
			if err := s.store.UpdateTransaction(ctx, t); err != nil {
				return fmt.Errorf("unlink transaction %s: %w", t.ID, err)
			}
		}
	}

	// Point every member in the new set at this budget, pruning any previous
	// owner's list so no transaction is shared across budgets.
	for _, id := range transactionIDs {
		t, err := s.store.GetTransaction(ctx, id)
		if err != nil {
			return fmt.Errorf("get transaction %s: %w", id, err)
		}
		if t.BudgetID != "" && t.BudgetID != budgetID {
			if err := s.removeFromBudgetList(ctx, t.BudgetID, t.ID); err != nil {
				return err
			}
		}
		if t.BudgetID != budgetID {
			t.BudgetID = budgetID
			if err := s.store.UpdateTransaction(ctx, t); err != nil {
				return fmt.Errorf("link transaction %s: %w", id, err)
			}
		}
	}

	b.TransactionIDs = append([]string{}, transactionIDs...)
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return fmt.Errorf("update budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget allocation updated",
		"budget_id", budgetID,
		"transactions", len(transactionIDs))

	if s.events != nil {
		if err := s.events.PublishBudgetAllocated(ctx, budgetID, len(transactionIDs)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish allocation event",
				"budget_id", budgetID, "error", err)
			// Allocation already succeeded locally; don't fail it.
		}
	}

	return nil
}

// DeleteBudget removes a budget after clearing the back-reference on every
// member transaction, so no transaction is left pointing at a budget that no
// longer exists.
func (s *BudgetService) DeleteBudget(ctx context.Context, budgetID string) error {
	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	for _, t := range all {
		if t.BudgetID == budgetID {
			t.BudgetID = ""
			if err := s.store.UpdateTransaction(ctx, t); err != nil {
				return fmt.Errorf("unlink transaction %s: %w", t.ID, err)
			}
		}
	}

	if err := s.store.DeleteBudget(ctx, budgetID); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget deleted", "id", budgetID)
	return nil
}

// CreateTransaction validates and persists a manually entered transaction.
func (s *BudgetService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

// DeleteTransaction removes a transaction, first dropping its id from the
// owning budget's member list if it has one.
func (s *BudgetService) DeleteTransaction(ctx context.Context, transactionID string) error {
	t, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	if t.BudgetID != "" {
		if err := s.removeFromBudgetList(ctx, t.BudgetID, transactionID); err != nil {
			return err
		}
	}

	if err := s.store.DeleteTransaction(ctx, transactionID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", transactionID)
	return nil
}

// Summaries computes the accrued state of every budget against the full
// transaction set, all at one instant.
func (s *BudgetService) Summaries(ctx context.Context) ([]BudgetSummary, error) {
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	now := time.Now().UTC()
	summaries := make([]BudgetSummary, len(budgets))
	for i, b := range budgets {
		summaries[i] = Summarize(b, transactions, now)
	}
	return summaries, nil
}

// Lifecycle computes the rollover series for one budget.
func (s *BudgetService) Lifecycle(ctx context.Context, budgetID string) ([]LifecyclePoint, error) {
	b, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	allocated := make([]core.Transaction, 0, len(b.TransactionIDs))
	for _, t := range all {
		if b.Allocated(t) {
			allocated = append(allocated, t)
		}
	}
	return GenerateSeries(b, allocated, time.Now().UTC()), nil
}

func (s *BudgetService) removeFromBudgetList(ctx context.Context, budgetID, transactionID string) error {
	b, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("get owning budget %s: %w", budgetID, err)
	}
	kept := b.TransactionIDs[:0]
	for _, id := range b.TransactionIDs {
		if id != transactionID {
			kept = append(kept, id)
		}
	}
	b.TransactionIDs = kept
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return fmt.Errorf("update owning budget %s: %w", budgetID, err)
	}
	return nil
}
