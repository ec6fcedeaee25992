package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps storage/service errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidRollover),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrEmptyDescription):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// Wire shapes. Amounts travel as integer cents; dates as YYYY-MM-DD.

type transactionPayload struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
	Account     string `json:"account,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Status      string `json:"status,omitempty"`
	BudgetID    string `json:"budget_id,omitempty"`
}

type budgetPayload struct {
	ID                   string   `json:"id,omitempty"`
	Title                string   `json:"title"`
	AmountCents          int64    `json:"amount_cents"`
	Period               string   `json:"period"`
	StartDate            string   `json:"start_date,omitempty"`
	StartingBalanceCents int64    `json:"starting_balance_cents"`
	RolloverDay          int      `json:"rollover_day,omitempty"`
	TransactionIDs       []string `json:"transaction_ids"`
	Pinned               bool     `json:"pinned,omitempty"`
	DisplayOrder         int      `json:"display_order,omitempty"`
}

type summaryPayload struct {
	BudgetID              string  `json:"budget_id"`
	ElapsedPeriods        int     `json:"elapsed_periods"`
	CumulativeBudgetCents int64   `json:"cumulative_budget_cents"`
	TotalAvailableCents   int64   `json:"total_available_cents"`
	SpentCents            int64   `json:"spent_cents"`
	EarnedCents           int64   `json:"earned_cents"`
	RemainingCents        int64   `json:"remaining_cents"`
	PercentUsed           float64 `json:"percent_used"`
}

type lifecyclePointPayload struct {
	Date                  string `json:"date"`
	DisplayLabel          string `json:"display_label"`
	CreditCents           int64  `json:"credit_cents"`
	DebitCents            int64  `json:"debit_cents"`
	BalanceCents          int64  `json:"balance_cents"`
	CumulativeCreditCents int64  `json:"cumulative_credit_cents"`
	CumulativeDebitCents  int64  `json:"cumulative_debit_cents"`
}

func (p transactionPayload) toDomain() (core.Transaction, error) {
	var date core.Date
	if p.Date != "" {
		var err error
		date, err = core.ParseDate(p.Date)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("parse date %q: %w", p.Date, err)
		}
	}
	return core.Transaction{
		ID:          p.ID,
		Date:        date,
		Description: p.Description,
		Amount:      core.Money{Cents: p.AmountCents},
		Type:        core.TransactionType(p.Type),
		Category:    p.Category,
		Account:     p.Account,
		Notes:       p.Notes,
		Status:      core.TransactionStatus(p.Status),
		BudgetID:    p.BudgetID,
	}, nil
}

func transactionToPayload(t core.Transaction) transactionPayload {
	return transactionPayload{
		ID:          t.ID,
		Date:        t.Date.String(),
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		Type:        string(t.Type),
		Category:    t.Category,
		Account:     t.Account,
		Notes:       t.Notes,
		Status:      string(t.Status),
		BudgetID:    t.BudgetID,
	}
}

func (p budgetPayload) toDomain() (core.Budget, error) {
	var start core.Date
	if p.StartDate != "" {
		var err error
		start, err = core.ParseDate(p.StartDate)
		if err != nil {
			return core.Budget{}, fmt.Errorf("parse start date %q: %w", p.StartDate, err)
		}
	}
	return core.Budget{
		ID:              p.ID,
		Title:           p.Title,
		Amount:          core.Money{Cents: p.AmountCents},
		Period:          core.PeriodType(p.Period),
		StartDate:       start,
		StartingBalance: core.Money{Cents: p.StartingBalanceCents},
		RolloverDay:     p.RolloverDay,
		TransactionIDs:  p.TransactionIDs,
		Pinned:          p.Pinned,
		DisplayOrder:    p.DisplayOrder,
	}, nil
}

func budgetToPayload(b core.Budget) budgetPayload {
	start := ""
	if !b.StartDate.IsEmpty() {
		start = b.StartDate.String()
	}
	ids := b.TransactionIDs
	if ids == nil {
		ids = []string{}
	}
	return budgetPayload{
		ID:                   b.ID,
		Title:                b.Title,
		AmountCents:          b.Amount.Cents,
		Period:               string(b.Period),
		StartDate:            start,
		StartingBalanceCents: b.StartingBalance.Cents,
		RolloverDay:          b.RolloverDay,
		TransactionIDs:       ids,
		Pinned:               b.Pinned,
		DisplayOrder:         b.DisplayOrder,
	}
}

func summaryToPayload(s services.BudgetSummary) summaryPayload {
	return summaryPayload{
		BudgetID:              s.BudgetID,
		ElapsedPeriods:        s.ElapsedPeriods,
		CumulativeBudgetCents: s.CumulativeBudget.Cents,
		TotalAvailableCents:   s.TotalAvailable.Cents,
		SpentCents:            s.Spent.Cents,
		EarnedCents:           s.Earned.Cents,
		RemainingCents:        s.Remaining.Cents,
		PercentUsed:           s.PercentUsed,
	}
}

func lifecycleToPayload(points []services.LifecyclePoint) []lifecyclePointPayload {
	out := make([]lifecyclePointPayload, len(points))
	for i, p := range points {
		out[i] = lifecyclePointPayload{
			Date:                  p.Date.Format(time.DateOnly),
			DisplayLabel:          p.DisplayLabel,
			CreditCents:           p.Credit.Cents,
			DebitCents:            p.Debit.Cents,
			BalanceCents:          p.Balance.Cents,
			CumulativeCreditCents: p.CumulativeCredit.Cents,
			CumulativeDebitCents:  p.CumulativeDebit.Cents,
		}
	}
	return out
}
