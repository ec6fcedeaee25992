package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly PeriodType = "monthly"
	Weekly  PeriodType = "weekly"
	Yearly  PeriodType = "yearly"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	StatusPending    TransactionStatus = "pending"
	StatusCleared    TransactionStatus = "cleared"
	StatusReconciled TransactionStatus = "reconciled"
)

type (
	PeriodType        string
	TransactionType   string
	TransactionStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single income or expense event. Amount is always
	// non-negative; the direction is carried by Type. BudgetID is the
	// back-reference to the owning budget, empty when unallocated.
	Transaction struct {
		ID          string
		Date        Date
		Description string
		Amount      Money
		Type        TransactionType
		Category    string
		Account     string
		Notes       string
		Status      TransactionStatus
		BudgetID    string
	}

	// Budget grants Amount once per period, anchored at StartDate. For
	// monthly budgets RolloverDay is the day-of-month the credit applies
	// (defaults to 1). TransactionIDs lists the allocated transactions;
	// it must stay consistent with each member's BudgetID, which only the
	// allocation and delete operations in services maintain.
	Budget struct {
		ID              string
		Title           string
		Amount          Money
		Period          PeriodType
		StartDate       Date
		StartingBalance Money
		RolloverDay     int
		TransactionIDs  []string
		Pinned          bool
		DisplayOrder    int
		CreatedAt       time.Time
	}
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidRollover  = errors.New("invalid rollover day")
	ErrEmptyID          = errors.New("empty id")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyDescription = errors.New("empty description")
)

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// IsEmpty returns true if the date is zero (for optional dates).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (tt TransactionType) Valid() bool {
	return tt == Income || tt == Expense
}

func (p PeriodType) Valid() bool {
	return p == Monthly || p == Weekly || p == Yearly
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if t.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	switch t.Status {
	case "", StatusPending, StatusCleared, StatusReconciled:
	default:
		return errors.New("invalid status")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyID
	}
	if len(strings.TrimSpace(b.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(b.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if b.RolloverDay < 0 || b.RolloverDay > 31 {
		return ErrInvalidRollover
	}
	return nil
}

// Allocated reports whether the transaction belongs to the budget, accepting
// either side of the relationship.
func (b Budget) Allocated(t Transaction) bool {
	if t.BudgetID == b.ID {
		return true
	}
	for _, id := range b.TransactionIDs {
		if id == t.ID {
			return true
		}
	}
	return false
}
