package services

import (
	"time"

	"budgeteer/internal/core"
)

// BudgetSummary captures the accrued state of a budget at a point in time.
type BudgetSummary struct {
	BudgetID         string
	ElapsedPeriods   int
	CumulativeBudget core.Money
	TotalAvailable   core.Money
	Spent            core.Money
	Earned           core.Money
	Remaining        core.Money
	PercentUsed      float64
}

// CumulativeBudget returns the total funding granted across all elapsed
// periods since the budget's start date.
func CumulativeBudget(b core.Budget, now time.Time) core.Money {
	periods := ElapsedPeriods(b.StartDate, b.Period, b.RolloverDay, now)
	return b.Amount.Mul(int64(periods))
}

// TotalAvailable returns the starting balance plus the cumulative budget.
func TotalAvailable(b core.Budget, now time.Time) core.Money {
	return b.StartingBalance.Add(CumulativeBudget(b, now))
}

// Spent sums the expense amounts of the budget's member transactions.
// Income transactions allocated to the budget are excluded; see Earned.
func Spent(b core.Budget, transactions []core.Transaction) core.Money {
	var total core.Money
	for _, t := range transactions {
		if t.Type == core.Expense && b.Allocated(t) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Earned sums the income amounts of the budget's member transactions. It is
// reported separately and never offsets Spent.
func Earned(b core.Budget, transactions []core.Transaction) core.Money {
	var total core.Money
	for _, t := range transactions {
		if t.Type == core.Income && b.Allocated(t) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Remaining returns total available minus spent. Negative values indicate
// overspend.
func Remaining(b core.Budget, spent core.Money, now time.Time) core.Money {
	return TotalAvailable(b, now).Sub(spent)
}

// PercentUsed returns spent as a percentage of total available, or 0 when
// nothing is available yet.
func PercentUsed(totalAvailable, spent core.Money) float64 {
	if totalAvailable.Cents <= 0 {
		return 0
	}
	return float64(spent.Cents) / float64(totalAvailable.Cents) * 100
}

// Summarize computes the full accrued state of a budget against its member
// transactions. now is captured once so the period math stays consistent
// across the derived figures.
func Summarize(b core.Budget, transactions []core.Transaction, now time.Time) BudgetSummary {
	periods := ElapsedPeriods(b.StartDate, b.Period, b.RolloverDay, now)
	cumulative := b.Amount.Mul(int64(periods))
	available := b.StartingBalance.Add(cumulative)
	spent := Spent(b, transactions)

	return BudgetSummary{
		BudgetID:         b.ID,
		ElapsedPeriods:   periods,
		CumulativeBudget: cumulative,
		TotalAvailable:   available,
		Spent:            spent,
		Earned:           Earned(b, transactions),
		Remaining:        available.Sub(spent),
		PercentUsed:      PercentUsed(available, spent),
	}
}
