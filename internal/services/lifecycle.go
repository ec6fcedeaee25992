package services

import (
	"time"

	"budgeteer/internal/core"
)

// LifecyclePoint is one rollover boundary in a budget's charted history.
type LifecyclePoint struct {
	Date             core.Date
	DisplayLabel     string
	Credit           core.Money
	Debit            core.Money
	Balance          core.Money
	CumulativeCredit core.Money
	CumulativeDebit  core.Money
}

// GenerateSeries produces the chronological credit / debit / balance series
// for a budget, one point per rollover boundary from the start date through
// now. Budgets without a start date yield an empty series. All period types
// use monthly rollover boundaries here; weekly and yearly budgets degrade to
// monthly-style boundaries, a known limitation of the chart.
//
// Allocated expense transactions are bucketed into the rollover interval
// their date falls in; the final interval extends through now. Transactions
// dated before the first rollover are not charted. The series is recomputed
// from scratch on every call.
func GenerateSeries(b core.Budget, allocated []core.Transaction, now time.Time) []LifecyclePoint {
	if b.StartDate.IsEmpty() {
		return nil
	}

	rolloverDay := b.RolloverDay
	if rolloverDay == 0 {
		rolloverDay = 1
	}

	boundaries := rolloverDates(b.StartDate, rolloverDay, now)
	if len(boundaries) == 0 {
		return nil
	}

	// Sum expense amounts per rollover interval [boundary[i], boundary[i+1]).
	debits := make([]core.Money, len(boundaries))
	for _, t := range allocated {
		if t.Type != core.Expense {
			continue
		}
		idx := bucketIndex(boundaries, t.Date.Time)
		if idx < 0 {
			continue
		}
		debits[idx] = debits[idx].Add(t.Amount)
	}

	balance := b.StartingBalance
	var cumCredit, cumDebit core.Money

	points := make([]LifecyclePoint, len(boundaries))
	for i, boundary := range boundaries {
		credit := b.Amount
		debit := debits[i]

		cumCredit = cumCredit.Add(credit)
		cumDebit = cumDebit.Add(debit)
		balance = balance.Add(credit).Sub(debit)

		points[i] = LifecyclePoint{
			Date:             core.Date{Time: boundary},
			DisplayLabel:     boundary.Format("Jan 2006"),
			Credit:           credit,
			Debit:            debit,
			Balance:          balance,
			CumulativeCredit: cumCredit,
			CumulativeDebit:  cumDebit,
		}
	}

	return points
}

// rolloverDates builds the sequence of rollover dates from the first
// occurrence on or after start through now, stepping one calendar month.
func rolloverDates(start core.Date, rolloverDay int, now time.Time) []time.Time {
	cur := time.Date(start.Year(), start.Month(), rolloverDay, 0, 0, 0, 0, time.UTC)
	if start.After(cur) {
		cur = time.Date(start.Year(), start.Month()+1, rolloverDay, 0, 0, 0, 0, time.UTC)
	}

	var dates []time.Time
	for !cur.After(now) {
		dates = append(dates, cur)
		cur = time.Date(cur.Year(), cur.Month()+1, rolloverDay, 0, 0, 0, 0, time.UTC)
	}
	return dates
}

// bucketIndex returns the index of the rollover interval containing ts, or
// -1 when ts predates the first boundary. The last interval is open-ended.
func bucketIndex(boundaries []time.Time, ts time.Time) int {
	for i := range boundaries {
		if ts.Before(boundaries[i]) {
			return i - 1
		}
	}
	return len(boundaries) - 1
}
