// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for counting elapsed budget
// funding periods. Each schedule (rollover-aware monthly, legacy calendar
// monthly, weekly, yearly) has its own counter that encapsulates the logic
// for a specific period type.

package services

import (
	"time"

	"budgeteer/internal/core"
)

// PeriodCounter is the strategy interface for counting how many funding
// periods have elapsed between a budget's start date and now.
type PeriodCounter interface {
	// Elapsed returns the number of periods (>= 0) that have elapsed as of
	// now for a schedule anchored at start. start is never zero and never
	// after now; the caller handles those cases.
	Elapsed(start core.Date, now time.Time) int
}

// RolloverMonthlyCounter counts monthly periods by walking rollover dates:
// the first occurrence of Day on or after the start month (next month if the
// start falls past that month's rollover day), then one calendar month at a
// time. Days past the end of a month normalize forward, e.g. day 31 in a
// 30-day month lands on the 1st of the following month.
type RolloverMonthlyCounter struct {
	Day int
}

// Elapsed counts rollover dates less than or equal to now.
func (c RolloverMonthlyCounter) Elapsed(start core.Date, now time.Time) int {
	rollover := time.Date(start.Year(), start.Month(), c.Day, 0, 0, 0, 0, time.UTC)
	if start.After(rollover) {
		rollover = time.Date(start.Year(), start.Month()+1, c.Day, 0, 0, 0, 0, time.UTC)
	}

	count := 0
	for !rollover.After(now) {
		count++
		rollover = time.Date(rollover.Year(), rollover.Month()+1, c.Day, 0, 0, 0, 0, time.UTC)
	}
	return count
}

// CalendarMonthlyCounter is the legacy monthly counter: it counts whole
// calendar months between start and now plus one, ignoring the day of month.
// It over-counts relative to RolloverMonthlyCounter when the start falls
// late in a month; both are kept as selectable behavior.
type CalendarMonthlyCounter struct{}

func (CalendarMonthlyCounter) Elapsed(start core.Date, now time.Time) int {
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	return months + 1
}

// WeeklyCounter counts whole weeks elapsed plus the starting week.
type WeeklyCounter struct{}

func (WeeklyCounter) Elapsed(start core.Date, now time.Time) int {
	weeks := int(now.Sub(start.Time) / (7 * 24 * time.Hour))
	return weeks + 1
}

// YearlyCounter counts calendar years elapsed plus the starting year.
type YearlyCounter struct{}

func (YearlyCounter) Elapsed(start core.Date, now time.Time) int {
	return now.Year() - start.Year() + 1
}

// CounterFor returns the period counter for a budget's schedule. Monthly
// budgets with a rollover day set use the rollover-aware counter; monthly
// budgets without one fall back to the legacy calendar counter.
func CounterFor(period core.PeriodType, rolloverDay int) PeriodCounter {
	switch period {
	case core.Monthly:
		if rolloverDay > 0 {
			return RolloverMonthlyCounter{Day: rolloverDay}
		}
		return CalendarMonthlyCounter{}
	case core.Weekly:
		return WeeklyCounter{}
	case core.Yearly:
		return YearlyCounter{}
	default:
		return nil
	}
}

// ElapsedPeriods returns the number of funding periods elapsed for the given
// schedule as of now. A zero start date is treated as a single current
// period; a start date in the future yields zero. now must be captured once
// by the caller so repeated calls within one computation agree.
func ElapsedPeriods(start core.Date, period core.PeriodType, rolloverDay int, now time.Time) int {
	if start.IsEmpty() {
		return 1
	}
	if start.Time.After(now) {
		return 0
	}

	counter := CounterFor(period, rolloverDay)
	if counter == nil {
		return 1
	}
	return counter.Elapsed(start, now)
}
