package stats

import (
	"gigtrack/internal/core"
)

// DaySummary is the dashboard headline for a single calendar day.
type DaySummary struct {
	Earnings core.Money
	Expenses core.Money
	Net      core.Money // may be negative
}

// DayTotals sums the earnings and expenses falling on the given day.
func DayTotals(earnings []core.Earning, expenses []core.Expense, day core.Date) DaySummary {
	var s DaySummary
	for _, e := range earnings {
		if core.DateOf(e.Date.Time).SameDay(day) {
			s.Earnings.Cents += e.Amount.Cents
		}
	}
	for _, e := range expenses {
		if core.DateOf(e.Date.Time).SameDay(day) {
			s.Expenses.Cents += e.Amount.Cents
		}
	}
	s.Net.Cents = s.Earnings.Cents - s.Expenses.Cents
	return s
}

// SumEarnings totals the amounts of a slice of earnings.
func SumEarnings(entries []core.Earning) core.Money {
	var total core.Money
	for _, e := range entries {
		total.Cents += e.Amount.Cents
	}
	return total
}

// SumExpenses totals the amounts of a slice of expenses.
func SumExpenses(entries []core.Expense) core.Money {
	var total core.Money
	for _, e := range entries {
		total.Cents += e.Amount.Cents
	}
	return total
}
