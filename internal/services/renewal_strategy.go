// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for target period renewal.
// Each period type (daily, weekly, monthly) has its own strategy that
// decides when a target's window has ended and where the next one starts.

package services

import (
	"fmt"
	"time"

	"gigtrack/internal/core"
)

// RenewalChecker is the strategy interface for rolling an income target
// over to a fresh period.
type RenewalChecker interface {
	// Due returns true if the target's period has ended at now.
	Due(t core.Target, now time.Time) bool

	// NextStart returns the start date of the fresh period.
	NextStart(t core.Target, now time.Time) core.Date
}

// DailyRenewal implements RenewalChecker for daily targets.
type DailyRenewal struct{}

// Due returns true once the calendar day after the start date is reached.
func (DailyRenewal) Due(t core.Target, now time.Time) bool {
	return !now.Before(t.Period.End(t.StartDate))
}

// NextStart snaps a daily target to the current calendar day.
func (DailyRenewal) NextStart(_ core.Target, now time.Time) core.Date {
	return core.DateOf(now)
}

// WeeklyRenewal implements RenewalChecker for weekly targets.
type WeeklyRenewal struct{}

func (WeeklyRenewal) Due(t core.Target, now time.Time) bool {
	return !now.Before(t.Period.End(t.StartDate))
}

// NextStart advances the start in whole weeks so the weekly cadence
// stays anchored to the original start day.
func (WeeklyRenewal) NextStart(t core.Target, now time.Time) core.Date {
	start := t.StartDate
	for !now.Before(t.Period.End(start)) {
		start = core.Date{Time: start.AddDate(0, 0, 7)}
	}
	return start
}

// MonthlyRenewal implements RenewalChecker for monthly targets.
type MonthlyRenewal struct{}

func (MonthlyRenewal) Due(t core.Target, now time.Time) bool {
	return !now.Before(t.Period.End(t.StartDate))
}

// NextStart advances the start in whole calendar months.
func (MonthlyRenewal) NextStart(t core.Target, now time.Time) core.Date {
	start := t.StartDate
	for !now.Before(t.Period.End(start)) {
		start = core.Date{Time: start.AddDate(0, 1, 0)}
	}
	return start
}

// renewalStrategies maps period types to their corresponding checkers.
var renewalStrategies = map[core.Period]RenewalChecker{
	core.Daily:   DailyRenewal{},
	core.Weekly:  WeeklyRenewal{},
	core.Monthly: MonthlyRenewal{},
}

// GetRenewalChecker returns the appropriate renewal checker for a period.
// Returns an error if the period is not supported.
func GetRenewalChecker(period core.Period) (RenewalChecker, error) {
	checker, ok := renewalStrategies[period]
	if !ok {
		return nil, fmt.Errorf("unknown period: %s", period)
	}
	return checker, nil
}

// RegisterRenewalChecker allows registering custom checkers for new
// period types without modifying the registry.
func RegisterRenewalChecker(period core.Period, checker RenewalChecker) {
	renewalStrategies[period] = checker
}
