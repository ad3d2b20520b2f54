package stats

import (
	"testing"
	"time"

	"gigtrack/internal/core"
)

func target(period core.Period, currentCents, amountCents int64, start time.Time) core.Target {
	return core.Target{
		Amount:    core.Money{Cents: amountCents},
		Period:    period,
		Current:   core.Money{Cents: currentCents},
		StartDate: core.Date{Time: start},
	}
}

func TestProgress_Percent(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		current       int64
		amount        int64
		wantPercent   float64
		wantCompleted bool
	}{
		{name: "halfway", current: 10000, amount: 20000, wantPercent: 50, wantCompleted: false},
		{name: "over target clamps at 100", current: 25000, amount: 20000, wantPercent: 100, wantCompleted: true},
		{name: "exactly complete", current: 20000, amount: 20000, wantPercent: 100, wantCompleted: true},
		{name: "zero progress", current: 0, amount: 20000, wantPercent: 0, wantCompleted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Progress(target(core.Weekly, tt.current, tt.amount, now), now)
			if got.Percent != tt.wantPercent {
				t.Errorf("Percent = %v, want %v", got.Percent, tt.wantPercent)
			}
			if got.IsCompleted != tt.wantCompleted {
				t.Errorf("IsCompleted = %v, want %v", got.IsCompleted, tt.wantCompleted)
			}
		})
	}
}

func TestProgress_RemainingClampsAtZero(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	got := Progress(target(core.Weekly, 25000, 20000, now), now)
	if got.Remaining.Cents != 0 {
		t.Errorf("Remaining = %d, want 0 for an over-achieved target", got.Remaining.Cents)
	}
	if got.DailyNeeded.Cents != 0 {
		t.Errorf("DailyNeeded = %d, want 0 for an over-achieved target", got.DailyNeeded.Cents)
	}
}

func TestProgress_TimeLeft(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name   string
		period core.Period
		start  time.Time
		want   string
	}{
		{name: "daily started now", period: core.Daily, start: now, want: "Today"},
		{name: "weekly six days in", period: core.Weekly, start: now.Add(-6 * day), want: "1 day left"},
		{name: "weekly eight days in", period: core.Weekly, start: now.Add(-8 * day), want: "Expired"},
		{name: "weekly just started", period: core.Weekly, start: now, want: "7 days left"},
		{name: "monthly started now", period: core.Monthly, start: now, want: "30 days left"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Progress(target(tt.period, 0, 10000, tt.start), now)
			if got.TimeLeft != tt.want {
				t.Errorf("TimeLeft = %q, want %q", got.TimeLeft, tt.want)
			}
		})
	}
}

func TestProgress_DailyNeeded(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	// Weekly target: 1500 goal, 980 done, started 5 days ago -> 2 days
	// left, 520 remaining, 260/day needed.
	got := Progress(target(core.Weekly, 98000, 150000, now.Add(-5*24*time.Hour)), now)
	if got.DaysLeft != 2 {
		t.Fatalf("DaysLeft = %d, want 2", got.DaysLeft)
	}
	if got.Remaining.Cents != 52000 {
		t.Fatalf("Remaining = %d, want 52000", got.Remaining.Cents)
	}
	if got.DailyNeeded.Cents != 26000 {
		t.Errorf("DailyNeeded = %d, want 26000", got.DailyNeeded.Cents)
	}
}

func TestProgress_DailyAverage(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	got := Progress(target(core.Weekly, 70000, 150000, now), now)
	if got.DailyAverage.Cents != 10000 {
		t.Errorf("weekly DailyAverage = %d, want 10000", got.DailyAverage.Cents)
	}

	got = Progress(target(core.Monthly, 60000, 600000, now), now)
	if got.DailyAverage.Cents != 2000 {
		t.Errorf("monthly DailyAverage = %d, want 2000", got.DailyAverage.Cents)
	}
}
