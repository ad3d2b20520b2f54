package stats

import (
	"math"
	"strconv"
	"time"

	"gigtrack/internal/core"
)

// TargetProgress is the derived view of a target: how far along it is,
// how much period is left, and what daily pace would still reach it.
type TargetProgress struct {
	Percent      float64    `json:"percent"`     // clamped at 100
	Remaining    core.Money `json:"-"`           // clamped at 0
	IsCompleted  bool       `json:"isCompleted"`
	DaysLeft     int        `json:"daysLeft"`
	TimeLeft     string     `json:"timeLeft"` // "Expired", "Today", "1 day left", "N days left"
	DailyNeeded  core.Money `json:"-"`        // remaining spread over the days left
	DailyAverage core.Money `json:"-"`        // current spread over the nominal period length
}

// Progress computes the progress view for a target at the given time.
//
// Percent clamps at 100 and Remaining at zero: over-achievement is
// reported as a completed target, never as a negative amount still
// "needed". Period end is start + 1 day / 7 days / 1 calendar month.
func Progress(t core.Target, now time.Time) TargetProgress {
	var p TargetProgress

	if t.Amount.Cents > 0 {
		p.Percent = math.Min(float64(t.Current.Cents)/float64(t.Amount.Cents)*100, 100)
	}
	p.IsCompleted = p.Percent >= 100

	if rem := t.Amount.Cents - t.Current.Cents; rem > 0 {
		p.Remaining = core.Money{Cents: rem}
	}

	end := t.Period.End(t.StartDate)
	p.DaysLeft = int(math.Ceil(end.Sub(now).Hours() / 24))
	p.TimeLeft = timeLeftLabel(p.DaysLeft)
	// A daily target inside its final 24 hours is today's goal, not
	// "1 day left".
	if t.Period == core.Daily && p.DaysLeft == 1 {
		p.TimeLeft = "Today"
	}

	p.DailyNeeded = core.Money{Cents: divideRound(p.Remaining.Cents, int64(max(1, p.DaysLeft)))}
	p.DailyAverage = core.Money{Cents: divideRound(t.Current.Cents, int64(t.Period.Days()))}

	return p
}

func timeLeftLabel(daysLeft int) string {
	switch {
	case daysLeft < 0:
		return "Expired"
	case daysLeft == 0:
		return "Today"
	case daysLeft == 1:
		return "1 day left"
	default:
		return strconv.Itoa(daysLeft) + " days left"
	}
}

// divideRound divides cents by n with half-up rounding. n must be > 0.
func divideRound(cents, n int64) int64 {
	return (cents + n/2) / n
}
