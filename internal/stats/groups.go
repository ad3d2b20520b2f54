package stats

import (
	"gigtrack/internal/core"
)

// PlatformGroup is the per-platform rollup of a sequence of earnings.
// Entries keep their original relative order; groups appear in
// first-seen order.
type PlatformGroup struct {
	Platform     string         `json:"platform"`
	Entries      []core.Earning `json:"-"`
	TotalAmount  core.Money     `json:"-"`
	TotalTrips   int64          `json:"totalTrips"`
	TotalMinutes int64          `json:"totalMinutes"`
	PerTrip      Rate           `json:"perTrip"`
	PerHour      Rate           `json:"perHour"`
}

// CategoryGroup is the per-category rollup of a sequence of expenses.
type CategoryGroup struct {
	Category    string         `json:"category"`
	Entries     []core.Expense `json:"-"`
	TotalAmount core.Money     `json:"-"`
	TotalMiles  float64        `json:"totalMiles,omitempty"`
}

// GroupByPlatform groups earnings by platform label. Custom platform
// labels entered at creation time are ordinary keys here, so a
// free-text platform forms its own group exactly like a built-in one.
func GroupByPlatform(entries []core.Earning) []PlatformGroup {
	var order []string
	groups := make(map[string]*PlatformGroup)

	for _, e := range entries {
		g := groups[e.Platform]
		if g == nil {
			g = &PlatformGroup{Platform: e.Platform}
			groups[e.Platform] = g
			order = append(order, e.Platform)
		}
		g.Entries = append(g.Entries, e)
		g.TotalAmount.Cents += e.Amount.Cents
		g.TotalTrips += e.Trips
		g.TotalMinutes += e.Minutes
	}

	out := make([]PlatformGroup, 0, len(order))
	for _, name := range order {
		g := groups[name]
		g.PerTrip = PerTripRate(g.TotalAmount, g.TotalTrips)
		g.PerHour = PerHourRate(g.TotalAmount, g.TotalMinutes)
		out = append(out, *g)
	}
	return out
}

// GroupByCategory groups expenses by category label, preserving
// relative entry order within each group and first-seen group order.
func GroupByCategory(entries []core.Expense) []CategoryGroup {
	var order []string
	groups := make(map[string]*CategoryGroup)

	for _, e := range entries {
		g := groups[e.Category]
		if g == nil {
			g = &CategoryGroup{Category: e.Category}
			groups[e.Category] = g
			order = append(order, e.Category)
		}
		g.Entries = append(g.Entries, e)
		g.TotalAmount.Cents += e.Amount.Cents
		g.TotalMiles += e.Miles
	}

	out := make([]CategoryGroup, 0, len(order))
	for _, name := range order {
		out = append(out, *groups[name])
	}
	return out
}
