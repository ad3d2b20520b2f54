package stats

import (
	"gigtrack/internal/core"
)

// Dated is any record carrying a calendar date.
type Dated interface {
	When() core.Date
}

// FilterByDateRange returns the subsequence of entries whose date falls
// inside [from, to], inclusive on both ends at date-only granularity.
// If either bound is empty the input is returned unchanged. Relative
// order is preserved.
func FilterByDateRange[T Dated](entries []T, from, to core.Date) []T {
	if from.IsEmpty() || to.IsEmpty() {
		return entries
	}

	lo := core.DateOf(from.Time)
	hi := core.DateOf(to.Time)

	out := make([]T, 0, len(entries))
	for _, e := range entries {
		d := core.DateOf(e.When().Time)
		if d.Before(lo.Time) || d.After(hi.Time) {
			continue
		}
		out = append(out, e)
	}
	return out
}
