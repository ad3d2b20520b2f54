// Package stats implements the aggregation engine: pure functions that
// turn raw earning, expense and arrival records into grouped,
// time-windowed and percentage-complete views. Every function here is
// synchronous and total over its input; no I/O, no shared state.
package stats

import (
	"sort"
	"strconv"
	"strings"

	"gigtrack/internal/core"
)

// UnknownHour is the bucket key for events whose time field cannot be
// parsed. It sorts after every valid "HH:00 - HH:59" range.
const UnknownHour = "unknown"

// HourlyBucket aggregates the TimedEvents sharing one calendar hour.
type HourlyBucket struct {
	HourRange       string   `json:"hourRange"` // "14:00 - 14:59"
	Count           int      `json:"count"`
	Locations       []string `json:"locations"` // distinct first tokens, first-seen order
	TotalPassengers int64    `json:"totalPassengers"`
}

// GroupByHour buckets events by the hour component of their time field.
// Buckets are returned in ascending hour order; an empty input yields an
// empty (nil) result. Hours are re-padded to two digits so that "9:05"
// and "09:05" land in the same bucket and lexical ordering stays valid.
// Events with a malformed time go into a trailing UnknownHour bucket.
func GroupByHour(events []core.TimedEvent) []HourlyBucket {
	if len(events) == 0 {
		return nil
	}

	buckets := make(map[string]*HourlyBucket)
	for _, ev := range events {
		key, ok := hourRange(ev.Time)
		if !ok {
			key = UnknownHour
		}
		b := buckets[key]
		if b == nil {
			b = &HourlyBucket{HourRange: key}
			buckets[key] = b
		}
		b.Count++
		b.TotalPassengers += ev.Passengers
		if tok := locationToken(ev.Location); tok != "" && !contains(b.Locations, tok) {
			b.Locations = append(b.Locations, tok)
		}
	}

	out := make([]HourlyBucket, 0, len(buckets))
	for key, b := range buckets {
		if key == UnknownHour {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HourRange < out[j].HourRange })
	if b, ok := buckets[UnknownHour]; ok {
		out = append(out, *b)
	}
	return out
}

// hourRange parses the hour preceding the first ':' and formats the
// bucket key. Returns false for a missing colon or an hour outside 0-23.
func hourRange(t string) (string, bool) {
	idx := strings.IndexByte(t, ':')
	if idx < 0 {
		return "", false
	}
	h, err := strconv.Atoi(strings.TrimSpace(t[:idx]))
	if err != nil || h < 0 || h > 23 {
		return "", false
	}
	hh := strconv.Itoa(h)
	if h < 10 {
		hh = "0" + hh
	}
	return hh + ":00 - " + hh + ":59", true
}

// locationToken returns the first whitespace-delimited token of a
// location string, e.g. "SFO" for "SFO Terminal 2".
func locationToken(location string) string {
	fields := strings.Fields(location)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
