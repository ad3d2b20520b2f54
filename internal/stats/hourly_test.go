package stats

import (
	"reflect"
	"testing"

	"gigtrack/internal/core"
)

func TestGroupByHour_EmptyInput(t *testing.T) {
	if got := GroupByHour(nil); len(got) != 0 {
		t.Errorf("GroupByHour(nil) = %v, want empty", got)
	}
	if got := GroupByHour([]core.TimedEvent{}); len(got) != 0 {
		t.Errorf("GroupByHour(empty) = %v, want empty", got)
	}
}

func TestGroupByHour_Scenario(t *testing.T) {
	// Three flights, two in the 14:00 hour and one in the 15:00 hour,
	// all arriving at SFO terminals.
	events := []core.TimedEvent{
		{ID: "1", Kind: core.KindFlight, Time: "14:05", Location: "SFO Terminal 2", Passengers: 180},
		{ID: "2", Kind: core.KindFlight, Time: "14:45", Location: "SFO Terminal 3", Passengers: 150},
		{ID: "3", Kind: core.KindFlight, Time: "15:10", Location: "SFO Terminal 1", Passengers: 120},
	}

	got := GroupByHour(events)
	want := []HourlyBucket{
		{HourRange: "14:00 - 14:59", Count: 2, Locations: []string{"SFO"}, TotalPassengers: 330},
		{HourRange: "15:00 - 15:59", Count: 1, Locations: []string{"SFO"}, TotalPassengers: 120},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupByHour() = %+v, want %+v", got, want)
	}
}

func TestGroupByHour_SameHourSingleBucket(t *testing.T) {
	events := []core.TimedEvent{
		{Time: "09:00", Location: "Embarcadero Station", Passengers: 300},
		{Time: "09:15", Location: "4th & King Station", Passengers: 200},
		{Time: "09:59", Location: "Embarcadero Station", Passengers: 100},
	}

	got := GroupByHour(events)
	if len(got) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(got))
	}
	if got[0].Count != len(events) {
		t.Errorf("Count = %d, want %d", got[0].Count, len(events))
	}
	wantLocs := []string{"Embarcadero", "4th"}
	if !reflect.DeepEqual(got[0].Locations, wantLocs) {
		t.Errorf("Locations = %v, want %v (first-seen order, no duplicates)", got[0].Locations, wantLocs)
	}
}

func TestGroupByHour_PassengerPreservation(t *testing.T) {
	events := []core.TimedEvent{
		{Time: "08:10", Passengers: 50},
		{Time: "12:30", Passengers: 0}, // untracked
		{Time: "08:40", Passengers: 45},
		{Time: "19:05", Passengers: 41000},
	}

	var wantTotal int64
	for _, ev := range events {
		wantTotal += ev.Passengers
	}
	var gotTotal int64
	for _, b := range GroupByHour(events) {
		gotTotal += b.TotalPassengers
	}
	if gotTotal != wantTotal {
		t.Errorf("total passengers across buckets = %d, want %d", gotTotal, wantTotal)
	}
}

func TestGroupByHour_PadsSingleDigitHours(t *testing.T) {
	// "9:05" and "09:30" must land in the same, correctly sorted bucket.
	events := []core.TimedEvent{
		{Time: "14:00"},
		{Time: "9:05"},
		{Time: "09:30"},
	}

	got := GroupByHour(events)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %+v", len(got), got)
	}
	if got[0].HourRange != "09:00 - 09:59" || got[0].Count != 2 {
		t.Errorf("first bucket = %+v, want 09:00 - 09:59 with count 2", got[0])
	}
	if got[1].HourRange != "14:00 - 14:59" {
		t.Errorf("second bucket = %+v, want 14:00 - 14:59", got[1])
	}
}

func TestGroupByHour_MalformedTimes(t *testing.T) {
	tests := []struct {
		name string
		time string
	}{
		{name: "missing colon", time: "1430"},
		{name: "empty", time: ""},
		{name: "non-numeric hour", time: "ab:30"},
		{name: "hour out of range", time: "25:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupByHour([]core.TimedEvent{
				{Time: "10:00"},
				{Time: tt.time},
			})
			if len(got) != 2 {
				t.Fatalf("expected 2 buckets, got %d: %+v", len(got), got)
			}
			if got[len(got)-1].HourRange != UnknownHour {
				t.Errorf("last bucket = %q, want trailing %q bucket", got[len(got)-1].HourRange, UnknownHour)
			}
		})
	}
}

func TestGroupByHour_BucketOrderAscending(t *testing.T) {
	events := []core.TimedEvent{
		{Time: "19:05"}, {Time: "08:00"}, {Time: "14:30"}, {Time: "09:00"},
	}

	got := GroupByHour(events)
	for i := 1; i < len(got); i++ {
		if got[i-1].HourRange >= got[i].HourRange {
			t.Errorf("buckets out of order: %q before %q", got[i-1].HourRange, got[i].HourRange)
		}
	}
}
