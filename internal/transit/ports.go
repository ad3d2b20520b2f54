package transit

import (
	"context"

	"gigtrack/internal/core"
)

// Caps on how many upstream records a single query may return.
const (
	MaxFlights  = 10
	MaxJourneys = 8
)

// JourneyQuery describes a ground-transport lookup between two stops.
// Kind is "train" or "bus"; Date is YYYY-MM-DD and Time is HH:MM.
type JourneyQuery struct {
	From string
	To   string
	Kind core.EventKind
	Date string
	Time string
}

// Ports for outbound adapters.
type (
	FlightReader interface {
		Flights(ctx context.Context, iataCode, date string) ([]core.TimedEvent, error)
	}

	JourneyReader interface {
		Journeys(ctx context.Context, q JourneyQuery) ([]core.TimedEvent, error)
	}

	// EventReader lists scheduled city events that drive ride demand.
	EventReader interface {
		Events(ctx context.Context, city string) ([]core.TimedEvent, error)
	}

	// Source is the full arrivals surface a city view needs.
	Source interface {
		FlightReader
		JourneyReader
		EventReader
	}
)
