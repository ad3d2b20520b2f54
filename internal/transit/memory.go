package transit

import (
	"context"

	"gigtrack/internal/core"
)

// Catalog is a deterministic in-memory source used when no upstream API
// credentials are configured. The data mirrors a typical San Francisco
// day so the city views stay usable offline.
type Catalog struct{}

func NewCatalog() *Catalog {
	return &Catalog{}
}

var _ Source = (*Catalog)(nil)

var catalogFlights = []core.TimedEvent{
	{ID: "1", Title: "AA 1234 - New York", Kind: core.KindFlight, Time: "14:30", Location: "SFO Terminal 2", Details: "Arrival from JFK", Passengers: 180, Terminal: "Terminal 2"},
	{ID: "2", Title: "UA 567 - Los Angeles", Kind: core.KindFlight, Time: "15:45", Location: "SFO Terminal 3", Details: "Arrival from LAX", Passengers: 150, Terminal: "Terminal 3"},
	{ID: "3", Title: "DL 890 - Seattle", Kind: core.KindFlight, Time: "16:20", Location: "SFO Terminal 1", Details: "Arrival from SEA", Passengers: 120, Terminal: "Terminal 1"},
}

var catalogTrains = []core.TimedEvent{
	{ID: "4", Title: "Caltrain 152", Kind: core.KindTrain, Time: "14:15", Location: "4th & King Station", Details: "From San Jose", Passengers: 200},
	{ID: "5", Title: "BART - Richmond", Kind: core.KindTrain, Time: "14:42", Location: "Embarcadero Station", Details: "East Bay service", Passengers: 300},
}

var catalogBuses = []core.TimedEvent{
	{ID: "6", Title: "Greyhound 1458", Kind: core.KindBus, Time: "15:30", Location: "Transbay Terminal", Details: "From Sacramento", Passengers: 50},
	{ID: "7", Title: "Megabus 123", Kind: core.KindBus, Time: "16:00", Location: "Caltrain Station", Details: "From Los Angeles", Passengers: 45},
}

var catalogEvents = []core.TimedEvent{
	{ID: "8", Title: "Giants vs Dodgers", Kind: core.KindEvent, Time: "19:05", Location: "Oracle Park", Details: "MLB Game - High demand expected", Passengers: 41000},
	{ID: "9", Title: "Tech Conference 2024", Kind: core.KindEvent, Time: "09:00", Location: "Moscone Center", Details: "Day 2 of 3-day event", Passengers: 5000},
}

func (c *Catalog) Flights(_ context.Context, _, _ string) ([]core.TimedEvent, error) {
	return clone(catalogFlights, MaxFlights), nil
}

func (c *Catalog) Journeys(_ context.Context, q JourneyQuery) ([]core.TimedEvent, error) {
	switch q.Kind {
	case core.KindBus:
		return clone(catalogBuses, MaxJourneys), nil
	default:
		return clone(catalogTrains, MaxJourneys), nil
	}
}

func (c *Catalog) Events(_ context.Context, _ string) ([]core.TimedEvent, error) {
	return clone(catalogEvents, 0), nil
}

func clone(events []core.TimedEvent, limit int) []core.TimedEvent {
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return append([]core.TimedEvent(nil), events...)
}
