package transit

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"gigtrack/internal/core"
)

// Options carries the upstream credentials. Any source left without
// credentials falls back to the in-memory catalog.
type Options struct {
	AeroDataBoxKey  string
	TransportAppID  string
	TransportAppKey string
}

type composite struct {
	FlightReader
	JourneyReader
	EventReader
}

// NewSource builds the arrivals source for the configured credentials.
// Scheduled city events always come from the catalog; there is no
// upstream feed for them.
func NewSource(opts Options) Source {
	catalog := NewCatalog()
	src := composite{
		FlightReader:  catalog,
		JourneyReader: catalog,
		EventReader:   catalog,
	}

	if opts.AeroDataBoxKey != "" {
		src.FlightReader = NewAeroDataBoxClient(opts.AeroDataBoxKey)
	}
	if opts.TransportAppID != "" && opts.TransportAppKey != "" {
		src.JourneyReader = NewTransportAPIClient(opts.TransportAppID, opts.TransportAppKey)
	}

	slog.Info("Arrivals source configured",
		"flights_live", opts.AeroDataBoxKey != "",
		"journeys_live", opts.TransportAppID != "" && opts.TransportAppKey != "")

	return src
}

// CityArrivals is one city snapshot across every arrival kind.
type CityArrivals struct {
	Flights []core.TimedEvent `json:"flights"`
	Trains  []core.TimedEvent `json:"trains"`
	Buses   []core.TimedEvent `json:"buses"`
	Events  []core.TimedEvent `json:"events"`
}

// FetchAll queries every arrival kind concurrently. A failing kind
// degrades to an empty list rather than failing the whole snapshot.
func FetchAll(ctx context.Context, src Source, city, iataCode, date, clock string) CityArrivals {
	var arrivals CityArrivals

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		flights, err := src.Flights(ctx, iataCode, date)
		if err != nil {
			slog.WarnContext(ctx, "Flight fetch failed", "iata", iataCode, "error", err)
			return nil
		}
		arrivals.Flights = flights
		return nil
	})
	g.Go(func() error {
		trains, err := src.Journeys(ctx, JourneyQuery{From: city, To: city + " Centre", Kind: core.KindTrain, Date: date, Time: clock})
		if err != nil {
			slog.WarnContext(ctx, "Train fetch failed", "city", city, "error", err)
			return nil
		}
		arrivals.Trains = trains
		return nil
	})
	g.Go(func() error {
		buses, err := src.Journeys(ctx, JourneyQuery{From: city, To: city + " Centre", Kind: core.KindBus, Date: date, Time: clock})
		if err != nil {
			slog.WarnContext(ctx, "Bus fetch failed", "city", city, "error", err)
			return nil
		}
		arrivals.Buses = buses
		return nil
	})
	g.Go(func() error {
		events, err := src.Events(ctx, city)
		if err != nil {
			slog.WarnContext(ctx, "Event fetch failed", "city", city, "error", err)
			return nil
		}
		arrivals.Events = events
		return nil
	})
	g.Wait()

	return arrivals
}
