package http

import (
	"net/http"
	"time"

	"gigtrack/internal/core"
	"gigtrack/internal/stats"
	"gigtrack/internal/transit"
)

// handleCityArrivals serves a city snapshot across every arrival kind,
// bucketed by hour so a driver can see when demand peaks. Snapshots are
// cached per city and day; a cache miss fetches all kinds concurrently.
func (s *Server) handleCityArrivals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	city := sanitizeInput(r.URL.Query().Get("city"))
	if city == "" {
		WriteError(w, http.StatusBadRequest, "missing city")
		return
	}
	iata := sanitizeInput(r.URL.Query().Get("iata"))

	now := time.Now().UTC()
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")

	key := "city:" + city + ":" + iata + ":" + date
	arrivals, ok := s.cityCache.Get(key)
	if !ok {
		token := s.generations.Next(key)
		arrivals = transit.FetchAll(r.Context(), s.arrival, city, iata, date, clock)
		// A newer request for the same city superseded this fetch;
		// serve the result but leave the cache to the winner.
		if s.generations.Current(key, token) {
			s.cityCache.Set(key, arrivals)
		}
	}

	kind := r.URL.Query().Get("kind")
	events, err := selectKind(arrivals, kind)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	hourly := stats.GroupByHour(events)
	if hourly == nil {
		hourly = []stats.HourlyBucket{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"city":     city,
		"date":     date,
		"arrivals": arrivals,
		"hourly":   hourly,
	})
}

// selectKind picks the event list the hourly view is computed over. An
// empty kind means every list combined.
func selectKind(a transit.CityArrivals, kind string) ([]core.TimedEvent, error) {
	switch core.EventKind(kind) {
	case "":
		all := make([]core.TimedEvent, 0, len(a.Flights)+len(a.Trains)+len(a.Buses)+len(a.Events))
		all = append(all, a.Flights...)
		all = append(all, a.Trains...)
		all = append(all, a.Buses...)
		all = append(all, a.Events...)
		return all, nil
	case core.KindFlight:
		return a.Flights, nil
	case core.KindTrain:
		return a.Trains, nil
	case core.KindBus:
		return a.Buses, nil
	case core.KindEvent:
		return a.Events, nil
	}
	return nil, core.EventKind(kind).Validate()
}
