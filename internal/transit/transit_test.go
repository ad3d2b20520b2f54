package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gigtrack/internal/core"
)

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	ctx := context.Background()

	flights, err := c.Flights(ctx, "SFO", "2024-06-15")
	if err != nil || len(flights) == 0 {
		t.Fatalf("Flights() = %v, %v", flights, err)
	}
	for _, f := range flights {
		if f.Kind != core.KindFlight {
			t.Errorf("flight kind = %q", f.Kind)
		}
	}

	trains, err := c.Journeys(ctx, JourneyQuery{Kind: core.KindTrain})
	if err != nil || len(trains) == 0 {
		t.Fatalf("Journeys(train) = %v, %v", trains, err)
	}
	buses, _ := c.Journeys(ctx, JourneyQuery{Kind: core.KindBus})
	if trains[0].Kind != core.KindTrain || buses[0].Kind != core.KindBus {
		t.Errorf("journey kinds = %q, %q", trains[0].Kind, buses[0].Kind)
	}

	events, err := c.Events(ctx, "San Francisco")
	if err != nil || len(events) == 0 {
		t.Fatalf("Events() = %v, %v", events, err)
	}
}

func TestLocalClock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "upstream local format", input: "2024-06-15 14:30-07:00", want: "14:30"},
		{name: "rfc3339", input: "2024-06-15T09:05:00-07:00", want: "09:05"},
		{name: "empty", input: "", want: "TBD"},
		{name: "garbage", input: "soon", want: "TBD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := localClock(tt.input); got != tt.want {
				t.Errorf("localClock(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFlightEvent(t *testing.T) {
	var f aeroFlight
	f.Number = "AA 1234"
	f.Airline.Name = "American Airlines"
	f.Departure.Airport.Name = "New York JFK"
	f.Departure.Airport.IATA = "JFK"
	f.Arrival.Airport.IATA = "SFO"
	f.Arrival.ScheduledTime.Local = "2024-06-15 14:30-07:00"
	f.Arrival.Terminal = "2"
	f.Aircraft.Model = "B738"

	ev := flightEvent(f, 0, "SFO")
	if ev.ID != "flight-0" {
		t.Errorf("ID = %q", ev.ID)
	}
	if ev.Title != "American Airlines AA 1234 - New York JFK" {
		t.Errorf("Title = %q", ev.Title)
	}
	if ev.Time != "14:30" {
		t.Errorf("Time = %q", ev.Time)
	}
	if ev.Location != "SFO Terminal 2" {
		t.Errorf("Location = %q", ev.Location)
	}
	if ev.Details != "Arrival from JFK" {
		t.Errorf("Details = %q", ev.Details)
	}
	if ev.Passengers < 100 || ev.Passengers > 299 {
		t.Errorf("Passengers = %d, want synthesized load in [100, 299]", ev.Passengers)
	}
}

func TestFlightEvent_MissingFields(t *testing.T) {
	var f aeroFlight

	ev := flightEvent(f, 3, "SFO")
	if ev.Title != "Unknown  - Unknown" && ev.Title != "Unknown - Unknown" {
		t.Errorf("Title = %q, want Unknown fallbacks", ev.Title)
	}
	if ev.Time != "TBD" {
		t.Errorf("Time = %q, want TBD", ev.Time)
	}
	if ev.Location != "SFO" {
		t.Errorf("Location = %q, want fallback to requested code", ev.Location)
	}
	if ev.Passengers != 0 {
		t.Errorf("Passengers = %d, want 0 without an aircraft model", ev.Passengers)
	}
}

func TestJourneyEvent(t *testing.T) {
	var r transportRoute
	r.Destination = "Oxford"
	r.RouteParts = []struct {
		Mode          string `json:"mode"`
		LineName      string `json:"line_name"`
		Service       string `json:"service"`
		DepartureTime string `json:"departure_time"`
		FromPointName string `json:"from_point_name"`
	}{
		{Mode: "train", LineName: "GWR", DepartureTime: "14:15", FromPointName: "Paddington"},
	}

	ev := journeyEvent(r, 1, JourneyQuery{From: "London", To: "Oxford", Kind: core.KindTrain})
	if ev.ID != "train-1" {
		t.Errorf("ID = %q", ev.ID)
	}
	if ev.Title != "GWR - Oxford" {
		t.Errorf("Title = %q", ev.Title)
	}
	if ev.Kind != core.KindTrain {
		t.Errorf("Kind = %q", ev.Kind)
	}
	if ev.Time != "14:15" || ev.Location != "Paddington" {
		t.Errorf("Time/Location = %q/%q", ev.Time, ev.Location)
	}
	if ev.Passengers < 50 || ev.Passengers > 199 {
		t.Errorf("Passengers = %d, want synthesized load in [50, 199]", ev.Passengers)
	}
}

func TestJourneyEvent_Fallbacks(t *testing.T) {
	ev := journeyEvent(transportRoute{}, 0, JourneyQuery{From: "London", To: "Oxford", Kind: core.KindBus})
	if ev.Title != "Service - Oxford" {
		t.Errorf("Title = %q", ev.Title)
	}
	if ev.Kind != core.KindBus {
		t.Errorf("Kind = %q, want bus when mode missing", ev.Kind)
	}
	if ev.Time != "TBD" || ev.Location != "London" {
		t.Errorf("Time/Location = %q/%q", ev.Time, ev.Location)
	}
}

func TestAeroDataBoxClient_Flights(t *testing.T) {
	arrivals := make([]map[string]any, 15)
	for i := range arrivals {
		arrivals[i] = map[string]any{
			"number":  fmt.Sprintf("UA %d", i),
			"airline": map[string]any{"name": "United"},
			"arrival": map[string]any{
				"airport":       map[string]any{"iata": "SFO"},
				"scheduledTime": map[string]any{"local": "2024-06-15 14:30-07:00"},
			},
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-RapidAPI-Key"); got != "test-key" {
			t.Errorf("X-RapidAPI-Key = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"arrivals": arrivals})
	}))
	defer srv.Close()

	c := NewAeroDataBoxClient("test-key")
	c.baseURL = srv.URL

	got, err := c.Flights(context.Background(), "SFO", "2024-06-15")
	if err != nil {
		t.Fatalf("Flights() error: %v", err)
	}
	if len(got) != MaxFlights {
		t.Errorf("len = %d, want cap of %d", len(got), MaxFlights)
	}
}

func TestAeroDataBoxClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewAeroDataBoxClient("test-key")
	c.baseURL = srv.URL

	if _, err := c.Flights(context.Background(), "SFO", "2024-06-15"); err == nil {
		t.Error("expected error on upstream failure")
	}
}

func TestTransportAPIClient_Journeys(t *testing.T) {
	routes := make([]map[string]any, 12)
	for i := range routes {
		routes[i] = map[string]any{
			"destination": "Oxford",
			"route_parts": []map[string]any{
				{"mode": "train", "line_name": "GWR", "departure_time": "14:15", "from_point_name": "Paddington"},
			},
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("app_id"); got != "id" {
			t.Errorf("app_id = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"routes": routes})
	}))
	defer srv.Close()

	c := NewTransportAPIClient("id", "key")
	c.baseURL = srv.URL

	got, err := c.Journeys(context.Background(), JourneyQuery{From: "London", To: "Oxford", Kind: core.KindTrain, Date: "2024-06-15", Time: "14:00"})
	if err != nil {
		t.Fatalf("Journeys() error: %v", err)
	}
	if len(got) != MaxJourneys {
		t.Errorf("len = %d, want cap of %d", len(got), MaxJourneys)
	}
}

func TestNewSource_FallsBackToCatalog(t *testing.T) {
	src := NewSource(Options{})
	if _, ok := src.(composite); !ok {
		t.Fatalf("NewSource returned %T", src)
	}
	flights, err := src.Flights(context.Background(), "SFO", "2024-06-15")
	if err != nil || len(flights) == 0 {
		t.Errorf("catalog fallback broken: %v, %v", flights, err)
	}
}

func TestFetchAll(t *testing.T) {
	got := FetchAll(context.Background(), NewCatalog(), "San Francisco", "SFO", "2024-06-15", "12:00")
	if len(got.Flights) == 0 || len(got.Trains) == 0 || len(got.Buses) == 0 || len(got.Events) == 0 {
		t.Errorf("FetchAll missing a kind: %+v", got)
	}
}
