package http

import (
	"log/slog"
	"net/http"

	"gigtrack/internal/core"
	"gigtrack/internal/transit"
)

// The /functions endpoints keep the wire contract of the edge functions
// the mobile client already speaks: permissive CORS, POST bodies, and
// error payloads that still carry empty result arrays.

func writeCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

type flightDataRequest struct {
	IataCode string `json:"iataCode"`
	Date     string `json:"date"`
}

func (s *Server) handleFlightData(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req flightDataRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   err.Error(),
			"flights": []core.TimedEvent{},
		})
		return
	}

	key := "flight:" + req.IataCode + ":" + req.Date
	flights, ok := s.flightCache.Get(key)
	if !ok {
		token := s.generations.Next(key)
		var err error
		flights, err = s.arrival.Flights(r.Context(), req.IataCode, req.Date)
		if err != nil {
			slog.ErrorContext(r.Context(), "Flight lookup failed",
				"iata", req.IataCode, "date", req.Date, "error", err)
			WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   err.Error(),
				"flights": []core.TimedEvent{},
			})
			return
		}
		if s.generations.Current(key, token) {
			s.flightCache.Set(key, flights)
		}
	}

	if flights == nil {
		flights = []core.TimedEvent{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"flights": flights})
}

type transportDataRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
	Date string `json:"date"`
	Time string `json:"time"`
}

func (s *Server) handleTransportData(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req transportDataRequest
	if err := decodeJSON(r, &req); err != nil {
		writeTransportError(w, err.Error())
		return
	}

	kind := core.EventKind(req.Type)
	if kind != core.KindTrain && kind != core.KindBus {
		writeTransportError(w, "invalid transport type")
		return
	}

	key := "transport:" + req.From + ":" + req.To + ":" + req.Type + ":" + req.Date + ":" + req.Time
	journeys, ok := s.transportCache.Get(key)
	if !ok {
		token := s.generations.Next(key)
		var err error
		journeys, err = s.arrival.Journeys(r.Context(), transit.JourneyQuery{
			From: req.From,
			To:   req.To,
			Kind: kind,
			Date: req.Date,
			Time: req.Time,
		})
		if err != nil {
			slog.ErrorContext(r.Context(), "Transport lookup failed",
				"from", req.From, "to", req.To, "type", req.Type, "error", err)
			writeTransportError(w, err.Error())
			return
		}
		if s.generations.Current(key, token) {
			s.transportCache.Set(key, journeys)
		}
	}

	if journeys == nil {
		journeys = []core.TimedEvent{}
	}
	// The client indexes the response by the requested type, e.g.
	// {"trains": [...]} for type "train".
	WriteJSON(w, http.StatusOK, map[string]any{req.Type + "s": journeys})
}

func writeTransportError(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusInternalServerError, map[string]any{
		"error":  msg,
		"trains": []core.TimedEvent{},
		"buses":  []core.TimedEvent{},
	})
}
