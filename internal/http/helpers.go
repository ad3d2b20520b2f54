package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gigtrack/internal/core"
)

const maxBodyBytes = 1 << 20

// WriteJSON serializes v to the response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// WriteError writes a JSON error payload: {"error": "..."}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a size-capped JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// sanitizeInput removes control characters, keeping tab, LF and CR.
func sanitizeInput(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= 32 || r == 9 || r == 10 || r == 13 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// parseEntryDate accepts the datetime-local wire formats as well as a
// bare calendar date, always anchoring in UTC.
func parseEntryDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return core.Date{Time: t.UTC()}, nil
		}
	}
	return core.Date{}, fmt.Errorf("invalid date %q", s)
}

// parseDayParam parses an optional YYYY-MM-DD query value. An absent
// value yields the empty date, which the range filter treats as "no
// bound".
func parseDayParam(r *http.Request, name string) (core.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid %s: want YYYY-MM-DD", name)
	}
	return core.DateOf(t), nil
}

// parseIDParam parses the required id query value.
func parseIDParam(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
