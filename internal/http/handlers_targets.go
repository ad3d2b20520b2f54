package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gigtrack/internal/core"
	"gigtrack/internal/stats"
	"gigtrack/internal/storage"
)

type targetDTO struct {
	ID           int64       `json:"id"`
	AmountCents  int64       `json:"amountCents"`
	CurrentCents int64       `json:"currentCents"`
	Period       string      `json:"period"`
	StartDate    string      `json:"startDate"`
	AutoTrack    bool        `json:"autoTrack"`
	Progress     progressDTO `json:"progress"`
}

type progressDTO struct {
	Percent           float64 `json:"percent"`
	IsCompleted       bool    `json:"isCompleted"`
	RemainingCents    int64   `json:"remainingCents"`
	DaysLeft          int     `json:"daysLeft"`
	TimeLeft          string  `json:"timeLeft"`
	DailyNeededCents  int64   `json:"dailyNeededCents"`
	DailyAverageCents int64   `json:"dailyAverageCents"`
}

func targetToDTO(t core.Target, now time.Time) targetDTO {
	p := stats.Progress(t, now)
	return targetDTO{
		ID:           t.ID,
		AmountCents:  t.Amount.Cents,
		CurrentCents: t.Current.Cents,
		Period:       string(t.Period),
		StartDate:    t.StartDate.UTC().Format("2006-01-02"),
		AutoTrack:    t.AutoTrack,
		Progress: progressDTO{
			Percent:           p.Percent,
			IsCompleted:       p.IsCompleted,
			RemainingCents:    p.Remaining.Cents,
			DaysLeft:          p.DaysLeft,
			TimeLeft:          p.TimeLeft,
			DailyNeededCents:  p.DailyNeeded.Cents,
			DailyAverageCents: p.DailyAverage.Cents,
		},
	}
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTargets(w, r)
	case http.MethodPost:
		s.createTarget(w, r)
	case http.MethodPut:
		s.updateTargetProgress(w, r)
	case http.MethodDelete:
		s.deleteTarget(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := s.store.ListTargets(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list targets", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list targets")
		return
	}

	now := time.Now()
	out := make([]targetDTO, 0, len(targets))
	for _, t := range targets {
		out = append(out, targetToDTO(t, now))
	}

	WriteJSON(w, http.StatusOK, map[string]any{"targets": out})
}

type createTargetRequest struct {
	Amount    string `json:"amount"`
	Period    string `json:"period"`
	StartDate string `json:"startDate"`
	AutoTrack bool   `json:"autoTrack"`
}

func (s *Server) createTarget(w http.ResponseWriter, r *http.Request) {
	var req createTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	start := core.DateOf(time.Now())
	if req.StartDate != "" {
		start, err = parseEntryDate(req.StartDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		start = core.DateOf(start.Time)
	}

	target := core.Target{
		Amount:    core.Money{Cents: cents},
		Period:    core.Period(req.Period),
		StartDate: start,
		AutoTrack: req.AutoTrack,
	}
	if err := target.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.store.CreateTarget(r.Context(), target)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save target", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to save target")
		return
	}

	WriteJSON(w, http.StatusCreated, targetToDTO(saved, time.Now()))
}

type updateTargetRequest struct {
	ID      int64  `json:"id"`
	Current string `json:"current"`
}

// updateTargetProgress sets the progress of a manually tracked target.
// Auto-tracked targets own their Current figure; manual edits to them
// are rejected so the next recompute cannot silently undo the edit.
func (s *Server) updateTargetProgress(w http.ResponseWriter, r *http.Request) {
	var req updateTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID <= 0 {
		WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Current)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid current amount")
		return
	}

	target, err := s.store.GetTarget(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "target not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load target", "id", req.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to load target")
		return
	}
	if target.AutoTrack {
		WriteError(w, http.StatusConflict, "target progress is tracked automatically")
		return
	}

	if err := s.store.UpdateTargetCurrent(r.Context(), req.ID, core.Money{Cents: cents}); err != nil {
		slog.ErrorContext(r.Context(), "Failed to update target", "id", req.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to update target")
		return
	}

	target.Current = core.Money{Cents: cents}
	WriteJSON(w, http.StatusOK, targetToDTO(target, time.Now()))
}

func (s *Server) deleteTarget(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.DeleteTarget(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "target not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete target", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to delete target")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleLabels serves the platform and category label lists used to
// populate entry forms. Custom labels entered on past entries show up
// here alongside the seeded ones.
func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	platforms, err := s.store.ListPlatforms(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list platforms", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list labels")
		return
	}
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list categories", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list labels")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"platforms":  platforms,
		"categories": categories,
	})
}
