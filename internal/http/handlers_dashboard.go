package http

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"gigtrack/internal/core"
	"gigtrack/internal/stats"
)

const recentActivityLimit = 10

type activityDTO struct {
	Kind        string `json:"kind"` // "earning" or "expense"
	ID          int64  `json:"id"`
	AmountCents int64  `json:"amountCents"`
	Label       string `json:"label"` // platform or category
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
}

// handleDashboard assembles the landing view: today's totals, progress
// on every target, and the latest entries across both ledgers.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := r.Context()
	earnings, err := s.store.ListEarnings(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list earnings", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list expenses", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	targets, err := s.store.ListTargets(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list targets", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	now := time.Now()
	day := stats.DayTotals(earnings, expenses, core.DateOf(now))

	targetViews := make([]targetDTO, 0, len(targets))
	for _, t := range targets {
		targetViews = append(targetViews, targetToDTO(t, now))
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"today": map[string]int64{
			"earningsCents": day.Earnings.Cents,
			"expensesCents": day.Expenses.Cents,
			"netCents":      day.Net.Cents,
		},
		"targets": targetViews,
		"recent":  recentActivity(earnings, expenses),
	})
}

// recentActivity merges both ledgers newest-first, capped at
// recentActivityLimit entries.
func recentActivity(earnings []core.Earning, expenses []core.Expense) []activityDTO {
	out := make([]activityDTO, 0, len(earnings)+len(expenses))
	for _, e := range earnings {
		out = append(out, activityDTO{
			Kind:        "earning",
			ID:          e.ID,
			AmountCents: e.Amount.Cents,
			Label:       e.Platform,
			Description: e.Description,
			Date:        e.Date.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	for _, e := range expenses {
		out = append(out, activityDTO{
			Kind:        "expense",
			ID:          e.ID,
			AmountCents: e.Amount.Cents,
			Label:       e.Category,
			Description: e.Description,
			Date:        e.Date.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > recentActivityLimit {
		out = out[:recentActivityLimit]
	}
	return out
}
