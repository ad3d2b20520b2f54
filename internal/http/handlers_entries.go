package http

import (
	"errors"
	"log/slog"
	"net/http"

	"gigtrack/internal/core"
	"gigtrack/internal/stats"
	"gigtrack/internal/storage"
)

type earningDTO struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	AmountCents int64   `json:"amountCents"`
	Platform    string  `json:"platform"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
	Trips       int64   `json:"trips,omitempty"`
	Minutes     int64   `json:"minutes,omitempty"`
}

type expenseDTO struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	AmountCents int64   `json:"amountCents"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
	Kind        string  `json:"kind"`
	Miles       float64 `json:"miles,omitempty"`
}

type platformGroupDTO struct {
	Platform     string     `json:"platform"`
	TotalCents   int64      `json:"totalCents"`
	TotalTrips   int64      `json:"totalTrips"`
	TotalMinutes int64      `json:"totalMinutes"`
	PerTrip      stats.Rate `json:"perTrip"`
	PerHour      stats.Rate `json:"perHour"`
	Count        int        `json:"count"`
}

type categoryGroupDTO struct {
	Category   string  `json:"category"`
	TotalCents int64   `json:"totalCents"`
	TotalMiles float64 `json:"totalMiles,omitempty"`
	Count      int     `json:"count"`
}

func earningToDTO(e core.Earning) earningDTO {
	return earningDTO{
		ID:          e.ID,
		Amount:      e.Amount.Dollars(),
		AmountCents: e.Amount.Cents,
		Platform:    e.Platform,
		Description: e.Description,
		Date:        e.Date.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Trips:       e.Trips,
		Minutes:     e.Minutes,
	}
}

func expenseToDTO(e core.Expense) expenseDTO {
	return expenseDTO{
		ID:          e.ID,
		Amount:      e.Amount.Dollars(),
		AmountCents: e.Amount.Cents,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Kind:        string(e.Kind),
		Miles:       e.Miles,
	}
}

func (s *Server) handleEarnings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEarnings(w, r)
	case http.MethodPost:
		s.createEarning(w, r)
	case http.MethodDelete:
		s.deleteEarning(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listEarnings(w http.ResponseWriter, r *http.Request) {
	from, err := parseDayParam(r, "from")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDayParam(r, "to")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	earnings, err := s.store.ListEarnings(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list earnings", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list earnings")
		return
	}
	earnings = stats.FilterByDateRange(earnings, from, to)

	entries := make([]earningDTO, 0, len(earnings))
	for _, e := range earnings {
		entries = append(entries, earningToDTO(e))
	}

	groups := stats.GroupByPlatform(earnings)
	platforms := make([]platformGroupDTO, 0, len(groups))
	for _, g := range groups {
		platforms = append(platforms, platformGroupDTO{
			Platform:     g.Platform,
			TotalCents:   g.TotalAmount.Cents,
			TotalTrips:   g.TotalTrips,
			TotalMinutes: g.TotalMinutes,
			PerTrip:      g.PerTrip,
			PerHour:      g.PerHour,
			Count:        len(g.Entries),
		})
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"entries":    entries,
		"totalCents": stats.SumEarnings(earnings).Cents,
		"platforms":  platforms,
	})
}

type createEarningRequest struct {
	Amount      string `json:"amount"`
	Platform    string `json:"platform"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Trips       int64  `json:"trips"`
	Minutes     int64  `json:"minutes"`
}

func (s *Server) createEarning(w http.ResponseWriter, r *http.Request) {
	var req createEarningRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	date, err := parseEntryDate(req.Date)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	earning := core.Earning{
		Amount:      core.Money{Cents: cents},
		Platform:    sanitizeInput(req.Platform),
		Description: sanitizeInput(req.Description),
		Date:        date,
		Trips:       req.Trips,
		Minutes:     req.Minutes,
	}
	if err := earning.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.entries.AddEarning(r.Context(), earning)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save earning", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to save earning")
		return
	}

	WriteJSON(w, http.StatusCreated, earningToDTO(saved))
}

func (s *Server) deleteEarning(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.entries.RemoveEarning(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "earning not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete earning", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to delete earning")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	case http.MethodDelete:
		s.deleteExpense(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	from, err := parseDayParam(r, "from")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDayParam(r, "to")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list expenses", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	expenses = stats.FilterByDateRange(expenses, from, to)

	entries := make([]expenseDTO, 0, len(expenses))
	for _, e := range expenses {
		entries = append(entries, expenseToDTO(e))
	}

	groups := stats.GroupByCategory(expenses)
	categories := make([]categoryGroupDTO, 0, len(groups))
	for _, g := range groups {
		categories = append(categories, categoryGroupDTO{
			Category:   g.Category,
			TotalCents: g.TotalAmount.Cents,
			TotalMiles: g.TotalMiles,
			Count:      len(g.Entries),
		})
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"entries":    entries,
		"totalCents": stats.SumExpenses(expenses).Cents,
		"categories": categories,
	})
}

type createExpenseRequest struct {
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Kind        string  `json:"kind"`
	Miles       float64 `json:"miles"`
	CostPerMile string  `json:"costPerMile"`
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := parseEntryDate(req.Date)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense := core.Expense{
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Date:        date,
		Kind:        core.ExpenseKind(req.Kind),
		Miles:       req.Miles,
	}
	if expense.Kind == "" {
		expense.Kind = core.ManualExpense
	}

	switch expense.Kind {
	case core.MileageExpense:
		perMile, err := core.ParseDecimalToCents(req.CostPerMile)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid cost per mile")
			return
		}
		expense.CostPerMile = core.Money{Cents: perMile}
	default:
		cents, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid amount")
			return
		}
		expense.Amount = core.Money{Cents: cents}
	}

	saved, err := s.entries.AddExpense(r.Context(), expense)
	if err != nil {
		if isValidationError(err) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to save expense", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}

	WriteJSON(w, http.StatusCreated, expenseToDTO(saved))
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.entries.RemoveExpense(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete expense", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// isValidationError reports whether err is one of the domain validation
// sentinels, distinguishing a bad request from a storage failure.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrInvalidPeriod,
		core.ErrInvalidKind,
		core.ErrInvalidMileage,
		core.ErrEmptyPlatform,
		core.ErrEmptyCategory,
		core.ErrNegativeProgress,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
