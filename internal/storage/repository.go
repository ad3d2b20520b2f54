package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gigtrack/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup by ID matches no row.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateEarning implements services.EarningWriter
func (r *SQLiteRepository) CreateEarning(ctx context.Context, e core.Earning) (core.Earning, error) {
	row, err := r.queries.CreateEarning(ctx, CreateEarningParams{
		AmountCents: e.Amount.Cents,
		Platform:    e.Platform,
		Description: e.Description,
		OccurredAt:  formatDate(e.Date),
		Trips:       e.Trips,
		Minutes:     e.Minutes,
	})
	if err != nil {
		return core.Earning{}, fmt.Errorf("create earning: %w", err)
	}

	slog.InfoContext(ctx, "Earning saved to SQLite",
		"id", row.ID,
		"platform", row.Platform,
		"amount_cents", row.AmountCents,
		"occurred_at", row.OccurredAt)

	return earningFromRow(row), nil
}

// ListEarnings implements services.EarningLister
func (r *SQLiteRepository) ListEarnings(ctx context.Context) ([]core.Earning, error) {
	rows, err := r.queries.ListEarnings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list earnings: %w", err)
	}

	earnings := make([]core.Earning, len(rows))
	for i, row := range rows {
		earnings[i] = earningFromRow(row)
	}
	return earnings, nil
}

// ListEarningsBetween returns earnings in the half-open window [from, to).
func (r *SQLiteRepository) ListEarningsBetween(ctx context.Context, from, to time.Time) ([]core.Earning, error) {
	rows, err := r.queries.ListEarningsBetween(ctx, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("list earnings between: %w", err)
	}

	earnings := make([]core.Earning, len(rows))
	for i, row := range rows {
		earnings[i] = earningFromRow(row)
	}
	return earnings, nil
}

func (r *SQLiteRepository) DeleteEarning(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteEarning(ctx, id)
	if err != nil {
		return fmt.Errorf("delete earning: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Earning deleted", "id", id)
	return nil
}

// CreateExpense implements services.ExpenseWriter
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	row, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		AmountCents:      e.Amount.Cents,
		Category:         e.Category,
		Description:      e.Description,
		OccurredAt:       formatDate(e.Date),
		Kind:             string(e.Kind),
		Miles:            e.Miles,
		CostPerMileCents: e.CostPerMile.Cents,
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", row.ID,
		"category", row.Category,
		"amount_cents", row.AmountCents,
		"kind", row.Kind)

	return expenseFromRow(row), nil
}

// ListExpenses implements services.ExpenseLister
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	expenses := make([]core.Expense, len(rows))
	for i, row := range rows {
		expenses[i] = expenseFromRow(row)
	}
	return expenses, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) CreateTarget(ctx context.Context, t core.Target) (core.Target, error) {
	row, err := r.queries.CreateTarget(ctx, CreateTargetParams{
		AmountCents:  t.Amount.Cents,
		Period:       string(t.Period),
		CurrentCents: t.Current.Cents,
		StartDate:    formatDate(t.StartDate),
		AutoTrack:    t.AutoTrack,
	})
	if err != nil {
		return core.Target{}, fmt.Errorf("create target: %w", err)
	}

	slog.InfoContext(ctx, "Target saved to SQLite",
		"id", row.ID,
		"period", row.Period,
		"amount_cents", row.AmountCents,
		"auto_track", row.AutoTrack)

	return targetFromRow(row), nil
}

func (r *SQLiteRepository) ListTargets(ctx context.Context) ([]core.Target, error) {
	rows, err := r.queries.ListTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}

	targets := make([]core.Target, len(rows))
	for i, row := range rows {
		targets[i] = targetFromRow(row)
	}
	return targets, nil
}

func (r *SQLiteRepository) GetTarget(ctx context.Context, id int64) (core.Target, error) {
	row, err := r.queries.GetTarget(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Target{}, ErrNotFound
	}
	if err != nil {
		return core.Target{}, fmt.Errorf("get target: %w", err)
	}
	return targetFromRow(row), nil
}

func (r *SQLiteRepository) UpdateTargetCurrent(ctx context.Context, id int64, current core.Money) error {
	n, err := r.queries.UpdateTargetCurrent(ctx, id, current.Cents)
	if err != nil {
		return fmt.Errorf("update target current: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetTarget starts a fresh period for the target.
func (r *SQLiteRepository) ResetTarget(ctx context.Context, id int64, start core.Date) error {
	n, err := r.queries.ResetTarget(ctx, id, formatDate(start))
	if err != nil {
		return fmt.Errorf("reset target: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Target period reset", "id", id, "start_date", formatDate(start))
	return nil
}

func (r *SQLiteRepository) DeleteTarget(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteTarget(ctx, id)
	if err != nil {
		return fmt.Errorf("delete target: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Target deleted", "id", id)
	return nil
}

// ListPlatforms returns the seeded platforms plus any custom ones.
func (r *SQLiteRepository) ListPlatforms(ctx context.Context) ([]string, error) {
	names, err := r.queries.ListPlatforms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	return names, nil
}

func (r *SQLiteRepository) AddPlatform(ctx context.Context, name string) error {
	if err := r.queries.AddPlatform(ctx, name); err != nil {
		return fmt.Errorf("add platform: %w", err)
	}
	return nil
}

// ListCategories returns the seeded expense categories plus any custom ones.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	names, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return names, nil
}

func (r *SQLiteRepository) AddCategory(ctx context.Context, name string) error {
	if err := r.queries.AddCategory(ctx, name); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}

func formatDate(d core.Date) string {
	return d.UTC().Format(time.RFC3339)
}

func parseDate(s string) core.Date {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}

func earningFromRow(row EarningRow) core.Earning {
	return core.Earning{
		ID:          row.ID,
		Amount:      core.Money{Cents: row.AmountCents},
		Platform:    row.Platform,
		Description: row.Description,
		Date:        parseDate(row.OccurredAt),
		Trips:       row.Trips,
		Minutes:     row.Minutes,
	}
}

func expenseFromRow(row ExpenseRow) core.Expense {
	return core.Expense{
		ID:          row.ID,
		Amount:      core.Money{Cents: row.AmountCents},
		Category:    row.Category,
		Description: row.Description,
		Date:        parseDate(row.OccurredAt),
		Kind:        core.ExpenseKind(row.Kind),
		Miles:       row.Miles,
		CostPerMile: core.Money{Cents: row.CostPerMileCents},
	}
}

func targetFromRow(row TargetRow) core.Target {
	return core.Target{
		ID:        row.ID,
		Amount:    core.Money{Cents: row.AmountCents},
		Period:    core.Period(row.Period),
		Current:   core.Money{Cents: row.CurrentCents},
		StartDate: parseDate(row.StartDate),
		AutoTrack: row.AutoTrack,
	}
}
