package storage

import (
	"context"
	"database/sql"
)

// Queries wraps the raw SQL for each table. Callers use SQLiteRepository,
// which converts between rows and core types.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type EarningRow struct {
	ID          int64
	AmountCents int64
	Platform    string
	Description string
	OccurredAt  string
	Trips       int64
	Minutes     int64
}

type ExpenseRow struct {
	ID               int64
	AmountCents      int64
	Category         string
	Description      string
	OccurredAt       string
	Kind             string
	Miles            float64
	CostPerMileCents int64
}

type TargetRow struct {
	ID           int64
	AmountCents  int64
	Period       string
	CurrentCents int64
	StartDate    string
	AutoTrack    bool
}

type CreateEarningParams struct {
	AmountCents int64
	Platform    string
	Description string
	OccurredAt  string
	Trips       int64
	Minutes     int64
}

func (q *Queries) CreateEarning(ctx context.Context, arg CreateEarningParams) (EarningRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO earnings (amount_cents, platform, description, occurred_at, trips, minutes)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, amount_cents, platform, description, occurred_at, trips, minutes`,
		arg.AmountCents, arg.Platform, arg.Description, arg.OccurredAt, arg.Trips, arg.Minutes)
	var e EarningRow
	err := row.Scan(&e.ID, &e.AmountCents, &e.Platform, &e.Description, &e.OccurredAt, &e.Trips, &e.Minutes)
	return e, err
}

func (q *Queries) ListEarnings(ctx context.Context) ([]EarningRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, amount_cents, platform, description, occurred_at, trips, minutes
		FROM earnings ORDER BY occurred_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EarningRow
	for rows.Next() {
		var e EarningRow
		if err := rows.Scan(&e.ID, &e.AmountCents, &e.Platform, &e.Description, &e.OccurredAt, &e.Trips, &e.Minutes); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListEarningsBetween returns earnings with from <= occurred_at < to.
// RFC 3339 timestamps compare correctly as text.
func (q *Queries) ListEarningsBetween(ctx context.Context, from, to string) ([]EarningRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, amount_cents, platform, description, occurred_at, trips, minutes
		FROM earnings WHERE occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at ASC, id ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EarningRow
	for rows.Next() {
		var e EarningRow
		if err := rows.Scan(&e.ID, &e.AmountCents, &e.Platform, &e.Description, &e.OccurredAt, &e.Trips, &e.Minutes); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (q *Queries) GetEarning(ctx context.Context, id int64) (EarningRow, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, amount_cents, platform, description, occurred_at, trips, minutes
		FROM earnings WHERE id = ?`, id)
	var e EarningRow
	err := row.Scan(&e.ID, &e.AmountCents, &e.Platform, &e.Description, &e.OccurredAt, &e.Trips, &e.Minutes)
	return e, err
}

func (q *Queries) DeleteEarning(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM earnings WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type CreateExpenseParams struct {
	AmountCents      int64
	Category         string
	Description      string
	OccurredAt       string
	Kind             string
	Miles            float64
	CostPerMileCents int64
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (ExpenseRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO expenses (amount_cents, category, description, occurred_at, kind, miles, cost_per_mile_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, amount_cents, category, description, occurred_at, kind, miles, cost_per_mile_cents`,
		arg.AmountCents, arg.Category, arg.Description, arg.OccurredAt, arg.Kind, arg.Miles, arg.CostPerMileCents)
	var e ExpenseRow
	err := row.Scan(&e.ID, &e.AmountCents, &e.Category, &e.Description, &e.OccurredAt, &e.Kind, &e.Miles, &e.CostPerMileCents)
	return e, err
}

func (q *Queries) ListExpenses(ctx context.Context) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, amount_cents, category, description, occurred_at, kind, miles, cost_per_mile_cents
		FROM expenses ORDER BY occurred_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpenseRow
	for rows.Next() {
		var e ExpenseRow
		if err := rows.Scan(&e.ID, &e.AmountCents, &e.Category, &e.Description, &e.OccurredAt, &e.Kind, &e.Miles, &e.CostPerMileCents); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type CreateTargetParams struct {
	AmountCents  int64
	Period       string
	CurrentCents int64
	StartDate    string
	AutoTrack    bool
}

func (q *Queries) CreateTarget(ctx context.Context, arg CreateTargetParams) (TargetRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO targets (amount_cents, period, current_cents, start_date, auto_track)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, amount_cents, period, current_cents, start_date, auto_track`,
		arg.AmountCents, arg.Period, arg.CurrentCents, arg.StartDate, arg.AutoTrack)
	var t TargetRow
	err := row.Scan(&t.ID, &t.AmountCents, &t.Period, &t.CurrentCents, &t.StartDate, &t.AutoTrack)
	return t, err
}

func (q *Queries) ListTargets(ctx context.Context) ([]TargetRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, amount_cents, period, current_cents, start_date, auto_track
		FROM targets ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TargetRow
	for rows.Next() {
		var t TargetRow
		if err := rows.Scan(&t.ID, &t.AmountCents, &t.Period, &t.CurrentCents, &t.StartDate, &t.AutoTrack); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (q *Queries) GetTarget(ctx context.Context, id int64) (TargetRow, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, amount_cents, period, current_cents, start_date, auto_track
		FROM targets WHERE id = ?`, id)
	var t TargetRow
	err := row.Scan(&t.ID, &t.AmountCents, &t.Period, &t.CurrentCents, &t.StartDate, &t.AutoTrack)
	return t, err
}

func (q *Queries) UpdateTargetCurrent(ctx context.Context, id, currentCents int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `UPDATE targets SET current_cents = ? WHERE id = ?`, currentCents, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ResetTarget starts a new period: progress back to zero, new start date.
func (q *Queries) ResetTarget(ctx context.Context, id int64, startDate string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `UPDATE targets SET current_cents = 0, start_date = ? WHERE id = ?`, startDate, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteTarget(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM targets WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) ListPlatforms(ctx context.Context) ([]string, error) {
	return q.listNames(ctx, `SELECT name FROM platforms ORDER BY name`)
}

func (q *Queries) AddPlatform(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, `INSERT INTO platforms (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name)
	return err
}

func (q *Queries) ListCategories(ctx context.Context) ([]string, error) {
	return q.listNames(ctx, `SELECT name FROM categories ORDER BY name`)
}

func (q *Queries) AddCategory(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name)
	return err
}

func (q *Queries) listNames(ctx context.Context, query string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
