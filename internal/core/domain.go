package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

const (
	KindFlight EventKind = "flight"
	KindTrain  EventKind = "train"
	KindBus    EventKind = "bus"
	KindEvent  EventKind = "event"
)

const (
	ManualExpense  ExpenseKind = "manual"
	MileageExpense ExpenseKind = "mileage"
)

type (
	// Period is the recurring window a target is measured over.
	Period string

	// EventKind classifies a scheduled city arrival or occurrence.
	EventKind string

	// ExpenseKind discriminates manually priced expenses from
	// mileage-derived ones.
	ExpenseKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Earning is a single income record: one trip or one shift summary
	// on a gig platform.
	Earning struct {
		ID          int64
		Amount      Money
		Platform    string
		Description string // e.g. "Airport to Downtown"
		Date        Date   // includes time of day
		Trips       int64  // number of trips covered, 0 if untracked
		Minutes     int64  // driving time covered, 0 if untracked
	}

	// Expense is a single business expense record. Mileage expenses
	// derive their amount from Miles x CostPerMile at creation time.
	Expense struct {
		ID          int64
		Amount      Money
		Category    string
		Description string
		Date        Date
		Kind        ExpenseKind
		Miles       float64 // mileage expenses only
		CostPerMile Money   // mileage expenses only
	}

	// Target is an income goal for a fixed period. Current tracks
	// progress toward Amount: recomputed from earnings when AutoTrack
	// is set, manually edited otherwise.
	Target struct {
		ID        int64
		Amount    Money
		Period    Period
		Current   Money
		StartDate Date
		AutoTrack bool
	}

	// TimedEvent is a scheduled arrival or occurrence with a clock time,
	// the source record for hourly-bucketed city views.
	TimedEvent struct {
		ID         string    `json:"id"`
		Title      string    `json:"title"`
		Kind       EventKind `json:"type"`
		Time       string    `json:"time"` // "HH:MM", 24h
		Location   string    `json:"location"`
		Details    string    `json:"details"`
		Passengers int64     `json:"passengers,omitempty"`
		Terminal   string    `json:"terminal,omitempty"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidKind      = errors.New("invalid expense kind")
	ErrInvalidMileage   = errors.New("invalid mileage")
	ErrEmptyPlatform    = errors.New("empty platform")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyDescription = errors.New("empty description")
	ErrNegativeProgress = errors.New("negative progress")
)

// NewDate creates a date-only value at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty returns true if the date is zero (optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// SameDay reports whether both values fall on the same calendar date.
func (d Date) SameDay(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month() && d.Day() == other.Day()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (p Period) Validate() error {
	switch p {
	case Daily, Weekly, Monthly:
		return nil
	}
	return ErrInvalidPeriod
}

// Days returns the nominal length of the period in days, with months
// approximated at 30 for averaging purposes.
func (p Period) Days() int {
	switch p {
	case Daily:
		return 1
	case Weekly:
		return 7
	default:
		return 30
	}
}

// End returns the exclusive end of the period starting at start.
// Monthly periods follow calendar month arithmetic, not a fixed 30 days.
func (p Period) End(start Date) time.Time {
	switch p {
	case Daily:
		return start.AddDate(0, 0, 1)
	case Weekly:
		return start.AddDate(0, 0, 7)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// When returns the entry date, satisfying the stats date-filter constraint.
func (e Earning) When() Date { return e.Date }

// When returns the entry date, satisfying the stats date-filter constraint.
func (e Expense) When() Date { return e.Date }

func (e Earning) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Platform) == "" {
		return ErrEmptyPlatform
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if e.Trips < 0 || e.Minutes < 0 {
		return errors.New("trips and minutes cannot be negative")
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	switch e.Kind {
	case ManualExpense:
	case MileageExpense:
		if e.Miles <= 0 || e.CostPerMile.Cents <= 0 {
			return ErrInvalidMileage
		}
	default:
		return ErrInvalidKind
	}
	return nil
}

func (t Target) Validate() error {
	if err := t.StartDate.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Current.Cents < 0 {
		return ErrNegativeProgress
	}
	return t.Period.Validate()
}

func (k EventKind) Validate() error {
	switch k {
	case KindFlight, KindTrain, KindBus, KindEvent:
		return nil
	}
	return errors.New("invalid event kind")
}

// MileageAmount computes the derived amount for a mileage expense,
// rounded half-up to whole cents.
func MileageAmount(miles float64, costPerMile Money) Money {
	cents := miles*float64(costPerMile.Cents) + 0.5
	return Money{Cents: int64(cents)}
}
