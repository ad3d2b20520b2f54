package services

import (
	"context"
	"time"

	"gigtrack/internal/core"
)

// Narrow storage ports so services can be tested against fakes.
type (
	EarningStore interface {
		CreateEarning(ctx context.Context, e core.Earning) (core.Earning, error)
		DeleteEarning(ctx context.Context, id int64) error
		AddPlatform(ctx context.Context, name string) error
	}

	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		DeleteExpense(ctx context.Context, id int64) error
		AddCategory(ctx context.Context, name string) error
	}

	TargetStore interface {
		ListTargets(ctx context.Context) ([]core.Target, error)
		GetTarget(ctx context.Context, id int64) (core.Target, error)
		UpdateTargetCurrent(ctx context.Context, id int64, current core.Money) error
		ResetTarget(ctx context.Context, id int64, start core.Date) error
		ListEarningsBetween(ctx context.Context, from, to time.Time) ([]core.Earning, error)
	}

	// EventPublisher pushes entry change events onto the bus.
	EventPublisher interface {
		PublishEntryEvent(ctx context.Context, entity string, id int64, action string) error
	}
)
