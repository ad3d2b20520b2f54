package services

import (
	"context"
	"fmt"
	"log/slog"

	"gigtrack/internal/amqp"
	"gigtrack/internal/core"
)

// EntryService orchestrates financial entry writes across SQLite and AMQP.
type EntryService struct {
	earnings  EarningStore
	expenses  ExpenseStore
	publisher EventPublisher
}

func NewEntryService(earnings EarningStore, expenses ExpenseStore, publisher EventPublisher) *EntryService {
	return &EntryService{
		earnings:  earnings,
		expenses:  expenses,
		publisher: publisher,
	}
}

// AddEarning validates and stores an earning, registers its platform as
// a known label, and publishes a change event.
func (s *EntryService) AddEarning(ctx context.Context, e core.Earning) (core.Earning, error) {
	if err := e.Validate(); err != nil {
		return core.Earning{}, err
	}

	saved, err := s.earnings.CreateEarning(ctx, e)
	if err != nil {
		return core.Earning{}, fmt.Errorf("save earning: %w", err)
	}

	if err := s.earnings.AddPlatform(ctx, saved.Platform); err != nil {
		slog.WarnContext(ctx, "Failed to register platform label",
			"platform", saved.Platform, "error", err)
	}

	s.publish(ctx, amqp.EntityEarning, saved.ID, amqp.ActionCreated)
	return saved, nil
}

// AddExpense validates and stores an expense. Mileage expenses get their
// amount derived from miles x cost-per-mile before validation.
func (s *EntryService) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Kind == core.MileageExpense && e.Amount.Cents == 0 {
		e.Amount = core.MileageAmount(e.Miles, e.CostPerMile)
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	saved, err := s.expenses.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	if err := s.expenses.AddCategory(ctx, saved.Category); err != nil {
		slog.WarnContext(ctx, "Failed to register category label",
			"category", saved.Category, "error", err)
	}

	s.publish(ctx, amqp.EntityExpense, saved.ID, amqp.ActionCreated)
	return saved, nil
}

func (s *EntryService) RemoveEarning(ctx context.Context, id int64) error {
	if err := s.earnings.DeleteEarning(ctx, id); err != nil {
		return fmt.Errorf("delete earning: %w", err)
	}
	s.publish(ctx, amqp.EntityEarning, id, amqp.ActionDeleted)
	return nil
}

func (s *EntryService) RemoveExpense(ctx context.Context, id int64) error {
	if err := s.expenses.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publish(ctx, amqp.EntityExpense, id, amqp.ActionDeleted)
	return nil
}

// publish sends the event best-effort. The entry is already durable in
// SQLite; a bus outage must not fail the request.
func (s *EntryService) publish(ctx context.Context, entity string, id int64, action string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping entry event")
		return
	}
	if err := s.publisher.PublishEntryEvent(ctx, entity, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"entity", entity, "id", id, "action", action, "error", err)
	}
}
