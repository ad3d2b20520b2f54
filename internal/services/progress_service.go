package services

import (
	"context"
	"fmt"
	"log/slog"

	"gigtrack/internal/core"
)

// ProgressService keeps auto-tracked targets in sync with the earnings
// recorded inside their period window. Manually tracked targets are
// never touched.
type ProgressService struct {
	store TargetStore
}

func NewProgressService(store TargetStore) *ProgressService {
	return &ProgressService{store: store}
}

// RecomputeAll refreshes Current for every auto-tracked target and
// returns how many were updated.
func (s *ProgressService) RecomputeAll(ctx context.Context) (int, error) {
	targets, err := s.store.ListTargets(ctx)
	if err != nil {
		return 0, fmt.Errorf("list targets: %w", err)
	}

	updated := 0
	for _, t := range targets {
		changed, err := s.recompute(ctx, t)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to recompute target progress",
				"target_id", t.ID, "error", err)
			continue
		}
		if changed {
			updated++
		}
	}
	return updated, nil
}

// RecomputeTarget refreshes a single target by ID.
func (s *ProgressService) RecomputeTarget(ctx context.Context, id int64) error {
	t, err := s.store.GetTarget(ctx, id)
	if err != nil {
		return fmt.Errorf("get target: %w", err)
	}
	_, err = s.recompute(ctx, t)
	return err
}

func (s *ProgressService) recompute(ctx context.Context, t core.Target) (bool, error) {
	if !t.AutoTrack {
		return false, nil
	}

	// Sum earnings inside the half-open period window.
	start := t.StartDate.UTC()
	end := t.Period.End(t.StartDate)
	earnings, err := s.store.ListEarningsBetween(ctx, start, end)
	if err != nil {
		return false, fmt.Errorf("list period earnings: %w", err)
	}

	var total int64
	for _, e := range earnings {
		total += e.Amount.Cents
	}

	if total == t.Current.Cents {
		return false, nil
	}
	if err := s.store.UpdateTargetCurrent(ctx, t.ID, core.Money{Cents: total}); err != nil {
		return false, fmt.Errorf("update target current: %w", err)
	}

	slog.InfoContext(ctx, "Target progress recomputed",
		"target_id", t.ID,
		"period", t.Period,
		"current_cents", total,
		"previous_cents", t.Current.Cents)
	return true, nil
}
