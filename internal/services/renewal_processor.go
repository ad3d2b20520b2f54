package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RenewalService rolls expired targets over to fresh periods.
type RenewalService struct {
	store    TargetStore
	progress *ProgressService
}

func NewRenewalService(store TargetStore) *RenewalService {
	return &RenewalService{
		store:    store,
		progress: NewProgressService(store),
	}
}

// RenewDue resets every target whose period has ended and returns how
// many were renewed. Auto-tracked targets get their progress recomputed
// against the new window immediately after the reset.
func (s *RenewalService) RenewDue(ctx context.Context, now time.Time) (int, error) {
	targets, err := s.store.ListTargets(ctx)
	if err != nil {
		return 0, fmt.Errorf("list targets: %w", err)
	}

	renewed := 0
	for _, t := range targets {
		checker, err := GetRenewalChecker(t.Period)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping target with unknown period",
				"target_id", t.ID, "period", t.Period)
			continue
		}
		if !checker.Due(t, now) {
			continue
		}

		next := checker.NextStart(t, now)
		if err := s.store.ResetTarget(ctx, t.ID, next); err != nil {
			slog.ErrorContext(ctx, "Failed to reset target",
				"target_id", t.ID, "error", err)
			continue
		}
		renewed++

		if t.AutoTrack {
			if err := s.progress.RecomputeTarget(ctx, t.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to recompute renewed target",
					"target_id", t.ID, "error", err)
			}
		}
	}

	if renewed > 0 {
		slog.InfoContext(ctx, "Renewed expired targets", "count", renewed)
	}
	return renewed, nil
}
