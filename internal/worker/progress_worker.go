package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gigtrack/internal/amqp"
	"gigtrack/internal/services"
)

// ProgressWorker reacts to entry events by recomputing auto-tracked
// target progress, and periodically rolls expired targets over.
type ProgressWorker struct {
	progress *services.ProgressService
	renewal  *services.RenewalService
}

func NewProgressWorker(progress *services.ProgressService, renewal *services.RenewalService) *ProgressWorker {
	return &ProgressWorker{
		progress: progress,
		renewal:  renewal,
	}
}

// HandleEntryEvent processes a single entry event from AMQP. Any entry
// change can move a target's window total, so every event triggers a
// full recompute of the auto-tracked targets.
func (w *ProgressWorker) HandleEntryEvent(ctx context.Context, msg *amqp.EntryEventMessage) error {
	slog.InfoContext(ctx, "Processing entry event",
		"entity", msg.Entity,
		"id", msg.ID,
		"action", msg.Action)

	updated, err := w.progress.RecomputeAll(ctx)
	if err != nil {
		return fmt.Errorf("recompute targets: %w", err)
	}

	slog.InfoContext(ctx, "Entry event processed",
		"entity", msg.Entity,
		"id", msg.ID,
		"targets_updated", updated)
	return nil
}

// StartupCheck reconciles target progress once at boot. This recovers
// from entry events lost while the worker was down.
func (w *ProgressWorker) StartupCheck(ctx context.Context) error {
	updated, err := w.progress.RecomputeAll(ctx)
	if err != nil {
		return fmt.Errorf("startup recompute: %w", err)
	}

	renewed, err := w.renewal.RenewDue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("startup renewal: %w", err)
	}

	slog.InfoContext(ctx, "Startup reconciliation completed",
		"targets_updated", updated,
		"targets_renewed", renewed)
	return nil
}

// RunRenewalLoop rolls expired targets over on a fixed interval until
// the context is done.
func (w *ProgressWorker) RunRenewalLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping renewal loop", "reason", ctx.Err())
			return
		case <-ticker.C:
			if _, err := w.renewal.RenewDue(ctx, time.Now()); err != nil {
				slog.ErrorContext(ctx, "Renewal pass failed", "error", err)
			}
		}
	}
}
