// Package services wires ledger mutations to the analysis engine: every
// committed transaction or budget change triggers a recompute of the
// affected date span.
package services

import (
	"context"

	"budgetbook/internal/core"
	"budgetbook/internal/log"
)

// RangeRecomputer recomputes every analysis period intersecting a date range.
type RangeRecomputer interface {
	RecomputeRange(ctx context.Context, userID int64, start, end core.Date) error
}

// RecomputePublisher hands a recompute request to a broker for asynchronous
// processing by the worker.
type RecomputePublisher interface {
	PublishRecompute(ctx context.Context, userID int64, start, end core.Date) error
}

// RecomputeHook is the single trigger point mutating workflows call after a
// commit. When a publisher is configured the recompute runs asynchronously
// in the worker; if publishing fails, or no broker is wired, the hook falls
// back to a synchronous recompute so analysis data never silently goes
// stale.
type RecomputeHook struct {
	publisher  RecomputePublisher
	recomputer RangeRecomputer
	logger     *log.Logger
}

func NewRecomputeHook(publisher RecomputePublisher, recomputer RangeRecomputer, logger *log.Logger) *RecomputeHook {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &RecomputeHook{
		publisher:  publisher,
		recomputer: recomputer,
		logger:     logger.WithComponent("recompute-hook"),
	}
}

// Trigger schedules a recompute for [start, end]. Bounds are normalized so
// callers may pass them in either order (a moved transaction hands in its
// old and new dates).
func (h *RecomputeHook) Trigger(ctx context.Context, userID int64, start, end core.Date) error {
	if end.Before(start) {
		start, end = end, start
	}

	if h.publisher != nil {
		err := h.publisher.PublishRecompute(ctx, userID, start, end)
		if err == nil {
			return nil
		}
		h.logger.WarnContext(ctx, "Recompute publish failed, falling back to synchronous recompute",
			"error", err, "user_id", userID, "start", start.String(), "end", end.String())
	}

	if h.recomputer == nil {
		h.logger.WarnContext(ctx, "No recomputer wired, skipping recompute",
			"user_id", userID, "start", start.String(), "end", end.String())
		return nil
	}
	return h.recomputer.RecomputeRange(ctx, userID, start, end)
}
