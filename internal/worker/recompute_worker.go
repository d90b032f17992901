// Package worker consumes recompute messages from the broker and drives the
// analysis orchestrator.
package worker

import (
	"context"
	"fmt"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	"budgetbook/internal/log"
)

// RangeRecomputer recomputes every analysis period intersecting a date range.
type RangeRecomputer interface {
	RecomputeRange(ctx context.Context, userID int64, start, end core.Date) error
}

// RecomputeWorker turns broker messages into orchestrator calls. Handler
// errors propagate so the consume loop can nack and requeue.
type RecomputeWorker struct {
	recomputer RangeRecomputer
	logger     *log.Logger
}

func NewRecomputeWorker(recomputer RangeRecomputer, logger *log.Logger) *RecomputeWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &RecomputeWorker{
		recomputer: recomputer,
		logger:     logger.WithComponent(log.ComponentWorker),
	}
}

// HandleRecomputeMessage processes one message: decode the date span and
// recompute every period it touches.
func (w *RecomputeWorker) HandleRecomputeMessage(ctx context.Context, msg *amqp.RecomputeMessage) error {
	start, end, err := msg.Range()
	if err != nil {
		// An undecodable span can never succeed on retry.
		w.logger.ErrorContext(ctx, "Dropping malformed recompute message",
			"error", err, "user_id", msg.UserID, "start", msg.Start, "end", msg.End)
		return nil
	}

	if err := w.recomputer.RecomputeRange(ctx, msg.UserID, start, end); err != nil {
		return fmt.Errorf("recompute range %s..%s for user %d: %w", msg.Start, msg.End, msg.UserID, err)
	}

	w.logger.InfoContext(ctx, "Recompute completed",
		"user_id", msg.UserID, "start", msg.Start, "end", msg.End)
	return nil
}
