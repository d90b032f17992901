package worker

import (
	"context"
	"errors"
	"testing"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
)

type fakeRecomputer struct {
	calls []recomputeCall
	err   error
}

type recomputeCall struct {
	userID     int64
	start, end core.Date
}

func (f *fakeRecomputer) RecomputeRange(ctx context.Context, userID int64, start, end core.Date) error {
	f.calls = append(f.calls, recomputeCall{userID: userID, start: start, end: end})
	return f.err
}

func TestHandleRecomputeMessage(t *testing.T) {
	rec := &fakeRecomputer{}
	w := NewRecomputeWorker(rec, nil)

	msg := amqp.NewRecomputeMessage(7, core.NewDate(2026, 2, 1), core.NewDate(2026, 2, 28))
	if err := w.HandleRecomputeMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleRecomputeMessage() error: %v", err)
	}

	if len(rec.calls) != 1 {
		t.Fatalf("RecomputeRange called %d times, want 1", len(rec.calls))
	}
	call := rec.calls[0]
	if call.userID != 7 {
		t.Errorf("userID = %d, want 7", call.userID)
	}
	if !call.start.Equal(core.NewDate(2026, 2, 1)) || !call.end.Equal(core.NewDate(2026, 2, 28)) {
		t.Errorf("span = %s..%s, want 2026-02-01..2026-02-28", call.start, call.end)
	}
}

func TestHandleRecomputeMessage_MalformedSpanDropped(t *testing.T) {
	rec := &fakeRecomputer{}
	w := NewRecomputeWorker(rec, nil)

	msg := &amqp.RecomputeMessage{UserID: 7, Start: "garbage", End: "2026-02-28"}
	if err := w.HandleRecomputeMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleRecomputeMessage() = %v, want nil so the message is acked and dropped", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("RecomputeRange called %d times for malformed message, want 0", len(rec.calls))
	}
}

func TestHandleRecomputeMessage_RecomputeFailurePropagates(t *testing.T) {
	rec := &fakeRecomputer{err: errors.New("db locked")}
	w := NewRecomputeWorker(rec, nil)

	msg := amqp.NewRecomputeMessage(7, core.NewDate(2026, 2, 1), core.NewDate(2026, 2, 28))
	err := w.HandleRecomputeMessage(context.Background(), msg)
	if err == nil {
		t.Fatal("HandleRecomputeMessage() = nil, want error for requeue")
	}
	if !errors.Is(err, rec.err) {
		t.Errorf("error %v does not wrap the recompute failure", err)
	}
}
