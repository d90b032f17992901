package amqp

import (
	"testing"

	"budgetbook/internal/core"
)

func TestRecomputeMessage_RoundTrip(t *testing.T) {
	msg := NewRecomputeMessage(42, core.NewDate(2026, 2, 1), core.NewDate(2026, 2, 28))

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	got, err := RecomputeMessageFromJSON(data)
	if err != nil {
		t.Fatalf("RecomputeMessageFromJSON() error: %v", err)
	}
	if got.UserID != 42 {
		t.Errorf("UserID = %d, want 42", got.UserID)
	}
	if got.Start != "2026-02-01" || got.End != "2026-02-28" {
		t.Errorf("span = %s..%s, want 2026-02-01..2026-02-28", got.Start, got.End)
	}
}

func TestRecomputeMessage_Range(t *testing.T) {
	msg := NewRecomputeMessage(1, core.NewDate(2026, 1, 15), core.NewDate(2026, 3, 10))

	start, end, err := msg.Range()
	if err != nil {
		t.Fatalf("Range() error: %v", err)
	}
	if !start.Equal(core.NewDate(2026, 1, 15)) {
		t.Errorf("start = %s, want 2026-01-15", start)
	}
	if !end.Equal(core.NewDate(2026, 3, 10)) {
		t.Errorf("end = %s, want 2026-03-10", end)
	}
}

func TestRecomputeMessage_RangeMalformed(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"bad start", "02/01/2026", "2026-02-28"},
		{"bad end", "2026-02-01", "feb 28"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &RecomputeMessage{UserID: 1, Start: tt.start, End: tt.end}
			if _, _, err := msg.Range(); err == nil {
				t.Error("Range() = nil error, want parse failure")
			}
		})
	}
}

func TestRecomputeMessageFromJSON_Invalid(t *testing.T) {
	if _, err := RecomputeMessageFromJSON([]byte("not json")); err == nil {
		t.Error("RecomputeMessageFromJSON() = nil error for garbage input")
	}
}
