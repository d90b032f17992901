package amqp

import (
	"encoding/json"
	"time"

	"budgetbook/internal/core"
)

// RecomputeMessage asks the worker to rebuild every analysis period of a
// user intersecting [Start, End]. It carries only the span; the worker reads
// current ledger data itself, so a stale or duplicated message is harmless.
type RecomputeMessage struct {
	UserID    int64     `json:"user_id"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecomputeMessage builds a message for the given user and date span.
func NewRecomputeMessage(userID int64, start, end core.Date) *RecomputeMessage {
	return &RecomputeMessage{
		UserID:    userID,
		Start:     start.String(),
		End:       end.String(),
		Timestamp: time.Now(),
	}
}

// Range decodes the span back into dates.
func (m *RecomputeMessage) Range() (start, end core.Date, err error) {
	if start, err = core.ParseDate(m.Start); err != nil {
		return core.Date{}, core.Date{}, err
	}
	if end, err = core.ParseDate(m.End); err != nil {
		return core.Date{}, core.Date{}, err
	}
	return start, end, nil
}

// ToJSON converts the message to JSON bytes.
func (m *RecomputeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecomputeMessageFromJSON creates a message from JSON bytes.
func RecomputeMessageFromJSON(data []byte) (*RecomputeMessage, error) {
	var msg RecomputeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
