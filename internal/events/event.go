package events

import (
	"time"

	"github.com/google/uuid"
)

// Event reports the outcome of processing one ticket.
type Event struct {
	ID         string        `json:"id"`
	Kind       string        `json:"kind"`
	Success    bool          `json:"success"`
	Fields     int           `json:"fields"`
	Missing    int           `json:"missing"`
	Errors     int           `json:"errors,omitempty"`
	ReasonCode string        `json:"reason_code,omitempty"`
	RequestID  string        `json:"request_id,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	Timestamp  time.Time     `json:"timestamp"`
}

// NewEvent returns an Event of kind with a fresh ID and the current time.
func NewEvent(kind string) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
}

// Result labels the outcome for metrics and logs.
func (e Event) Result() string {
	if e.Success {
		return "success"
	}
	return "failure"
}
