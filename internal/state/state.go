package state

import (
	"fmt"
	"time"
)

// Status is the lifecycle of a schema inference request.
type Status int

const (
	Idle Status = iota
	Analyzing
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Analyzing:
		return "analyzing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText lets the status appear by name in logs and YAML output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Inference represents the state of the most recent schema inference request.
// RequestID grows monotonically; a response carrying any other id is stale.
type Inference struct {
	RequestID  uint64    `json:"request_id"`
	Status     Status    `json:"status"`
	Input      string    `json:"input"`
	Err        error     `json:"-"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// IsActive reports whether a request is in flight.
func (i Inference) IsActive() bool {
	return i.Status == Analyzing
}

// Elapsed returns how long the request took, or has been running as of now
// if it is still in flight. Zero if no request was ever started.
func (i Inference) Elapsed(now time.Time) time.Duration {
	if i.StartedAt.IsZero() {
		return 0
	}
	if i.FinishedAt.IsZero() {
		return now.Sub(i.StartedAt)
	}
	return i.FinishedAt.Sub(i.StartedAt)
}
