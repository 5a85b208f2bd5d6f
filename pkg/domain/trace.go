package domain

import "time"

// Trace is the recorded history of one run, from the Run of its origin to
// the End of that same entity.
type Trace struct {
	ID        string       `json:"id"`
	Root      Entity       `json:"root"`
	RootName  string       `json:"root_name,omitempty"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   time.Time    `json:"ended_at"`
	Outcome   Outcome      `json:"outcome,omitempty"`
	Events    []TraceEvent `json:"events"`
	// Sealed holds the encrypted events when a store seals traces.
	Sealed    []byte       `json:"sealed,omitempty"`
}

// Duration returns the wall-clock time the trace covers.
func (t *Trace) Duration() time.Duration {
	if t.EndedAt.IsZero() {
		return 0
	}
	return t.EndedAt.Sub(t.StartedAt)
}
