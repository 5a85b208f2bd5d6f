package domain

import (
	"context"
	"time"
)

// TraceEventType defines the category of a trace event.
type TraceEventType string

const (
	TraceRun       TraceEventType = "run"
	TraceEnd       TraceEventType = "end"
	TraceInterrupt TraceEventType = "interrupt"
)

// TraceEvent is the record handed to lifecycle hooks and stored in traces.
type TraceEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      TraceEventType `json:"type"`
	Tick      uint64         `json:"tick"`
	Action    Entity         `json:"action"`
	Name      string         `json:"name,omitempty"`
	Kinds     []string       `json:"kinds,omitempty"`
	Parent    Entity         `json:"parent,omitempty"`
	Origin    Entity         `json:"origin,omitempty"`
	Outcome   Outcome        `json:"outcome,omitempty"`
	// Payload is the payload of a run event.
	Payload   any            `json:"payload,omitempty"`
}

// IsRoot reports whether the event concerns an action without parent.
func (e *TraceEvent) IsRoot() bool {
	return e.Parent == 0
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRun       func(context.Context, *TraceEvent)
	OnEnd       func(context.Context, *TraceEvent)
	OnInterrupt func(context.Context, *TraceEvent)
}

// Fire calls the hook matching ev.Type, if set.
func (h LifecycleHooks) Fire(ctx context.Context, ev *TraceEvent) {
	var fn func(context.Context, *TraceEvent)
	switch ev.Type {
	case TraceRun:
		fn = h.OnRun
	case TraceEnd:
		fn = h.OnEnd
	case TraceInterrupt:
		fn = h.OnInterrupt
	}
	if fn != nil {
		fn(ctx, ev)
	}
}

// MergeHooks returns hooks calling each of hooks in order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRun: func(ctx context.Context, ev *TraceEvent) {
			for _, h := range hooks {
				if h.OnRun != nil {
					h.OnRun(ctx, ev)
				}
			}
		},
		OnEnd: func(ctx context.Context, ev *TraceEvent) {
			for _, h := range hooks {
				if h.OnEnd != nil {
					h.OnEnd(ctx, ev)
				}
			}
		},
		OnInterrupt: func(ctx context.Context, ev *TraceEvent) {
			for _, h := range hooks {
				if h.OnInterrupt != nil {
					h.OnInterrupt(ctx, ev)
				}
			}
		},
	}
}
