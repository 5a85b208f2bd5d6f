package observability

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/beetflow/internal/logging"
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ports"
)

// Recorder collects trace events into traces. A trace opens with the first
// event of an origin and closes when the action that opened it ends.
// Interrupt events are attached to the trace of their origin.
type Recorder struct {
	mu     sync.Mutex
	open   map[domain.Entity]*openTrace
	done   []*domain.Trace
	limit  int
	store  ports.TraceStore
	logger *slog.Logger
}

type openTrace struct {
	trace  *domain.Trace
	opener domain.Entity
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithStore saves every finished trace to store.
func WithStore(store ports.TraceStore) RecorderOption {
	return func(r *Recorder) {
		r.store = store
	}
}

// WithLimit keeps at most n finished traces in memory, dropping the oldest.
// Zero means unbounded.
func WithLimit(n int) RecorderOption {
	return func(r *Recorder) {
		r.limit = n
	}
}

// WithLogger sets the logger used to report store failures.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder creates an empty recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		open:   make(map[domain.Entity]*openTrace),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Hooks returns the lifecycle hooks feeding the recorder.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRun:       r.record,
		OnEnd:       r.record,
		OnInterrupt: r.record,
	}
}

func (r *Recorder) record(ctx context.Context, ev *domain.TraceEvent) {
	origin := ev.Origin
	if origin == 0 {
		origin = ev.Action
	}

	r.mu.Lock()
	ot, ok := r.open[origin]
	if !ok {
		if ev.Type != domain.TraceRun {
			r.mu.Unlock()
			return
		}
		ot = &openTrace{
			opener: ev.Action,
			trace: &domain.Trace{
				ID:        uuid.NewString(),
				Root:      ev.Action,
				RootName:  ev.Name,
				StartedAt: ev.Timestamp,
			},
		}
		r.open[origin] = ot
	}
	ot.trace.Events = append(ot.trace.Events, *ev)

	var finished *domain.Trace
	if ev.Type == domain.TraceEnd && ev.Action == ot.opener {
		finished = ot.trace
		finished.EndedAt = ev.Timestamp
		finished.Outcome = ev.Outcome
		delete(r.open, origin)
		r.keep(finished)
	}
	r.mu.Unlock()

	if finished != nil {
		r.save(ctx, finished)
	}
}

// keep must be called with r.mu held.
func (r *Recorder) keep(t *domain.Trace) {
	r.done = append(r.done, t)
	if r.limit > 0 && len(r.done) > r.limit {
		r.done = r.done[len(r.done)-r.limit:]
	}
}

func (r *Recorder) save(ctx context.Context, t *domain.Trace) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, t); err != nil {
		r.logger.Warn("failed to save trace", "trace_id", t.ID, "root", t.RootName, "err", err)
	}
}

// Traces returns the finished traces, oldest first.
func (r *Recorder) Traces() []*domain.Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Trace(nil), r.done...)
}

// Last returns the most recently finished trace.
func (r *Recorder) Last() (*domain.Trace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.done) == 0 {
		return nil, false
	}
	return r.done[len(r.done)-1], true
}

// Pending returns the number of traces still open.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.open)
}

// Flush closes every open trace without outcome, for example when a run
// is abandoned, and saves them.
func (r *Recorder) Flush(ctx context.Context) []*domain.Trace {
	r.mu.Lock()
	var flushed []*domain.Trace
	for origin, ot := range r.open {
		if n := len(ot.trace.Events); n > 0 {
			ot.trace.EndedAt = ot.trace.Events[n-1].Timestamp
		}
		flushed = append(flushed, ot.trace)
		r.keep(ot.trace)
		delete(r.open, origin)
	}
	r.mu.Unlock()

	for _, t := range flushed {
		r.save(ctx, t)
	}
	return flushed
}
