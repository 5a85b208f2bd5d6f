package beetflow

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTickBudget is returned when a run does not end within MaxTicks.
var ErrTickBudget = errors.New("tick budget exhausted")

// DefaultDelta is the simulated time of one tick.
const DefaultDelta = 16 * time.Millisecond

// Runner drives an engine until a root ends.
type Runner struct {
	// Interval is the wall-clock time between ticks. Zero ticks as fast as
	// possible.
	Interval time.Duration
	// Delta is the simulated time each tick advances. Defaults to Interval,
	// or DefaultDelta when Interval is zero.
	Delta time.Duration
	// MaxTicks bounds the run. Zero means unbounded.
	MaxTicks int
	// OnTick is called after every tick.
	OnTick func(tick uint64)
}

// NewRunner creates a Runner ticking as fast as possible.
func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) delta() time.Duration {
	switch {
	case r.Delta > 0:
		return r.Delta
	case r.Interval > 0:
		return r.Interval
	}
	return DefaultDelta
}

// Run starts root and ticks until it ends. When ctx is cancelled or the
// tick budget runs out, root is interrupted and the error returned.
func (r *Runner) Run(ctx context.Context, eng *Engine, root Entity, payload any) (Outcome, error) {
	if err := eng.Run(ctx, root, payload); err != nil {
		return "", fmt.Errorf("run: %w", err)
	}

	var tick <-chan time.Time
	if r.Interval > 0 {
		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	delta := r.delta()
	for n := 0; ; n++ {
		if o, ok := eng.Outcome(root); ok {
			return o, nil
		}
		if r.MaxTicks > 0 && n >= r.MaxTicks {
			return "", r.stop(eng, root, fmt.Errorf("%w after %d ticks", ErrTickBudget, n))
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return "", r.stop(eng, root, ctx.Err())
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return "", r.stop(eng, root, err)
		}

		if err := eng.Tick(ctx, delta); err != nil {
			if ctx.Err() != nil {
				return "", r.stop(eng, root, ctx.Err())
			}
			return "", fmt.Errorf("tick: %w", err)
		}
		if r.OnTick != nil {
			_, t := eng.Elapsed()
			r.OnTick(t)
		}
	}
}

func (r *Runner) stop(eng *Engine, root Entity, cause error) error {
	// The run context may be gone already.
	if err := eng.Interrupt(context.Background(), root); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}
