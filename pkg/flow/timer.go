package flow

import (
	"context"
	"time"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
)

// RunTimer tracks how long ago its entity last started and last stopped
// running. Both counters grow by the update delta every tick; LastStarted
// resets when Running is added and LastStopped when it is removed.
type RunTimer struct {
	LastStarted time.Duration
	LastStopped time.Duration
}

type runTimerSystem struct {
	seen uint64
}

func (s *runTimerSystem) run(_ context.Context, w *ecs.World) error {
	delta := ecs.CurrentTime(w).Delta
	for _, e := range ecs.Query[*RunTimer](w) {
		t, _ := ecs.Get[*RunTimer](w, e)
		t.LastStarted += delta
		t.LastStopped += delta
	}
	for _, e := range ecs.AddedSince[*Running](w, s.seen) {
		if t, ok := ecs.Get[*RunTimer](w, e); ok {
			t.LastStarted = 0
		}
	}
	for _, e := range ecs.RemovedSince[*Running](w, s.seen) {
		if t, ok := ecs.Get[*RunTimer](w, e); ok {
			t.LastStopped = 0
		}
	}
	s.seen = w.ChangeSeq()
	return nil
}

// runOnSpawnSystem runs every entity carrying RunOnSpawn, in spawn order.
func runOnSpawnSystem(ctx context.Context, w *ecs.World) error {
	for _, e := range ecs.Query[*RunOnSpawn](w) {
		r, ok := ecs.Remove[*RunOnSpawn](w, e)
		if !ok || !w.Alive(e) {
			continue
		}
		if err := TriggerRun(ctx, w, e, domain.Run{Action: e, Origin: r.Origin.Or(e), Payload: r.Payload}); err != nil {
			return err
		}
	}
	return nil
}
