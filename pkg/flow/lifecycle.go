package flow

import (
	"context"
	"fmt"
	"reflect"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
)

// Running marks an action between its Run and its End. It remembers the run
// so long-running actions can end with the right origin.
type Running struct {
	Origin  ecs.Entity
	Payload any
}

// NoInterrupt keeps an action running when an ancestor is run again.
// Only the marked entity is spared; its own descendants are still swept.
type NoInterrupt struct{}

// PreventPropagateEnd stops the End of an action from reaching its parent.
type PreventPropagateEnd struct{}

// ContinueRun marks actions that stay Running across ticks. It brings a
// RunTimer along.
type ContinueRun struct{}

func (*ContinueRun) Requires() []any { return []any{&RunTimer{}} }

// RunOnSpawn queues a Run of the entity for the next PreTick. It is removed
// when the run is dispatched.
type RunOnSpawn struct {
	Origin  ecs.Entity
	Payload any
}

// DespawnOnEnd despawns the entity and its subtree once its End has been
// dispatched. The despawn goes through the command queue.
type DespawnOnEnd struct{}

// Requirer is implemented by components that need companion components.
type Requirer interface {
	Requires() []any
}

// Insert adds components to e. Actions are registered with AddAction and
// missing requirements are inserted with defaults.
func Insert(w *ecs.World, e ecs.Entity, components ...any) {
	for _, c := range components {
		if a, ok := c.(Action); ok {
			AddAction(w, e, a)
			continue
		}
		w.Insert(e, c)
		r, ok := c.(Requirer)
		if !ok {
			continue
		}
		for _, req := range r.Requires() {
			if !w.HasType(e, reflect.TypeOf(req)) {
				Insert(w, e, req)
			}
		}
	}
}

// IsRunning reports whether e is between its Run and its End.
func IsRunning(w *ecs.World, e ecs.Entity) bool {
	return ecs.Has[*Running](w, e)
}

// Start runs root as the origin of a new chain.
func Start(ctx context.Context, w *ecs.World, root ecs.Entity, payload any) error {
	return TriggerRun(ctx, w, root, domain.Run{Action: root, Origin: root, Payload: payload})
}

// TriggerRun starts target. Running descendants without NoInterrupt are
// interrupted first and pending RunOnSpawn re-runs of target and of those
// descendants are cancelled. Then target is marked Running and the Run is
// dispatched. Running an action that is already Running restarts it.
func TriggerRun(ctx context.Context, w *ecs.World, target ecs.Entity, run domain.Run) error {
	if !w.Alive(target) {
		return fmt.Errorf("run %s: %w", target, domain.ErrEntityNotFound)
	}
	run = run.Resolve(target)

	if err := interruptDescendants(ctx, w, target); err != nil {
		return err
	}
	ecs.Remove[*RunOnSpawn](w, target)
	ecs.Remove[*Running](w, target)
	w.Insert(target, &Running{Origin: run.Origin, Payload: run.Payload})

	Logger(w).Debug("run", "action", target, "name", w.Name(target), "origin", run.Origin)
	return w.Trigger(ctx, target, run)
}

// TriggerEnd finishes target. Running is removed, the End is dispatched and,
// unless target carries PreventPropagateEnd, a ChildEnd is dispatched on its
// parent. The result travels a single hop; composites re-trigger their own End.
func TriggerEnd(ctx context.Context, w *ecs.World, target ecs.Entity, end domain.End) error {
	if !w.Alive(target) {
		return fmt.Errorf("end %s: %w", target, domain.ErrEntityNotFound)
	}
	end = end.Resolve(target)
	ecs.Remove[*Running](w, target)

	Logger(w).Debug("end", "action", target, "name", w.Name(target), "outcome", end.Outcome)
	if err := w.Trigger(ctx, target, end); err != nil {
		return err
	}
	if ecs.Has[*PreventPropagateEnd](w, target) {
		return nil
	}
	parent, ok := w.Parent(target)
	if !ok {
		return nil
	}
	return w.Trigger(ctx, parent, domain.ChildEnd{
		Parent:  parent,
		Child:   target,
		Origin:  end.Origin,
		Outcome: end.Outcome,
	})
}

// Finish ends target with outcome, keeping the origin of its current run.
func Finish(ctx context.Context, w *ecs.World, target ecs.Entity, outcome domain.Outcome) error {
	origin := target
	if r, ok := ecs.Get[*Running](w, target); ok {
		origin = r.Origin
	}
	return TriggerEnd(ctx, w, target, domain.End{Action: target, Origin: origin, Outcome: outcome})
}

// Interrupt stops target and its running descendants without ending them,
// cancelling their pending RunOnSpawn re-runs. NoInterrupt does not protect
// target itself.
func Interrupt(ctx context.Context, w *ecs.World, target ecs.Entity) error {
	if !w.Alive(target) {
		return fmt.Errorf("interrupt %s: %w", target, domain.ErrEntityNotFound)
	}
	ecs.Remove[*RunOnSpawn](w, target)
	if _, ok := ecs.Remove[*Running](w, target); ok {
		Logger(w).Debug("interrupt", "action", target, "name", w.Name(target), "by", target)
		if err := w.Trigger(ctx, target, domain.Interrupted{Action: target, By: target}); err != nil {
			return err
		}
	}
	return interruptDescendants(ctx, w, target)
}

func interruptDescendants(ctx context.Context, w *ecs.World, by ecs.Entity) error {
	for _, d := range w.Descendants(by) {
		if !w.Alive(d) || ecs.Has[*NoInterrupt](w, d) {
			continue
		}
		ecs.Remove[*RunOnSpawn](w, d)
		if _, ok := ecs.Remove[*Running](w, d); !ok {
			continue
		}
		Logger(w).Debug("interrupt", "action", d, "name", w.Name(d), "by", by)
		if err := w.Trigger(ctx, d, domain.Interrupted{Action: d, By: by}); err != nil {
			return err
		}
	}
	return nil
}
