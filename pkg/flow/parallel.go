package flow

import (
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
)

// Parallel runs all of its children at once. The first failure fails it;
// it passes once every child has passed. Results arriving after it resolved
// are ignored and the remaining children keep running.
type Parallel struct {
	passed   map[ecs.Entity]struct{}
	resolved bool
}

func (*Parallel) ActionKind() ActionKind { return "parallel" }

func (*Parallel) Handlers() Handlers {
	return Handlers{
		OnRun:         parallelRun,
		OnChildEnd:    parallelChildEnd,
		OnInterrupted: parallelInterrupted,
	}
}

func parallelRun(t *ecs.Trigger, ev domain.Run) error {
	w, ctx := t.World, t.Context()
	p, ok := ecs.Get[*Parallel](w, t.Target)
	if !ok {
		return nil
	}
	p.passed = make(map[ecs.Entity]struct{})
	p.resolved = false

	children := w.Children(t.Target)
	if len(children) == 0 {
		p.resolved = true
		return TriggerEnd(ctx, w, t.Target, ev.EndWith(domain.Pass))
	}
	for _, child := range children {
		if err := TriggerRun(ctx, w, child, ev.Forward(child)); err != nil {
			return err
		}
	}
	return nil
}

func parallelChildEnd(t *ecs.Trigger, ev domain.ChildEnd) error {
	w, ctx := t.World, t.Context()
	if _, err := childIndex(w, ev.Parent, ev.Child); err != nil {
		return err
	}
	p, ok := ecs.Get[*Parallel](w, ev.Parent)
	if !ok || p.resolved {
		return nil
	}
	if ev.Outcome == domain.Fail {
		p.resolved = true
		return TriggerEnd(ctx, w, ev.Parent, ev.End())
	}
	if p.passed == nil {
		p.passed = make(map[ecs.Entity]struct{})
	}
	p.passed[ev.Child] = struct{}{}
	if len(p.passed) < len(w.Children(ev.Parent)) {
		return nil
	}
	p.resolved = true
	return TriggerEnd(ctx, w, ev.Parent, ev.EndWith(domain.Pass))
}

func parallelInterrupted(t *ecs.Trigger, _ domain.Interrupted) error {
	if p, ok := ecs.Get[*Parallel](t.World, t.Target); ok {
		p.resolved = true
	}
	return nil
}
