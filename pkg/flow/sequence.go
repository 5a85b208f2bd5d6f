package flow

import (
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
)

// Sequence runs its children in order and stops at the first failure.
// It passes when every child passed, or when it has no children.
type Sequence struct{}

func (*Sequence) ActionKind() ActionKind { return "sequence" }

func (*Sequence) Handlers() Handlers {
	return Handlers{OnRun: runFirstChild(domain.Pass), OnChildEnd: sequenceChildEnd}
}

func sequenceChildEnd(t *ecs.Trigger, ev domain.ChildEnd) error {
	w, ctx := t.World, t.Context()
	idx, err := childIndex(w, ev.Parent, ev.Child)
	if err != nil {
		return err
	}
	if !IsRunning(w, ev.Parent) {
		return nil
	}
	if ev.Outcome == domain.Fail {
		return TriggerEnd(ctx, w, ev.Parent, ev.End())
	}
	return runNextChild(t, ev, idx, domain.Pass)
}

// Fallback runs its children in order until one passes. It fails when every
// child failed, or when it has no children.
type Fallback struct{}

func (*Fallback) ActionKind() ActionKind { return "fallback" }

func (*Fallback) Handlers() Handlers {
	return Handlers{OnRun: runFirstChild(domain.Fail), OnChildEnd: fallbackChildEnd}
}

func fallbackChildEnd(t *ecs.Trigger, ev domain.ChildEnd) error {
	w, ctx := t.World, t.Context()
	idx, err := childIndex(w, ev.Parent, ev.Child)
	if err != nil {
		return err
	}
	if !IsRunning(w, ev.Parent) {
		return nil
	}
	if ev.Outcome == domain.Pass {
		return TriggerEnd(ctx, w, ev.Parent, ev.End())
	}
	return runNextChild(t, ev, idx, domain.Fail)
}

// InfallibleSequence runs every child in order whatever their outcome and
// always passes.
type InfallibleSequence struct{}

func (*InfallibleSequence) ActionKind() ActionKind { return "infallible_sequence" }

func (*InfallibleSequence) Handlers() Handlers {
	return Handlers{OnRun: runFirstChild(domain.Pass), OnChildEnd: infallibleChildEnd}
}

func infallibleChildEnd(t *ecs.Trigger, ev domain.ChildEnd) error {
	idx, err := childIndex(t.World, ev.Parent, ev.Child)
	if err != nil {
		return err
	}
	if !IsRunning(t.World, ev.Parent) {
		return nil
	}
	return runNextChild(t, ev, idx, domain.Pass)
}

// runFirstChild forwards the run to the first child, or ends with empty when
// there are no children.
func runFirstChild(empty domain.Outcome) func(*ecs.Trigger, domain.Run) error {
	return func(t *ecs.Trigger, ev domain.Run) error {
		w, ctx := t.World, t.Context()
		children := w.Children(t.Target)
		if len(children) == 0 {
			return TriggerEnd(ctx, w, t.Target, ev.EndWith(empty))
		}
		return TriggerRun(ctx, w, children[0], ev.Forward(children[0]))
	}
}

// runNextChild runs the sibling after idx, or ends the parent with last when
// idx was the final child.
func runNextChild(t *ecs.Trigger, ev domain.ChildEnd, idx int, last domain.Outcome) error {
	w, ctx := t.World, t.Context()
	children := w.Children(ev.Parent)
	if idx+1 >= len(children) {
		return TriggerEnd(ctx, w, ev.Parent, ev.EndWith(last))
	}
	next := children[idx+1]
	return TriggerRun(ctx, w, next, domain.Run{Action: next, Origin: ev.Origin, Payload: runPayload(w, ev.Parent)})
}

// childIndex returns the position of child under parent. Composites call it
// first so a stranger is reported even when the parent is not running; a
// result reaching a parent that was interrupted or already ended is ignored.
func childIndex(w *ecs.World, parent, child ecs.Entity) (int, error) {
	idx := w.ChildIndex(parent, child)
	if idx < 0 {
		return -1, &domain.NotMyChildError{Parent: parent, Child: child}
	}
	return idx, nil
}

// runPayload returns the payload of the current run of e.
func runPayload(w *ecs.World, e ecs.Entity) any {
	if r, ok := ecs.Get[*Running](w, e); ok {
		return r.Payload
	}
	return nil
}
