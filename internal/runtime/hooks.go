package runtime

import (
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
)

// bindHooks turns run, end and interrupted events into trace events for
// the lifecycle hooks. Global observers fire before targeted ones, so the
// hooks see events in dispatch order.
func (e *Engine) bindHooks() {
	w := e.World()
	w.ObserveGlobal(domain.KindRun, func(t *ecs.Trigger) error {
		ev := t.Event.(domain.Run)
		e.origins[t.Target] = ev.Origin
		te := e.traceEvent(t.Target, domain.TraceRun, ev.Origin, "")
		te.Payload = ev.Payload
		e.hooks.Fire(t.Context(), te)
		return nil
	})
	w.ObserveGlobal(domain.KindEnd, func(t *ecs.Trigger) error {
		ev := t.Event.(domain.End)
		e.outcomes[t.Target] = ev.Outcome
		delete(e.origins, t.Target)
		e.hooks.Fire(t.Context(), e.traceEvent(t.Target, domain.TraceEnd, ev.Origin, ev.Outcome))
		return nil
	})
	w.ObserveGlobal(domain.KindInterrupted, func(t *ecs.Trigger) error {
		origin := e.origins[t.Target]
		delete(e.origins, t.Target)
		e.hooks.Fire(t.Context(), e.traceEvent(t.Target, domain.TraceInterrupt, origin, ""))
		return nil
	})
}

func (e *Engine) traceEvent(target ecs.Entity, typ domain.TraceEventType, origin ecs.Entity, outcome domain.Outcome) *domain.TraceEvent {
	w := e.World()
	parent, _ := w.Parent(target)
	return &domain.TraceEvent{
		Timestamp: e.clock(),
		Type:      typ,
		Tick:      ecs.CurrentTime(w).Tick,
		Action:    target,
		Name:      w.Name(target),
		Kinds:     kindNames(w, target),
		Parent:    parent,
		Origin:    origin,
		Outcome:   outcome,
	}
}

func kindNames(w *ecs.World, e ecs.Entity) []string {
	kinds := flow.KindsOf(w, e)
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
