package flow

import (
	"reflect"
	"sort"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
)

// ActionKind names an action type. All actions of one kind share a single
// observer entity.
type ActionKind string

// Action is a component that reacts to flow events. Implementations are
// pointer types so handlers can keep per-entity state on the component.
type Action interface {
	ActionKind() ActionKind
	Handlers() Handlers
}

// Handlers are the event callbacks of an action kind. The trigger target is
// the entity carrying the action. Nil handlers are skipped.
type Handlers struct {
	OnRun          func(t *ecs.Trigger, ev domain.Run) error
	OnEnd          func(t *ecs.Trigger, ev domain.End) error
	OnChildEnd     func(t *ecs.Trigger, ev domain.ChildEnd) error
	OnInterrupted  func(t *ecs.Trigger, ev domain.Interrupted) error
	OnRequestScore func(t *ecs.Trigger, ev domain.RequestScore) error
	OnChildScore   func(t *ecs.Trigger, ev domain.ChildScore) error
}

// ActionObservers maps each action kind to its shared observer entity.
// Entries are created on first use and live as long as the world.
type ActionObservers struct {
	observers map[ActionKind]ecs.Entity
}

func actionObservers(w *ecs.World) *ActionObservers {
	return ecs.ResourceOrInit(w, func() *ActionObservers {
		return &ActionObservers{observers: make(map[ActionKind]ecs.Entity)}
	})
}

// ActionObserversOf returns the registry of w.
func ActionObserversOf(w *ecs.World) *ActionObservers {
	return actionObservers(w)
}

// Observer returns the observer entity of kind.
func (a *ActionObservers) Observer(kind ActionKind) (ecs.Entity, bool) {
	e, ok := a.observers[kind]
	return e, ok
}

// Kinds returns the registered kinds, sorted.
func (a *ActionObservers) Kinds() []ActionKind {
	kinds := make([]ActionKind, 0, len(a.observers))
	for k := range a.observers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Len returns the number of registered kinds.
func (a *ActionObservers) Len() int {
	return len(a.observers)
}

// AddAction inserts action on e and makes the observer of its kind watch e.
// Removing the component later only unwatches e.
func AddAction(w *ecs.World, e ecs.Entity, action Action) {
	if !w.Alive(e) {
		return
	}
	obs := observerFor(w, action)
	w.Insert(e, action)
	w.Watch(obs, e)
	if r, ok := action.(Requirer); ok {
		for _, req := range r.Requires() {
			if !w.HasType(e, reflect.TypeOf(req)) {
				Insert(w, e, req)
			}
		}
	}
}

func observerFor(w *ecs.World, action Action) ecs.Entity {
	reg := actionObservers(w)
	kind := action.ActionKind()
	if obs, ok := reg.observers[kind]; ok {
		return obs
	}

	obs := w.SpawnObserver(string(kind))
	reg.observers[kind] = obs
	bind(w, obs, action.Handlers())

	w.AddHooks(reflect.TypeOf(action), ecs.ComponentHooks{
		OnRemove: func(w *ecs.World, e ecs.Entity) { w.Unwatch(obs, e) },
	})
	return obs
}

func bind(w *ecs.World, obs ecs.Entity, h Handlers) {
	if h.OnRun != nil {
		w.On(obs, domain.KindRun, func(t *ecs.Trigger) error { return h.OnRun(t, t.Event.(domain.Run)) })
	}
	if h.OnEnd != nil {
		w.On(obs, domain.KindEnd, func(t *ecs.Trigger) error { return h.OnEnd(t, t.Event.(domain.End)) })
	}
	if h.OnChildEnd != nil {
		w.On(obs, domain.KindChildEnd, func(t *ecs.Trigger) error { return h.OnChildEnd(t, t.Event.(domain.ChildEnd)) })
	}
	if h.OnInterrupted != nil {
		w.On(obs, domain.KindInterrupted, func(t *ecs.Trigger) error {
			return h.OnInterrupted(t, t.Event.(domain.Interrupted))
		})
	}
	if h.OnRequestScore != nil {
		w.On(obs, domain.KindRequestScore, func(t *ecs.Trigger) error {
			return h.OnRequestScore(t, t.Event.(domain.RequestScore))
		})
	}
	if h.OnChildScore != nil {
		w.On(obs, domain.KindChildScore, func(t *ecs.Trigger) error {
			return h.OnChildScore(t, t.Event.(domain.ChildScore))
		})
	}
}

// KindsOf returns the action kinds present on e, in insertion order.
func KindsOf(w *ecs.World, e ecs.Entity) []ActionKind {
	var kinds []ActionKind
	for _, c := range w.Components(e) {
		if a, ok := c.(Action); ok {
			kinds = append(kinds, a.ActionKind())
		}
	}
	return kinds
}
