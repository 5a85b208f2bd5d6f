package ecs

import (
	"context"
	"slices"
)

// EventKind names a family of events observers subscribe to.
type EventKind string

// Event is anything that can be triggered on the world.
type Event interface {
	EventKind() EventKind
}

// Trigger is handed to observers for one dispatched event.
type Trigger struct {
	ctx context.Context

	World *World
	// Target is the entity the event was dispatched on, Invalid for
	// untargeted events.
	Target Entity
	Event  Event
	// Observer is the observer entity currently handling the event.
	Observer Entity
}

// Context returns the context the event was triggered with.
func (t *Trigger) Context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// ObserverFunc handles one event. A non-nil error aborts the dispatch and is
// returned by World.Trigger.
type ObserverFunc func(t *Trigger) error

type observer struct {
	entity   Entity
	global   bool
	targets  map[Entity]struct{}
	watching []Entity
	handlers map[EventKind]ObserverFunc
}

type observerTable struct {
	byEntity map[Entity]*observer
	byKind   map[EventKind][]*observer
}

func newObserverTable() observerTable {
	return observerTable{
		byEntity: make(map[Entity]*observer),
		byKind:   make(map[EventKind][]*observer),
	}
}

// forget drops e as an observer and as a watched target.
func (t *observerTable) forget(e Entity) {
	if o, ok := t.byEntity[e]; ok {
		for kind := range o.handlers {
			t.byKind[kind] = slices.DeleteFunc(t.byKind[kind], func(x *observer) bool { return x == o })
		}
		delete(t.byEntity, e)
	}
	for _, o := range t.byEntity {
		if _, ok := o.targets[e]; ok {
			delete(o.targets, e)
			o.watching = slices.DeleteFunc(o.watching, func(x Entity) bool { return x == e })
		}
	}
}

// SpawnObserver spawns an observer entity with no handlers and no targets.
func (w *World) SpawnObserver(name string) Entity {
	e := w.Spawn(Name(name))
	w.observers.byEntity[e] = &observer{
		entity:   e,
		targets:  make(map[Entity]struct{}),
		handlers: make(map[EventKind]ObserverFunc),
	}
	return e
}

// On attaches fn to observer for events of kind, replacing a previous
// handler for the same kind.
func (w *World) On(observer Entity, kind EventKind, fn ObserverFunc) {
	o, ok := w.observers.byEntity[observer]
	if !ok {
		return
	}
	if _, dup := o.handlers[kind]; !dup {
		w.observers.byKind[kind] = append(w.observers.byKind[kind], o)
	}
	o.handlers[kind] = fn
}

// Watch makes observer receive events targeted at target.
func (w *World) Watch(observer, target Entity) {
	o, ok := w.observers.byEntity[observer]
	if !ok || !w.Alive(target) {
		return
	}
	if _, dup := o.targets[target]; dup {
		return
	}
	o.targets[target] = struct{}{}
	o.watching = append(o.watching, target)
}

// Unwatch stops observer from receiving events targeted at target.
func (w *World) Unwatch(observer, target Entity) {
	o, ok := w.observers.byEntity[observer]
	if !ok {
		return
	}
	delete(o.targets, target)
	o.watching = slices.DeleteFunc(o.watching, func(x Entity) bool { return x == target })
}

// Watching returns the targets of observer in watch order.
func (w *World) Watching(observer Entity) []Entity {
	if o, ok := w.observers.byEntity[observer]; ok {
		return slices.Clone(o.watching)
	}
	return nil
}

// IsObserver reports whether e is an observer entity.
func (w *World) IsObserver(e Entity) bool {
	_, ok := w.observers.byEntity[e]
	return ok
}

// Observe spawns an observer running fn for events of kind targeted at target.
func (w *World) Observe(target Entity, kind EventKind, fn ObserverFunc) Entity {
	e := w.SpawnObserver(string(kind) + " observer")
	w.On(e, kind, fn)
	w.Watch(e, target)
	return e
}

// ObserveGlobal spawns an observer running fn for every event of kind,
// whatever its target.
func (w *World) ObserveGlobal(kind EventKind, fn ObserverFunc) Entity {
	e := w.SpawnObserver(string(kind) + " global observer")
	w.observers.byEntity[e].global = true
	w.On(e, kind, fn)
	return e
}

// Trigger dispatches ev synchronously. Global observers run first, then the
// observers watching target, each group in registration order. Observers
// added during the dispatch do not see the event.
func (w *World) Trigger(ctx context.Context, target Entity, ev Event) error {
	kind := ev.EventKind()
	snapshot := slices.Clone(w.observers.byKind[kind])

	var targeted []*observer
	for _, o := range snapshot {
		if !o.global {
			targeted = append(targeted, o)
			continue
		}
		if err := w.call(ctx, o, kind, target, ev); err != nil {
			return err
		}
	}
	for _, o := range targeted {
		if _, ok := o.targets[target]; !ok {
			continue
		}
		if err := w.call(ctx, o, kind, target, ev); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) call(ctx context.Context, o *observer, kind EventKind, target Entity, ev Event) error {
	fn, ok := o.handlers[kind]
	if !ok {
		return nil
	}
	if _, live := w.observers.byEntity[o.entity]; !live {
		return nil
	}
	return fn(&Trigger{ctx: ctx, World: w, Target: target, Event: ev, Observer: o.entity})
}
