package ecs

import (
	"cmp"
	"reflect"
	"slices"
)

// ComponentHooks run when a component of a given type is added to or removed
// from an entity. OnRemove runs while the component is still readable.
type ComponentHooks struct {
	OnAdd    func(w *World, e Entity)
	OnRemove func(w *World, e Entity)
}

// AddHooks registers hooks for components of type t. Hooks of the same type
// run in registration order.
func (w *World) AddHooks(t reflect.Type, hooks ComponentHooks) {
	w.hooks[t] = append(w.hooks[t], hooks)
}

// RegisterHooks registers hooks for components of type T.
func RegisterHooks[T any](w *World, hooks ComponentHooks) {
	w.AddHooks(reflect.TypeFor[T](), hooks)
}

// Insert adds components to e, keyed by their dynamic type. Replacing an
// existing component keeps its added tick and does not fire OnAdd.
func (w *World) Insert(e Entity, components ...any) {
	if !w.Alive(e) {
		return
	}
	for _, c := range components {
		if c == nil {
			continue
		}
		t := reflect.TypeOf(c)
		store := w.components[e]
		if s, ok := store[t]; ok {
			s.value = c
			continue
		}
		seq := w.nextSeq()
		store[t] = &slot{value: c, added: seq}
		w.added.record(e, t, seq)
		for _, h := range w.hooks[t] {
			if h.OnAdd != nil {
				h.OnAdd(w, e)
			}
		}
	}
}

// RemoveType removes the component of type t from e.
func (w *World) RemoveType(e Entity, t reflect.Type) (any, bool) {
	if !w.Alive(e) {
		return nil, false
	}
	return w.removeType(e, t)
}

func (w *World) removeType(e Entity, t reflect.Type) (any, bool) {
	s, ok := w.components[e][t]
	if !ok {
		return nil, false
	}
	for _, h := range w.hooks[t] {
		if h.OnRemove != nil {
			h.OnRemove(w, e)
		}
	}
	delete(w.components[e], t)
	w.removed.record(e, t, w.nextSeq())
	return s.value, true
}

// HasType reports whether e carries a component of type t.
func (w *World) HasType(e Entity, t reflect.Type) bool {
	_, ok := w.components[e][t]
	return ok
}

// Components returns the components of e ordered by insertion.
func (w *World) Components(e Entity) []any {
	types := w.componentTypes(e)
	out := make([]any, 0, len(types))
	for _, t := range types {
		out = append(out, w.components[e][t].value)
	}
	return out
}

func (w *World) componentTypes(e Entity) []reflect.Type {
	store := w.components[e]
	types := make([]reflect.Type, 0, len(store))
	for t := range store {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return cmp.Compare(store[a].added, store[b].added)
	})
	return types
}

// Get returns the component of type T on e.
func Get[T any](w *World, e Entity) (T, bool) {
	var zero T
	s, ok := w.components[e][reflect.TypeFor[T]()]
	if !ok {
		return zero, false
	}
	v, ok := s.value.(T)
	return v, ok
}

// Has reports whether e carries a component of type T.
func Has[T any](w *World, e Entity) bool {
	return w.HasType(e, reflect.TypeFor[T]())
}

// Remove removes and returns the component of type T on e.
func Remove[T any](w *World, e Entity) (T, bool) {
	var zero T
	v, ok := w.RemoveType(e, reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	c, ok := v.(T)
	return c, ok
}

// Query returns the entities carrying a component of type T, in spawn order.
func Query[T any](w *World) []Entity {
	t := reflect.TypeFor[T]()
	var out []Entity
	for _, e := range w.entities {
		if _, ok := w.components[e][t]; ok {
			out = append(out, e)
		}
	}
	return out
}

// AddedSince returns the entities that gained a T after seq. An entity may
// have lost the component again since.
func AddedSince[T any](w *World, seq uint64) []Entity {
	return w.added.since(reflect.TypeFor[T](), seq)
}

// RemovedSince returns the entities that lost a T after seq.
func RemovedSince[T any](w *World, seq uint64) []Entity {
	return w.removed.since(reflect.TypeFor[T](), seq)
}

type change struct {
	entity Entity
	kind   reflect.Type
	seq    uint64
}

// changeLog keeps two generations of changes so a reader running once per
// update never misses a record written between two of its runs.
type changeLog struct {
	previous []change
	current  []change
}

func (l *changeLog) record(e Entity, t reflect.Type, seq uint64) {
	l.current = append(l.current, change{entity: e, kind: t, seq: seq})
}

func (l *changeLog) rotate() {
	l.previous = l.current
	l.current = nil
}

func (l *changeLog) since(t reflect.Type, seq uint64) []Entity {
	var out []Entity
	seen := make(map[Entity]struct{})
	for _, gen := range [][]change{l.previous, l.current} {
		for _, c := range gen {
			if c.kind != t || c.seq <= seq {
				continue
			}
			if _, dup := seen[c.entity]; dup {
				continue
			}
			seen[c.entity] = struct{}{}
			out = append(out, c.entity)
		}
	}
	return out
}
