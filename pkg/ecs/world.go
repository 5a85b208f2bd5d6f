package ecs

import (
	"reflect"
	"slices"
)

// World owns every entity, component, resource and observer of one runtime.
type World struct {
	nextID uint64
	seq    uint64

	entities   []Entity
	alive      map[Entity]struct{}
	components map[Entity]map[reflect.Type]*slot
	parents    map[Entity]Entity
	children   map[Entity][]Entity

	resources map[reflect.Type]any
	hooks     map[reflect.Type][]ComponentHooks

	added   changeLog
	removed changeLog

	observers observerTable
	commands  *Commands
}

type slot struct {
	value any
	added uint64
}

// NewWorld returns an empty world.
func NewWorld() *World {
	w := &World{
		alive:      make(map[Entity]struct{}),
		components: make(map[Entity]map[reflect.Type]*slot),
		parents:    make(map[Entity]Entity),
		children:   make(map[Entity][]Entity),
		resources:  make(map[reflect.Type]any),
		hooks:      make(map[reflect.Type][]ComponentHooks),
		observers:  newObserverTable(),
	}
	w.commands = &Commands{}
	return w
}

// Spawn allocates a new entity and inserts the given components on it.
func (w *World) Spawn(components ...any) Entity {
	w.nextID++
	e := Entity(w.nextID)
	w.entities = append(w.entities, e)
	w.alive[e] = struct{}{}
	w.components[e] = make(map[reflect.Type]*slot)
	w.Insert(e, components...)
	return e
}

// Alive reports whether e has been spawned and not despawned.
func (w *World) Alive(e Entity) bool {
	_, ok := w.alive[e]
	return ok
}

// Entities returns the live entities in spawn order.
func (w *World) Entities() []Entity {
	return slices.Clone(w.entities)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.entities)
}

// Despawn removes e and all of its descendants. Component remove hooks run
// for every removed component, children before parents.
func (w *World) Despawn(e Entity) {
	if !w.Alive(e) {
		return
	}
	for _, child := range w.Children(e) {
		w.Despawn(child)
	}

	for _, t := range w.componentTypes(e) {
		w.removeType(e, t)
	}
	w.detach(e)
	delete(w.children, e)
	w.observers.forget(e)

	delete(w.components, e)
	delete(w.alive, e)
	if i := slices.Index(w.entities, e); i >= 0 {
		w.entities = slices.Delete(w.entities, i, i+1)
	}
}

// AddChild attaches child as the last child of parent, detaching it from any
// previous parent first.
func (w *World) AddChild(parent, child Entity) {
	if !w.Alive(parent) || !w.Alive(child) || parent == child {
		return
	}
	w.detach(child)
	w.parents[child] = parent
	w.children[parent] = append(w.children[parent], child)
}

// RemoveChild detaches child from parent. The child stays alive.
func (w *World) RemoveChild(parent, child Entity) {
	if p, ok := w.parents[child]; ok && p == parent {
		w.detach(child)
	}
}

func (w *World) detach(child Entity) {
	parent, ok := w.parents[child]
	if !ok {
		return
	}
	delete(w.parents, child)
	siblings := w.children[parent]
	if i := slices.Index(siblings, child); i >= 0 {
		w.children[parent] = slices.Delete(siblings, i, i+1)
	}
}

// Parent returns the parent of e.
func (w *World) Parent(e Entity) (Entity, bool) {
	p, ok := w.parents[e]
	return p, ok
}

// Children returns the children of e in attach order.
func (w *World) Children(e Entity) []Entity {
	return slices.Clone(w.children[e])
}

// ChildIndex returns the position of child under parent, or -1.
func (w *World) ChildIndex(parent, child Entity) int {
	if p, ok := w.parents[child]; !ok || p != parent {
		return -1
	}
	return slices.Index(w.children[parent], child)
}

// Descendants returns every entity below e, depth-first in child order.
func (w *World) Descendants(e Entity) []Entity {
	var out []Entity
	var walk func(Entity)
	walk = func(n Entity) {
		for _, c := range w.children[n] {
			out = append(out, c)
			walk(c)
		}
	}
	walk(e)
	return out
}

// Ancestors returns the chain of parents of e, nearest first.
func (w *World) Ancestors(e Entity) []Entity {
	var out []Entity
	for {
		p, ok := w.parents[e]
		if !ok {
			return out
		}
		out = append(out, p)
		e = p
	}
}

// Root returns the topmost ancestor of e, or e itself.
func (w *World) Root(e Entity) Entity {
	if anc := w.Ancestors(e); len(anc) > 0 {
		return anc[len(anc)-1]
	}
	return e
}

// Name returns the Name component of e, if any.
func (w *World) Name(e Entity) string {
	if n, ok := Get[Name](w, e); ok {
		return string(n)
	}
	return ""
}

// Commands returns the deferred command queue of the world.
func (w *World) Commands() *Commands {
	return w.commands
}

// ChangeSeq returns the current change sequence. Changes recorded after a
// call are reported by AddedSince and RemovedSince with that value.
func (w *World) ChangeSeq() uint64 {
	return w.seq
}

func (w *World) nextSeq() uint64 {
	w.seq++
	return w.seq
}

// ClearTrackers drops change records older than the previous call. Readers
// that look at the log once per update see every change exactly once.
func (w *World) ClearTrackers() {
	w.added.rotate()
	w.removed.rotate()
}
