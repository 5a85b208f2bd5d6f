package flow

import (
	"slices"

	"github.com/aretw0/beetflow/pkg/ecs"
)

// State names an entity that RunNext can jump to. Names are resolved within
// the state scope of the jumping entity, so trees loaded from the same
// definition do not see each other's states. Despawning the entity drops
// its name.
type State struct {
	Name string
}

// StateScope joins the tree it roots to the state scope of Group. It lets
// separate top-level trees jump to one another.
type StateScope struct {
	Group ecs.Entity
}

// NameState registers e under name.
func NameState(w *ecs.World, name string, e ecs.Entity) {
	w.Insert(e, &State{Name: name})
}

// GroupStates puts roots into one state scope.
func GroupStates(w *ecs.World, roots ...ecs.Entity) {
	if len(roots) == 0 {
		return
	}
	for _, r := range roots {
		w.Insert(r, &StateScope{Group: roots[0]})
	}
}

// ScopeOf returns the state scope of e: the group of its root, or the root.
func ScopeOf(w *ecs.World, e ecs.Entity) ecs.Entity {
	root := w.Root(e)
	if s, ok := ecs.Get[*StateScope](w, root); ok {
		return s.Group
	}
	return root
}

// LookupState returns the entity registered under name in the scope of
// from. When a name is registered twice the latest spawned entity wins.
func LookupState(w *ecs.World, from ecs.Entity, name string) (ecs.Entity, bool) {
	scope := ScopeOf(w, from)
	found := ecs.Invalid
	for _, e := range ecs.Query[*State](w) {
		if s, _ := ecs.Get[*State](w, e); s.Name == name && ScopeOf(w, e) == scope {
			found = e
		}
	}
	return found, found != ecs.Invalid
}

// StateOf returns the state name registered for e.
func StateOf(w *ecs.World, e ecs.Entity) (string, bool) {
	if s, ok := ecs.Get[*State](w, e); ok {
		return s.Name, true
	}
	return "", false
}

// States returns the state names visible from e, sorted.
func States(w *ecs.World, from ecs.Entity) []string {
	scope := ScopeOf(w, from)
	var names []string
	for _, e := range ecs.Query[*State](w) {
		if s, _ := ecs.Get[*State](w, e); !slices.Contains(names, s.Name) && ScopeOf(w, e) == scope {
			names = append(names, s.Name)
		}
	}
	slices.Sort(names)
	return names
}
