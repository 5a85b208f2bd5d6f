package dsl

import (
	"fmt"

	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
)

// Builder collects several top-level trees.
type Builder struct {
	order []string
	roots map[string]*NodeBuilder
}

// New creates a new builder.
func New() *Builder {
	return &Builder{
		roots: make(map[string]*NodeBuilder),
	}
}

// Add creates a new top-level node registered as a state under name.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(name string) *NodeBuilder {
	if nb, ok := b.roots[name]; ok {
		return nb
	}
	nb := Node(name).State(name)
	b.roots[name] = nb
	b.order = append(b.order, name)
	return nb
}

// Names returns the top-level names in the order they were added.
func (b *Builder) Names() []string {
	return append([]string(nil), b.order...)
}

// Spawn spawns every tree into w, in the order they were added. The trees
// share one state scope, and all states are registered before any RunNext
// can fire.
func (b *Builder) Spawn(w *ecs.World) (map[string]ecs.Entity, error) {
	out := make(map[string]ecs.Entity, len(b.order))
	for _, name := range b.order {
		e, err := b.roots[name].Spawn(w)
		if err != nil {
			return nil, fmt.Errorf("failed to spawn %s: %w", name, err)
		}
		out[name] = e
	}
	roots := make([]ecs.Entity, 0, len(b.order))
	for _, name := range b.order {
		roots = append(roots, out[name])
	}
	flow.GroupStates(w, roots...)
	return out, nil
}
