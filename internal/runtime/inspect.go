package runtime

import (
	"reflect"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
	"github.com/aretw0/beetflow/pkg/registry"
)

// Inspect returns a snapshot of root and its descendants in depth-first
// order.
func (e *Engine) Inspect(root ecs.Entity) []domain.NodeInfo {
	w := e.World()
	if !w.Alive(root) {
		return nil
	}
	var out []domain.NodeInfo
	var walk func(ent ecs.Entity, depth int)
	walk = func(ent ecs.Entity, depth int) {
		out = append(out, e.describe(ent, depth))
		for _, c := range w.Children(ent) {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return out
}

func (e *Engine) describe(ent ecs.Entity, depth int) domain.NodeInfo {
	w := e.World()
	info := domain.NodeInfo{
		Entity:   ent,
		Name:     w.Name(ent),
		Kinds:    kindNames(w, ent),
		Running:  flow.IsRunning(w, ent),
		Depth:    depth,
		Children: w.Children(ent),
	}
	if p, ok := w.Parent(ent); ok {
		info.Parent = p
	}
	if s, ok := flow.StateOf(w, ent); ok {
		info.State = s
	}
	if rn, ok := ecs.Get[*flow.RunNext](w, ent); ok {
		info.Next = rn.Next
	}
	for _, name := range registry.Markers() {
		m, _ := registry.Marker(name)
		if w.HasType(ent, reflect.TypeOf(m)) {
			info.Markers = append(info.Markers, name)
		}
	}
	return info
}
