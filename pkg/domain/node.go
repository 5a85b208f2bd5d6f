package domain

import "slices"

// TreeDef is the declarative form of a tree, as read from YAML or JSON.
type TreeDef struct {
	// Name labels the node. Defaults to the action kind.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Action is the registered action kind, e.g. "sequence" or "end_with".
	Action string `json:"action" yaml:"action"`
	// Params configure the action; decoded by its factory.
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	// With lists extra actions carried by the same node, such as a score
	// provider or a run_next jump next to the main action.
	With []ActionDef `json:"with,omitempty" yaml:"with,omitempty"`
	// Markers add behavior flags such as "no_interrupt".
	Markers []string `json:"markers,omitempty" yaml:"markers,omitempty"`
	// State registers the node as a RunNext target under this name.
	State    string    `json:"state,omitempty" yaml:"state,omitempty"`
	Children []TreeDef `json:"children,omitempty" yaml:"children,omitempty"`
}

// ActionDef is an action kind with its params.
type ActionDef struct {
	Action string         `json:"action" yaml:"action"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Actions returns the main action followed by the With actions.
func (d *TreeDef) Actions() []ActionDef {
	out := make([]ActionDef, 0, 1+len(d.With))
	out = append(out, ActionDef{Action: d.Action, Params: d.Params})
	return append(out, d.With...)
}

// Label returns Name, or Action when the node is unnamed.
func (d *TreeDef) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Action
}

// Walk visits d and its descendants depth-first. path holds the labels from
// the root to the visited node.
func (d *TreeDef) Walk(fn func(node *TreeDef, path []string)) {
	var walk func(n *TreeDef, path []string)
	walk = func(n *TreeDef, path []string) {
		path = append(slices.Clone(path), n.Label())
		fn(n, path)
		for i := range n.Children {
			walk(&n.Children[i], path)
		}
	}
	walk(d, nil)
}

// NodeInfo is a snapshot of one spawned node, used by inspection and
// rendering.
type NodeInfo struct {
	Entity   Entity   `json:"entity"`
	Name     string   `json:"name,omitempty"`
	Kinds    []string `json:"kinds,omitempty"`
	Markers  []string `json:"markers,omitempty"`
	State    string   `json:"state,omitempty"`
	Next     string   `json:"next,omitempty"`
	Running  bool     `json:"running"`
	Depth    int      `json:"depth"`
	Parent   Entity   `json:"parent,omitempty"`
	Children []Entity `json:"children,omitempty"`
}
