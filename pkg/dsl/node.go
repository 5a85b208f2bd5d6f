package dsl

import (
	"fmt"
	"time"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
	"github.com/aretw0/beetflow/pkg/registry"
)

// NodeBuilder describes one node and its subtree.
type NodeBuilder struct {
	name       string
	state      string
	components []any
	children   []*NodeBuilder
	err        error
}

// Node starts a node named name.
func Node(name string) *NodeBuilder {
	return &NodeBuilder{name: name}
}

// Name returns the node name.
func (n *NodeBuilder) Name() string { return n.name }

// With adds arbitrary components, such as custom actions.
func (n *NodeBuilder) With(components ...any) *NodeBuilder {
	n.components = append(n.components, components...)
	return n
}

// Child appends children in order.
func (n *NodeBuilder) Child(children ...*NodeBuilder) *NodeBuilder {
	n.children = append(n.children, children...)
	return n
}

// State registers the node under name for RunNext.
func (n *NodeBuilder) State(name string) *NodeBuilder {
	n.state = name
	return n
}

// Composites

func (n *NodeBuilder) Sequence() *NodeBuilder           { return n.With(&flow.Sequence{}) }
func (n *NodeBuilder) Fallback() *NodeBuilder           { return n.With(&flow.Fallback{}) }
func (n *NodeBuilder) InfallibleSequence() *NodeBuilder { return n.With(&flow.InfallibleSequence{}) }
func (n *NodeBuilder) Parallel() *NodeBuilder           { return n.With(&flow.Parallel{}) }
func (n *NodeBuilder) ScoreFlow() *NodeBuilder          { return n.With(&flow.ScoreFlow{}) }
func (n *NodeBuilder) Repeat() *NodeBuilder             { return n.With(flow.Repeat()) }

// RepeatWhile repeats while the child ends with o.
func (n *NodeBuilder) RepeatWhile(o domain.Outcome) *NodeBuilder {
	return n.With(flow.RepeatWhile(o))
}

// LoopTimes loops back to the first sibling times times.
func (n *NodeBuilder) LoopTimes(times int) *NodeBuilder {
	return n.With(flow.NewLoopTimes(times))
}

// RunNext jumps to state once the node ended.
func (n *NodeBuilder) RunNext(state string) *NodeBuilder {
	return n.With(flow.NewRunNext(state))
}

// RunNextIf jumps to state once the node ended with o.
func (n *NodeBuilder) RunNextIf(state string, o domain.Outcome) *NodeBuilder {
	return n.With(flow.RunNextIf(state, o))
}

// Leaves

func (n *NodeBuilder) Succeed() *NodeBuilder { return n.With(flow.Succeed()) }
func (n *NodeBuilder) Fail() *NodeBuilder    { return n.With(flow.Fail()) }

// EndWith ends with o as soon as the node runs.
func (n *NodeBuilder) EndWith(o domain.Outcome) *NodeBuilder {
	return n.With(&flow.EndWith{Outcome: o})
}

// SucceedTimes passes times runs, then fails.
func (n *NodeBuilder) SucceedTimes(times int) *NodeBuilder {
	return n.With(&flow.SucceedTimes{Times: times})
}

// EndInDuration ends with o once the node ran for d.
func (n *NodeBuilder) EndInDuration(d time.Duration, o domain.Outcome) *NodeBuilder {
	return n.With(&flow.EndInDuration{Duration: d, Outcome: o})
}

// Condition passes when src holds on the blackboard. A syntax error is
// reported by Spawn.
func (n *NodeBuilder) Condition(src string) *NodeBuilder {
	c, err := flow.NewCondition(src)
	if err != nil {
		n.fail(err)
		return n
	}
	return n.With(c)
}

// Set writes value under key on the blackboard and passes.
func (n *NodeBuilder) Set(key string, value any) *NodeBuilder {
	return n.With(&flow.SetValue{Key: key, Value: value})
}

// Score answers ScoreFlow requests with v.
func (n *NodeBuilder) Score(v float64) *NodeBuilder {
	return n.With(&flow.ConstantScore{Value: domain.Score(v)})
}

// ScoreExpr answers ScoreFlow requests with a blackboard expression.
func (n *NodeBuilder) ScoreExpr(src string) *NodeBuilder {
	return n.With(&flow.ExprScore{Expr: src})
}

// Markers

func (n *NodeBuilder) NoInterrupt() *NodeBuilder { return n.With(&flow.NoInterrupt{}) }
func (n *NodeBuilder) PreventPropagateEnd() *NodeBuilder {
	return n.With(&flow.PreventPropagateEnd{})
}
func (n *NodeBuilder) ContinueRun() *NodeBuilder  { return n.With(&flow.ContinueRun{}) }
func (n *NodeBuilder) RunOnSpawn() *NodeBuilder   { return n.With(&flow.RunOnSpawn{}) }
func (n *NodeBuilder) DespawnOnEnd() *NodeBuilder { return n.With(&flow.DespawnOnEnd{}) }

func (n *NodeBuilder) fail(err error) {
	if n.err == nil {
		n.err = fmt.Errorf("node %s: %w", n.name, err)
	}
}

func (n *NodeBuilder) check() error {
	if n.err != nil {
		return n.err
	}
	for _, c := range n.children {
		if err := c.check(); err != nil {
			return err
		}
	}
	return nil
}

// Spawn creates the subtree in w and returns the root entity. Parents are
// spawned before their children, and children are attached in order.
// Components are inserted as given, so a builder should be spawned once.
func (n *NodeBuilder) Spawn(w *ecs.World) (ecs.Entity, error) {
	if err := n.check(); err != nil {
		return ecs.Invalid, err
	}
	return n.spawn(w), nil
}

func (n *NodeBuilder) spawn(w *ecs.World) ecs.Entity {
	e := w.Spawn()
	if n.name != "" {
		w.Insert(e, ecs.Name(n.name))
	}
	if n.state != "" {
		flow.NameState(w, n.state, e)
	}
	for _, c := range n.children {
		w.AddChild(e, c.spawn(w))
	}
	// Components go on after the children are attached.
	flow.Insert(w, e, n.components...)
	return e
}

// FromDef turns a definition into a builder, building actions with reg and
// markers from their registered names.
func FromDef(def *domain.TreeDef, reg *registry.Registry) (*NodeBuilder, error) {
	nb := Node(def.Label())
	if def.State != "" {
		nb.State(def.State)
	}
	for _, a := range def.Actions() {
		action, err := reg.Build(a.Action, a.Params)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nb.name, err)
		}
		nb.With(action)
	}
	for _, m := range def.Markers {
		marker, ok := registry.Marker(m)
		if !ok {
			return nil, fmt.Errorf("node %s: unknown marker %q", nb.name, m)
		}
		nb.With(marker)
	}
	for i := range def.Children {
		child, err := FromDef(&def.Children[i], reg)
		if err != nil {
			return nil, err
		}
		nb.Child(child)
	}
	return nb, nil
}
