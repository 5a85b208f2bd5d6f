package behaviortree

import (
	"context"
	"fmt"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
)

// Leaf is an action backed by a go-behaviortree node.
type Leaf struct {
	Node bt.Node
	// Ticks counts the ticks of the current run.
	Ticks int
	// Err is the last tick error, cleared on every run.
	Err error
}

// New wraps node as a Leaf.
func New(node bt.Node) *Leaf {
	return &Leaf{Node: node}
}

// FromTick wraps a bare tick function as a Leaf.
func FromTick(tick bt.Tick) *Leaf {
	return New(bt.New(tick))
}

func (*Leaf) ActionKind() flow.ActionKind { return "behaviortree" }

func (*Leaf) Handlers() flow.Handlers {
	return flow.Handlers{OnRun: func(t *ecs.Trigger, _ domain.Run) error {
		if l, ok := ecs.Get[*Leaf](t.World, t.Target); ok {
			l.Ticks = 0
			l.Err = nil
		}
		return nil
	}}
}

func (*Leaf) Requires() []any { return []any{&flow.ContinueRun{}} }

// Plugin adds the system that ticks running leaves.
type Plugin struct{}

// Build implements ecs.Plugin.
func (Plugin) Build(app *ecs.App) {
	app.AddSystem(ecs.Tick, "behaviortree", tickLeaves)
}

func tickLeaves(ctx context.Context, w *ecs.World) error {
	for _, e := range ecs.Query[*Leaf](w) {
		if !flow.IsRunning(w, e) {
			continue
		}
		l, _ := ecs.Get[*Leaf](w, e)
		outcome, done := l.tick()
		if !done {
			continue
		}
		if l.Err != nil {
			flow.Logger(w).Warn("behaviortree tick failed", "entity", e, "name", w.Name(e), "error", l.Err)
		}
		if err := flow.Finish(ctx, w, e, outcome); err != nil {
			return err
		}
	}
	return nil
}

func (l *Leaf) tick() (domain.Outcome, bool) {
	l.Ticks++
	if l.Node == nil {
		l.Err = fmt.Errorf("leaf has no node")
		return domain.Fail, true
	}
	status, err := l.Node.Tick()
	if err != nil {
		l.Err = err
		return domain.Fail, true
	}
	switch status {
	case bt.Running:
		return "", false
	case bt.Success:
		return domain.Pass, true
	default:
		return domain.Fail, true
	}
}
