package flow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
)

const step = 10 * time.Millisecond

type result struct {
	name    string
	outcome domain.Outcome
}

func pass(name string) result { return result{name, domain.Pass} }
func fail(name string) result { return result{name, domain.Fail} }

// harness records the names of run, ended and interrupted actions in
// dispatch order.
type harness struct {
	t   *testing.T
	ctx context.Context
	app *ecs.App
	w   *ecs.World

	runs        []string
	results     []result
	interrupted []string
	origins     map[string]ecs.Entity
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	app := ecs.NewApp().AddPlugins(flow.Plugin{})
	h := &harness{
		t:       t,
		ctx:     context.Background(),
		app:     app,
		w:       app.World(),
		origins: make(map[string]ecs.Entity),
	}
	h.w.ObserveGlobal(domain.KindRun, func(tr *ecs.Trigger) error {
		name := tr.World.Name(tr.Target)
		h.runs = append(h.runs, name)
		h.origins[name] = tr.Event.(domain.Run).Origin
		return nil
	})
	h.w.ObserveGlobal(domain.KindEnd, func(tr *ecs.Trigger) error {
		h.results = append(h.results, result{tr.World.Name(tr.Target), tr.Event.(domain.End).Outcome})
		return nil
	})
	h.w.ObserveGlobal(domain.KindInterrupted, func(tr *ecs.Trigger) error {
		h.interrupted = append(h.interrupted, tr.World.Name(tr.Target))
		return nil
	})
	return h
}

// spawn creates a named entity with components, attached under parent
// unless parent is ecs.Invalid.
func (h *harness) spawn(name string, parent ecs.Entity, components ...any) ecs.Entity {
	e := h.w.Spawn(ecs.Name(name))
	flow.Insert(h.w, e, components...)
	if parent != ecs.Invalid {
		h.w.AddChild(parent, e)
	}
	return e
}

func (h *harness) start(root ecs.Entity) {
	h.t.Helper()
	require.NoError(h.t, flow.Start(h.ctx, h.w, root, nil))
}

func (h *harness) update(n int) {
	h.t.Helper()
	for range n {
		require.NoError(h.t, h.app.Update(h.ctx, step))
	}
}

func (h *harness) count(name string) int {
	n := 0
	for _, r := range h.runs {
		if r == name {
			n++
		}
	}
	return n
}

func (h *harness) resultsOf(name string) []domain.Outcome {
	var out []domain.Outcome
	for _, r := range h.results {
		if r.name == name {
			out = append(out, r.outcome)
		}
	}
	return out
}
