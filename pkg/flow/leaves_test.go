package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
)

func TestCondition(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		battery any
		want    domain.Outcome
	}{
		{name: "holds", expr: "battery > 20", battery: 50, want: domain.Pass},
		{name: "does not hold", expr: "battery > 20", battery: 10, want: domain.Fail},
		{name: "missing value", expr: "battery > 20", want: domain.Fail},
		{name: "string compare", expr: `mode == "patrol"`, want: domain.Fail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.battery != nil {
				flow.BlackboardOf(h.w).Set("battery", tt.battery)
			}
			e := h.spawn("check", ecs.Invalid, &flow.Condition{Expr: tt.expr})

			h.start(e)

			assert.Equal(t, []result{{"check", tt.want}}, h.results)
		})
	}
}

func TestNewCondition_SyntaxError(t *testing.T) {
	_, err := flow.NewCondition("battery >")
	assert.Error(t, err)

	c, err := flow.NewCondition("a && b")
	require.NoError(t, err)
	ok, err := c.Eval(map[string]any{"a": true, "b": true})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetValue_FeedsCondition(t *testing.T) {
	h := newHarness(t)
	root := h.spawn("root", ecs.Invalid, &flow.Sequence{})
	h.spawn("arm", root, &flow.SetValue{Key: "armed", Value: true})
	h.spawn("check", root, &flow.Condition{Expr: "armed"})

	h.start(root)

	assert.Equal(t, []result{pass("arm"), pass("check"), pass("root")}, h.results)
	v, ok := flow.BlackboardOf(h.w).Get("armed")
	assert.True(t, ok)
	assert.Equal(t, true, v)
}

func TestSucceedTimes(t *testing.T) {
	h := newHarness(t)
	e := h.spawn("flaky", ecs.Invalid, &flow.SucceedTimes{Times: 2})

	for range 3 {
		h.start(e)
	}
	assert.Equal(t, []domain.Outcome{domain.Pass, domain.Pass, domain.Fail}, h.resultsOf("flaky"))

	s, _ := ecs.Get[*flow.SucceedTimes](h.w, e)
	s.Reset()
	h.start(e)
	assert.Equal(t, domain.Pass, h.resultsOf("flaky")[3])
}

func TestEndInDuration(t *testing.T) {
	h := newHarness(t)
	e := h.spawn("wait", ecs.Invalid, &flow.EndInDuration{Duration: 3 * step})
	assert.True(t, ecs.Has[*flow.ContinueRun](h.w, e))
	assert.True(t, ecs.Has[*flow.RunTimer](h.w, e))

	h.start(e)
	h.update(3)
	assert.Empty(t, h.results)

	h.update(1)
	assert.Equal(t, []result{pass("wait")}, h.results)

	h.update(5)
	assert.Len(t, h.results, 1)
}

func TestDespawnOnEnd(t *testing.T) {
	h := newHarness(t)
	root := h.spawn("root", ecs.Invalid, &flow.Sequence{}, &flow.DespawnOnEnd{})
	child := h.spawn("child", root, flow.Succeed())

	h.start(root)
	assert.True(t, h.w.Alive(root), "despawn is deferred")

	h.update(1)
	assert.False(t, h.w.Alive(root))
	assert.False(t, h.w.Alive(child))
}

func TestBlackboard_Snapshot(t *testing.T) {
	b := flow.NewBlackboard()
	b.Set("a", 1)
	snap := b.Snapshot()
	b.Set("a", 2)
	b.Delete("missing")

	assert.Equal(t, 1, snap["a"])
	v, _ := b.Get("a")
	assert.Equal(t, 2, v)
}
