package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
)

func TestRepeatFlow_RepeatsWhileMatching(t *testing.T) {
	h := newHarness(t)
	root := h.spawn("root", ecs.Invalid, flow.RepeatIfSuccess())
	h.spawn("child", root, &flow.SucceedTimes{Times: 2})

	h.start(root)
	assert.Equal(t, 1, h.count("child"))
	assert.True(t, ecs.Has[*flow.RunOnSpawn](h.w, root))

	h.update(1)
	assert.Equal(t, 2, h.count("child"))
	assert.Empty(t, h.resultsOf("root"))

	h.update(1)
	assert.Equal(t, 3, h.count("child"))
	assert.Equal(t, []domain.Outcome{domain.Fail}, h.resultsOf("root"))

	h.update(2)
	assert.Equal(t, 3, h.count("child"))
}

func TestRepeatFlow_NilFilterRepeatsForever(t *testing.T) {
	h := newHarness(t)
	root := h.spawn("root", ecs.Invalid, flow.Repeat())
	h.spawn("child", root, flow.Fail())

	h.start(root)
	h.update(5)

	assert.Equal(t, 6, h.count("child"))
	assert.Empty(t, h.resultsOf("root"))
	assert.Equal(t, root, h.origins["child"])
}

func TestRepeatFlow_WithoutChild(t *testing.T) {
	h := newHarness(t)
	root := h.spawn("root", ecs.Invalid, flow.Repeat())

	err := flow.Start(h.ctx, h.w, root, nil)
	assert.ErrorIs(t, err, domain.ErrNoChildren)
}

func TestLoopTimes(t *testing.T) {
	tests := []struct {
		name      string
		loops     int
		sibling   any
		wantRuns  int
		wantRoot  []domain.Outcome
		wantLoops int
	}{
		{name: "always succeeding sibling", loops: 3, sibling: flow.Succeed(), wantRuns: 4, wantRoot: []domain.Outcome{domain.Pass}},
		{name: "zero loops", loops: 0, sibling: flow.Succeed(), wantRuns: 1, wantRoot: []domain.Outcome{domain.Pass}},
		{name: "sibling fails first", loops: 3, sibling: &flow.SucceedTimes{Times: 1}, wantRuns: 2, wantRoot: []domain.Outcome{domain.Fail}, wantLoops: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			root := h.spawn("root", ecs.Invalid, &flow.Sequence{})
			h.spawn("work", root, tt.sibling)
			loop := h.spawn("loop", root, flow.NewLoopTimes(tt.loops))

			h.start(root)
			h.update(tt.loops + 2)

			assert.Equal(t, tt.wantRuns, h.count("work"))
			assert.Equal(t, tt.wantRoot, h.resultsOf("root"))
			l, _ := ecs.Get[*flow.LoopTimes](h.w, loop)
			assert.Equal(t, tt.wantLoops, l.Times())
		})
	}
}

func TestLoopTimes_StaysRunningWhileLooping(t *testing.T) {
	h := newHarness(t)
	root := h.spawn("root", ecs.Invalid, &flow.Sequence{})
	h.spawn("work", root, flow.Succeed())
	loop := h.spawn("loop", root, flow.NewLoopTimes(2))

	h.start(root)
	assert.True(t, flow.IsRunning(h.w, loop))
	assert.True(t, flow.IsRunning(h.w, root))
	assert.Empty(t, h.resultsOf("loop"))
}

func TestLoopTimes_WithoutParent(t *testing.T) {
	h := newHarness(t)
	loop := h.spawn("loop", ecs.Invalid, flow.NewLoopTimes(2))

	err := flow.Start(h.ctx, h.w, loop, nil)
	assert.ErrorIs(t, err, domain.ErrNoParent)
}

func TestRunNext_JumpsNextTickKeepingOrigin(t *testing.T) {
	h := newHarness(t)
	idle := h.spawn("idle", ecs.Invalid, flow.Succeed(), flow.NewRunNext("walk"))
	walk := h.spawn("walk", ecs.Invalid, flow.Fail(), flow.RunNextIf("idle", domain.Pass))
	flow.NameState(h.w, "idle", idle)
	flow.NameState(h.w, "walk", walk)
	flow.GroupStates(h.w, idle, walk)

	h.start(idle)
	assert.Equal(t, []string{"idle"}, h.runs)

	h.update(1)
	assert.Equal(t, []string{"idle", "walk"}, h.runs)
	assert.Equal(t, idle, h.origins["walk"])

	// walk failed, so the conditional jump back does not fire.
	h.update(2)
	assert.Equal(t, []string{"idle", "walk"}, h.runs)
}

func TestRunNext_UnknownState(t *testing.T) {
	h := newHarness(t)
	e := h.spawn("lost", ecs.Invalid, flow.Succeed(), flow.NewRunNext("nowhere"))

	err := flow.Start(h.ctx, h.w, e, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownState)
}
