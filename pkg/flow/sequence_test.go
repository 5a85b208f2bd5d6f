package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
)

func TestSequence(t *testing.T) {
	tests := []struct {
		name     string
		children []domain.Outcome
		runs     []string
		results  []result
	}{
		{
			name:     "all pass",
			children: []domain.Outcome{domain.Pass, domain.Pass},
			runs:     []string{"root", "child1", "child2"},
			results:  []result{pass("child1"), pass("child2"), pass("root")},
		},
		{
			name:     "failure short-circuits",
			children: []domain.Outcome{domain.Pass, domain.Fail, domain.Pass},
			runs:     []string{"root", "child1", "child2"},
			results:  []result{pass("child1"), fail("child2"), fail("root")},
		},
		{
			name:    "empty passes",
			runs:    []string{"root"},
			results: []result{pass("root")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			root := h.spawn("root", ecs.Invalid, &flow.Sequence{})
			for i, o := range tt.children {
				h.spawn(childName(i), root, &flow.EndWith{Outcome: o})
			}

			h.start(root)

			assert.Equal(t, tt.runs, h.runs)
			assert.Equal(t, tt.results, h.results)
			assert.False(t, flow.IsRunning(h.w, root))
		})
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name     string
		children []domain.Outcome
		runs     []string
		results  []result
	}{
		{
			name:     "first pass wins",
			children: []domain.Outcome{domain.Fail, domain.Pass, domain.Fail},
			runs:     []string{"root", "child1", "child2"},
			results:  []result{fail("child1"), pass("child2"), pass("root")},
		},
		{
			name:     "all fail",
			children: []domain.Outcome{domain.Fail, domain.Fail},
			runs:     []string{"root", "child1", "child2"},
			results:  []result{fail("child1"), fail("child2"), fail("root")},
		},
		{
			name:    "empty fails",
			runs:    []string{"root"},
			results: []result{fail("root")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			root := h.spawn("root", ecs.Invalid, &flow.Fallback{})
			for i, o := range tt.children {
				h.spawn(childName(i), root, &flow.EndWith{Outcome: o})
			}

			h.start(root)

			assert.Equal(t, tt.runs, h.runs)
			assert.Equal(t, tt.results, h.results)
		})
	}
}

func TestInfallibleSequence_RunsEveryChildAndPasses(t *testing.T) {
	h := newHarness(t)
	root := h.spawn("root", ecs.Invalid, &flow.InfallibleSequence{})
	h.spawn("child1", root, flow.Fail())
	h.spawn("child2", root, flow.Succeed())
	h.spawn("child3", root, flow.Fail())

	h.start(root)

	assert.Equal(t, []string{"root", "child1", "child2", "child3"}, h.runs)
	assert.Equal(t, []result{fail("child1"), pass("child2"), fail("child3"), pass("root")}, h.results)
}

func TestSequence_NestedCarriesOriginAndPayload(t *testing.T) {
	h := newHarness(t)
	root := h.spawn("root", ecs.Invalid, &flow.Sequence{})
	inner := h.spawn("inner", root, &flow.Sequence{})
	leaf := h.spawn("leaf", inner, &flow.ContinueRun{})

	assert.NoError(t, flow.Start(h.ctx, h.w, root, "payload"))

	running, ok := ecs.Get[*flow.Running](h.w, leaf)
	assert.True(t, ok)
	assert.Equal(t, root, running.Origin)
	assert.Equal(t, "payload", running.Payload)
	assert.Equal(t, root, h.origins["inner"])

	// Ending the leaf from outside resumes the chain.
	assert.NoError(t, flow.Finish(h.ctx, h.w, leaf, domain.Pass))
	assert.Equal(t, []result{pass("leaf"), pass("inner"), pass("root")}, h.results)
}

func TestSequence_ChildEndFromStranger(t *testing.T) {
	h := newHarness(t)
	root := h.spawn("root", ecs.Invalid, &flow.Sequence{})
	h.spawn("child", root, &flow.ContinueRun{})
	stranger := h.spawn("stranger", ecs.Invalid)
	h.start(root)

	err := h.w.Trigger(h.ctx, root, domain.ChildEnd{Parent: root, Child: stranger, Origin: root, Outcome: domain.Pass})

	assert.ErrorIs(t, err, domain.ErrNotMyChild)
	var typed *domain.NotMyChildError
	if assert.ErrorAs(t, err, &typed) {
		assert.Equal(t, stranger, typed.Child)
		assert.Equal(t, root, typed.Parent)
	}
}

func childName(i int) string {
	return "child" + string(rune('1'+i))
}
