package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/pkg/adapters/memory"
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/observability"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ev(typ domain.TraceEventType, action, origin domain.Entity, name string, outcome domain.Outcome, offset int) *domain.TraceEvent {
	return &domain.TraceEvent{
		Timestamp: t0.Add(time.Duration(offset) * time.Millisecond),
		Type:      typ,
		Action:    action,
		Origin:    origin,
		Name:      name,
		Outcome:   outcome,
	}
}

func TestRecorder_GroupsByOrigin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	rec := observability.NewRecorder(observability.WithStore(store))
	hooks := rec.Hooks()

	hooks.Fire(ctx, ev(domain.TraceRun, 1, 1, "root", "", 0))
	hooks.Fire(ctx, ev(domain.TraceRun, 2, 1, "a", "", 1))
	hooks.Fire(ctx, ev(domain.TraceRun, 5, 5, "other", "", 2))
	hooks.Fire(ctx, ev(domain.TraceEnd, 2, 1, "a", domain.Pass, 3))
	hooks.Fire(ctx, ev(domain.TraceEnd, 1, 1, "root", domain.Pass, 10))

	require.Equal(t, 1, rec.Pending())
	traces := rec.Traces()
	require.Len(t, traces, 1)
	tr := traces[0]
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, domain.Entity(1), tr.Root)
	assert.Equal(t, "root", tr.RootName)
	assert.Equal(t, domain.Pass, tr.Outcome)
	assert.Equal(t, 10*time.Millisecond, tr.Duration())
	assert.Len(t, tr.Events, 4)

	saved, err := store.Load(ctx, tr.ID)
	require.NoError(t, err)
	assert.Len(t, saved.Events, 4)
}

func TestRecorder_JumpOpensNewTrace(t *testing.T) {
	ctx := context.Background()
	rec := observability.NewRecorder()
	hooks := rec.Hooks()

	hooks.Fire(ctx, ev(domain.TraceRun, 1, 1, "idle", "", 0))
	hooks.Fire(ctx, ev(domain.TraceEnd, 1, 1, "idle", domain.Pass, 1))
	// the jumped-to state keeps the origin of the chain
	hooks.Fire(ctx, ev(domain.TraceRun, 2, 1, "walk", "", 2))
	hooks.Fire(ctx, ev(domain.TraceEnd, 2, 1, "walk", domain.Fail, 3))

	traces := rec.Traces()
	require.Len(t, traces, 2)
	assert.Equal(t, "walk", traces[1].RootName)
	assert.Equal(t, domain.Fail, traces[1].Outcome)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Same(t, traces[1], last)
}

func TestRecorder_InterruptAndFlush(t *testing.T) {
	ctx := context.Background()
	rec := observability.NewRecorder(observability.WithLimit(1))
	hooks := rec.Hooks()

	// stray events without a trace are dropped
	hooks.Fire(ctx, ev(domain.TraceEnd, 9, 9, "stray", domain.Pass, 0))
	assert.Zero(t, rec.Pending())

	hooks.Fire(ctx, ev(domain.TraceRun, 1, 1, "root", "", 0))
	hooks.Fire(ctx, ev(domain.TraceRun, 2, 1, "child", "", 1))
	hooks.Fire(ctx, ev(domain.TraceInterrupt, 2, 1, "child", "", 5))

	flushed := rec.Flush(ctx)
	require.Len(t, flushed, 1)
	assert.Empty(t, flushed[0].Outcome)
	assert.Len(t, flushed[0].Events, 3)
	assert.Equal(t, t0.Add(5*time.Millisecond), flushed[0].EndedAt)
	assert.Zero(t, rec.Pending())

	hooks.Fire(ctx, ev(domain.TraceRun, 3, 3, "next", "", 6))
	hooks.Fire(ctx, ev(domain.TraceEnd, 3, 3, "next", domain.Pass, 7))
	traces := rec.Traces()
	require.Len(t, traces, 1)
	assert.Equal(t, "next", traces[0].RootName)
}
