package ecs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct{ n int }

func (ping) EventKind() ecs.EventKind { return "ping" }

func TestTrigger_GlobalBeforeTargeted(t *testing.T) {
	w := ecs.NewWorld()
	target := w.Spawn()
	other := w.Spawn()

	var calls []string
	w.Observe(target, "ping", func(tr *ecs.Trigger) error {
		calls = append(calls, "targeted")
		assert.Equal(t, target, tr.Target)
		return nil
	})
	w.ObserveGlobal("ping", func(tr *ecs.Trigger) error {
		calls = append(calls, "global")
		return nil
	})

	require.NoError(t, w.Trigger(context.Background(), target, ping{}))
	assert.Equal(t, []string{"global", "targeted"}, calls)

	calls = nil
	require.NoError(t, w.Trigger(context.Background(), other, ping{}))
	assert.Equal(t, []string{"global"}, calls)
}

func TestTrigger_SharedObserverWatchesMany(t *testing.T) {
	w := ecs.NewWorld()
	a, b := w.Spawn(), w.Spawn()

	var got []ecs.Entity
	obs := w.SpawnObserver("shared")
	w.On(obs, "ping", func(tr *ecs.Trigger) error {
		got = append(got, tr.Target)
		assert.Equal(t, obs, tr.Observer)
		return nil
	})
	w.Watch(obs, a)
	w.Watch(obs, b)
	w.Watch(obs, a)
	assert.Equal(t, []ecs.Entity{a, b}, w.Watching(obs))

	ctx := context.Background()
	require.NoError(t, w.Trigger(ctx, a, ping{}))
	require.NoError(t, w.Trigger(ctx, b, ping{}))
	w.Unwatch(obs, a)
	require.NoError(t, w.Trigger(ctx, a, ping{}))

	assert.Equal(t, []ecs.Entity{a, b}, got)
}

func TestTrigger_ErrorAbortsDispatch(t *testing.T) {
	w := ecs.NewWorld()
	target := w.Spawn()
	boom := errors.New("boom")

	reached := false
	w.ObserveGlobal("ping", func(*ecs.Trigger) error { return boom })
	w.Observe(target, "ping", func(*ecs.Trigger) error {
		reached = true
		return nil
	})

	err := w.Trigger(context.Background(), target, ping{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, reached)
}

func TestTrigger_NestedDispatch(t *testing.T) {
	w := ecs.NewWorld()
	a, b := w.Spawn(), w.Spawn()

	var order []int
	w.Observe(a, "ping", func(tr *ecs.Trigger) error {
		order = append(order, tr.Event.(ping).n)
		return tr.World.Trigger(tr.Context(), b, ping{n: 2})
	})
	w.Observe(b, "ping", func(tr *ecs.Trigger) error {
		order = append(order, tr.Event.(ping).n)
		return nil
	})

	require.NoError(t, w.Trigger(context.Background(), a, ping{n: 1}))
	assert.Equal(t, []int{1, 2}, order)
}

func TestDespawn_ForgetsObserversAndTargets(t *testing.T) {
	w := ecs.NewWorld()
	target := w.Spawn()
	calls := 0
	obs := w.Observe(target, "ping", func(*ecs.Trigger) error {
		calls++
		return nil
	})
	assert.True(t, w.IsObserver(obs))

	w.Despawn(target)
	assert.Empty(t, w.Watching(obs))

	w.Despawn(obs)
	assert.False(t, w.IsObserver(obs))
	require.NoError(t, w.Trigger(context.Background(), target, ping{}))
	assert.Zero(t, calls)
}
