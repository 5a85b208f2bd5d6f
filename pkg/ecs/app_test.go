package ecs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPlugin struct{ built int }

func (p *countingPlugin) Build(app *ecs.App) {
	p.built++
	app.AddSystem(ecs.PostTick, "noop", func(context.Context, *ecs.World) error { return nil })
}

func TestUpdate_PhaseOrderAndTime(t *testing.T) {
	app := ecs.NewApp()
	var order []string
	record := func(name string) ecs.SystemFunc {
		return func(context.Context, *ecs.World) error {
			order = append(order, name)
			return nil
		}
	}
	app.AddSystem(ecs.PostTick, "post", record("post"))
	app.AddSystem(ecs.Tick, "tick", record("tick"))
	app.AddSystem(ecs.PreTick, "pre-a", record("pre-a"))
	app.AddSystem(ecs.PreTick, "pre-b", record("pre-b"))

	ctx := context.Background()
	require.NoError(t, app.Update(ctx, 10*time.Millisecond))
	require.NoError(t, app.Update(ctx, 5*time.Millisecond))

	assert.Equal(t, []string{"pre-a", "pre-b", "tick", "post", "pre-a", "pre-b", "tick", "post"}, order)
	now := ecs.CurrentTime(app.World())
	assert.Equal(t, 5*time.Millisecond, now.Delta)
	assert.Equal(t, 15*time.Millisecond, now.Elapsed)
	assert.Equal(t, uint64(2), now.Tick)
}

func TestUpdate_FlushesCommandsAfterEachSystem(t *testing.T) {
	app := ecs.NewApp()
	w := app.World()
	e := w.Spawn()

	app.AddSystem(ecs.Tick, "despawner", func(_ context.Context, w *ecs.World) error {
		w.Commands().Despawn(e)
		assert.True(t, w.Alive(e))
		return nil
	})
	app.AddSystem(ecs.Tick, "checker", func(_ context.Context, w *ecs.World) error {
		assert.False(t, w.Alive(e))
		return nil
	})

	require.NoError(t, app.Update(context.Background(), time.Millisecond))
}

func TestUpdate_SystemErrorStops(t *testing.T) {
	app := ecs.NewApp()
	boom := errors.New("boom")
	ran := false
	app.AddSystem(ecs.PreTick, "failing", func(context.Context, *ecs.World) error { return boom })
	app.AddSystem(ecs.Tick, "after", func(context.Context, *ecs.World) error {
		ran = true
		return nil
	})

	err := app.Update(context.Background(), time.Millisecond)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `pre_tick system "failing"`)
	assert.False(t, ran)
}

func TestUpdate_CancelledContext(t *testing.T) {
	app := ecs.NewApp()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, app.Update(ctx, time.Millisecond), context.Canceled)
}

func TestFlushCommands_JoinsErrors(t *testing.T) {
	w := ecs.NewWorld()
	e1, e2 := errors.New("one"), errors.New("two")
	w.Commands().Push(func(*ecs.World) error { return e1 })
	w.Commands().Push(func(w *ecs.World) error {
		w.Commands().Push(func(*ecs.World) error { return e2 })
		return nil
	})

	err := w.FlushCommands()
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
	assert.Zero(t, w.Commands().Len())
}

func TestAddPlugins(t *testing.T) {
	p := &countingPlugin{}
	app := ecs.NewApp().AddPlugins(p)
	assert.Equal(t, 1, p.built)
	assert.Equal(t, []string{"noop"}, app.Systems(ecs.PostTick))
}
