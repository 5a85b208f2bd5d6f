package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/internal/runtime"
	"github.com/aretw0/beetflow/pkg/adapters/memory"
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/dsl"
	"github.com/aretw0/beetflow/pkg/ecs"
)

const patrol = `
name: patrol
action: sequence
children:
  - name: arm
    action: set_value
    params: {key: armed, value: true}
  - name: check
    action: condition
    params: {expr: armed}
  - name: walk
    action: end_in_duration
    params: {duration: 30ms}
    markers: [no_interrupt]
`

func newEngine(t *testing.T, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	loader := memory.NewLoader(map[string]string{"patrol": patrol})
	return runtime.NewEngine(append([]runtime.EngineOption{runtime.WithLoader(loader)}, opts...)...)
}

func TestEngine_LoadAndRun(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)

	root, err := eng.Load(ctx, "patrol")
	require.NoError(t, err)
	require.NoError(t, eng.Run(ctx, root, nil))

	_, done := eng.Outcome(root)
	assert.False(t, done)
	assert.True(t, eng.Running(root))

	// The timer starts counting on the first tick after the run.
	for range 3 {
		require.NoError(t, eng.Tick(ctx, 10*time.Millisecond))
	}
	_, done = eng.Outcome(root)
	assert.False(t, done)

	require.NoError(t, eng.Tick(ctx, 10*time.Millisecond))
	outcome, done := eng.Outcome(root)
	require.True(t, done)
	assert.Equal(t, domain.Pass, outcome)
	assert.False(t, eng.Running(root))

	elapsed, ticks := eng.Elapsed()
	assert.Equal(t, 40*time.Millisecond, elapsed)
	assert.Equal(t, uint64(4), ticks)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	ctx := context.Background()
	var events []string
	var last *domain.TraceEvent
	record := func(_ context.Context, ev *domain.TraceEvent) {
		events = append(events, string(ev.Type)+":"+ev.Name)
		last = ev
	}
	fixed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	eng := runtime.NewEngine(
		runtime.WithLifecycleHooks(domain.LifecycleHooks{OnRun: record, OnEnd: record, OnInterrupt: record}),
		runtime.WithClock(func() time.Time { return fixed }),
	)

	root, err := eng.Spawn(dsl.Node("root").Sequence().Child(
		dsl.Node("a").Succeed(),
		dsl.Node("b").EndInDuration(time.Hour, domain.Pass),
	))
	require.NoError(t, err)
	require.NoError(t, eng.Run(ctx, root, nil))
	require.NoError(t, eng.Tick(ctx, time.Millisecond))
	require.NoError(t, eng.Interrupt(ctx, root))

	assert.Equal(t, []string{
		"run:root", "run:a", "end:a", "run:b",
		"interrupt:root", "interrupt:b",
	}, events)
	require.NotNil(t, last)
	assert.Equal(t, root, last.Parent)
	assert.Equal(t, root, last.Origin)
	assert.Equal(t, []string{"end_in_duration"}, last.Kinds)
	assert.Equal(t, fixed, last.Timestamp)
	assert.Equal(t, uint64(1), last.Tick)
}

func TestEngine_LoadErrors(t *testing.T) {
	ctx := context.Background()

	_, err := runtime.NewEngine().Load(ctx, "patrol")
	assert.ErrorContains(t, err, "no tree loader")

	eng := runtime.NewEngine(runtime.WithLoader(memory.NewLoader(map[string]string{
		"broken":  "action: teleport\n",
		"garbage": "action: [\n",
	})))
	_, err = eng.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTreeNotFound)

	_, err = eng.Load(ctx, "broken")
	assert.ErrorContains(t, err, `unknown action "teleport"`)

	_, err = eng.Load(ctx, "garbage")
	assert.ErrorContains(t, err, "failed to parse tree")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = eng.Load(cancelled, "broken")
	assert.ErrorIs(t, err, context.Canceled)
}

type countPlugin struct{ ticks *int }

func (p countPlugin) Build(app *ecs.App) {
	app.AddSystem(ecs.PostTick, "count", func(context.Context, *ecs.World) error {
		*p.ticks++
		return nil
	})
}

func TestEngine_WithPlugins(t *testing.T) {
	n := 0
	eng := runtime.NewEngine(runtime.WithPlugins(countPlugin{&n}))
	require.NoError(t, eng.Tick(context.Background(), time.Millisecond))
	assert.Equal(t, 1, n)
	assert.Contains(t, eng.App().Systems(ecs.Tick), "behaviortree")
}
