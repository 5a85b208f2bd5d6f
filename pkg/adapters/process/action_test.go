package process_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/pkg/adapters/process"
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
	"github.com/aretw0/beetflow/pkg/registry"
)

func setup(t *testing.T) (*ecs.App, *[]domain.Outcome) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	runner := process.NewRunner()
	runner.Register("greet", "sh", "-c", `echo "hi $BEETFLOW_ARG_WHO"`)
	runner.Register("fail", "sh", "-c", "exit 1")
	runner.Register("sleep", "sleep", "30")

	app := ecs.NewApp().AddPlugins(flow.Plugin{}, process.Plugin{Runner: runner})
	var ends []domain.Outcome
	app.World().ObserveGlobal(domain.KindEnd, func(tr *ecs.Trigger) error {
		ends = append(ends, tr.Event.(domain.End).Outcome)
		return nil
	})
	return app, &ends
}

func tickUntil(t *testing.T, app *ecs.App, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for !cond() {
		require.True(t, time.Now().Before(deadline), "process did not finish")
		require.NoError(t, app.Update(context.Background(), 10*time.Millisecond))
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAction_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		action  *process.Action
		payload any
		want    domain.Outcome
		saved   any
	}{
		{name: "pass saves output", action: &process.Action{Tool: "greet", SaveTo: "greeting"}, payload: map[string]any{"who": "bob"}, want: domain.Pass, saved: "hi bob"},
		{name: "env overrides payload", action: &process.Action{Tool: "greet", SaveTo: "greeting", Env: map[string]any{"who": "ann"}}, payload: map[string]any{"who": "bob"}, want: domain.Pass, saved: "hi ann"},
		{name: "non-zero exit fails", action: &process.Action{Tool: "fail"}, want: domain.Fail},
		{name: "unknown tool fails", action: &process.Action{Tool: "nope"}, want: domain.Fail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, ends := setup(t)
			w := app.World()
			e := w.Spawn()
			flow.Insert(w, e, tt.action)

			require.NoError(t, flow.Start(context.Background(), w, e, tt.payload))
			assert.True(t, flow.IsRunning(w, e))
			tickUntil(t, app, func() bool { return len(*ends) > 0 })

			assert.Equal(t, []domain.Outcome{tt.want}, *ends)
			require.NotNil(t, tt.action.Last)
			if tt.saved != nil {
				v, ok := flow.BlackboardOf(w).Get("greeting")
				require.True(t, ok)
				assert.Equal(t, tt.saved, v)
			}
		})
	}
}

func TestAction_InterruptKillsProcess(t *testing.T) {
	app, ends := setup(t)
	ctx := context.Background()
	w := app.World()
	action := &process.Action{Tool: "sleep"}
	e := w.Spawn()
	flow.Insert(w, e, action)

	require.NoError(t, flow.Start(ctx, w, e, nil))
	require.NoError(t, app.Update(ctx, 10*time.Millisecond))
	require.NoError(t, flow.Interrupt(ctx, w, e))

	for range 5 {
		require.NoError(t, app.Update(ctx, 10*time.Millisecond))
	}
	assert.Empty(t, *ends)
	assert.Nil(t, action.Last)
	assert.False(t, flow.IsRunning(w, e))
}

func TestAction_WithoutRunner(t *testing.T) {
	app := ecs.NewApp().AddPlugins(flow.Plugin{})
	w := app.World()
	var ends []domain.Outcome
	w.ObserveGlobal(domain.KindEnd, func(tr *ecs.Trigger) error {
		ends = append(ends, tr.Event.(domain.End).Outcome)
		return nil
	})
	e := w.Spawn()
	flow.Insert(w, e, &process.Action{Tool: "greet"})

	require.NoError(t, flow.Start(context.Background(), w, e, nil))
	assert.Equal(t, []domain.Outcome{domain.Fail}, ends)
}

func TestRegister(t *testing.T) {
	reg := registry.Default()
	process.Register(reg)

	a, err := reg.Build("process", map[string]any{"tool": "lint", "save_to": "lint_out"})
	require.NoError(t, err)
	assert.Equal(t, &process.Action{Tool: "lint", SaveTo: "lint_out"}, a)

	_, err = reg.Build("process", map[string]any{})
	assert.ErrorContains(t, err, "requires tool or command")

	_, err = reg.Build("process", map[string]any{"tool": "x", "shell": true})
	assert.Error(t, err)
}
