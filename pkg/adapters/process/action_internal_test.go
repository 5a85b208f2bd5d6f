package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/pkg/ecs"
	"github.com/aretw0/beetflow/pkg/flow"
)

func TestAction_DespawnKillsProcess(t *testing.T) {
	skipWithoutShell(t)
	ctx := context.Background()

	runner := NewRunner()
	runner.Register("sleep", "sleep", "30")
	app := ecs.NewApp().AddPlugins(flow.Plugin{}, Plugin{Runner: runner})
	w := app.World()

	root := w.Spawn()
	leaf := w.Spawn()
	w.AddChild(root, leaf)
	action := &Action{Tool: "sleep"}
	flow.Insert(w, leaf, action)

	require.NoError(t, flow.Start(ctx, w, leaf, nil))
	require.NotNil(t, action.job)
	j := action.job

	w.Despawn(root)
	assert.Nil(t, action.job)

	select {
	case ex := <-j.done:
		assert.Error(t, ex.err)
	case <-time.After(10 * time.Second):
		t.Fatal("process kept running after despawn")
	}
}
