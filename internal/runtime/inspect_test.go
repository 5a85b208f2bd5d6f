package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/internal/runtime"
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/dsl"
	"github.com/aretw0/beetflow/pkg/ecs"
)

func TestEngine_Inspect(t *testing.T) {
	ctx := context.Background()
	eng := runtime.NewEngine()

	root, err := eng.Spawn(dsl.Node("root").Sequence().State("start").Child(
		dsl.Node("wait").EndInDuration(time.Second, domain.Pass).NoInterrupt(),
		dsl.Node("jump").Succeed().RunNext("start"),
	))
	require.NoError(t, err)
	require.NoError(t, eng.Run(ctx, root, nil))

	nodes := eng.Inspect(root)
	require.Len(t, nodes, 3)

	assert.Equal(t, "root", nodes[0].Name)
	assert.Equal(t, "start", nodes[0].State)
	assert.Equal(t, []string{"sequence"}, nodes[0].Kinds)
	assert.True(t, nodes[0].Running)
	assert.Zero(t, nodes[0].Depth)
	assert.Len(t, nodes[0].Children, 2)

	assert.Equal(t, "wait", nodes[1].Name)
	assert.Equal(t, 1, nodes[1].Depth)
	assert.Equal(t, root, nodes[1].Parent)
	assert.ElementsMatch(t, []string{"no_interrupt", "continue_run"}, nodes[1].Markers)
	assert.True(t, nodes[1].Running)

	assert.Equal(t, []string{"end_with", "run_next"}, nodes[2].Kinds)
	assert.Equal(t, "start", nodes[2].Next)
	assert.False(t, nodes[2].Running)

	assert.Nil(t, eng.Inspect(ecs.Entity(999)))
}
