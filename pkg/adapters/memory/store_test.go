package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/pkg/adapters/memory"
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunTraceStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	trace := &domain.Trace{ID: "t1", Events: []domain.TraceEvent{{Name: "a"}}}
	require.NoError(t, store.Save(ctx, trace))

	trace.Events[0].Name = "mutated"
	loaded, err := store.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.Events[0].Name)

	loaded.Events[0].Name = "again"
	reloaded, _ := store.Load(ctx, "t1")
	assert.Equal(t, "a", reloaded.Events[0].Name)
}
