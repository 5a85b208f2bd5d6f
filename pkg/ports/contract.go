package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractTrace(id string) *domain.Trace {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Trace{
		ID:        id,
		Root:      1,
		RootName:  "root",
		StartedAt: start,
		EndedAt:   start.Add(30 * time.Millisecond),
		Outcome:   domain.Pass,
		Events: []domain.TraceEvent{
			{Timestamp: start, Type: domain.TraceRun, Tick: 1, Action: 1, Name: "root", Origin: 1},
			{Timestamp: start.Add(30 * time.Millisecond), Type: domain.TraceEnd, Tick: 4, Action: 1, Name: "root", Origin: 1, Outcome: domain.Pass},
		},
	}
}

// RunTraceStoreContract runs a suite of tests to verify that a TraceStore implementation
// adheres to the defined interface contract.
func RunTraceStoreContract(t *testing.T, store TraceStore) {
	ctx := context.Background()
	traceID := "contract-test-trace-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		trace := contractTrace(traceID)

		err := store.Save(ctx, trace)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, traceID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, trace.Root, loaded.Root)
		assert.Equal(t, trace.Outcome, loaded.Outcome)
		assert.True(t, trace.StartedAt.Equal(loaded.StartedAt))
		require.Len(t, loaded.Events, 2)
		assert.Equal(t, domain.TraceEnd, loaded.Events[1].Type)
		assert.Equal(t, domain.Pass, loaded.Events[1].Outcome)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		trace := contractTrace(traceID)
		trace.Outcome = domain.Fail
		require.NoError(t, store.Save(ctx, trace))

		loaded, err := store.Load(ctx, traceID)
		require.NoError(t, err)
		assert.Equal(t, domain.Fail, loaded.Outcome)
	})

	t.Run("Save Requires ID", func(t *testing.T) {
		assert.Error(t, store.Save(ctx, contractTrace("")))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+traceID)
		assert.ErrorIs(t, err, domain.ErrTraceNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractTrace(traceID)))

		err := store.Delete(ctx, traceID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, traceID)
		assert.ErrorIs(t, err, domain.ErrTraceNotFound, "Load after Delete should return ErrTraceNotFound")

		assert.NoError(t, store.Delete(ctx, traceID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := traceID + "-1"
		id2 := traceID + "-2"
		_ = store.Save(ctx, contractTrace(id1))
		_ = store.Save(ctx, contractTrace(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunTreeLoaderContract verifies a TreeLoader that was seeded with a tree
// named name whose definition contains want.
func RunTreeLoaderContract(t *testing.T, loader TreeLoader, name, want string) {
	t.Run("Get", func(t *testing.T) {
		data, err := loader.GetTree(name)
		require.NoError(t, err)
		assert.Contains(t, string(data), want)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := loader.GetTree("missing-" + name)
		assert.ErrorIs(t, err, domain.ErrTreeNotFound)
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.ListTrees()
		require.NoError(t, err)
		assert.Contains(t, names, name)
		assert.IsNonDecreasing(t, names)
	})
}
