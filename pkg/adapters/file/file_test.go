package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/pkg/adapters/file"
	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ports.RunTraceStoreContract(t, store)
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Trace{ID: "a"}))
	require.NoError(t, store.Save(ctx, &domain.Trace{ID: "a", Outcome: domain.Fail}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.json", entries[0].Name())
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "nope"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patrol.yaml"), []byte("action: sequence\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guard.json"), []byte(`{"action":"fallback"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# trees"), 0644))

	loader := file.NewLoader(dir)
	ports.RunTreeLoaderContract(t, loader, "patrol", "sequence")

	names, err := loader.ListTrees()
	require.NoError(t, err)
	assert.Equal(t, []string{"guard", "patrol"}, names)

	data, err := loader.GetTree("guard.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "fallback")

	_, err = loader.GetTree("../etc/passwd")
	assert.Error(t, err)
}
