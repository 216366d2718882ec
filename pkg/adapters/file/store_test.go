package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/bbsdemo/pkg/adapters/file"
	"github.com/aretw0/bbsdemo/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements KeyValueStore
var _ ports.KeyValueStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunKeyValueStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "appSettings", `{"theme":"dark"}`))

	data, err := os.ReadFile(filepath.Join(dir, "appSettings.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"theme":"dark"}`, string(data))

	// No temp files left behind after a successful rename.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	store := file.New(dir)

	require.NoError(t, store.Put(context.Background(), "k", "v"))
	_, err := os.Stat(filepath.Join(dir, "k.json"))
	assert.NoError(t, err)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Put(ctx, "../escape", "v"))
	_, err := store.Get(ctx, "a/b")
	assert.Error(t, err)
}

func TestFileStore_Delete(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", "v"))
	require.NoError(t, store.Delete(ctx, "k"))
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)

	// Deleting twice is fine.
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, ".bbsdemo", file.New("").BasePath)
}
