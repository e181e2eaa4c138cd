package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	ifs "github.com/hupe1980/sparse/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreLifecycle(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	// 1. Put and Get
	data := []byte("hello world, this is a test blob")
	require.NoError(t, store.Put(ctx, "runs/data-001.bin", data))

	got, err := store.Get(ctx, "runs/data-001.bin")
	require.NoError(t, err)
	require.Equal(t, data, got)

	// 2. Overwrite
	require.NoError(t, store.Put(ctx, "runs/data-001.bin", []byte("v2")))
	got, err = store.Get(ctx, "runs/data-001.bin")
	require.NoError(t, err)
	require.Equal(t, "v2", string(got))

	// 3. List
	require.NoError(t, store.Put(ctx, "runs/data-002.bin", nil))
	require.NoError(t, store.Put(ctx, "other.bin", []byte{1}))

	names, err := store.List(ctx, "runs/")
	require.NoError(t, err)
	require.Equal(t, []string{"runs/data-001.bin", "runs/data-002.bin"}, names)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"other.bin", "runs/data-001.bin", "runs/data-002.bin"}, names)

	// 4. Delete, twice
	require.NoError(t, store.Delete(ctx, "runs/data-001.bin"))
	require.NoError(t, store.Delete(ctx, "runs/data-001.bin"))

	_, err = store.Get(ctx, "runs/data-001.bin")
	require.ErrorIs(t, err, ErrNotFound)

	// 5. Invalid names
	for _, name := range []string{"", "/abs", "a/../b", "dir/"} {
		assert.Error(t, store.Put(ctx, name, data), name)
	}

	// 6. Cancelled context
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.Put(cctx, "x", data), context.Canceled)
}

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	testStoreLifecycle(t, store)

	// Blobs are plain files below root
	_, err := os.Stat(filepath.Join(tmpDir, "runs", "data-002.bin"))
	require.NoError(t, err)
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_SkipsTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".tmp-123"), []byte("partial"), 0o644))

	store := NewLocalStore(tmpDir)
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_FailedPutKeepsPreviousBlob(t *testing.T) {
	faults := map[string]ifs.Fault{
		"write":  {FailAfterBytes: 4},
		"sync":   {FailAfterBytes: -1, FailOnSync: true},
		"close":  {FailAfterBytes: -1, FailOnClose: true},
		"rename": {FailAfterBytes: -1, FailOnRename: true},
	}

	for name, fault := range faults {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tmpDir := t.TempDir()
			ffs := ifs.NewFaultyFS(nil)
			store := newLocalStoreFS(tmpDir, ffs)

			require.NoError(t, store.Put(ctx, "arrays/a", []byte("old")))

			ffs.AddRule("arrays", fault)
			err := store.Put(ctx, "arrays/a", []byte("new content"))
			assert.ErrorIs(t, err, ifs.ErrInjected)

			got, err := store.Get(ctx, "arrays/a")
			require.NoError(t, err)
			assert.Equal(t, "old", string(got))

			entries, err := os.ReadDir(filepath.Join(tmpDir, "arrays"))
			require.NoError(t, err)
			require.Len(t, entries, 1, "temporary file left behind")
			assert.Equal(t, "a", entries[0].Name())
		})
	}
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	testStoreLifecycle(t, NewMemoryStore())
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("a"))
	assert.NoError(t, ValidateName("a/b.bin"))
	assert.Error(t, ValidateName("a//b"))
	assert.Error(t, ValidateName("./a"))
}
