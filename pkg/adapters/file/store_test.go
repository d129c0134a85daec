package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/inet/pkg/adapters/file"
	"github.com/aretw0/inet/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunNetStoreContract(t, file.NewStore(t.TempDir()))
}

func TestFileStore_ListIgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-x-123.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	ids, err := file.NewStore(dir).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "absent"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_EmptyID(t *testing.T) {
	store := file.NewStore(t.TempDir())
	_, err := store.Load(context.Background(), "")
	assert.Error(t, err)
	assert.Error(t, store.Delete(context.Background(), ""))
}
