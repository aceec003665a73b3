package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOS_ReadFileIsCachedUntilWritten(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gdm.json")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))

	fsys := NewOS()
	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	// Changes made behind the cache's back are not observed.
	require.NoError(t, os.WriteFile(path, []byte("external"), 0o644))
	data, err = fsys.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	require.NoError(t, fsys.WriteFile(path, []byte("second")))
	data, err = fsys.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(onDisk))
	assert.NoFileExists(t, path+".tmp")
}

func TestOS_CacheIsScopedToInstance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	_, err := NewOS().ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))

	data, err := NewOS().ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestOS_RemoveAllInvalidatesChildren(t *testing.T) {
	dir := t.TempDir()
	child := filepath.Join(dir, "addons", "gut", "plugin.cfg")
	fsys := NewOS()
	require.NoError(t, fsys.WriteFile(child, []byte("name=gut")))
	_, err := fsys.ReadFile(child)
	require.NoError(t, err)

	require.NoError(t, fsys.RemoveAll(filepath.Join(dir, "addons")))
	assert.Equal(t, 0, fsys.cache.len())

	_, err = fsys.ReadFile(child)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), child)
}

func TestOS_RenameAndQueries(t *testing.T) {
	dir := t.TempDir()
	fsys := NewOS()
	from := filepath.Join(dir, "stage", "gut")
	to := filepath.Join(dir, "addons", "gut")

	require.NoError(t, fsys.MkdirAll(from))
	require.NoError(t, fsys.MkdirAll(filepath.Dir(to)))
	w, err := fsys.Create(filepath.Join(from, "gut.gd"))
	require.NoError(t, err)
	_, err = w.Write([]byte("extends Node"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.NoError(t, fsys.Rename(from, to))
	assert.False(t, fsys.Exists(from))
	assert.True(t, fsys.IsDir(to))
	assert.False(t, fsys.IsDir(filepath.Join(to, "gut.gd")))

	entries, err := fsys.ReadDir(filepath.Dir(to))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gut", entries[0].Name())

	content, err := fs.ReadFile(fsys.FS(to), "gut.gd")
	require.NoError(t, err)
	assert.Equal(t, "extends Node", string(content))

	_, err = fsys.ReadDir(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
