package archive

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k0psutin/gdm-sub000/internal/infrastructure/filesystem"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	archivePath := filepath.Join(t.TempDir(), "asset.zip")
	file, err := os.Create(archivePath)
	require.NoError(t, err)

	w := zip.NewWriter(file)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		if content != "" {
			_, err = entry.Write([]byte(content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	require.NoError(t, file.Close())
	return archivePath
}

func TestExtractor_ExtractZip(t *testing.T) {
	tests := []struct {
		name      string
		entries   map[string]string
		wantFiles []string
		wantCount int
	}{
		{
			name: "WrapperWithAddons_ShouldKeepPathsAfterAddons",
			entries: map[string]string{
				"Gut-9.1.0/addons/gut/plugin.cfg": "name=Gut",
				"Gut-9.1.0/addons/gut/gut.gd":     "extends Node",
				"Gut-9.1.0/README.md":             "readme",
			},
			wantFiles: []string{"gut/plugin.cfg", "gut/gut.gd"},
			wantCount: 2,
		},
		{
			name: "NoAddonsSegment_ShouldDropWrapper",
			entries: map[string]string{
				"dialogic/plugin.cfg":   "name=Dialogic",
				"dialogic/core/main.gd": "extends Node",
			},
			wantFiles: []string{"core/main.gd"},
			wantCount: 1,
		},
		{
			name: "LooseFilesInContainer_ShouldBeSkipped",
			entries: map[string]string{
				"repo/addons/loose.gd":      "bad",
				"repo/addons/empty/":        "",
				"repo/addons/ok/plugin.cfg": "name=Ok",
			},
			wantFiles: []string{"ok/plugin.cfg"},
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archivePath := writeZip(t, tt.entries)
			dest := filepath.Join(t.TempDir(), "addons")

			count, err := NewExtractor(filesystem.NewOS(), "addons").ExtractZip(archivePath, dest)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCount, count)
			for _, name := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(dest, filepath.FromSlash(name)))
			}
		})
	}
}

func TestExtractor_ExtractZipMissingArchive(t *testing.T) {
	_, err := NewExtractor(filesystem.NewOS(), "").ExtractZip(filepath.Join(t.TempDir(), "none.zip"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none.zip")
}

func TestExtractor_CopyFS(t *testing.T) {
	tree := fstest.MapFS{
		"addons/gut/plugin.cfg":       {Data: []byte("name=Gut")},
		"addons/gut/nested/helper.gd": {Data: []byte("extends Node")},
		"addons/stray.txt":            {Data: []byte("no folder")},
	}
	dest := filepath.Join(t.TempDir(), "addons")

	count, err := NewExtractor(filesystem.NewOS(), "addons").CopyFS(tree, dest)
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	data, err := os.ReadFile(filepath.Join(dest, "gut", "nested", "helper.gd"))
	require.NoError(t, err)
	assert.Equal(t, "extends Node", string(data))
	assert.NoFileExists(t, filepath.Join(dest, "stray.txt"))
}
