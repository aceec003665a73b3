package staging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k0psutin/gdm-sub000/internal/core/discovery"
	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/filesystem"
)

func newTestStager(t *testing.T) (*Stager, string, string) {
	t.Helper()
	root := t.TempDir()
	cache := filepath.Join(root, ".gdm")
	addons := filepath.Join(root, "addons")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStager(filesystem.NewOS(), cache, addons, logger), cache, addons
}

func writeTree(t *testing.T, base string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(base, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func catalogSource(t *testing.T, id string) plugin.Source {
	t.Helper()
	src, err := plugin.NewCatalogSource(id)
	require.NoError(t, err)
	return src
}

func TestStager_RunCommitsAllFoldersAndCleansUp(t *testing.T) {
	stager, cache, addons := newTestStager(t)
	src := catalogSource(t, "1709")

	outcome, err := stager.Run(context.Background(), Request{
		Key:          src.StagingKey(),
		Source:       src,
		ExpectedName: "Gut",
		Populate: func(_ context.Context, area Area) error {
			writeTree(t, area.Container(), map[string]string{
				"gut/plugin.cfg":         "[plugin]\nname=\"Gut\"\nversion=\"9.1.0\"\n",
				"gut/gut.gd":             "extends Node",
				"gut_helpers/helpers.gd": "extends Node",
			})
			return nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "gut", outcome.Folder)
	assert.Equal(t, "Gut", outcome.Record.Title)
	assert.Equal(t, "9.1.0", outcome.Record.Version.String())
	assert.Equal(t, "addons/gut/plugin.cfg", outcome.Record.DescriptorPath)
	assert.Equal(t, []string{"gut_helpers"}, outcome.Record.SubAssets)

	assert.FileExists(t, filepath.Join(addons, "gut", "gut.gd"))
	assert.FileExists(t, filepath.Join(addons, "gut_helpers", "helpers.gd"))
	assert.NoDirExists(t, filepath.Join(cache, src.StagingKey()))
}

func TestStager_RunReplacesExistingLiveFolder(t *testing.T) {
	stager, _, addons := newTestStager(t)
	writeTree(t, addons, map[string]string{
		"gut/plugin.cfg": "name=\"Gut\"\nversion=\"9.3.0\"\n",
		"gut/stale.gd":   "old",
		"other/keep.gd":  "untouched",
	})
	src := catalogSource(t, "1709")

	_, err := stager.Run(context.Background(), Request{
		Key:          src.StagingKey(),
		Source:       src,
		ExpectedName: "Gut",
		Populate: func(_ context.Context, area Area) error {
			writeTree(t, area.Container(), map[string]string{
				"gut/plugin.cfg": "name=\"Gut\"\nversion=\"9.1.0\"\n",
			})
			return nil
		},
	})
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(addons, "gut", "stale.gd"))
	data, err := os.ReadFile(filepath.Join(addons, "gut", "plugin.cfg"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "9.1.0")
	assert.FileExists(t, filepath.Join(addons, "other", "keep.gd"))
}

func TestStager_RunFailuresLeaveNoStagingArea(t *testing.T) {
	populateErr := errors.New("download failed")

	tests := []struct {
		name     string
		populate Populator
		check    func(t *testing.T, err error)
	}{
		{
			name:     "PopulateFails_ShouldReturnItsError",
			populate: func(context.Context, Area) error { return populateErr },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, populateErr)
			},
		},
		{
			name: "NoDescriptor_ShouldFailDiscovery",
			populate: func(_ context.Context, area Area) error {
				writeTree(t, area.Container(), map[string]string{"gut/gut.gd": "extends Node"})
				return nil
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, discovery.ErrNoDescriptor)
			},
		},
		{
			name: "EmptyTitle_ShouldFailValidation",
			populate: func(_ context.Context, area Area) error {
				writeTree(t, area.Container(), map[string]string{"gut/plugin.cfg": "version=\"1.0\"\n"})
				return nil
			},
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "has empty title")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stager, cache, addons := newTestStager(t)
			src := catalogSource(t, "42")

			_, err := stager.Run(context.Background(), Request{
				Key:          src.StagingKey(),
				Source:       src,
				ExpectedName: "gut",
				Populate:     tt.populate,
			})

			tt.check(t, err)
			assert.NoDirExists(t, filepath.Join(cache, src.StagingKey()))
			assert.NoDirExists(t, filepath.Join(addons, "gut"))
		})
	}
}

func TestStager_CreateRemovesStaleArea(t *testing.T) {
	stager, cache, _ := newTestStager(t)
	writeTree(t, filepath.Join(cache, "gut"), map[string]string{"addons/leftover/file": "x"})

	area, err := stager.Create("gut")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cache, "gut", "addons"), area.Container())
	entries, err := os.ReadDir(area.Container())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStager_ValidateRequiresDescriptorInArea(t *testing.T) {
	stager, _, _ := newTestStager(t)
	area, err := stager.Create("gut")
	require.NoError(t, err)

	rec := plugin.Record{Title: "Gut", DescriptorPath: "addons/gut/plugin.cfg"}
	err = stager.Validate(area, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "descriptor not found")

	writeTree(t, area.Root, map[string]string{"addons/gut/plugin.cfg": "name=Gut"})
	assert.NoError(t, stager.Validate(area, rec))
}

func TestStager_CommitStopsAtFirstMissingFolder(t *testing.T) {
	stager, _, addons := newTestStager(t)
	area, err := stager.Create("multi")
	require.NoError(t, err)
	writeTree(t, area.Container(), map[string]string{"a/file": "a"})

	err = stager.Commit(area, []string{"a", "missing", "c"})
	require.Error(t, err)

	assert.FileExists(t, filepath.Join(addons, "a", "file"))
	assert.NoDirExists(t, filepath.Join(addons, "c"))
}

func TestStager_ContainerNameFollowsAddonDir(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stager := NewStager(filesystem.NewOS(), t.TempDir(), filepath.Join("game", "plugins"), logger)
	assert.Equal(t, "plugins", stager.ContainerName())
}
