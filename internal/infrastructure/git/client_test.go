package git

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k0psutin/gdm-sub000/internal/infrastructure/filesystem"
)

func requireGit(t *testing.T) {
	t.Helper()
	if !Available() {
		t.Skip("git executable not available")
	}
}

// newUpstream creates a repository with one commit on main containing files.
func newUpstream(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	_, err := newCommand(dir, "init", "--quiet", "-b", "main").run(ctx)
	require.NoError(t, err)
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	_, err = newCommand(dir, "add", "-A").run(ctx)
	require.NoError(t, err)
	_, err = newCommand(dir, "-c", "user.name=gdm", "-c", "user.email=gdm@example.com",
		"commit", "--quiet", "-m", "initial").run(ctx)
	require.NoError(t, err)
	return dir
}

func newTestClient() *Client {
	return NewClient(filesystem.NewOS(), "addons", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_ShallowFetchExtractsOnlyAddons(t *testing.T) {
	requireGit(t)
	upstream := newUpstream(t, map[string]string{
		"addons/gut/plugin.cfg":   "[plugin]\nname=\"Gut\"\nversion=\"9.1.0\"\n",
		"addons/gut/core/gut.gd":  "extends Node",
		"addons/gut_docs/help.md": "help",
		"README.md":               "readme",
		"project.godot":           "config_version=5",
	})
	dest := t.TempDir()

	files, err := newTestClient().ShallowFetch(context.Background(), "file://"+upstream, "main", dest)
	require.NoError(t, err)

	assert.Equal(t, 3, files)
	assert.FileExists(t, filepath.Join(dest, "addons", "gut", "plugin.cfg"))
	assert.FileExists(t, filepath.Join(dest, "addons", "gut", "core", "gut.gd"))
	assert.FileExists(t, filepath.Join(dest, "addons", "gut_docs", "help.md"))
	assert.NoFileExists(t, filepath.Join(dest, "README.md"))
	assert.NoFileExists(t, filepath.Join(dest, "addons", "README.md"))
	assert.NoDirExists(t, filepath.Join(dest, scratchDir))
}

func TestClient_ShallowFetchWithoutAddons(t *testing.T) {
	requireGit(t)
	upstream := newUpstream(t, map[string]string{"src/main.gd": "extends Node"})
	dest := t.TempDir()

	_, err := newTestClient().ShallowFetch(context.Background(), "file://"+upstream, "main", dest)
	assert.ErrorIs(t, err, ErrAddonsNotFound)
	assert.NoDirExists(t, filepath.Join(dest, scratchDir))
}

func TestClient_ShallowFetchUnknownReference(t *testing.T) {
	requireGit(t)
	upstream := newUpstream(t, map[string]string{"addons/a/plugin.cfg": "name=A"})

	_, err := newTestClient().ShallowFetch(context.Background(), "file://"+upstream, "does-not-exist", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestCommand_RunReportsStderr(t *testing.T) {
	requireGit(t)
	_, err := newCommand(t.TempDir(), "rev-parse", "HEAD").run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git rev-parse HEAD")
}
