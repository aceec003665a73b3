package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
	"github.com/k0psutin/gdm-sub000/internal/core/projectfile"
	"github.com/k0psutin/gdm-sub000/internal/core/registry"
)

// MockLockStore is a mock implementation of ports.LockStore
type MockLockStore struct {
	mock.Mock
}

func (m *MockLockStore) Load(ctx context.Context) (registry.Registry, error) {
	args := m.Called(ctx)
	return args.Get(0).(registry.Registry), args.Error(1)
}

func (m *MockLockStore) Save(ctx context.Context, reg registry.Registry) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

// MockProjectStore is a mock implementation of ports.ProjectStore
type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) Manifest(ctx context.Context) (projectfile.Manifest, error) {
	args := m.Called(ctx)
	return args.Get(0).(projectfile.Manifest), args.Error(1)
}

func (m *MockProjectStore) EnablePlugins(ctx context.Context, descriptorPaths []string) error {
	args := m.Called(ctx, descriptorPaths)
	return args.Error(0)
}

// MockCatalogClient is a mock implementation of ports.CatalogClient
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) GetAsset(ctx context.Context, assetID string) (ports.Asset, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).(ports.Asset), args.Error(1)
}

func (m *MockCatalogClient) GetAssetVersion(ctx context.Context, assetID, version string) (ports.Asset, error) {
	args := m.Called(ctx, assetID, version)
	return args.Get(0).(ports.Asset), args.Error(1)
}

func (m *MockCatalogClient) Search(ctx context.Context, query ports.SearchQuery) ([]ports.Asset, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.Asset), args.Error(1)
}

func (m *MockCatalogClient) Download(ctx context.Context, url string, w io.Writer, progress ports.ProgressFunc) error {
	args := m.Called(ctx, url, w, progress)
	return args.Error(0)
}

// MockInstaller is a mock implementation of ports.Installer for one source kind
type MockInstaller struct {
	mock.Mock
	kind plugin.SourceKind
}

func (m *MockInstaller) Kind() plugin.SourceKind { return m.kind }

func (m *MockInstaller) Install(ctx context.Context, job ports.InstallJob, task ports.ProgressTask) (string, plugin.Record, error) {
	args := m.Called(ctx, job, task)
	return args.String(0), args.Get(1).(plugin.Record), args.Error(2)
}

type nopReporter struct{}

func (nopReporter) Begin(string, int)                   {}
func (nopReporter) Task(int, string) ports.ProgressTask { return nopTask{} }
func (nopReporter) End()                                {}

type nopTask struct{}

func (nopTask) Status(string)   {}
func (nopTask) SetTotal(int64)  {}
func (nopTask) Advance(int64)   {}
func (nopTask) Complete(string) {}
func (nopTask) Fail(error)      {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func catalogSource(t *testing.T, id string) plugin.Source {
	t.Helper()
	src, err := plugin.NewCatalogSource(id)
	require.NoError(t, err)
	return src
}

func gitSource(t *testing.T, url string) plugin.Source {
	t.Helper()
	src, err := plugin.NewGitSource(url, "")
	require.NoError(t, err)
	return src
}

func catalogRecord(t *testing.T, id, title, version string) plugin.Record {
	t.Helper()
	return plugin.NewRecord(title, plugin.MustParseVersion(version), catalogSource(t, id))
}

// writePlugin creates addons/<folder>/plugin.cfg below root, the way a
// committed install leaves it.
func writePlugin(t *testing.T, root, folder, name string) {
	t.Helper()
	dir := filepath.Join(root, "addons", folder)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	cfg := "[plugin]\nname=\"" + name + "\"\nversion=\"1.0.0\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.cfg"), []byte(cfg), 0o644))
}

// committing makes a mocked install leave its folders in the addon directory.
func committing(t *testing.T, root string, folders ...string) func(mock.Arguments) {
	return func(mock.Arguments) {
		for _, f := range folders {
			writePlugin(t, root, f, f)
		}
	}
}

func manifest() projectfile.Manifest {
	return projectfile.Manifest{ConfigVersion: 5, Features: []string{"4.3", "Forward Plus"}}
}
