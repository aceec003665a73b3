package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
)

type fakeLibrary struct {
	assets map[string]ports.Asset
	// edits are served in pages of pageSize.
	edits    []editResponse
	pageSize int
}

func (f *fakeLibrary) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /asset/{id}", func(w http.ResponseWriter, r *http.Request) {
		asset, ok := f.assets[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(t, w, asset)
	})
	mux.HandleFunc("GET /asset", func(w http.ResponseWriter, r *http.Request) {
		result := []ports.Asset{}
		for _, a := range f.assets {
			if a.Title == r.URL.Query().Get("filter") && a.GodotVersion == r.URL.Query().Get("godot_version") {
				result = append(result, a)
			}
		}
		writeJSON(t, w, map[string]any{"result": result})
	})
	mux.HandleFunc("GET /asset/edit", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "new accepted", r.URL.Query().Get("status"))
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)

		pages := (len(f.edits) + f.pageSize - 1) / f.pageSize
		items := []editListItem{}
		for i := page * f.pageSize; i < len(f.edits) && i < (page+1)*f.pageSize; i++ {
			e := f.edits[i]
			items = append(items, editListItem{EditID: e.EditID, AssetID: e.AssetID, VersionString: e.VersionString})
		}
		writeJSON(t, w, editListResponse{Result: items, Pages: pages})
	})
	mux.HandleFunc("GET /asset/edit/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, e := range f.edits {
			if e.EditID == r.PathValue("id") {
				writeJSON(t, w, e)
				return
			}
		}
		http.NotFound(w, r)
	})
	return mux
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestClient(t *testing.T, lib *fakeLibrary) *Client {
	t.Helper()
	server := httptest.NewServer(lib.handler(t))
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func gutAsset() ports.Asset {
	return ports.Asset{
		AssetID:       "1709",
		Title:         "Gut",
		GodotVersion:  "4.5",
		VersionString: "9.5.0",
		Cost:          "MIT",
		DownloadURL:   "https://example.com/gut-9.5.0.zip",
	}
}

func TestClient_GetAsset(t *testing.T) {
	client := newTestClient(t, &fakeLibrary{assets: map[string]ports.Asset{"1709": gutAsset()}})

	asset, err := client.GetAsset(context.Background(), "1709")
	require.NoError(t, err)
	assert.Equal(t, "Gut", asset.Title)
	assert.Equal(t, "9.5.0", asset.VersionString)

	_, err = client.GetAsset(context.Background(), "404")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestClient_GetAssetVersion(t *testing.T) {
	godot43 := "4.3"
	edits := []editResponse{
		{EditID: "1", AssetID: "1709", VersionString: "9.3.0", DownloadURL: "https://example.com/9.3.0.zip", Original: gutAsset()},
		{EditID: "2", AssetID: "1709", VersionString: "9.2.0", DownloadURL: "https://example.com/9.2.0.zip", Original: gutAsset()},
		{EditID: "3", AssetID: "1709", VersionString: "9.1.0", GodotVersion: &godot43, DownloadURL: "https://example.com/9.1.0.zip", Original: gutAsset()},
	}

	tests := []struct {
		name        string
		version     string
		wantURL     string
		wantGodot   string
		wantErrIs   error
		wantVersion string
	}{
		{
			name:        "MatchOnLaterPage_ShouldUseEditMetadata",
			version:     "9.1.0",
			wantURL:     "https://example.com/9.1.0.zip",
			wantGodot:   "4.3",
			wantVersion: "9.1.0",
		},
		{
			name:        "MatchOnFirstPage_ShouldKeepOriginalGodotVersion",
			version:     "9.3.0",
			wantURL:     "https://example.com/9.3.0.zip",
			wantGodot:   "4.5",
			wantVersion: "9.3.0",
		},
		{
			name:        "CurrentVersionWithoutEdit_ShouldFallBackToAsset",
			version:     "9.5.0",
			wantURL:     "https://example.com/gut-9.5.0.zip",
			wantGodot:   "4.5",
			wantVersion: "9.5.0",
		},
		{
			name:      "UnknownVersion_ShouldFail",
			version:   "1.0.0",
			wantErrIs: ErrAssetNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := &fakeLibrary{assets: map[string]ports.Asset{"1709": gutAsset()}, edits: edits, pageSize: 2}
			client := newTestClient(t, lib)

			asset, err := client.GetAssetVersion(context.Background(), "1709", tt.version)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, asset.VersionString)
			assert.Equal(t, tt.wantURL, asset.DownloadURL)
			assert.Equal(t, tt.wantGodot, asset.GodotVersion)
			assert.Equal(t, "Gut", asset.Title)
		})
	}
}

func TestClient_GetAssetVersionRequiresArguments(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := client.GetAssetVersion(context.Background(), "", "1.0")
	assert.Error(t, err)
}

func TestClient_Search(t *testing.T) {
	lib := &fakeLibrary{assets: map[string]ports.Asset{"1709": gutAsset()}}
	client := newTestClient(t, lib)

	found, err := client.Search(context.Background(), ports.SearchQuery{Filter: "Gut", GodotVersion: "4.5"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1709", found[0].AssetID)

	none, err := client.Search(context.Background(), ports.SearchQuery{Filter: "Gut", GodotVersion: "3.6"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClient_Download(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.zip" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var buf bytes.Buffer
	var lastDone int64
	err := client.Download(context.Background(), server.URL+"/gut.zip", &buf, func(done, _ int64) {
		lastDone = done
	})
	require.NoError(t, err)
	assert.Equal(t, payload, buf.Bytes())
	assert.Equal(t, int64(len(payload)), lastDone)

	err = client.Download(context.Background(), server.URL+"/missing.zip", io.Discard, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.zip")
	assert.Contains(t, err.Error(), "404")
}

func TestClient_DownloadHonoursCancellation(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Download(ctx, "http://127.0.0.1:0/gut.zip", io.Discard, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_SendsUserAgent(t *testing.T) {
	var agent, accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent, accept = r.Header.Get("User-Agent"), r.Header.Get("Accept")
		_ = json.NewEncoder(w).Encode(ports.Asset{AssetID: "1709"})
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.GetAsset(context.Background(), "1709")

	require.NoError(t, err)
	assert.Contains(t, agent, "gdm")
	assert.Equal(t, "application/json", accept)
}
