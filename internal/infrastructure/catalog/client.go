// Package catalog talks to the Godot Asset Library REST API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	httpinfra "github.com/k0psutin/gdm-sub000/internal/infrastructure/http"
)

// DefaultBaseURL is the public asset library endpoint.
const DefaultBaseURL = "https://godotengine.org/asset-library/api"

// editStatus selects edits that are published or awaiting review.
const editStatus = "new accepted"

// ErrAssetNotFound indicates the catalog has no asset, or no asset at the requested version.
var ErrAssetNotFound = errors.New("asset not found")

// Client implements ports.CatalogClient over HTTP.
type Client struct {
	baseURL  string
	api      *http.Client
	download *http.Client
	logger   *slog.Logger
}

// NewClient creates a catalog client. timeout bounds each API request;
// downloads are bounded by their context only.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		api:      httpinfra.NewClient(timeout, httpinfra.MergeHeaders(httpinfra.DefaultHeaders(), map[string]string{"Accept": "application/json"})),
		download: httpinfra.NewClient(0, httpinfra.DefaultHeaders()),
		logger:   logger.With("subsystem", "catalog"),
	}
}

type assetListResponse struct {
	Result []ports.Asset `json:"result"`
}

type editListItem struct {
	EditID        string `json:"edit_id"`
	AssetID       string `json:"asset_id"`
	VersionString string `json:"version_string"`
}

type editListResponse struct {
	Result []editListItem `json:"result"`
	Pages  int            `json:"pages"`
}

type editResponse struct {
	EditID        string      `json:"edit_id"`
	AssetID       string      `json:"asset_id"`
	GodotVersion  *string     `json:"godot_version"`
	VersionString string      `json:"version_string"`
	DownloadURL   string      `json:"download_url"`
	Original      ports.Asset `json:"original"`
}

// asset returns the original asset as it was published by this edit.
func (e editResponse) asset() ports.Asset {
	a := e.Original
	a.AssetID = e.AssetID
	a.VersionString = e.VersionString
	a.DownloadURL = e.DownloadURL
	if e.GodotVersion != nil && *e.GodotVersion != "" {
		a.GodotVersion = *e.GodotVersion
	}
	return a
}

// GetAsset returns the current version of an asset.
func (c *Client) GetAsset(ctx context.Context, assetID string) (ports.Asset, error) {
	var asset ports.Asset
	if err := c.getJSON(ctx, "/asset/"+url.PathEscape(assetID), nil, &asset); err != nil {
		return ports.Asset{}, fmt.Errorf("failed to get asset %s: %w", assetID, err)
	}
	return asset, nil
}

// GetAssetVersion pages through the asset's edits looking for one published
// at version. When none matches, the current asset is accepted if it carries that version.
func (c *Client) GetAssetVersion(ctx context.Context, assetID, version string) (ports.Asset, error) {
	if assetID == "" || version == "" {
		return ports.Asset{}, errors.New("both asset ID and version must be provided to search by version")
	}

	for page := 0; ; page++ {
		edits, err := c.listEdits(ctx, assetID, page)
		if err != nil {
			return ports.Asset{}, err
		}
		if len(edits.Result) == 0 {
			break
		}
		for _, edit := range edits.Result {
			if edit.AssetID == assetID && edit.VersionString == version {
				return c.getEdit(ctx, edit.EditID)
			}
		}
		if page >= edits.Pages-1 {
			break
		}
	}

	current, err := c.GetAsset(ctx, assetID)
	if err == nil && current.VersionString == version {
		return current, nil
	}

	return ports.Asset{}, fmt.Errorf("%w: asset %s has no version %s", ErrAssetNotFound, assetID, version)
}

func (c *Client) listEdits(ctx context.Context, assetID string, page int) (editListResponse, error) {
	query := url.Values{}
	query.Set("asset", assetID)
	query.Set("status", editStatus)
	query.Set("page", strconv.Itoa(page))

	var edits editListResponse
	if err := c.getJSON(ctx, "/asset/edit", query, &edits); err != nil {
		return editListResponse{}, fmt.Errorf("failed to get edits of asset %s: %w", assetID, err)
	}
	return edits, nil
}

func (c *Client) getEdit(ctx context.Context, editID string) (ports.Asset, error) {
	var edit editResponse
	if err := c.getJSON(ctx, "/asset/edit/"+url.PathEscape(editID), nil, &edit); err != nil {
		return ports.Asset{}, fmt.Errorf("failed to get asset edit %s: %w", editID, err)
	}
	return edit.asset(), nil
}

// Search lists assets matching the query.
func (c *Client) Search(ctx context.Context, q ports.SearchQuery) ([]ports.Asset, error) {
	query := url.Values{}
	query.Set("filter", q.Filter)
	if q.GodotVersion != "" {
		query.Set("godot_version", q.GodotVersion)
	}

	var list assetListResponse
	if err := c.getJSON(ctx, "/asset", query, &list); err != nil {
		return nil, fmt.Errorf("failed to search assets for %q: %w", q.Filter, err)
	}
	if list.Result == nil {
		return []ports.Asset{}, nil
	}
	return list.Result, nil
}

// Download streams the artifact at rawURL into w, reporting transferred bytes.
func (c *Client) Download(ctx context.Context, rawURL string, w io.Writer, progress ports.ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.download.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed to download %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	var dst io.Writer = w
	if progress != nil {
		dst = &progressWriter{w: w, total: resp.ContentLength, report: progress}
		progress(0, resp.ContentLength)
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	c.logger.Debug("downloaded artifact", "url", rawURL, "bytes", n)
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("catalog request", "url", endpoint)
	resp, err := c.api.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, endpoint)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API error %d from %s: %s", resp.StatusCode, endpoint, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}

type progressWriter struct {
	w      io.Writer
	done   int64
	total  int64
	report ports.ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.done += int64(n)
	p.report(p.done, p.total)
	return n, err
}

var _ ports.CatalogClient = (*Client)(nil)
