package ports

import (
	"context"
	"io"
)

// Asset is the catalog's view of a published plugin at one version.
type Asset struct {
	AssetID       string `json:"asset_id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Category      string `json:"category"`
	GodotVersion  string `json:"godot_version"`
	Version       string `json:"version"`
	VersionString string `json:"version_string"`
	Cost          string `json:"cost"`
	SupportLevel  string `json:"support_level"`
	Rating        string `json:"rating"`
	ModifyDate    string `json:"modify_date"`
	DownloadURL   string `json:"download_url"`
	BrowseURL     string `json:"browse_url"`
}

// SearchQuery filters catalog assets.
type SearchQuery struct {
	Filter       string
	GodotVersion string
}

// ProgressFunc receives the number of bytes transferred so far and the
// expected total, which is -1 when unknown.
type ProgressFunc func(done, total int64)

// CatalogClient defines the operations gdm needs from the asset library
type CatalogClient interface {
	// GetAsset returns the current version of an asset
	GetAsset(ctx context.Context, assetID string) (Asset, error)

	// GetAssetVersion returns the asset as published at an exact version
	GetAssetVersion(ctx context.Context, assetID, version string) (Asset, error)

	// Search lists assets matching the query
	Search(ctx context.Context, query SearchQuery) ([]Asset, error)

	// Download streams the artifact at url into w
	Download(ctx context.Context, url string, w io.Writer, progress ProgressFunc) error
}

// SourceControlClient fetches plugin trees from version control
type SourceControlClient interface {
	// ShallowFetch materializes only the addon container of url at ref below dest.
	// It returns the number of files written.
	ShallowFetch(ctx context.Context, url, ref, dest string) (int, error)
}
