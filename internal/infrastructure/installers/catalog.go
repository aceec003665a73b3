// Package installers implements ports.Installer for each plugin source kind.
package installers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/layout"
	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/archive"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/staging"
)

// CatalogInstaller installs plugins published in the asset library.
type CatalogInstaller struct {
	catalog   ports.CatalogClient
	fs        ports.FileSystem
	stager    *staging.Stager
	extractor *archive.Extractor
	logger    *slog.Logger
}

// NewCatalogInstaller creates an installer for catalog sources.
func NewCatalogInstaller(catalog ports.CatalogClient, fsys ports.FileSystem, stager *staging.Stager, logger *slog.Logger) *CatalogInstaller {
	return &CatalogInstaller{
		catalog:   catalog,
		fs:        fsys,
		stager:    stager,
		extractor: archive.NewExtractor(fsys, layout.DefaultContainer),
		logger:    logger.With("subsystem", "installer", "kind", plugin.SourceCatalog.String()),
	}
}

// Kind returns plugin.SourceCatalog.
func (i *CatalogInstaller) Kind() plugin.SourceKind {
	return plugin.SourceCatalog
}

// Install downloads the requested asset version, stages it and commits its folders.
// The returned record carries the catalog's title, version string and license.
func (i *CatalogInstaller) Install(ctx context.Context, job ports.InstallJob, task ports.ProgressTask) (string, plugin.Record, error) {
	src := job.Record.Source
	if src == nil || src.Kind() != plugin.SourceCatalog {
		return "", plugin.Record{}, errors.New("plugin is not from the asset library")
	}

	asset, err := i.resolve(ctx, job)
	if err != nil {
		return "", plugin.Record{}, err
	}
	if asset.DownloadURL == "" {
		return "", plugin.Record{}, fmt.Errorf("asset %s has no download URL", src.AssetID())
	}

	outcome, err := i.stager.Run(ctx, staging.Request{
		Key:          src.StagingKey(),
		Source:       *src,
		ExpectedName: asset.Title,
		Populate: func(ctx context.Context, area staging.Area) error {
			return i.populate(ctx, area, asset, task)
		},
	})
	if err != nil {
		return "", plugin.Record{}, fmt.Errorf("failed to install %s: %w", asset.Title, err)
	}

	rec := outcome.Record
	rec.Title = asset.Title
	rec.Version = plugin.LenientVersion(asset.VersionString)
	if asset.Cost != "" {
		rec.License = plugin.StringPtr(asset.Cost)
	}
	i.logger.Debug("installed plugin", "asset_id", src.AssetID(), "folder", outcome.Folder, "version", rec.Version.String())
	return outcome.Folder, rec, nil
}

// resolve returns the asset metadata for job, preferring metadata the caller already fetched.
func (i *CatalogInstaller) resolve(ctx context.Context, job ports.InstallJob) (ports.Asset, error) {
	if job.Asset != nil {
		return *job.Asset, nil
	}

	assetID := job.Record.Source.AssetID()
	var (
		asset ports.Asset
		err   error
	)
	if job.Record.Version.IsZero() {
		asset, err = i.catalog.GetAsset(ctx, assetID)
	} else {
		asset, err = i.catalog.GetAssetVersion(ctx, assetID, job.Record.Version.String())
	}
	if err != nil {
		return ports.Asset{}, fmt.Errorf("failed to fetch metadata for asset %s: %w", assetID, err)
	}
	return asset, nil
}

func (i *CatalogInstaller) populate(ctx context.Context, area staging.Area, asset ports.Asset, task ports.ProgressTask) error {
	archivePath := filepath.Join(area.Root, asset.AssetID+".zip")

	task.Status("Downloading...")
	file, err := i.fs.Create(archivePath)
	if err != nil {
		return err
	}
	var reported int64
	err = i.catalog.Download(ctx, asset.DownloadURL, file, func(done, total int64) {
		if total > 0 {
			task.SetTotal(total)
		}
		task.Advance(done - reported)
		reported = done
	})
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", archivePath, closeErr)
	}
	if err != nil {
		return err
	}

	task.Status("Extracting...")
	files, err := i.extractor.ExtractZip(archivePath, area.Container())
	if err != nil {
		return err
	}
	i.logger.Debug("extracted archive", "path", archivePath, "files", files)

	return i.fs.RemoveAll(archivePath)
}

var _ ports.Installer = (*CatalogInstaller)(nil)
