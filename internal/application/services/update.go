package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
	"github.com/k0psutin/gdm-sub000/internal/core/registry"
)

// OutdatedEntry compares an installed catalog plugin with the catalog's current version.
type OutdatedEntry struct {
	Key             string
	Installed       plugin.Record
	Latest          ports.Asset
	LatestVersion   plugin.Version
	UpdateAvailable bool
}

// Outdated fetches the latest version of every catalog plugin in the lock file.
// Plugins installed from git are not listed.
func (s *PluginService) Outdated(ctx context.Context) ([]OutdatedEntry, error) {
	reg, err := s.lock.Load(ctx)
	if err != nil {
		return nil, err
	}
	if reg.IsEmpty() {
		return nil, ErrNoPluginsInstalled
	}
	return s.latest(ctx, reg)
}

// latest looks up catalog entries concurrently and returns them in key order.
func (s *PluginService) latest(ctx context.Context, reg registry.Registry) ([]OutdatedEntry, error) {
	entries := reg.Filter(func(e registry.Entry) bool {
		return e.Record.HasSource() && e.Record.Source.Kind() == plugin.SourceCatalog
	})

	results := make([]OutdatedEntry, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	if s.dispatcher != nil && s.dispatcher.limit > 0 {
		g.SetLimit(s.dispatcher.limit)
	}
	for i, e := range entries {
		g.Go(func() error {
			asset, err := s.catalog.GetAsset(gctx, e.Record.Source.AssetID())
			if err != nil {
				return fmt.Errorf("failed to fetch latest version of %s: %w", displayTitle(e), err)
			}
			latest := plugin.LenientVersion(asset.VersionString)
			results[i] = OutdatedEntry{
				Key:             e.Key,
				Installed:       e.Record,
				Latest:          asset,
				LatestVersion:   latest,
				UpdateAvailable: latest.GreaterThan(e.Record.Version),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Update reinstalls every catalog plugin whose latest version is strictly newer.
// When nothing is newer no file is touched.
func (s *PluginService) Update(ctx context.Context) error {
	reg, err := s.load(ctx)
	if err != nil {
		return err
	}
	if reg.IsEmpty() {
		return ErrNoPluginsInstalled
	}

	outdated, err := s.latest(ctx, reg)
	if err != nil {
		return err
	}

	var jobs []ports.InstallJob
	for _, o := range outdated {
		if !o.UpdateAvailable {
			continue
		}
		s.printf("Updating plugin '%s' from %s to %s", displayTitle(registry.Entry{Key: o.Key, Record: o.Installed}), o.Installed.Version, o.LatestVersion)

		rec := o.Installed.Clone()
		rec.Title = o.Latest.Title
		rec.Version = o.LatestVersion
		asset := o.Latest
		jobs = append(jobs, ports.InstallJob{Record: rec, Asset: &asset})
	}

	if len(jobs) == 0 {
		s.printf("All plugins are up to date.")
		return nil
	}
	return s.install(ctx, reg, "Updating plugins", jobs)
}
