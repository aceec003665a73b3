package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
	"github.com/k0psutin/gdm-sub000/internal/core/registry"
)

// AddRequest names one plugin to add. A catalog plugin is given by Name or
// AssetID with an optional Version; a git plugin by GitURL and an optional Ref.
type AddRequest struct {
	Name    string
	AssetID string
	Version string
	GitURL  string
	Ref     string
}

// Validate checks that the request names exactly one plugin.
func (r AddRequest) Validate() error {
	catalog := r.Name != "" || r.AssetID != "" || r.Version != ""
	git := r.GitURL != "" || r.Ref != ""
	switch {
	case catalog && git:
		return errors.New("asset library options (name, asset id, version) cannot be combined with git options (url, ref)")
	case r.Name != "" && r.AssetID != "":
		return errors.New("name and asset id are mutually exclusive")
	case git && r.GitURL == "":
		return errors.New("a git reference requires a git URL")
	case !git && r.Name == "" && r.AssetID == "":
		return errors.New("either a name, an asset id or a git URL is required")
	}
	return nil
}

// Add installs one plugin, replacing the installed version of the same source if any.
func (s *PluginService) Add(ctx context.Context, req AddRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	reg, err := s.load(ctx)
	if err != nil {
		return err
	}

	var job ports.InstallJob
	if req.GitURL != "" {
		job, err = s.gitJob(reg, req)
	} else {
		job, err = s.catalogJob(ctx, reg, req)
	}
	if err != nil {
		return err
	}

	return s.install(ctx, reg, "Installing plugins", []ports.InstallJob{job})
}

func (s *PluginService) gitJob(reg registry.Registry, req AddRequest) (ports.InstallJob, error) {
	src, err := plugin.NewGitSource(req.GitURL, req.Ref)
	if err != nil {
		return ports.InstallJob{}, err
	}
	if existing, ok := reg.FindBySource(src); ok {
		s.printf("Plugin '%s' is already in dependencies.", displayTitle(existing))
	}
	return ports.InstallJob{Record: plugin.NewRecord("", plugin.Version{}, src)}, nil
}

func (s *PluginService) catalogJob(ctx context.Context, reg registry.Registry, req AddRequest) (ports.InstallJob, error) {
	asset, err := s.resolveAsset(ctx, req)
	if err != nil {
		return ports.InstallJob{}, err
	}

	src, err := plugin.NewCatalogSource(asset.AssetID)
	if err != nil {
		return ports.InstallJob{}, err
	}
	rec := plugin.NewRecord(asset.Title, plugin.LenientVersion(asset.VersionString), src)
	if asset.Cost != "" {
		rec.License = plugin.StringPtr(asset.Cost)
	}

	if existing, ok := reg.FindBySource(src); ok {
		if existing.Record.Version.Equal(rec.Version) {
			s.printf("Plugin '%s' is already in dependencies.", displayTitle(existing))
		} else {
			s.printf("Updating plugin '%s' from %s to %s", displayTitle(existing), existing.Record.Version, rec.Version)
		}
	}
	return ports.InstallJob{Record: rec, Asset: &asset}, nil
}

// resolveAsset fetches catalog metadata for the request.
func (s *PluginService) resolveAsset(ctx context.Context, req AddRequest) (ports.Asset, error) {
	assetID := req.AssetID
	if assetID == "" {
		found, err := s.findByName(ctx, req.Name)
		if err != nil {
			return ports.Asset{}, err
		}
		assetID = found.AssetID
	}

	if req.Version != "" {
		return s.catalog.GetAssetVersion(ctx, assetID, req.Version)
	}
	return s.catalog.GetAsset(ctx, assetID)
}

// findByName searches the catalog for the project's engine version and
// requires exactly one hit.
func (s *PluginService) findByName(ctx context.Context, name string) (ports.Asset, error) {
	engine, err := s.engineVersion(ctx)
	if err != nil {
		return ports.Asset{}, err
	}
	results, err := s.catalog.Search(ctx, ports.SearchQuery{Filter: name, GodotVersion: engine})
	if err != nil {
		return ports.Asset{}, err
	}
	if len(results) != 1 {
		return ports.Asset{}, fmt.Errorf("expected to find exactly one asset matching %q, but found %d; refine your search or use --asset-id", name, len(results))
	}
	return results[0], nil
}

func (s *PluginService) engineVersion(ctx context.Context) (string, error) {
	manifest, err := s.project.Manifest(ctx)
	if err != nil {
		return "", err
	}
	return manifest.EngineVersion()
}

func displayTitle(e registry.Entry) string {
	if e.Record.Title != "" {
		return e.Record.Title
	}
	return e.Key
}
