package services

import (
	"context"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
)

// Search lists catalog assets matching name. An empty godotVersion defaults
// to the engine version of the project file.
func (s *PluginService) Search(ctx context.Context, name, godotVersion string) ([]ports.Asset, error) {
	if godotVersion == "" {
		engine, err := s.engineVersion(ctx)
		if err != nil {
			return nil, err
		}
		godotVersion = engine
	}
	return s.catalog.Search(ctx, ports.SearchQuery{Filter: name, GodotVersion: godotVersion})
}
