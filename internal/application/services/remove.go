package services

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/k0psutin/gdm-sub000/internal/core/registry"
)

const maxSuggestions = 3

// Remove deletes a plugin's folders, its lock entry and its project entry.
// An unknown name is reported with close matches and changes nothing.
func (s *PluginService) Remove(ctx context.Context, name string) error {
	reg, err := s.load(ctx)
	if err != nil {
		return err
	}

	entry, ok := reg.FindByName(name)
	if !ok {
		s.printf("Plugin %s is not installed.", name)
		if suggestions := suggest(reg, name); len(suggestions) > 0 {
			s.printf("Did you mean: %s?", strings.Join(suggestions, ", "))
		}
		return nil
	}

	folders := append([]string{entry.Key}, entry.Record.SubAssets...)
	for _, folder := range folders {
		if err := s.fs.RemoveAll(filepath.Join(s.addonDir, folder)); err != nil {
			return err
		}
	}

	if err := s.persist(ctx, reg.Remove(entry.Key)); err != nil {
		return err
	}
	s.printf("Removed plugin '%s'.", displayTitle(entry))
	return nil
}

// suggest ranks installed folder names and titles against name.
func suggest(reg registry.Registry, name string) []string {
	var targets []string
	for _, e := range reg.Entries() {
		targets = append(targets, e.Key)
		if e.Record.Title != "" && !strings.EqualFold(e.Record.Title, e.Key) {
			targets = append(targets, e.Record.Title)
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(name, targets)
	sort.Sort(ranks)

	var out []string
	for _, r := range ranks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
