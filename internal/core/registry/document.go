package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
)

// document is the persisted lock file format.
type document struct {
	Plugins map[string]entryDocument `json:"plugins"`
}

type entryDocument struct {
	Source    *sourceDocument `json:"source,omitempty"`
	Title     string          `json:"title"`
	Version   plugin.Version  `json:"version"`
	License   *string         `json:"license"`
	SubAssets []string        `json:"sub_assets"`

	// LegacyAssetID is read from lock files written before sources were nested. Never written.
	LegacyAssetID string `json:"asset_id,omitempty"`
}

// sourceDocument is the untagged union written for a plugin source.
type sourceDocument struct {
	AssetID   string `json:"asset_id,omitempty"`
	URL       string `json:"url,omitempty"`
	Reference string `json:"reference,omitempty"`
}

func (d *sourceDocument) toSource() (plugin.Source, error) {
	switch {
	case d.AssetID != "" && d.URL != "":
		return plugin.Source{}, fmt.Errorf("source has both asset_id and url")
	case d.AssetID != "":
		return plugin.NewCatalogSource(d.AssetID)
	case d.URL != "":
		return plugin.NewGitSource(d.URL, d.Reference)
	default:
		return plugin.Source{}, fmt.Errorf("source has neither asset_id nor url")
	}
}

func fromSource(src plugin.Source) *sourceDocument {
	switch src.Kind() {
	case plugin.SourceCatalog:
		return &sourceDocument{AssetID: src.AssetID()}
	case plugin.SourceGit:
		return &sourceDocument{URL: src.URL(), Reference: src.Reference()}
	default:
		return nil
	}
}

// Marshal renders the registry as an indented lock document with keys in ascending order.
func Marshal(r Registry) ([]byte, error) {
	doc := document{Plugins: make(map[string]entryDocument, r.Len())}
	for _, e := range r.Entries() {
		ed := entryDocument{
			Title:     e.Record.Title,
			Version:   e.Record.Version,
			License:   e.Record.License,
			SubAssets: e.Record.SubAssets,
		}
		if ed.SubAssets == nil {
			ed.SubAssets = []string{}
		}
		if e.Record.HasSource() {
			ed.Source = fromSource(*e.Record.Source)
		}
		doc.Plugins[e.Key] = ed
	}

	// encoding/json writes map keys in sorted order
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lock document: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal parses a lock document. Empty input yields an empty registry.
func Unmarshal(data []byte) (Registry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Empty(), nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Registry{}, fmt.Errorf("failed to parse lock document: %w", err)
	}

	entries := make(map[string]plugin.Record, len(doc.Plugins))
	for key, ed := range doc.Plugins {
		rec := plugin.Record{
			Title:     ed.Title,
			Version:   ed.Version,
			License:   ed.License,
			SubAssets: ed.SubAssets,
		}

		switch {
		case ed.Source != nil:
			src, err := ed.Source.toSource()
			if err != nil {
				return Registry{}, fmt.Errorf("invalid source for plugin %q: %w", key, err)
			}
			rec.Source = &src
		case ed.LegacyAssetID != "":
			src, err := plugin.NewCatalogSource(ed.LegacyAssetID)
			if err != nil {
				return Registry{}, fmt.Errorf("invalid asset_id for plugin %q: %w", key, err)
			}
			rec.Source = &src
		}
		entries[key] = rec
	}
	return New(entries), nil
}
