package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
)

// OutdatedRow is one plugin in the outdated report.
type OutdatedRow struct {
	Plugin          string
	Current         string
	Latest          string
	UpdateAvailable bool
}

const updateAvailableNote = " (update available)"

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
}

// RenderOutdated renders the Plugin / Current / Latest table.
func RenderOutdated(rows []OutdatedRow) string {
	t := newTable("Plugin", "Current", "Latest")
	for _, r := range rows {
		latest := r.Latest
		if r.UpdateAvailable {
			latest += updateAvailableNote
		}
		t.Row(r.Plugin, r.Current, latest)
	}
	return t.Render()
}

// RenderSearch renders catalog search results.
func RenderSearch(assets []ports.Asset) string {
	t := newTable("Asset ID", "Title", "Author", "Version", "Godot", "License")
	for _, a := range assets {
		t.Row(a.AssetID, a.Title, a.Author, a.VersionString, a.GodotVersion, a.Cost)
	}
	return t.Render()
}
