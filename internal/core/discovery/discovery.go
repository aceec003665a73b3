// Package discovery inspects a staged addon container, reads plugin
// descriptors and decides which folder is the main plugin of an artifact.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
)

var (
	// ErrNoAddonContainer indicates the staged tree has no addon container directory.
	ErrNoAddonContainer = errors.New("no addon container found")

	// ErrNoDescriptor indicates none of the candidate folders carries a plugin descriptor.
	ErrNoDescriptor = errors.New("no plugin descriptor found in any candidate folder")
)

// Candidate is one immediate subdirectory of the addon container.
type Candidate struct {
	Folder        string
	HasDescriptor bool
	Record        plugin.Record
}

// Result is the outcome of discovering a staged tree.
type Result struct {
	// Folder is the main plugin's folder name.
	Folder string
	// Record describes the main plugin, with every other folder listed as a sub-asset.
	Record plugin.Record
	// Folders lists every enumerated folder, main plugin included, in enumeration order.
	Folders []string
}

// Candidates enumerates the subdirectories of container and parses their descriptors.
func Candidates(fsys fs.FS, container string, source plugin.Source) ([]Candidate, error) {
	entries, err := fs.ReadDir(fsys, container)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoAddonContainer, container)
		}
		return nil, fmt.Errorf("failed to read addon container %s: %w", container, err)
	}

	var candidates []Candidate
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := entry.Name()
		c := Candidate{Folder: folder}

		descriptorPath, found, err := FindDescriptor(fsys, path.Join(container, folder))
		if err != nil {
			return nil, err
		}
		if found {
			d, err := ReadDescriptor(fsys, descriptorPath)
			if err != nil {
				return nil, err
			}
			c.HasDescriptor = true
			c.Record = plugin.NewRecord(d.Name, plugin.LenientVersion(d.Version), source)
			c.Record.DescriptorPath = descriptorPath
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// Discover picks the main plugin of the tree under container and tags every
// other folder as its sub-asset. expected is the requested name or title and
// only influences which folder wins.
func Discover(fsys fs.FS, container string, source plugin.Source, expected string) (Result, error) {
	candidates, err := Candidates(fsys, container, source)
	if err != nil {
		return Result{}, err
	}

	winner, ok := SelectMain(candidates, expected)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrNoDescriptor, container)
	}

	chosen := candidates[winner]
	record := chosen.Record.Clone()
	record.SubAssets = []string{}

	folders := make([]string, 0, len(candidates))
	for _, c := range candidates {
		folders = append(folders, c.Folder)
		if c.Folder != chosen.Folder {
			record.SubAssets = append(record.SubAssets, c.Folder)
		}
	}

	return Result{Folder: chosen.Folder, Record: record, Folders: folders}, nil
}
