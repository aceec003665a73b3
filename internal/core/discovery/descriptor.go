package discovery

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// DescriptorFileName is the name of the manifest shipped inside every plugin folder.
const DescriptorFileName = "plugin.cfg"

// Descriptor holds the values read from a plugin.cfg file.
type Descriptor struct {
	Name    string
	Version string
}

// ParseDescriptor reads name= and version= lines. Values may be quoted and
// the last occurrence of a key wins.
func ParseDescriptor(r io.Reader) (Descriptor, error) {
	var d Descriptor
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if value, ok := strings.CutPrefix(line, "name="); ok {
			d.Name = unquote(value)
		} else if value, ok := strings.CutPrefix(line, "version="); ok {
			d.Version = unquote(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return Descriptor{}, fmt.Errorf("failed to read descriptor: %w", err)
	}
	return d, nil
}

func unquote(value string) string {
	return strings.Trim(strings.TrimSpace(value), `"`)
}

// ReadDescriptor opens and parses the descriptor at name inside fsys.
func ReadDescriptor(fsys fs.FS, name string) (Descriptor, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to open descriptor %s: %w", name, err)
	}
	defer f.Close()

	d, err := ParseDescriptor(f)
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to parse descriptor %s: %w", name, err)
	}
	return d, nil
}

// FindDescriptor searches dir depth-first for a plugin.cfg. The directory's own
// descriptor wins over nested ones; subdirectories are visited in lexical order.
// found is false when no descriptor exists anywhere below dir.
func FindDescriptor(fsys fs.FS, dir string) (string, bool, error) {
	own := path.Join(dir, DescriptorFileName)
	if info, err := fs.Stat(fsys, own); err == nil && !info.IsDir() {
		return own, true, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", false, fmt.Errorf("failed to stat %s: %w", own, err)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return "", false, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		found, ok, err := FindDescriptor(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return "", false, err
		}
		if ok {
			return found, true, nil
		}
	}
	return "", false, nil
}
