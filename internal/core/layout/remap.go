// Package layout maps paths found inside downloaded artifacts onto the
// addon container of a staging area.
package layout

import (
	"path/filepath"
	"strings"
)

// DefaultContainer is the name of the directory holding plugin folders.
const DefaultContainer = "addons"

// Segments splits an archive entry name into clean path segments.
// Backslashes are treated as separators and empty or "." segments are dropped.
func Segments(entry string) []string {
	entry = strings.ReplaceAll(entry, "\\", "/")
	var out []string
	for _, s := range strings.Split(entry, "/") {
		if s == "" || s == "." {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Relative returns the segments of entry that belong below the addon container.
//
// When a segment equal to marker exists, everything after the first such
// segment is kept. Otherwise the top-level segment is treated as the
// artifact's own wrapper directory and dropped. ok is false when nothing
// remains or when the entry tries to escape with "..".
func Relative(marker, entry string) (rel []string, ok bool) {
	segments := Segments(entry)
	for _, s := range segments {
		if s == ".." {
			return nil, false
		}
	}

	rest := segments
	found := false
	for i, s := range segments {
		if s == marker {
			rest = segments[i+1:]
			found = true
			break
		}
	}
	if !found {
		if len(segments) == 0 {
			return nil, false
		}
		rest = segments[1:]
	}

	if len(rest) == 0 {
		return nil, false
	}
	return rest, true
}

// Remap returns the destination of an archive entry below root.
// Files that would sit directly in the container, without a plugin folder, are dropped.
func Remap(root, marker, entry string, isDir bool) (string, bool) {
	rel, ok := Relative(marker, entry)
	if !ok {
		return "", false
	}
	if !isDir && len(rel) == 1 {
		return "", false
	}
	return filepath.Join(append([]string{root}, rel...)...), true
}

