// Package projectfile reads and patches the host project's project.godot
// file as a list of text lines. Only the [editor_plugins] section is ever
// rewritten; every other line is kept byte for byte.
package projectfile

import (
	"strings"
)

const (
	// SectionHeader is the header of the section listing enabled plugins.
	SectionHeader = "[editor_plugins]"

	enabledPrefix  = "enabled="
	resourcePrefix = "res://"
	sectionSpan    = 4
)

// SplitLines splits content on "\n". Carriage returns are kept as part of the line.
func SplitLines(content string) []string {
	return strings.Split(content, "\n")
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// EnabledLine renders the enabled= line for the given descriptor paths.
func EnabledLine(descriptorPaths []string) string {
	return enabledPrefix + FormatPackedArray(descriptorPaths)
}

// FormatPackedArray renders paths as a PackedStringArray literal of res:// resources.
func FormatPackedArray(descriptorPaths []string) string {
	quoted := make([]string, 0, len(descriptorPaths))
	for _, p := range descriptorPaths {
		quoted = append(quoted, `"`+resourcePrefix+strings.TrimPrefix(p, resourcePrefix)+`"`)
	}
	return "PackedStringArray(" + strings.Join(quoted, ", ") + ")"
}

// Patch returns the lines of a project file whose [editor_plugins] section
// enables exactly descriptorPaths. The input slice is not modified.
func Patch(lines []string, descriptorPaths []string) []string {
	out := make([]string, len(lines), len(lines)+sectionSpan+1)
	copy(out, lines)

	if len(out) == 0 || out[len(out)-1] != "" {
		out = append(out, "")
	}

	header := sectionIndex(out)

	switch {
	case len(descriptorPaths) == 0:
		if header < 0 {
			return out
		}
		end := min(header+sectionSpan, len(out))
		return append(out[:header], out[end:]...)

	case header >= 0:
		line := EnabledLine(descriptorPaths)
		if i := enabledIndex(out, header); i >= 0 {
			out[i] = line
			return out
		}
		return insertAt(out, min(header+2, len(out)), line)

	default:
		return insertAt(out, insertionIndex(out), SectionHeader, "", EnabledLine(descriptorPaths), "")
	}
}

// sectionIndex returns the index of the [editor_plugins] header or -1.
func sectionIndex(lines []string) int {
	for i, line := range lines {
		if strings.HasPrefix(line, SectionHeader) {
			return i
		}
	}
	return -1
}

// enabledIndex returns the first enabled= line after header, staying inside the section.
func enabledIndex(lines []string, header int) int {
	for i := header + 1; i < len(lines); i++ {
		if isSectionHeader(lines[i]) {
			return -1
		}
		if strings.HasPrefix(lines[i], enabledPrefix) {
			return i
		}
	}
	return -1
}

// insertionIndex returns the position of the first section header sorting after
// [editor_plugins] case-insensitively, or the end of the file.
func insertionIndex(lines []string) int {
	for i, line := range lines {
		if isSectionHeader(line) && strings.ToLower(line) > SectionHeader {
			return i
		}
	}
	return len(lines)
}

func isSectionHeader(line string) bool {
	return strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")
}

func insertAt(lines []string, index int, inserted ...string) []string {
	out := make([]string, 0, len(lines)+len(inserted))
	out = append(out, lines[:index]...)
	out = append(out, inserted...)
	return append(out, lines[index:]...)
}
