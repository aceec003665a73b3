package projectfile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultConfigVersion is assumed when config_version is missing or unreadable.
const DefaultConfigVersion = 5

const (
	configVersionPrefix = "config_version="
	featuresPrefix      = "config/features="
)

var quotedItem = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)

// engineVersions maps a config_version to the engine release it implies.
var engineVersions = map[int]string{
	5: "4.5",
	4: "3.6",
}

// Manifest is the read-only view of a project file.
type Manifest struct {
	ConfigVersion int
	// Features lists the items of config/features, e.g. ["4.5", "Forward Plus"].
	Features []string
	// EnabledPlugins lists descriptor paths from [editor_plugins] without the res:// prefix.
	EnabledPlugins []string
}

// ParseManifest scans project file lines for the values gdm cares about.
func ParseManifest(lines []string) Manifest {
	m := Manifest{ConfigVersion: DefaultConfigVersion}

	inEditorPlugins := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if isSectionHeader(line) {
			inEditorPlugins = strings.HasPrefix(line, SectionHeader)
			continue
		}

		switch {
		case strings.HasPrefix(line, configVersionPrefix):
			if v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, configVersionPrefix))); err == nil {
				m.ConfigVersion = v
			}
		case strings.HasPrefix(line, featuresPrefix):
			m.Features = ParsePackedArray(strings.TrimPrefix(line, featuresPrefix))
		case inEditorPlugins && strings.HasPrefix(line, enabledPrefix):
			for _, item := range ParsePackedArray(strings.TrimPrefix(line, enabledPrefix)) {
				m.EnabledPlugins = append(m.EnabledPlugins, strings.TrimPrefix(item, resourcePrefix))
			}
		}
	}
	return m
}

// ParsePackedArray returns the quoted items of an array literal such as
// PackedStringArray("a", "b").
func ParsePackedArray(value string) []string {
	matches := quotedItem.FindAllStringSubmatch(value, -1)
	items := make([]string, 0, len(matches))
	for _, match := range matches {
		items = append(items, match[1])
	}
	return items
}

// EngineVersion returns the engine version the project targets. The first
// config/features entry wins; otherwise it is derived from config_version.
func (m Manifest) EngineVersion() (string, error) {
	if len(m.Features) > 0 && m.Features[0] != "" {
		return m.Features[0], nil
	}
	if v, ok := engineVersions[m.ConfigVersion]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unsupported config_version %d", m.ConfigVersion)
}
