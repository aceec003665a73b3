package plugin

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// versionToken matches the first MAJOR[.MINOR[.PATCH]][-pre][+build] run in a string.
var versionToken = regexp.MustCompile(`\d+(?:\.\d+){0,2}(?:-[0-9A-Za-z][0-9A-Za-z.-]*)?(?:\+[0-9A-Za-z][0-9A-Za-z.-]*)?`)

var zeroSemver = semver.New(0, 0, 0, "", "")

// Version is a value object holding a leniently parsed semantic version.
// The raw text is kept for display and persistence; ordering uses the parsed value.
type Version struct {
	raw    string
	parsed *semver.Version
}

// ParseVersion parses a version such as "1.2", "v7.3.4 (26)" or "2.0.0-beta.1".
// A leading non-digit prefix and any trailing free text are ignored.
func ParseVersion(value string) (Version, error) {
	raw := strings.TrimSpace(value)
	token := versionToken.FindString(raw)
	if token == "" {
		return Version{}, fmt.Errorf("invalid version %q: no version number found", value)
	}

	parsed, err := semver.NewVersion(token)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", value, err)
	}

	return Version{raw: raw, parsed: parsed}, nil
}

// MustParseVersion is like ParseVersion but panics on error. Intended for constants and tests.
func MustParseVersion(value string) Version {
	v, err := ParseVersion(value)
	if err != nil {
		panic(err)
	}
	return v
}

// LenientVersion parses value and falls back to 0.0.0 when no version can be read.
// The raw text is preserved either way.
func LenientVersion(value string) Version {
	if v, err := ParseVersion(value); err == nil {
		return v
	}
	return Version{raw: strings.TrimSpace(value)}
}

func (v Version) semver() *semver.Version {
	if v.parsed == nil {
		return zeroSemver
	}
	return v.parsed
}

// String returns the version as originally written, or the canonical form when no text was given.
func (v Version) String() string {
	if v.raw != "" {
		return v.raw
	}
	return v.semver().String()
}

// Canonical returns the normalized MAJOR.MINOR.PATCH[-pre][+build] form.
func (v Version) Canonical() string {
	return v.semver().String()
}

// IsZero reports whether the version is unset or parsed to 0.0.0.
func (v Version) IsZero() bool {
	return v.semver().Equal(zeroSemver)
}

// Compare returns -1, 0 or 1 following semantic version precedence.
func (v Version) Compare(other Version) int {
	return v.semver().Compare(other.semver())
}

// Equal reports whether both versions have the same precedence.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// GreaterThan reports whether v has higher precedence than other.
func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// LessThan reports whether v has lower precedence than other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using lenient parsing.
func (v *Version) UnmarshalText(text []byte) error {
	*v = LenientVersion(string(text))
	return nil
}
