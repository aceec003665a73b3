package plugin

import "slices"

// Record describes one installed or requested plugin.
type Record struct {
	Title   string
	Version Version
	License *string
	// DescriptorPath is the slash-separated path of the plugin.cfg file, empty when none was found.
	DescriptorPath string
	SubAssets      []string
	Source         *Source
}

// NewRecord creates a record stamped with the given source.
func NewRecord(title string, version Version, source Source) Record {
	return Record{Title: title, Version: version, Source: &source}
}

// HasSource reports whether the record knows where it comes from.
func (r Record) HasSource() bool {
	return r.Source != nil && r.Source.Kind() != SourceUnknown
}

// Same reports whether both records refer to the same source at the same version.
func (r Record) Same(other Record) bool {
	if r.HasSource() != other.HasSource() {
		return false
	}
	if r.HasSource() && !r.Source.Equal(*other.Source) {
		return false
	}
	return r.Version.Equal(other.Version)
}

// Compare orders records by version only.
func (r Record) Compare(other Record) int {
	return r.Version.Compare(other.Version)
}

// NewerThan reports whether r carries a strictly higher version than other.
func (r Record) NewerThan(other Record) bool {
	return r.Compare(other) > 0
}

// LicenseOr returns the license or fallback when it is not set.
func (r Record) LicenseOr(fallback string) string {
	if r.License == nil {
		return fallback
	}
	return *r.License
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.SubAssets = slices.Clone(r.SubAssets)
	if r.License != nil {
		license := *r.License
		out.License = &license
	}
	if r.Source != nil {
		source := *r.Source
		out.Source = &source
	}
	return out
}

// ForFolder returns a copy whose sub-assets exclude folder.
func (r Record) ForFolder(folder string) Record {
	out := r.Clone()
	out.SubAssets = slices.DeleteFunc(out.SubAssets, func(s string) bool { return s == folder })
	return out
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
