package testfixtures

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
	"github.com/k0psutin/gdm-sub000/internal/core/registry"
)

// RecordBuilder provides a builder pattern for creating test plugin records
type RecordBuilder struct {
	title          string
	version        string
	license        string
	descriptorPath string
	subAssets      []string
	source         *plugin.Source
	err            error
}

// NewRecordBuilder creates a new RecordBuilder with sensible defaults
func NewRecordBuilder() *RecordBuilder {
	return (&RecordBuilder{
		title:   "Test Plugin",
		version: "1.0.0",
	}).FromCatalog("1")
}

// WithTitle sets the record title
func (b *RecordBuilder) WithTitle(title string) *RecordBuilder {
	b.title = title
	return b
}

// WithVersion sets the version text
func (b *RecordBuilder) WithVersion(version string) *RecordBuilder {
	b.version = version
	return b
}

// WithLicense sets the license
func (b *RecordBuilder) WithLicense(license string) *RecordBuilder {
	b.license = license
	return b
}

// WithDescriptorPath sets the slash-separated plugin.cfg path
func (b *RecordBuilder) WithDescriptorPath(path string) *RecordBuilder {
	b.descriptorPath = path
	return b
}

// WithSubAssets sets the sibling folders installed with the plugin
func (b *RecordBuilder) WithSubAssets(folders ...string) *RecordBuilder {
	b.subAssets = folders
	return b
}

// FromCatalog stamps an asset library source
func (b *RecordBuilder) FromCatalog(assetID string) *RecordBuilder {
	src, err := plugin.NewCatalogSource(assetID)
	b.source, b.err = &src, err
	return b
}

// FromGit stamps a git source
func (b *RecordBuilder) FromGit(url, reference string) *RecordBuilder {
	src, err := plugin.NewGitSource(url, reference)
	b.source, b.err = &src, err
	return b
}

// WithoutSource clears the source
func (b *RecordBuilder) WithoutSource() *RecordBuilder {
	b.source, b.err = nil, nil
	return b
}

// Build creates the record
func (b *RecordBuilder) Build() (plugin.Record, error) {
	if b.err != nil {
		return plugin.Record{}, b.err
	}
	version, err := plugin.ParseVersion(b.version)
	if err != nil {
		return plugin.Record{}, err
	}

	rec := plugin.Record{
		Title:          b.title,
		Version:        version,
		License:        plugin.StringPtr(b.license),
		DescriptorPath: b.descriptorPath,
		SubAssets:      append([]string(nil), b.subAssets...),
	}
	if b.source != nil {
		src := *b.source
		rec.Source = &src
	}
	return rec, nil
}

// MustBuild creates the record or panics
func (b *RecordBuilder) MustBuild() plugin.Record {
	rec, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build record: %v", err))
	}
	return rec
}

// RegistryBuilder collects records keyed by folder name
type RegistryBuilder struct {
	entries map[string]plugin.Record
}

// NewRegistryBuilder creates an empty RegistryBuilder
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{entries: map[string]plugin.Record{}}
}

// With adds rec under folder
func (b *RegistryBuilder) With(folder string, rec plugin.Record) *RegistryBuilder {
	b.entries[folder] = rec
	return b
}

// Build creates the registry
func (b *RegistryBuilder) Build() registry.Registry {
	return registry.New(b.entries)
}

// SampleRegistry returns a registry with a catalog plugin carrying a
// sub-asset and a git plugin.
func SampleRegistry() registry.Registry {
	return NewRegistryBuilder().
		With("gut", NewRecordBuilder().WithTitle("Gut").WithVersion("9.1.0").WithLicense("MIT").FromCatalog("1709").MustBuild()).
		With("dialogic", NewRecordBuilder().WithTitle("Dialogic").WithVersion("2.0.0").WithSubAssets("dialogic_ext").FromCatalog("42").MustBuild()).
		With("beehave", NewRecordBuilder().WithTitle("Beehave").WithVersion("2.8.0").FromGit("https://github.com/bitbrain/beehave.git", "godot-4.x").MustBuild()).
		Build()
}

// ProjectFile renders a project.godot with the given extra sections, each
// given as "name" and rendered as "[name]" followed by one setting.
func ProjectFile(configVersion int, sections ...string) string {
	var sb strings.Builder
	sb.WriteString("; Engine configuration file.\n\n")
	fmt.Fprintf(&sb, "config_version=%d\n\n", configVersion)
	for _, s := range sections {
		fmt.Fprintf(&sb, "[%s]\n\n%s/setting=true\n\n", s, s)
	}
	return sb.String()
}

// RandomRecord returns a catalog record with a random id and version
func RandomRecord(rng *rand.Rand) plugin.Record {
	version := fmt.Sprintf("%d.%d.%d", rng.Intn(10), rng.Intn(20), rng.Intn(50))
	return NewRecordBuilder().
		WithTitle(fmt.Sprintf("Plugin %d", rng.Intn(1000))).
		WithVersion(version).
		FromCatalog(fmt.Sprintf("%d", 1+rng.Intn(5000))).
		MustBuild()
}

// ValidVersions returns version strings the lenient parser accepts
func ValidVersions() []string {
	return []string{
		"1.0.0",
		"1.0",
		"v2.3.4",
		"7.3.4 (26)",
		"2.0.0-beta.1",
		"ver 3",
	}
}

// InvalidVersions returns version strings without any version number
func InvalidVersions() []string {
	return []string{
		"",
		"latest",
		"vX",
	}
}
