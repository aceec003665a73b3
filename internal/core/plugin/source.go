package plugin

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultReference is the git reference used when none is given.
const DefaultReference = "main"

// SourceKind identifies the variant of a Source.
type SourceKind int

const (
	// SourceUnknown is the zero value and never produced by the constructors.
	SourceUnknown SourceKind = iota
	// SourceCatalog is a plugin published on the asset library.
	SourceCatalog
	// SourceGit is a plugin fetched from a git repository.
	SourceGit
)

// String returns the name of the kind.
func (k SourceKind) String() string {
	switch k {
	case SourceCatalog:
		return "catalog"
	case SourceGit:
		return "git"
	default:
		return "unknown"
	}
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Source is the immutable identity of where a plugin comes from.
// It is either a catalog asset id or a git URL with a reference.
type Source struct {
	kind      SourceKind
	assetID   string
	url       string
	reference string
}

// NewCatalogSource creates a Source for an asset library id.
func NewCatalogSource(assetID string) (Source, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return Source{}, fmt.Errorf("asset ID cannot be empty")
	}
	return Source{kind: SourceCatalog, assetID: assetID}, nil
}

// NewGitSource creates a Source for a git repository. An empty reference defaults to DefaultReference.
func NewGitSource(url, reference string) (Source, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Source{}, fmt.Errorf("git URL cannot be empty")
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		reference = DefaultReference
	}
	return Source{kind: SourceGit, url: url, reference: reference}, nil
}

// Kind returns the variant of the source.
func (s Source) Kind() SourceKind { return s.kind }

// AssetID returns the catalog asset id, empty for git sources.
func (s Source) AssetID() string { return s.assetID }

// URL returns the git URL, empty for catalog sources.
func (s Source) URL() string { return s.url }

// Reference returns the git reference, empty for catalog sources.
func (s Source) Reference() string { return s.reference }

// Key returns the identity string used for equality and lookups.
func (s Source) Key() string {
	switch s.kind {
	case SourceCatalog:
		return "asset:" + s.assetID
	case SourceGit:
		return "git:" + s.url + "#" + s.reference
	default:
		return ""
	}
}

// Equal reports whether two sources have the same identity.
func (s Source) Equal(other Source) bool {
	return s.Key() == other.Key()
}

// StagingKey returns a filesystem-safe identifier derived from the source.
func (s Source) StagingKey() string {
	var key string
	switch s.kind {
	case SourceCatalog:
		key = s.assetID
	case SourceGit:
		key = RepositoryName(s.url)
	}
	key = unsafeKeyChars.ReplaceAllString(key, "_")
	if key == "" || key == "." || key == ".." {
		return "plugin"
	}
	return key
}

// String implements the Stringer interface
func (s Source) String() string {
	switch s.kind {
	case SourceCatalog:
		return "asset " + s.assetID
	case SourceGit:
		return s.url + "@" + s.reference
	default:
		return "unknown source"
	}
}

// RepositoryName returns the last path segment of a repository URL without a ".git" suffix.
// Both "https://host/user/repo.git" and "git@host:user/repo.git" yield "repo".
func RepositoryName(url string) string {
	name := strings.TrimRight(strings.TrimSpace(url), "/")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".git")
}
