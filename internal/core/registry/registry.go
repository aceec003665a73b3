// Package registry holds the set of installed plugins keyed by their folder
// name and the lock document it is persisted as.
package registry

import (
	"slices"
	"sort"
	"strings"

	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
)

// Registry is an immutable mapping from installed folder name to plugin record.
// Mutating operations return a new Registry and leave the receiver untouched.
type Registry struct {
	entries map[string]plugin.Record
}

// Entry is one key/record pair.
type Entry struct {
	Key    string
	Record plugin.Record
}

// New creates a registry holding copies of the given records.
func New(entries map[string]plugin.Record) Registry {
	return Empty().Merge(entries)
}

// Empty returns a registry without entries.
func Empty() Registry {
	return Registry{entries: map[string]plugin.Record{}}
}

// Len returns the number of entries.
func (r Registry) Len() int { return len(r.entries) }

// IsEmpty reports whether no plugin is registered.
func (r Registry) IsEmpty() bool { return len(r.entries) == 0 }

// Keys returns the folder names in ascending order.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns all entries ordered by key.
func (r Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, k := range r.Keys() {
		out = append(out, Entry{Key: k, Record: r.entries[k].Clone()})
	}
	return out
}

// Get returns the record stored under key.
func (r Registry) Get(key string) (plugin.Record, bool) {
	rec, ok := r.entries[key]
	if !ok {
		return plugin.Record{}, false
	}
	return rec.Clone(), true
}

// Merge inserts or replaces every entry of delta. A replaced record is
// overwritten as a whole; no field of the previous record survives.
func (r Registry) Merge(delta map[string]plugin.Record) Registry {
	next := r.clone()
	for key, rec := range delta {
		next.entries[key] = rec.ForFolder(key)
	}
	return next
}

// Remove deletes the given keys. Keys that are not present are ignored.
func (r Registry) Remove(keys ...string) Registry {
	next := r.clone()
	for _, key := range keys {
		delete(next.entries, key)
	}
	return next
}

// FindBySource returns the first entry, in key order, whose source has the same identity.
func (r Registry) FindBySource(src plugin.Source) (Entry, bool) {
	for _, e := range r.Entries() {
		if e.Record.HasSource() && e.Record.Source.Equal(src) {
			return e, true
		}
	}
	return Entry{}, false
}

// FindByAssetID returns the entry installed from the given catalog asset.
func (r Registry) FindByAssetID(assetID string) (Entry, bool) {
	src, err := plugin.NewCatalogSource(assetID)
	if err != nil {
		return Entry{}, false
	}
	return r.FindBySource(src)
}

// FindByName resolves a user supplied name: an exact key first, then a
// case-insensitive match on key or title.
func (r Registry) FindByName(name string) (Entry, bool) {
	if rec, ok := r.Get(name); ok {
		return Entry{Key: name, Record: rec}, true
	}
	for _, e := range r.Entries() {
		if strings.EqualFold(e.Key, name) || strings.EqualFold(e.Record.Title, name) {
			return e, true
		}
	}
	return Entry{}, false
}

// Filter returns the entries for which keep reports true, ordered by key.
func (r Registry) Filter(keep func(Entry) bool) []Entry {
	return slices.DeleteFunc(r.Entries(), func(e Entry) bool { return !keep(e) })
}

// Equal reports whether both registries hold the same keys with the same
// source identity and version.
func (r Registry) Equal(other Registry) bool {
	if r.Len() != other.Len() {
		return false
	}
	for key, rec := range r.entries {
		o, ok := other.entries[key]
		if !ok || !rec.Same(o) || rec.Title != o.Title || !slices.Equal(rec.SubAssets, o.SubAssets) {
			return false
		}
	}
	return true
}

func (r Registry) clone() Registry {
	next := Registry{entries: make(map[string]plugin.Record, len(r.entries))}
	for k, v := range r.entries {
		next.entries[k] = v.Clone()
	}
	return next
}
