package filesystem

import (
	"path/filepath"
	"strings"
	"sync"
)

// contentCache remembers file contents read during one command invocation.
type contentCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newContentCache() *contentCache {
	return &contentCache{entries: make(map[string][]byte)}
}

func (c *contentCache) get(path string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

func (c *contentCache) put(path string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = append([]byte(nil), data...)
}

// invalidate drops path and everything below it.
func (c *contentCache) invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := path + string(filepath.Separator)
	for key := range c.entries {
		if key == path || strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *contentCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
