package tmdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Cache is a process-wide response cache keyed by request shape. Entries
// never expire within a run and persist across runs as a single JSON file.
// A corrupt or unreadable file degrades to an empty cache.
type Cache struct {
	path string

	mu      sync.Mutex
	entries map[string]json.RawMessage
}

// LoadCache reads the cache file at path, or starts empty if it is missing
// or unreadable.
func LoadCache(path string) *Cache {
	cache := &Cache{
		path:    path,
		entries: make(map[string]json.RawMessage),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("tmdb cache unreadable, starting empty", "path", path, "error", err)
		}
		return cache
	}
	if err := json.Unmarshal(data, &cache.entries); err != nil {
		slog.Warn("tmdb cache corrupt, starting empty", "path", path, "error", err)
		cache.entries = make(map[string]json.RawMessage)
	}
	return cache
}

// Get unmarshals the cached entry for key into out. Returns false on miss.
func (c *Cache) Get(key string, out any) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	raw, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

// Put stores value under key and writes the cache file through to disk.
func (c *Cache) Put(key string, value any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.entries[key] = raw
	err = c.save()
	c.mu.Unlock()
	if err != nil {
		slog.Warn("tmdb cache save failed", "path", c.path, "error", err)
	}
}

// save writes the cache atomically (temp file + rename). Caller holds mu.
func (c *Cache) save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write cache temp file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
