// Package storage provides the durable pieces of the CV pipeline: the
// vision OCR cache and the JSONL chunk sink.
package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// VisionCache is a content-addressed cache mapping image hashes to text
// previously extracted by the vision model. An empty string entry is a
// deliberate negative result ("checked, no text found") and is distinct
// from an absent key.
//
// The cache is owned by a single batch run: loaded once, mutated in
// memory, flushed back as a whole. Concurrent writers from multiple
// processes are not supported.
type VisionCache struct {
	path    string
	entries map[string]string
	dirty   bool
}

// LoadVisionCache loads the cache file at path. A missing or unreadable
// file is not fatal: the cache is a performance optimization, so the run
// proceeds with an empty in-memory cache.
func LoadVisionCache(path string) *VisionCache {
	cache := &VisionCache{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("vision cache: failed to read %s (starting empty): %v", path, err)
		}
		return cache
	}

	if err := json.Unmarshal(data, &cache.entries); err != nil {
		log.Printf("vision cache: failed to parse %s (starting empty): %v", path, err)
		cache.entries = make(map[string]string)
	}
	return cache
}

// Get returns the cached text for a content hash. The boolean
// distinguishes a cached empty result from a miss.
func (c *VisionCache) Get(hash string) (string, bool) {
	text, ok := c.entries[hash]
	return text, ok
}

// Put records extracted text for a content hash. Passing an empty string
// records a negative result so the image is not re-queried.
func (c *VisionCache) Put(hash, text string) {
	c.entries[hash] = text
	c.dirty = true
}

// Len returns the number of cached entries.
func (c *VisionCache) Len() int {
	return len(c.entries)
}

// Path returns the backing file path.
func (c *VisionCache) Path() string {
	return c.path
}

// Flush writes the cache back to disk if it changed. A write failure is
// returned but safe to ignore: the next run simply re-extracts.
func (c *VisionCache) Flush() error {
	if !c.dirty {
		return nil
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode vision cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write vision cache %s: %w", c.path, err)
	}

	c.dirty = false
	return nil
}
