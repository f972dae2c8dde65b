package texture

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"oit-renderer/internal/raster"
)

// Resolver resolves a texture name to a sampleable texture.
type Resolver interface {
	Resolve(name string) *raster.Texture
}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string
}

// BuildIndex scans dir for TGA/JPEG/PNG files, non-recursively.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".tga", ".jpg", ".jpeg", ".png":
			stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
			idx.entries[stem] = filepath.Join(dir, name)
		}
	}
	return idx
}

// ResolvePath returns the path for a texture stem.
func (i *Index) ResolvePath(name string) (string, bool) {
	p, ok := i.entries[strings.ToLower(name)]
	return p, ok
}

// Len returns the number of indexed textures.
func (i *Index) Len() int { return len(i.entries) }

// Stems returns the indexed texture stems in sorted order.
func (i *Index) Stems() []string {
	stems := make([]string, 0, len(i.entries))
	for s := range i.entries {
		stems = append(stems, s)
	}
	sort.Strings(stems)
	return stems
}

// Cache is a concurrency-safe texture cache. Failed loads are cached as nil
// so a missing file is probed once.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*raster.Texture
	index *Index
}

// NewCache creates a cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*raster.Texture),
		index: index,
	}
}

// Resolve loads and caches a texture by stem. Returns nil if not found or
// undecodable.
func (c *Cache) Resolve(name string) *raster.Texture {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	if tex, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return tex
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	var tex *raster.Texture
	if img, err := Load(path); err == nil {
		tex = raster.NewTexture(img)
	}

	// Write lock with double-check
	c.mu.Lock()
	if cached, exists := c.items[path]; exists {
		c.mu.Unlock()
		return cached
	}
	c.items[path] = tex
	c.mu.Unlock()

	return tex
}
