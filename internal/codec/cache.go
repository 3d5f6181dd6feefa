package codec

import (
	"sync"

	"github.com/ironsheep/layer-editor/internal/raster"
)

// Cache keeps decoded rasters keyed by file path so repeated loads of the
// same file skip disk reads and decoding.
//
// Cache is safe for concurrent use. Entries stay until Evict or Clear.
// Different spellings of the same path are cached separately.
type Cache struct {
	mu     sync.RWMutex
	images map[string]*raster.Raster
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{images: make(map[string]*raster.Raster)}
}

// Load returns a copy of the raster at path, importing it on first use.
func (c *Cache) Load(path string) (*raster.Raster, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img.Clone(), nil
	}
	c.mu.RUnlock()

	img, err := Import(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img.Clone(), nil
}

// Evict removes path from the cache. It does nothing if path is not cached.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*raster.Raster)
	c.mu.Unlock()
}

// Len returns the number of cached rasters.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
