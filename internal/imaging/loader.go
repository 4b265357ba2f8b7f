package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"
)

// ErrPageNotFound is wrapped into the error returned when neither the
// zero-padded nor the plain file name of a page exists.
var ErrPageNotFound = fmt.Errorf("page image not found")

// ImageCache provides thread-safe caching of loaded images to avoid redundant
// disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path.
// During the per-page threshold sweep the same page is consulted dozens of
// times; caching keeps that from turning into dozens of JPEG decodes.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// The image is cached using the exact path string provided. Different paths
// to the same file (relative vs absolute) result in separate cache entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes a specific image from the cache by its path. Pages are
// evicted once fully processed so a whole-mushaf run stays bounded in memory.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// PagePath resolves the file holding a page scan inside imagesDir.
//
// The scan archive ships pages as 1.jpg..604.jpg; zero-padded symlinks
// (001.jpg) are conventional but optional. The padded name wins when both
// exist so a prepared images directory behaves exactly as before.
func PagePath(imagesDir string, page int) (string, error) {
	padded := filepath.Join(imagesDir, fmt.Sprintf("%03d.jpg", page))
	if _, err := os.Stat(padded); err == nil {
		return padded, nil
	}

	plain := filepath.Join(imagesDir, fmt.Sprintf("%d.jpg", page))
	if _, err := os.Stat(plain); err == nil {
		return plain, nil
	}

	return "", fmt.Errorf("%w: page %d in %s", ErrPageNotFound, page, imagesDir)
}

// LoadPage loads the scan of a 1-based page number through the cache.
func (c *ImageCache) LoadPage(imagesDir string, page int) (image.Image, error) {
	path, err := PagePath(imagesDir, page)
	if err != nil {
		return nil, err
	}
	return c.Load(path)
}
