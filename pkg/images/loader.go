// Package images reports the intrinsic size of replaced-element sources
// without decoding pixel data.
package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Size is an intrinsic pixel size.
type Size struct {
	Width  int
	Height int
}

// Cache resolves image sources relative to a base directory and remembers
// their sizes. It is safe for concurrent use.
type Cache struct {
	baseDir string

	mu    sync.RWMutex
	sizes map[string]Size
}

// NewCache returns a cache resolving relative sources against baseDir.
func NewCache(baseDir string) *Cache {
	return &Cache{baseDir: baseDir, sizes: make(map[string]Size)}
}

// Size returns the intrinsic size of src, reading only the image header.
// Sources may be file paths or base64 data URIs.
func (c *Cache) Size(src string) (Size, error) {
	if IsDataURI(src) {
		return dataURISize(src)
	}
	path := src
	if !filepath.IsAbs(path) && c.baseDir != "" {
		path = filepath.Join(c.baseDir, path)
	}

	c.mu.RLock()
	if s, ok := c.sizes[path]; ok {
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	file, err := os.Open(path)
	if err != nil {
		return Size{}, fmt.Errorf("image size %q: %w", src, err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return Size{}, fmt.Errorf("image size %q: %w", src, err)
	}
	s := Size{Width: cfg.Width, Height: cfg.Height}

	c.mu.Lock()
	c.sizes[path] = s
	c.mu.Unlock()
	return s, nil
}

// IsDataURI reports whether src is a data: URI.
func IsDataURI(src string) bool {
	return strings.HasPrefix(src, "data:")
}

func dataURISize(uri string) (Size, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return Size{}, fmt.Errorf("image size: unsupported data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Size{}, fmt.Errorf("image size: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Size{}, fmt.Errorf("image size: %w", err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}
