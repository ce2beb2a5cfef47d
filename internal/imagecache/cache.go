// Package imagecache holds the filepath-to-decoded-bitmap cache a
// Storyboard is built from. The core never touches a filesystem path
// itself; a caller hands it an opener and a set of decoders.
package imagecache

import (
	"fmt"
	"image"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
)

// Decoder turns a file's bytes into a decoded image. Register one per
// extension via RegisterDecoder; golang.org/x/image's format packages
// (bmp, webp, tiff, ...) satisfy this signature directly.
type Decoder func(io.Reader) (image.Image, error)

// Cache is a filepath -> decoded bitmap map, built once and read many
// times. It is not safe for concurrent writes; Build should complete
// before any sampling/rendering goroutine starts reading it.
type Cache struct {
	images   map[string]image.Image
	decoders map[string]Decoder
}

// New returns an empty cache with no registered decoders.
func New() *Cache {
	return &Cache{
		images:   make(map[string]image.Image),
		decoders: make(map[string]Decoder),
	}
}

// RegisterDecoder associates a decoder with a file extension, matched
// case-insensitively and including the leading dot (".png", ".webp").
func (c *Cache) RegisterDecoder(ext string, dec Decoder) {
	c.decoders[strings.ToLower(ext)] = dec
}

// Build decodes every path in paths using fsys and the registered
// decoder for its extension, storing the result under that path. A path
// with no registered decoder, or one that fails to open or decode, is
// recorded as a miss (a nil entry) rather than returned as an error —
// per the resource model, a partial image cache is not a fatal
// condition; callers render whatever did decode.
func (c *Cache) Build(fsys fs.FS, paths []string) {
	for _, path := range paths {
		c.images[path] = c.decodeOne(fsys, path)
	}
}

func (c *Cache) decodeOne(fsys fs.FS, path string) image.Image {
	dec, ok := c.decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	img, err := dec(f)
	if err != nil {
		return nil
	}
	return img
}

// Get returns the decoded image for path, or nil if it was never
// requested or failed to decode — a cache miss is not an error
// condition for the caller to check.
func (c *Cache) Get(path string) image.Image {
	return c.images[path]
}

// Len reports how many paths have an entry (hit or miss) in the cache.
func (c *Cache) Len() int {
	return len(c.images)
}

// String renders a short human-readable summary, for CLI reporting.
func (c *Cache) String() string {
	hits := 0
	for _, img := range c.images {
		if img != nil {
			hits++
		}
	}
	return fmt.Sprintf("imagecache: %d/%d decoded", hits, len(c.images))
}
