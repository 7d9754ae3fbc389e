//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"

	"github.com/llehouerou/recordmachine/internal/artwork"
)

// coverFiles keeps the current cover on disk so ArtUrl can point at it.
// Only one file exists at a time.
type coverFiles struct {
	dir string

	mu   sync.Mutex
	art  *artwork.Artwork
	path string
}

// newCoverFiles uses dir, or the user cache directory when dir is empty.
func newCoverFiles(dir string) (*coverFiles, error) {
	if dir == "" {
		p, err := xdg.CacheFile(filepath.Join("recordmachine", "covers", ".keep"))
		if err != nil {
			return nil, fmt.Errorf("cover cache: %w", err)
		}
		dir = filepath.Dir(p)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cover cache: %w", err)
	}
	return &coverFiles{dir: dir}, nil
}

// update writes art if it differs from the current cover. Nil removes the
// current file.
func (c *coverFiles) update(art *artwork.Artwork) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if art == c.art {
		return nil
	}
	old := c.path
	c.art, c.path = art, ""

	var err error
	if art != nil {
		c.path, err = c.write(art)
	}
	if old != "" && old != c.path {
		if rmErr := os.Remove(old); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = rmErr
		}
	}
	return err
}

func (c *coverFiles) write(art *artwork.Artwork) (string, error) {
	data, err := art.PNG()
	if err != nil {
		return "", fmt.Errorf("encode cover: %w", err)
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	path := filepath.Join(c.dir, fmt.Sprintf("cover-%016x.png", h.Sum64()))

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write cover: %w", err)
	}
	return path, nil
}

func (c *coverFiles) current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}
