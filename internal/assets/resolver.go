package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/llehouerou/recordmachine/internal/library"
)

// DefaultExtension is appended to a track title when no locator is cached.
const DefaultExtension = "m4a"

// Resolver finds the audio file backing a track.
type Resolver struct {
	store *Store
	ext   string
}

// NewResolver returns a resolver looking up assets in store. An empty ext
// selects DefaultExtension.
func NewResolver(store *Store, ext string) *Resolver {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = DefaultExtension
	}
	return &Resolver{store: store, ext: ext}
}

// Resolve returns the path of the track's audio file. The cached locator
// wins when it still exists; otherwise the file is looked up in the store
// by name, which follows assets that were moved along with the store.
// Nothing is created or modified.
func (r *Resolver) Resolve(t *library.Track) (string, error) {
	if t.AudioPath != "" && fileExists(t.AudioPath) {
		return t.AudioPath, nil
	}

	name := r.candidateName(t)
	if path, ok := r.store.Resolve(name); ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (r *Resolver) candidateName(t *library.Track) string {
	if t.AudioPath != "" {
		return filepath.Base(t.AudioPath)
	}
	return t.Title + "." + r.ext
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
