// Package assets stores imported audio files in a flat directory and
// resolves tracks to the files backing them.
package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

var (
	// ErrNotFound is returned when a track's audio file cannot be located.
	ErrNotFound = errors.New("audio asset not found")
	// ErrStoreIO marks copy or delete failures inside the asset directory.
	ErrStoreIO = errors.New("asset store I/O failure")
)

// StoreError describes a failed asset store operation.
type StoreError struct {
	Op   string // "copy" or "delete"
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreIO, e.Err}
}

// Store is a directory of audio files addressed by file name.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StoreError{Op: "create", Path: dir, Err: err}
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the asset directory under the XDG data directory.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "recordmachine", "audio")
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Exists reports whether an asset with the given file name is present.
func (s *Store) Exists(name string) bool {
	_, ok := s.Resolve(name)
	return ok
}

// Resolve returns the full path of the named asset if it exists. The store
// is flat: a name containing a path separator never matches.
func (s *Store) Resolve(name string) (string, bool) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", false
	}
	path := filepath.Join(s.dir, name)
	if !fileExists(path) {
		return "", false
	}
	return path, true
}

// CopyIn copies src into the store under its base name, replacing any
// asset with the same name, and returns the new path.
func (s *Store) CopyIn(src string) (string, error) {
	dst := filepath.Join(s.dir, filepath.Base(src))

	if fileExists(dst) {
		if err := os.Remove(dst); err != nil {
			return "", &StoreError{Op: "copy", Path: dst, Err: err}
		}
	}

	if err := copyFile(src, dst); err != nil {
		return "", &StoreError{Op: "copy", Path: src, Err: err}
	}
	return dst, nil
}

// Delete removes the asset at path.
func (s *Store) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return &StoreError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	return dstFile.Close()
}
