package importer

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dhowden/tag"
)

// Tags is what the importer takes from an audio file's metadata.
type Tags struct {
	Title   string
	Artist  string
	Album   string
	Picture []byte // embedded or folder cover, nil if none
}

// Common cover art file names (case-insensitive)
var coverArtNames = []string{
	"cover",
	"folder",
	"front",
	"album",
	"albumart",
	"artwork",
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// ReadTags reads title, artist, album and cover art from path. Files
// without readable tags still yield a title derived from the file name;
// the returned error then reports why the tags were skipped.
func ReadTags(path string) (Tags, error) {
	t := Tags{Title: titleFromName(path)}

	f, err := os.Open(path)
	if err != nil {
		return t, err
	}
	defer f.Close()

	m, tagErr := tag.ReadFrom(f)
	if tagErr == nil {
		if title := strings.TrimSpace(m.Title()); title != "" {
			t.Title = title
		}
		t.Artist = m.AlbumArtist()
		if t.Artist == "" {
			t.Artist = m.Artist()
		}
		t.Album = m.Album()
		if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
			t.Picture = pic.Data
		}
	}

	if t.Picture == nil {
		if cover := findCoverArt(filepath.Dir(path)); cover != "" {
			if data, err := os.ReadFile(cover); err == nil {
				t.Picture = data
			}
		}
	}

	if tagErr != nil && tagErr != tag.ErrNoTagsFound {
		return t, tagErr
	}
	return t, nil
}

func titleFromName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// findCoverArt looks for a cover image next to an imported file.
func findCoverArt(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		baseName := strings.ToLower(strings.TrimSuffix(name, ext))

		if slices.Contains(imageExtensions, ext) && slices.Contains(coverArtNames, baseName) {
			return filepath.Join(dir, name)
		}
	}

	return ""
}
