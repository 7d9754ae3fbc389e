package library

import (
	"cmp"
	"fmt"
	"slices"
)

const (
	unknownAlbum  = "Unknown Album"
	unknownArtist = "Unknown Artist"
)

// Album is a titled collection of tracks. It owns its tracks.
type Album struct {
	ID      int64
	Title   string
	Artist  string
	Artwork []byte // encoded image, nil if none
	Tracks  []*Track
}

// Track is a single audio entry of an album.
type Track struct {
	ID    int64
	Title string
	// Index is the ordinal position within the album. Values need not be
	// contiguous; they are only used as the sort key.
	Index int
	// Album is the owning album (non-owning back-reference).
	Album *Album
	// AudioPath is the cached location of the audio asset. Empty when the
	// asset has not been resolved yet or could not be loaded.
	AudioPath string
}

// DisplayTitle returns the album title, or a placeholder when empty.
func (a *Album) DisplayTitle() string {
	if a.Title == "" {
		return unknownAlbum
	}
	return a.Title
}

// DisplayArtist returns the album artist, or a placeholder when empty.
func (a *Album) DisplayArtist() string {
	if a.Artist == "" {
		return unknownArtist
	}
	return a.Artist
}

// TrackCountLabel renders the number of tracks ("1 track", "3 tracks").
func (a *Album) TrackCountLabel() string {
	if len(a.Tracks) == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", len(a.Tracks))
}

// SortedTracks returns the album's tracks ordered by ascending Index.
// The album's own slice is left untouched.
func (a *Album) SortedTracks() []*Track {
	tracks := slices.Clone(a.Tracks)
	slices.SortStableFunc(tracks, func(x, y *Track) int {
		return cmp.Compare(x.Index, y.Index)
	})
	return tracks
}

// AddTrack appends a track and points its back-reference at the album.
func (a *Album) AddTrack(t *Track) {
	t.Album = a
	a.Tracks = append(a.Tracks, t)
}

// NextIndex returns an index that sorts after every existing track.
func (a *Album) NextIndex() int {
	next := 0
	for _, t := range a.Tracks {
		if t.Index >= next {
			next = t.Index + 1
		}
	}
	return next
}

// ArtistName returns the owning album's display artist.
func (t *Track) ArtistName() string {
	if t.Album == nil {
		return unknownArtist
	}
	return t.Album.DisplayArtist()
}

// AlbumTitle returns the owning album's display title.
func (t *Track) AlbumTitle() string {
	if t.Album == nil {
		return unknownAlbum
	}
	return t.Album.DisplayTitle()
}
