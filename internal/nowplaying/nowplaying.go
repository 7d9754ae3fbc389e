// Package nowplaying pushes transport metadata to an external display
// surface such as the desktop media controls.
package nowplaying

import (
	"time"

	"github.com/llehouerou/recordmachine/internal/artwork"
	"github.com/llehouerou/recordmachine/internal/library"
)

// Item identifies what is playing.
type Item struct {
	TrackID int64
	Title   string
	Artist  string
	Album   string
	Artwork []byte // encoded album art, nil if none
}

// ItemFor copies the display fields of a track. A nil track yields nil.
func ItemFor(t *library.Track) *Item {
	if t == nil {
		return nil
	}
	item := &Item{
		TrackID: t.ID,
		Title:   t.Title,
		Artist:  t.ArtistName(),
		Album:   t.AlbumTitle(),
	}
	if t.Album != nil {
		item.Artwork = t.Album.Artwork
	}
	return item
}

// Progress is the time-varying part of the metadata.
type Progress struct {
	Duration time.Duration
	Elapsed  time.Duration
	Rate     float64 // 1 while playing, 0 otherwise
}

// Metadata is a full snapshot as shown by a Surface.
type Metadata struct {
	TrackID    int64
	Title      string
	Artist     string
	AlbumTitle string
	Artwork    *artwork.Artwork
	Duration   time.Duration
	Elapsed    time.Duration
	Rate       float64
}

// Playing reports whether the snapshot describes running playback.
func (m Metadata) Playing() bool { return m.Rate > 0 }

// Surface displays now playing metadata.
type Surface interface {
	Publish(m Metadata) error
	Clear() error
}

// Source reports the current item and progress. ok is false when nothing
// is selected.
type Source interface {
	NowPlaying() (item *Item, p Progress, ok bool)
}

// NopSurface discards everything. Used where no media controls exist.
type NopSurface struct{}

func (NopSurface) Publish(Metadata) error { return nil }
func (NopSurface) Clear() error           { return nil }
