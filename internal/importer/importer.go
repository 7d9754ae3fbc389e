// Package importer copies audio files into the asset store and appends
// them to an album.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/llehouerou/recordmachine/internal/library"
	"github.com/llehouerou/recordmachine/internal/player"
)

// Library is the part of the library store the importer writes to.
type Library interface {
	Album(ctx context.Context, id int64) (*library.Album, error)
	AddTrack(ctx context.Context, albumID int64, title, audioPath string) (*library.Track, error)
	SetArtwork(ctx context.Context, albumID int64, artwork []byte) error
}

// Store holds imported audio files.
type Store interface {
	CopyIn(src string) (string, error)
	Delete(path string) error
}

// Result describes one imported file.
type Result struct {
	Track *library.Track
	// ArtworkSet is true when the file's cover became the album artwork.
	ArtworkSet bool
}

type Importer struct {
	lib   Library
	store Store
	log   zerolog.Logger
}

func New(lib Library, store Store, log zerolog.Logger) *Importer {
	return &Importer{
		lib:   lib,
		store: store,
		log:   log.With().Str("component", "importer").Logger(),
	}
}

// Import copies src into the store and appends it to the album as a new
// last track. The track title comes from the file's tags, falling back to
// the file name. When the album has no artwork yet, the file's cover is
// used. If the track cannot be recorded, the copied file is removed again.
func (im *Importer) Import(ctx context.Context, albumID int64, src string) (*Result, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("source file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("source file: %s is a directory", src)
	}
	if !player.Supported(src) {
		return nil, fmt.Errorf("%w: %s", player.ErrUnsupportedFormat, src)
	}

	album, err := im.lib.Album(ctx, albumID)
	if err != nil {
		return nil, err
	}

	tags, err := ReadTags(src)
	if err != nil {
		im.log.Warn().Err(err).Str("path", src).Msg("reading tags failed, using file name")
	}

	var dst string
	err = retryWithBackoff(ctx, "copy file", func() error {
		var copyErr error
		dst, copyErr = im.store.CopyIn(src)
		return copyErr
	})
	if err != nil {
		return nil, err
	}

	track, err := im.lib.AddTrack(ctx, albumID, tags.Title, dst)
	if err != nil {
		if delErr := im.store.Delete(dst); delErr != nil {
			im.log.Error().Err(delErr).Str("path", dst).Msg("removing orphaned asset failed")
			err = errors.Join(err, delErr)
		}
		return nil, fmt.Errorf("add track: %w", err)
	}
	album.AddTrack(track)

	res := &Result{Track: track}
	if album.Artwork == nil && tags.Picture != nil {
		if err := im.lib.SetArtwork(ctx, albumID, tags.Picture); err != nil {
			im.log.Warn().Err(err).Int64("album", albumID).Msg("storing cover failed")
		} else {
			album.Artwork = tags.Picture
			res.ArtworkSet = true
		}
	}

	im.log.Info().
		Int64("album", albumID).
		Int64("track", track.ID).
		Str("title", track.Title).
		Str("path", dst).
		Msg("imported")
	return res, nil
}

// ImportAll imports files in order, stopping at the first failure. The
// tracks imported before the failure are kept.
func (im *Importer) ImportAll(ctx context.Context, albumID int64, srcs []string) ([]*Result, error) {
	results := make([]*Result, 0, len(srcs))
	for _, src := range srcs {
		res, err := im.Import(ctx, albumID, src)
		if err != nil {
			return results, fmt.Errorf("%s: %w", src, err)
		}
		results = append(results, res)
	}
	return results, nil
}
