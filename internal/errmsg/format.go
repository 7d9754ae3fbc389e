// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/recordmachine/internal/assets"
	"github.com/llehouerou/recordmachine/internal/library"
	"github.com/llehouerou/recordmachine/internal/playback"
	"github.com/llehouerou/recordmachine/internal/player"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Library operations
	OpLibraryOpen Op = "open library"
	OpAlbumLoad   Op = "load albums"
	OpAlbumCreate Op = "create album"
	OpAlbumDelete Op = "delete album"
	OpArtworkSet  Op = "set album artwork"
	OpTrackDelete Op = "delete track"
	OpTrackMove   Op = "move track"

	// Import operations
	OpImportFile Op = "import file"
	OpImportTags Op = "read file tags"

	// File operations
	OpFileDelete Op = "delete file"

	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackToggle Op = "toggle playback"
	OpPlaybackSkip   Op = "skip track"
	OpPlaybackRewind Op = "rewind"
	OpPlaybackSeek   Op = "seek"

	// Media controls
	OpMediaControls Op = "register media controls"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, describe(err))
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %s", op, context, describe(err))
}

// describe replaces internal error chains with a short explanation for
// the errors a user can act on.
func describe(err error) string {
	switch {
	case errors.Is(err, assets.ErrNotFound):
		return "audio file is missing, import it again"
	case errors.Is(err, player.ErrUnsupportedFormat):
		return "unsupported audio format"
	case errors.Is(err, playback.ErrNoEngine):
		return "nothing is loaded"
	case errors.Is(err, playback.ErrClosed):
		return "player is shut down"
	case errors.Is(err, library.ErrAlbumNotFound):
		return "no such album"
	case errors.Is(err, library.ErrTrackNotFound):
		return "no such track"
	}
	return err.Error()
}
