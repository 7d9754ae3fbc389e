//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/llehouerou/recordmachine/internal/assets"
	"github.com/llehouerou/recordmachine/internal/library"
	"github.com/llehouerou/recordmachine/internal/playback"
	"github.com/llehouerou/recordmachine/internal/player"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpTrackDelete,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpTrackDelete,
			err:      errors.New("database is locked"),
			expected: "Failed to delete track: database is locked",
		},
		{
			name:     "missing asset",
			op:       OpPlaybackStart,
			err:      fmt.Errorf("resolve Verse: %w", assets.ErrNotFound),
			expected: "Failed to start playback: audio file is missing, import it again",
		},
		{
			name:     "unsupported format",
			op:       OpPlaybackStart,
			err:      fmt.Errorf("%w: .opus", player.ErrUnsupportedFormat),
			expected: "Failed to start playback: unsupported audio format",
		},
		{
			name:     "nothing loaded",
			op:       OpPlaybackSeek,
			err:      playback.ErrNoEngine,
			expected: "Failed to seek: nothing is loaded",
		},
		{
			name:     "closed player",
			op:       OpPlaybackToggle,
			err:      playback.ErrClosed,
			expected: "Failed to toggle playback: player is shut down",
		},
		{
			name:     "unknown album",
			op:       OpAlbumDelete,
			err:      fmt.Errorf("%w: 7", library.ErrAlbumNotFound),
			expected: "Failed to delete album: no such album",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpFileDelete,
			context:  "Verse.m4a",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpFileDelete,
			context:  "Verse.m4a",
			err:      errors.New("permission denied"),
			expected: "Failed to delete file 'Verse.m4a': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpFileDelete,
			context:  "",
			err:      errors.New("permission denied"),
			expected: "Failed to delete file: permission denied",
		},
		{
			name:     "import with filename context",
			op:       OpImportFile,
			context:  "Intro.flac",
			err:      errors.New("no space left on device"),
			expected: "Failed to import file 'Intro.flac': no space left on device",
		},
		{
			name:     "known error with context",
			op:       OpTrackMove,
			context:  "42",
			err:      fmt.Errorf("%w: 42", library.ErrTrackNotFound),
			expected: "Failed to move track '42': no such track",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpLibraryOpen, OpAlbumLoad, OpAlbumCreate, OpAlbumDelete, OpArtworkSet,
		OpTrackDelete, OpTrackMove,
		OpImportFile, OpImportTags,
		OpFileDelete,
		OpPlaybackStart, OpPlaybackToggle, OpPlaybackSkip, OpPlaybackRewind, OpPlaybackSeek,
		OpMediaControls,
		OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
