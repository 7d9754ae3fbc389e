package playback

import (
	"time"

	"github.com/llehouerou/recordmachine/internal/library"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the selected queue entry changes, whether by
// a command or by a track finishing.
type TrackChange struct {
	Previous      *library.Track
	Current       *library.Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when a queue is built from an album.
type QueueChange struct {
	Tracks []*library.Track
	Index  int
}

// PositionChange is emitted when a seek or restart moves the position.
type PositionChange struct {
	Position time.Duration
}

// RewindChange is emitted when the rewind button arms or its window
// lapses.
type RewindChange struct {
	Armed bool
}

// ErrorEvent is emitted when a command or the engine fails.
type ErrorEvent struct {
	Operation string // e.g. "play", "seek", "complete"
	Track     string // track title if applicable
	Err       error
}
