package playback

import (
	"time"

	"github.com/llehouerou/recordmachine/internal/library"
)

// State represents the playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is loaded (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// Placeholder is the file name shown when nothing is loaded.
const Placeholder = "Import an audio file"

// Status is a consistent snapshot of the controller.
type Status struct {
	State    State
	Queue    []*library.Track
	Index    int // -1 when nothing is selected
	Track    *library.Track
	FileName string
	Position time.Duration
	Duration time.Duration
	// Armed is true while a second rewind press would go to the previous
	// track.
	Armed bool
}

// IsPlaying reports whether audio is running.
func (s Status) IsPlaying() bool { return s.State == StatePlaying }

// HasNext reports whether a track follows the current one.
func (s Status) HasNext() bool {
	return s.Index >= 0 && s.Index < len(s.Queue)-1
}
