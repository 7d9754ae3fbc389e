package playback

import (
	"errors"
	"fmt"
)

var (
	// ErrCommandRejected is returned when a transport command does not
	// apply to the current state.
	ErrCommandRejected = errors.New("command rejected")
	// ErrNoEngine is returned by commands that need a loaded track.
	ErrNoEngine = fmt.Errorf("%w: no track loaded", ErrCommandRejected)
	// ErrClosed is returned by every method after Close.
	ErrClosed = errors.New("playback: controller closed")
)
