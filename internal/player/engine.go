// Package player wraps audio decoding and output behind a small Engine
// interface so playback orchestration can be tested without a sound card.
package player

import (
	"errors"
	"time"
)

var (
	// ErrLoad is returned when an audio file cannot be opened or decoded.
	ErrLoad = errors.New("player: load failed")
	// ErrUnsupportedFormat is wrapped in ErrLoad for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Engine loads audio files into playable handles.
type Engine interface {
	// Load opens path and prepares it for playback. The returned handle is
	// stopped at position zero; nothing plays until Play is called.
	Load(path string) (Handle, error)
}

// Handle is one loaded track. A handle is single-use: once stopped it never
// plays again and never reports completion.
type Handle interface {
	Play()
	Pause()
	// Stop halts output and releases the decoder.
	Stop()
	State() State
	IsPlaying() bool
	Position() time.Duration
	// SetPosition seeks to d, clamped to [0, Duration()].
	SetPosition(d time.Duration) error
	Duration() time.Duration
	// OnComplete registers fn to be called once when playback reaches the
	// end of the track (ok=true) or stops on a decode error (ok=false).
	// fn is never called with the speaker lock held.
	OnComplete(fn func(ok bool))
}

func clampPosition(d, length time.Duration) time.Duration {
	return min(max(d, 0), length)
}
