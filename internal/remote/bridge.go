// Package remote turns transport commands from outside the application
// (media keys, desktop media controls) into controller calls.
package remote

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/recordmachine/internal/playback"
)

// Transport is the subset of the playback controller the bridge drives.
type Transport interface {
	Resume() error
	Pause() error
	PlayPause() error
	SkipToNext() error
	RewindButton() error
	Seek(pos time.Duration) error
}

// Bridge maps remote commands to the transport. A nil error means the
// command succeeded; rejections wrap playback.ErrCommandRejected.
type Bridge struct {
	transport Transport
	log       zerolog.Logger
}

func NewBridge(t Transport, log zerolog.Logger) *Bridge {
	return &Bridge{
		transport: t,
		log:       log.With().Str("component", "remote").Logger(),
	}
}

// Play resumes playback. It fails when already playing.
func (b *Bridge) Play() error {
	return b.result("play", b.transport.Resume())
}

// Pause pauses playback. It fails unless playing.
func (b *Bridge) Pause() error {
	return b.result("pause", b.transport.Pause())
}

// Toggle flips between playing and paused.
func (b *Bridge) Toggle() error {
	return b.result("toggle", b.transport.PlayPause())
}

// Next skips to the next track. It always succeeds.
func (b *Bridge) Next() error {
	_ = b.result("next", b.transport.SkipToNext())
	return nil
}

// Previous acts as a press of the rewind button. It always succeeds.
func (b *Bridge) Previous() error {
	_ = b.result("previous", b.transport.RewindButton())
	return nil
}

// SeekTo moves to an absolute position. It fails when nothing is loaded or
// the position is negative.
func (b *Bridge) SeekTo(pos time.Duration) error {
	if pos < 0 {
		return b.result("seek", fmt.Errorf("%w: negative position %v", playback.ErrCommandRejected, pos))
	}
	return b.result("seek", b.transport.Seek(pos))
}

func (b *Bridge) result(cmd string, err error) error {
	ev := b.log.Debug().Str("command", cmd)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Bool("ok", err == nil).Msg("remote command")
	return err
}
