// Package player is the full-screen terminal player: transport bar, the
// queue of the loaded album and key hints.
package player

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/rs/zerolog"

	"github.com/llehouerou/recordmachine/internal/keymap"
	"github.com/llehouerou/recordmachine/internal/library"
	"github.com/llehouerou/recordmachine/internal/playback"
)

// seekStep is how far the seek keys move.
const seekStep = 5 * time.Second

// Controller is the part of playback.Controller the view drives.
type Controller interface {
	PlayPause() error
	PlayTrack(t *library.Track) error
	SkipToNext() error
	RewindButton() error
	RestartTrack() error
	Seek(pos time.Duration) error
	Status() playback.Status
	Subscribe() *playback.Subscription
}

type Model struct {
	ctrl   Controller
	sub    *playback.Subscription
	keys   *keymap.Resolver
	help   help.Model
	log    zerolog.Logger
	status playback.Status
	cursor int
	errMsg string
	width  int
	height int
}

func New(ctrl Controller, log zerolog.Logger) Model {
	m := Model{
		ctrl: ctrl,
		sub:  ctrl.Subscribe(),
		keys: keymap.NewResolver(keymap.All),
		help: help.New(),
		log:  log.With().Str("component", "ui").Logger(),
	}
	m.refresh()
	return m
}

func (m *Model) refresh() {
	m.status = m.ctrl.Status()
	if m.status.Index >= 0 && (m.cursor < 0 || m.cursor >= len(m.status.Queue)) {
		m.cursor = m.status.Index
	}
	m.cursor = min(max(m.cursor, 0), max(len(m.status.Queue)-1, 0))
}
