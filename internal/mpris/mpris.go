//go:build linux

// Package mpris exposes the player on the D-Bus session bus so desktop
// media controls show what is playing and can send transport commands.
package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/recordmachine/internal/nowplaying"
)

// DefaultName is the bus name suffix (org.mpris.MediaPlayer2.<name>).
const DefaultName = "recordmachine"

// seekTolerance is how far the reported position may drift from the
// extrapolated one before clients are told about a seek.
const seekTolerance = time.Second

var errDetached = errors.New("mpris: no player attached")

// Commands receives transport commands from the bus.
type Commands interface {
	Play() error
	Pause() error
	Toggle() error
	Next() error
	Previous() error
	SeekTo(pos time.Duration) error
}

// Adapter is both a nowplaying.Surface and the bus-side command source.
type Adapter struct {
	log    zerolog.Logger
	covers *coverFiles
	now    func() time.Time

	server *server.Server
	events *events.EventHandler

	mu          sync.RWMutex
	commands    Commands
	meta        nowplaying.Metadata
	showing     bool
	publishedAt time.Time
}

// New registers the player on the session bus and starts serving in the
// background.
func New(name string, log zerolog.Logger) (*Adapter, error) {
	if name == "" {
		name = DefaultName
	}
	covers, err := newCoverFiles("")
	if err != nil {
		return nil, fmt.Errorf("mpris: %w", err)
	}

	a := newAdapter(log, covers)
	a.server = server.NewServer(name, &rootAdapter{}, &playerAdapter{a: a})
	a.events = events.NewEventHandler(a.server)

	go func() {
		if err := a.server.Listen(); err != nil {
			a.log.Warn().Err(err).Msg("mpris server stopped")
		}
	}()
	return a, nil
}

func newAdapter(log zerolog.Logger, covers *coverFiles) *Adapter {
	return &Adapter{
		log:    log.With().Str("component", "mpris").Logger(),
		covers: covers,
		now:    time.Now,
	}
}

// Attach routes bus commands to c.
func (a *Adapter) Attach(c Commands) {
	a.mu.Lock()
	a.commands = c
	a.mu.Unlock()
}

// Detach stops routing bus commands. Commands fail until the next Attach.
func (a *Adapter) Detach() {
	a.mu.Lock()
	a.commands = nil
	a.mu.Unlock()
}

// Publish implements nowplaying.Surface.
func (a *Adapter) Publish(m nowplaying.Metadata) error {
	artErr := a.covers.update(m.Artwork)

	a.mu.Lock()
	prev, wasShowing := a.meta, a.showing
	expected := a.positionLocked()
	a.meta = m
	a.showing = true
	a.publishedAt = a.now()
	a.mu.Unlock()

	var errs []error
	if artErr != nil {
		errs = append(errs, artErr)
	}
	if !wasShowing || prev.TrackID != m.TrackID || prev.Title != m.Title || m.Artwork != prev.Artwork {
		errs = append(errs, a.emit(func(p types.OrgMprisMediaPlayer2PlayerEventHandler) error { return p.OnTitle() }))
	}
	if prev.Playing() != m.Playing() {
		errs = append(errs, a.emit(func(p types.OrgMprisMediaPlayer2PlayerEventHandler) error { return p.OnPlayPause() }))
	}
	if wasShowing && prev.TrackID == m.TrackID && seeked(expected, m.Elapsed) {
		pos := types.Microseconds(m.Elapsed.Microseconds())
		errs = append(errs, a.emit(func(p types.OrgMprisMediaPlayer2PlayerEventHandler) error { return p.OnSeek(pos) }))
	}
	return errors.Join(errs...)
}

// Clear implements nowplaying.Surface.
func (a *Adapter) Clear() error {
	a.mu.Lock()
	a.meta = nowplaying.Metadata{}
	wasShowing := a.showing
	a.showing = false
	a.mu.Unlock()

	err := a.covers.update(nil)
	if wasShowing {
		err = errors.Join(err, a.emit(func(p types.OrgMprisMediaPlayer2PlayerEventHandler) error { return p.OnAll() }))
	}
	return err
}

// Close unregisters from the bus and removes cached cover files.
func (a *Adapter) Close() error {
	a.Detach()
	err := a.covers.update(nil)
	if a.server != nil {
		err = errors.Join(err, a.server.Stop())
	}
	return err
}

func (a *Adapter) emit(fn func(p types.OrgMprisMediaPlayer2PlayerEventHandler) error) error {
	if a.events == nil {
		return nil
	}
	return fn(a.events.Player)
}

func (a *Adapter) command() (Commands, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.commands == nil {
		return nil, errDetached
	}
	return a.commands, nil
}

func (a *Adapter) snapshot() (nowplaying.Metadata, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.meta, a.showing
}

func (a *Adapter) position() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.positionLocked()
}

// positionLocked extrapolates the elapsed time from the last publish.
func (a *Adapter) positionLocked() time.Duration {
	if !a.showing {
		return 0
	}
	pos := a.meta.Elapsed
	if a.meta.Playing() {
		pos += time.Duration(float64(a.now().Sub(a.publishedAt)) * a.meta.Rate)
	}
	if a.meta.Duration > 0 {
		pos = min(pos, a.meta.Duration)
	}
	return pos
}

func seeked(expected, actual time.Duration) bool {
	d := actual - expected
	return d > seekTolerance || d < -seekTolerance
}

// trackObjectPath builds a stable D-Bus object path for a track.
func trackObjectPath(m nowplaying.Metadata) dbus.ObjectPath {
	if m.TrackID != 0 {
		return dbus.ObjectPath(fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%d", m.TrackID))
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(m.Title))
	return dbus.ObjectPath(fmt.Sprintf("/org/mpris/MediaPlayer2/Track/t%x", h.Sum64()))
}

func (a *Adapter) metadata() types.Metadata {
	m, ok := a.snapshot()
	if !ok {
		return types.Metadata{TrackId: dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")}
	}
	meta := types.Metadata{
		TrackId: trackObjectPath(m),
		Length:  types.Microseconds(m.Duration.Microseconds()),
		Title:   m.Title,
		Album:   m.AlbumTitle,
	}
	if m.Artist != "" {
		meta.Artist = []string{m.Artist}
	}
	if path := a.covers.current(); path != "" {
		meta.ArtUrl = "file://" + path
	}
	return meta
}

func (a *Adapter) playbackStatus() types.PlaybackStatus {
	m, ok := a.snapshot()
	switch {
	case !ok:
		return types.PlaybackStatusStopped
	case m.Playing():
		return types.PlaybackStatusPlaying
	default:
		return types.PlaybackStatusPaused
	}
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error            { return nil }
func (r *rootAdapter) Quit() error             { return nil }
func (r *rootAdapter) CanQuit() (bool, error)  { return false, nil }
func (r *rootAdapter) CanRaise() (bool, error) { return false, nil }

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Record Machine", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mp4", "audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	a *Adapter
}

func (p *playerAdapter) run(fn func(c Commands) error) error {
	c, err := p.a.command()
	if err != nil {
		return err
	}
	return fn(c)
}

func (p *playerAdapter) Next() error     { return p.run(Commands.Next) }
func (p *playerAdapter) Previous() error { return p.run(Commands.Previous) }
func (p *playerAdapter) Pause() error    { return p.run(Commands.Pause) }
func (p *playerAdapter) PlayPause() error {
	return p.run(Commands.Toggle)
}
func (p *playerAdapter) Play() error { return p.run(Commands.Play) }

// Stop pauses; there is no separate stopped state to return to.
func (p *playerAdapter) Stop() error {
	if p.a.playbackStatus() != types.PlaybackStatusPlaying {
		return nil
	}
	return p.run(Commands.Pause)
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	target := max(p.a.position()+time.Duration(offset)*time.Microsecond, 0)
	return p.run(func(c Commands) error { return c.SeekTo(target) })
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	m, ok := p.a.snapshot()
	if !ok || string(trackObjectPath(m)) != trackID {
		return nil // stale request for another track
	}
	return p.run(func(c Commands) error {
		return c.SeekTo(time.Duration(position) * time.Microsecond)
	})
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return p.a.playbackStatus(), nil
}

func (p *playerAdapter) Rate() (float64, error)        { return 1.0, nil }
func (p *playerAdapter) SetRate(_ float64) error       { return nil }
func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return p.a.metadata(), nil
}

func (p *playerAdapter) Volume() (float64, error)  { return 1.0, nil }
func (p *playerAdapter) SetVolume(_ float64) error { return nil }

func (p *playerAdapter) Position() (int64, error) {
	return p.a.position().Microseconds(), nil
}

func (p *playerAdapter) showing() bool {
	_, ok := p.a.snapshot()
	return ok
}

func (p *playerAdapter) CanGoNext() (bool, error)     { return p.showing(), nil }
func (p *playerAdapter) CanGoPrevious() (bool, error) { return p.showing(), nil }
func (p *playerAdapter) CanPlay() (bool, error)       { return p.showing(), nil }
func (p *playerAdapter) CanPause() (bool, error)      { return p.showing(), nil }
func (p *playerAdapter) CanSeek() (bool, error)       { return p.showing(), nil }
func (p *playerAdapter) CanControl() (bool, error)    { return true, nil }

var _ nowplaying.Surface = (*Adapter)(nil)
