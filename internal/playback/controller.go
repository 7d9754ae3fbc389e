// Package playback owns the play queue and drives the audio engine.
//
// All state lives on a single goroutine. Public methods submit a closure to
// that goroutine and wait for it, so commands from the UI, the media keys,
// the rewind timer and the engine's completion callback never interleave.
package playback

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/recordmachine/internal/library"
	"github.com/llehouerou/recordmachine/internal/nowplaying"
	"github.com/llehouerou/recordmachine/internal/player"
)

// Resolver maps a track to a playable file.
type Resolver interface {
	Resolve(t *library.Track) (string, error)
}

// TrackStore persists the resolved audio location of a track.
type TrackStore interface {
	SetTrackAudioPath(ctx context.Context, id int64, path string) error
}

// Publisher is the now playing sink driven by the controller.
type Publisher interface {
	SetSource(src nowplaying.Source)
	Start()
	Stop()
	PublishFull(item *nowplaying.Item, p nowplaying.Progress)
	PublishProgress(p nowplaying.Progress)
}

// Options configures a Controller. Engine and Resolver are required.
type Options struct {
	Engine   player.Engine
	Resolver Resolver
	// Tracks, when set, receives audio location updates.
	Tracks TrackStore
	// Publisher, when set, is started on the first successful load and
	// stopped by Close.
	Publisher    Publisher
	Logger       zerolog.Logger
	RewindWindow time.Duration
}

const storeTimeout = 5 * time.Second

// Controller is the single owner of the play queue, the current position
// and the play/pause intent.
type Controller struct {
	engine    player.Engine
	resolver  Resolver
	tracks    TrackStore
	publisher Publisher
	log       zerolog.Logger

	cmds      chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closing   bool // set on the loop by Close; later commands are refused

	subsMu sync.Mutex
	subs   []*Subscription

	// Owned by the loop goroutine.
	queue    []*library.Track
	current  int
	playing  bool
	handle   player.Handle
	stale    bool // handle belongs to a track no longer selected
	duration time.Duration
	fileName string
	rewind   rewindGesture
}

// New creates a controller and starts its loop.
func New(opts Options) *Controller {
	window := opts.RewindWindow
	if window <= 0 {
		window = DefaultRewindWindow
	}
	pub := opts.Publisher
	if pub == nil {
		pub = nopPublisher{}
	}

	c := &Controller{
		engine:    opts.Engine,
		resolver:  opts.Resolver,
		tracks:    opts.Tracks,
		publisher: pub,
		log:       opts.Logger.With().Str("component", "playback").Logger(),
		cmds:      make(chan func()),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		current:   -1,
		fileName:  Placeholder,
		rewind:    rewindGesture{window: window},
	}
	pub.SetSource(c)
	go c.loop()
	return c
}

func (c *Controller) loop() {
	defer close(c.done)
	for {
		select {
		case fn := <-c.cmds:
			fn()
		case <-c.quit:
			return
		}
	}
}

// do runs fn on the loop goroutine and waits for it. Commands reaching the
// loop after Close began are dropped with ErrClosed.
func (c *Controller) do(fn func()) error {
	finished := make(chan error, 1)
	select {
	case c.cmds <- func() {
		if c.closing {
			finished <- ErrClosed
			return
		}
		fn()
		finished <- nil
	}:
	case <-c.done:
		return ErrClosed
	}
	return <-finished
}

// exec runs a command on the loop and emits the resulting events.
func (c *Controller) exec(op string, fn func() error) error {
	var err error
	if cerr := c.do(func() {
		prev := c.snapshot()
		err = fn()
		c.emitChanges(prev)
		if err != nil {
			c.log.Debug().Err(err).Str("op", op).Msg("command failed")
			if !errors.Is(err, ErrCommandRejected) {
				c.emitError(op, err)
			}
		}
	}); cerr != nil {
		return cerr
	}
	return err
}

// LoadQueue replaces the queue with the album's tracks in index order and
// prepares the first one without playing it. An album without tracks
// leaves everything unchanged.
func (c *Controller) LoadQueue(album *library.Album) error {
	return c.exec("load", func() error {
		tracks := album.SortedTracks()
		if len(tracks) == 0 {
			return nil
		}
		c.queue = tracks
		c.current = 0
		c.emitQueue()
		return c.loadCurrent(false)
	})
}

// PlayTrack rebuilds the queue from the track's album and starts playing
// the track. If the track cannot be loaded the player is left idle.
func (c *Controller) PlayTrack(track *library.Track) error {
	return c.exec("play", func() error {
		c.reset()
		c.queue = nil
		if track.Album != nil {
			c.queue = track.Album.SortedTracks()
		}
		if len(c.queue) == 0 {
			c.queue = []*library.Track{track}
		}
		c.current = max(indexOf(c.queue, track), 0)
		c.emitQueue()
		return c.loadCurrent(true)
	})
}

// PlayPause toggles between playing and paused.
func (c *Controller) PlayPause() error {
	return c.exec("toggle", func() error {
		if c.handle == nil {
			return ErrNoEngine
		}
		return c.setPlaying(!c.handle.IsPlaying() || c.stale)
	})
}

// Resume starts playback. It is rejected when already playing.
func (c *Controller) Resume() error {
	return c.exec("resume", func() error {
		if c.handle == nil {
			return ErrNoEngine
		}
		if c.playing {
			return fmt.Errorf("%w: already playing", ErrCommandRejected)
		}
		return c.setPlaying(true)
	})
}

// Pause pauses playback. It is rejected unless playing.
func (c *Controller) Pause() error {
	return c.exec("pause", func() error {
		if !c.playing {
			return fmt.Errorf("%w: not playing", ErrCommandRejected)
		}
		return c.setPlaying(false)
	})
}

// SkipToNext advances to the next track, keeping the play intent. From the
// last track it wraps to the first one and stops.
func (c *Controller) SkipToNext() error {
	return c.exec("next", c.skipToNext)
}

// RewindToPrevious moves to the previous track, keeping the play intent.
// It does nothing on the first track.
func (c *Controller) RewindToPrevious() error {
	return c.exec("previous", c.rewindToPrevious)
}

// RestartTrack moves the loaded track back to its start.
func (c *Controller) RestartTrack() error {
	return c.exec("restart", c.restartTrack)
}

// RewindButton handles a press of the rewind button. While playing, the
// first press restarts the track and a second press within the rewind
// window goes to the previous track. While paused, a press restarts the
// track unless it is already at the start.
func (c *Controller) RewindButton() error {
	return c.exec("rewind", c.rewindButton)
}

// Seek moves the loaded track to pos, clamped to the track bounds.
func (c *Controller) Seek(pos time.Duration) error {
	return c.exec("seek", func() error {
		if !c.loaded() {
			return ErrNoEngine
		}
		if err := c.handle.SetPosition(min(max(pos, 0), c.duration)); err != nil {
			return fmt.Errorf("seek: %w", err)
		}
		c.publisher.PublishProgress(c.progress())
		c.emitPosition(c.handle.Position())
		return nil
	})
}

// Reset discards the loaded track. The queue and position are kept.
func (c *Controller) Reset() error {
	return c.exec("reset", func() error {
		c.reset()
		return nil
	})
}

// Status returns a snapshot of the controller state.
func (c *Controller) Status() Status {
	var st Status
	if err := c.do(func() { st = c.status() }); err != nil {
		return Status{Index: -1, FileName: Placeholder}
	}
	return st
}

// NowPlaying implements nowplaying.Source.
func (c *Controller) NowPlaying() (*nowplaying.Item, nowplaying.Progress, bool) {
	var (
		item *nowplaying.Item
		p    nowplaying.Progress
	)
	if err := c.do(func() {
		item = nowplaying.ItemFor(c.currentTrack())
		p = c.progress()
	}); err != nil {
		return nil, p, false
	}
	return item, p, item != nil
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	select {
	case <-c.quit:
		sub.close()
	default:
		c.subs = append(c.subs, sub)
	}
	return sub
}

// Close stops the rewind timer and the engine, ends the controller loop and
// then stops the now playing loop. It is safe to call more than once.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		_ = c.do(func() {
			c.closing = true
			c.rewind.disarm()
			c.discardHandle()
			c.playing = false
		})

		c.subsMu.Lock()
		close(c.quit)
		for _, sub := range c.subs {
			sub.close()
		}
		c.subs = nil
		c.subsMu.Unlock()

		<-c.done
		c.publisher.Stop()
	})
	return nil
}

// Loop-side implementation.

func (c *Controller) skipToNext() error {
	if len(c.queue) == 0 || c.current < 0 {
		return nil
	}

	if c.current == len(c.queue)-1 {
		c.current = 0
		if c.handle != nil {
			c.handle.Stop()
			c.stale = true
		}
		// The first track is not loaded yet, so its length is unknown.
		c.duration = 0
		c.fileName = displayName(c.queue[0])
		c.playing = false
		c.rewind.disarm()
		c.publishFull()
		return nil
	}

	c.current++
	return c.loadCurrent(c.playing)
}

func (c *Controller) rewindToPrevious() error {
	if len(c.queue) == 0 || c.current <= 0 {
		return nil
	}
	c.current--
	return c.loadCurrent(c.playing)
}

func (c *Controller) restartTrack() error {
	if c.handle == nil {
		return ErrNoEngine
	}
	if c.stale {
		return nil
	}
	if err := c.handle.SetPosition(0); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	c.emitPosition(0)
	return nil
}

func (c *Controller) rewindButton() error {
	if !c.loaded() {
		c.rewind.disarm()
		return c.rewindToPrevious()
	}

	if c.playing {
		if c.rewind.armed {
			c.rewind.disarm()
			return c.rewindToPrevious()
		}
		if err := c.restartTrack(); err != nil {
			return err
		}
		c.rewind.arm(c.expireRewind)
		return nil
	}

	c.rewind.disarm()
	if c.handle.Position() != 0 {
		return c.restartTrack()
	}
	return c.rewindToPrevious()
}

// expireRewind runs on the timer goroutine.
func (c *Controller) expireRewind(gen uint64) {
	_ = c.do(func() {
		prev := c.snapshot()
		if c.rewind.expire(gen) {
			c.log.Debug().Msg("rewind window expired")
		}
		c.emitChanges(prev)
	})
}

// setPlaying applies the play intent to the loaded handle. A stale handle
// is replaced by a fresh load of the selected track.
func (c *Controller) setPlaying(play bool) error {
	if c.stale {
		if !play {
			return nil
		}
		return c.loadCurrent(true)
	}

	if play {
		c.handle.Play()
	} else {
		c.handle.Pause()
	}
	c.playing = c.handle.IsPlaying()
	c.publishFull()
	return nil
}

// loadCurrent resolves and loads the selected track, starting it when play
// is set.
func (c *Controller) loadCurrent(play bool) error {
	track := c.queue[c.current]

	path, err := c.resolver.Resolve(track)
	if err != nil {
		c.reset()
		return fmt.Errorf("resolve %q: %w", track.Title, err)
	}

	c.discardHandle()
	h, err := c.engine.Load(path)
	if err != nil {
		c.storeAudioPath(track, "")
		c.reset()
		if !errors.Is(err, player.ErrLoad) {
			err = fmt.Errorf("%w: %w", player.ErrLoad, err)
		}
		return fmt.Errorf("load %q: %w", track.Title, err)
	}

	if track.AudioPath != path {
		c.storeAudioPath(track, path)
	}
	c.handle = h
	c.stale = false
	h.OnComplete(func(ok bool) { c.completed(h, ok) })
	c.duration = h.Duration()
	c.fileName = filepath.Base(path)

	c.playing = false
	if play {
		h.Play()
		c.playing = h.IsPlaying()
	}

	c.log.Debug().
		Str("title", track.Title).
		Str("path", path).
		Bool("playing", c.playing).
		Msg("track loaded")

	c.publishFull()
	c.publisher.Start()
	return nil
}

// completed is the engine's end-of-track callback. It may run on any
// goroutine.
func (c *Controller) completed(h player.Handle, ok bool) {
	_ = c.exec("complete", func() error {
		if h != c.handle || c.stale {
			c.log.Debug().Msg("ignoring completion of a discarded track")
			return nil
		}
		if !ok {
			err := errors.New("playback stopped on a decode error")
			c.log.Error().Err(err).Str("file", c.fileName).Msg("track ended early")
			c.emitError("complete", err)
		}
		return c.skipToNext()
	})
}

// reset discards the loaded track and shows the placeholder.
func (c *Controller) reset() {
	c.discardHandle()
	c.duration = 0
	c.fileName = Placeholder
	c.playing = false
	c.rewind.disarm()
	c.publishFull()
}

func (c *Controller) discardHandle() {
	if c.handle == nil {
		return
	}
	c.handle.OnComplete(nil)
	c.handle.Stop()
	c.handle = nil
	c.stale = false
}

func (c *Controller) storeAudioPath(t *library.Track, path string) {
	t.AudioPath = path
	if c.tracks == nil || t.ID == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := c.tracks.SetTrackAudioPath(ctx, t.ID, path); err != nil {
		c.log.Warn().Err(err).Int64("track", t.ID).Msg("persist audio path")
	}
}

// loaded reports whether a live handle for the selected track exists.
func (c *Controller) loaded() bool {
	return c.handle != nil && !c.stale
}

func (c *Controller) currentTrack() *library.Track {
	if c.current < 0 || c.current >= len(c.queue) {
		return nil
	}
	return c.queue[c.current]
}

func (c *Controller) state() State {
	switch {
	case !c.loaded():
		return StateStopped
	case c.playing:
		return StatePlaying
	default:
		return StatePaused
	}
}

func (c *Controller) position() time.Duration {
	if !c.loaded() {
		return 0
	}
	return c.handle.Position()
}

func (c *Controller) progress() nowplaying.Progress {
	p := nowplaying.Progress{Duration: c.duration, Elapsed: c.position()}
	if c.playing {
		p.Rate = 1
	}
	return p
}

func (c *Controller) publishFull() {
	c.publisher.PublishFull(nowplaying.ItemFor(c.currentTrack()), c.progress())
}

func (c *Controller) status() Status {
	return Status{
		State:    c.state(),
		Queue:    append([]*library.Track(nil), c.queue...),
		Index:    c.current,
		Track:    c.currentTrack(),
		FileName: c.fileName,
		Position: c.position(),
		Duration: c.duration,
		Armed:    c.rewind.armed,
	}
}

// displayName is the file name shown for a track that is not loaded.
func displayName(t *library.Track) string {
	if t.AudioPath != "" {
		return filepath.Base(t.AudioPath)
	}
	return t.Title
}

func indexOf(queue []*library.Track, t *library.Track) int {
	for i, q := range queue {
		if q == t || (t.ID != 0 && q.ID == t.ID) {
			return i
		}
	}
	return -1
}

type nopPublisher struct{}

func (nopPublisher) SetSource(nowplaying.Source)                       {}
func (nopPublisher) Start()                                            {}
func (nopPublisher) Stop()                                             {}
func (nopPublisher) PublishFull(*nowplaying.Item, nowplaying.Progress) {}
func (nopPublisher) PublishProgress(nowplaying.Progress)               {}

var _ nowplaying.Source = (*Controller)(nil)
