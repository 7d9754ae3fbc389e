package nowplaying

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/recordmachine/internal/artwork"
)

// DefaultInterval is the refresh period of the progress loop.
const DefaultInterval = 250 * time.Millisecond

// Sync keeps a Surface up to date. Full pushes happen on demand; a
// background loop refreshes progress while started.
type Sync struct {
	surface  Surface
	log      zerolog.Logger
	interval time.Duration

	srcMu  sync.Mutex
	source Source

	// mu guards the published snapshot and serializes surface calls.
	mu      sync.Mutex
	last    Metadata
	showing bool
	artKey  uint64
	art     *artwork.Artwork

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSync creates a Sync. A non-positive interval selects DefaultInterval.
func NewSync(surface Surface, log zerolog.Logger, interval time.Duration) *Sync {
	if surface == nil {
		surface = NopSurface{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sync{
		surface:  surface,
		log:      log.With().Str("component", "nowplaying").Logger(),
		interval: interval,
	}
}

// SetSource sets where the loop reads progress from.
func (s *Sync) SetSource(src Source) {
	s.srcMu.Lock()
	s.source = src
	s.srcMu.Unlock()
}

// Start launches the refresh loop. Calling Start while running does nothing.
func (s *Sync) Start() {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.run(ctx, done)
}

// Running reports whether the refresh loop is active.
func (s *Sync) Running() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.cancel != nil
}

// Stop cancels the refresh loop and waits for it to exit.
func (s *Sync) Stop() {
	s.runMu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Sync) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sync) tick(ctx context.Context) {
	s.srcMu.Lock()
	src := s.source
	s.srcMu.Unlock()
	if src == nil {
		return
	}

	item, p, ok := src.NowPlaying()
	if !ok || ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A full push for another track landed since the read; its progress
	// belongs to the next tick.
	if s.showing && !sameTrack(item, s.last) {
		return
	}

	m := s.last
	m.TrackID = item.TrackID
	m.Title = item.Title
	m.Duration, m.Elapsed, m.Rate = p.Duration, p.Elapsed, p.Rate
	s.publishLocked(m)
}

func sameTrack(item *Item, m Metadata) bool {
	if item.TrackID != 0 || m.TrackID != 0 {
		return item.TrackID == m.TrackID
	}
	return item.Title == m.Title
}

// PublishFull replaces everything the surface shows, including artwork.
// A nil item clears the surface.
func (s *Sync) PublishFull(item *Item, p Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item == nil {
		s.showing = false
		s.last = Metadata{}
		if err := s.surface.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("clear surface")
		}
		return
	}

	s.publishLocked(Metadata{
		TrackID:    item.TrackID,
		Title:      item.Title,
		Artist:     item.Artist,
		AlbumTitle: item.Album,
		Artwork:    s.normalizedArtwork(item.Artwork),
		Duration:   p.Duration,
		Elapsed:    p.Elapsed,
		Rate:       p.Rate,
	})
}

// PublishProgress refreshes the time-varying fields of the last full push.
// It does nothing when the surface is empty.
func (s *Sync) PublishProgress(p Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.showing {
		return
	}
	m := s.last
	m.Duration, m.Elapsed, m.Rate = p.Duration, p.Elapsed, p.Rate
	s.publishLocked(m)
}

func (s *Sync) publishLocked(m Metadata) {
	s.last = m
	s.showing = true
	if err := s.surface.Publish(m); err != nil {
		s.log.Warn().Err(err).Str("title", m.Title).Msg("publish now playing")
	}
}

// normalizedArtwork returns the normalized form of data, reusing the
// previous result when the bytes are unchanged.
func (s *Sync) normalizedArtwork(data []byte) *artwork.Artwork {
	if len(data) == 0 {
		return nil
	}

	h := fnv.New64a()
	_, _ = h.Write(data)
	key := h.Sum64()
	if s.art != nil && key == s.artKey {
		return s.art
	}

	src, err := artwork.Decode(data)
	if err != nil {
		s.log.Warn().Err(err).Int("bytes", len(data)).Msg("decode artwork")
		return nil
	}
	art, err := artwork.Normalize(src)
	if err != nil {
		s.log.Warn().Err(err).Msg("normalize artwork")
		return nil
	}
	s.artKey, s.art = key, art
	return art
}
