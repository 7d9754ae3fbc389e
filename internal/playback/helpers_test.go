package playback

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/recordmachine/internal/assets"
	"github.com/llehouerou/recordmachine/internal/library"
	"github.com/llehouerou/recordmachine/internal/nowplaying"
	"github.com/llehouerou/recordmachine/internal/player"
)

type fakeResolver struct {
	mu      sync.Mutex
	missing map[string]bool
}

func (r *fakeResolver) Resolve(t *library.Track) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missing[t.Title] {
		return "", fmt.Errorf("%w: %s.m4a", assets.ErrNotFound, t.Title)
	}
	return pathFor(t.Title), nil
}

func (r *fakeResolver) setMissing(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing[title] = true
}

func pathFor(title string) string { return "/audio/" + title + ".m4a" }

type pathUpdate struct {
	id   int64
	path string
}

type fakeTrackStore struct {
	mu      sync.Mutex
	updates []pathUpdate
}

func (s *fakeTrackStore) SetTrackAudioPath(_ context.Context, id int64, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, pathUpdate{id, path})
	return nil
}

func (s *fakeTrackStore) calls() []pathUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pathUpdate(nil), s.updates...)
}

type fakePublisher struct {
	mu       sync.Mutex
	source   nowplaying.Source
	starts   int
	stops    int
	full     []*nowplaying.Item
	lastFull nowplaying.Progress
	progress []nowplaying.Progress
}

func (p *fakePublisher) SetSource(src nowplaying.Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = src
}

func (p *fakePublisher) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.starts++
}

func (p *fakePublisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
}

func (p *fakePublisher) PublishFull(item *nowplaying.Item, pr nowplaying.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.full = append(p.full, item)
	p.lastFull = pr
}

func (p *fakePublisher) PublishProgress(pr nowplaying.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = append(p.progress, pr)
}

func (p *fakePublisher) fullCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.full)
}

func (p *fakePublisher) lastItem() *nowplaying.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.full) == 0 {
		return nil
	}
	return p.full[len(p.full)-1]
}

type testEnv struct {
	ctrl     *Controller
	engine   *player.MockEngine
	resolver *fakeResolver
	store    *fakeTrackStore
	pub      *fakePublisher
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		engine:   player.NewMockEngine(),
		resolver: &fakeResolver{missing: make(map[string]bool)},
		store:    &fakeTrackStore{},
		pub:      &fakePublisher{},
	}
	env.ctrl = New(Options{
		Engine:    env.engine,
		Resolver:  env.resolver,
		Tracks:    env.store,
		Publisher: env.pub,
		Logger:    zerolog.Nop(),
	})
	t.Cleanup(func() { env.ctrl.Close() })
	return env
}

// handle returns the most recently loaded handle.
func (e *testEnv) handle(t *testing.T) *player.MockHandle {
	t.Helper()
	h := e.engine.Last()
	if h == nil {
		t.Fatal("no handle loaded")
	}
	return h
}

// testAlbum builds Intro, Verse, Outro with indexes out of insertion order.
func testAlbum() *library.Album {
	a := &library.Album{ID: 1, Title: "Demo", Artist: "The Band"}
	a.AddTrack(&library.Track{ID: 12, Title: "Verse", Index: 5})
	a.AddTrack(&library.Track{ID: 13, Title: "Outro", Index: 9})
	a.AddTrack(&library.Track{ID: 11, Title: "Intro", Index: 1})
	return a
}

func titles(tracks []*library.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.Title
	}
	return out
}

func trackByTitle(a *library.Album, title string) *library.Track {
	for _, t := range a.Tracks {
		if t.Title == title {
			return t
		}
	}
	return nil
}

const minute = time.Minute
