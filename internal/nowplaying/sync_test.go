package nowplaying

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/recordmachine/internal/artwork"
	"github.com/llehouerou/recordmachine/internal/library"
)

type fakeSurface struct {
	mu         sync.Mutex
	published  []Metadata
	clears     int
	publishErr error
}

func (s *fakeSurface) Publish(m Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, m)
	return s.publishErr
}

func (s *fakeSurface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	return nil
}

func (s *fakeSurface) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.published)
}

func (s *fakeSurface) last() Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published[len(s.published)-1]
}

type fakeSource struct {
	mu    sync.Mutex
	item  *Item
	p     Progress
	calls int
}

func (s *fakeSource) NowPlaying() (*Item, Progress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.item, s.p, s.item != nil
}

func (s *fakeSource) set(item *Item, p Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.item, s.p = item, p
}

func pngCover(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestItemFor(t *testing.T) {
	assert.Nil(t, ItemFor(nil))

	loose := ItemFor(&library.Track{ID: 3, Title: "Loose"})
	assert.Equal(t, "Unknown Artist", loose.Artist)
	assert.Equal(t, "Unknown Album", loose.Album)

	a := &library.Album{Title: "Demo", Artist: "The Band", Artwork: []byte{1, 2}}
	tr := &library.Track{ID: 4, Title: "Verse"}
	a.AddTrack(tr)
	item := ItemFor(tr)
	assert.Equal(t, &Item{TrackID: 4, Title: "Verse", Artist: "The Band", Album: "Demo", Artwork: []byte{1, 2}}, item)
}

func TestPublishFull_NilClears(t *testing.T) {
	surface := &fakeSurface{}
	s := NewSync(surface, zerolog.Nop(), 0)

	s.PublishFull(nil, Progress{})

	assert.Equal(t, 1, surface.clears)
	assert.Equal(t, 0, surface.count())

	s.PublishProgress(Progress{Elapsed: time.Second})
	assert.Equal(t, 0, surface.count(), "progress without a track publishes nothing")
}

func TestPublishFull_NormalizesAndCachesArtwork(t *testing.T) {
	surface := &fakeSurface{}
	s := NewSync(surface, zerolog.Nop(), 0)
	cover := pngCover(t, 40, 20)
	item := &Item{TrackID: 1, Title: "Intro", Artist: "The Band", Album: "Demo", Artwork: cover}

	s.PublishFull(item, Progress{Duration: time.Minute, Rate: 1})

	m := surface.last()
	assert.Equal(t, "Intro", m.Title)
	assert.Equal(t, "The Band", m.Artist)
	assert.Equal(t, "Demo", m.AlbumTitle)
	assert.Equal(t, time.Minute, m.Duration)
	assert.True(t, m.Playing())
	require.NotNil(t, m.Artwork)
	assert.Equal(t, artwork.Size, m.Artwork.Image.Bounds().Dx())
	assert.Equal(t, artwork.Size, m.Artwork.Image.Bounds().Dy())

	s.PublishFull(&Item{TrackID: 2, Title: "Verse", Artwork: bytes.Clone(cover)}, Progress{})
	assert.Same(t, m.Artwork, surface.last().Artwork, "same bytes reuse the normalized image")

	s.PublishFull(&Item{TrackID: 3, Title: "Other", Artwork: pngCover(t, 10, 10)}, Progress{})
	assert.NotSame(t, m.Artwork, surface.last().Artwork)
}

func TestPublishFull_BadArtworkStillPublishes(t *testing.T) {
	surface := &fakeSurface{}
	s := NewSync(surface, zerolog.Nop(), 0)

	s.PublishFull(&Item{Title: "Intro", Artwork: []byte("not an image")}, Progress{})

	assert.Equal(t, 1, surface.count())
	assert.Nil(t, surface.last().Artwork)
}

func TestPublishProgress_KeepsStaticFields(t *testing.T) {
	surface := &fakeSurface{}
	s := NewSync(surface, zerolog.Nop(), 0)
	s.PublishFull(&Item{Title: "Intro", Artist: "The Band", Artwork: pngCover(t, 8, 8)}, Progress{Duration: time.Minute})
	art := surface.last().Artwork

	s.PublishProgress(Progress{Duration: time.Minute, Elapsed: 12 * time.Second, Rate: 1})

	m := surface.last()
	assert.Equal(t, 2, surface.count())
	assert.Equal(t, "Intro", m.Title)
	assert.Equal(t, "The Band", m.Artist)
	assert.Same(t, art, m.Artwork)
	assert.Equal(t, 12*time.Second, m.Elapsed)
}

func TestSync_LoopRefreshesFromSource(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		surface := &fakeSurface{}
		src := &fakeSource{}
		s := NewSync(surface, zerolog.Nop(), 250*time.Millisecond)
		s.SetSource(src)

		s.Start()
		s.Start()
		assert.True(t, s.Running())

		// Nothing selected: ticks publish nothing.
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, 0, surface.count())

		s.PublishFull(&Item{Title: "Intro", Artist: "The Band"}, Progress{Duration: time.Minute})
		src.set(&Item{Title: "Intro"}, Progress{Duration: time.Minute, Elapsed: 3 * time.Second, Rate: 1})

		time.Sleep(260 * time.Millisecond)
		synctest.Wait()
		m := surface.last()
		assert.Equal(t, 3*time.Second, m.Elapsed)
		assert.Equal(t, "The Band", m.Artist, "artist kept from the full push")

		s.Stop()
		s.Stop()
		assert.False(t, s.Running())
		n := surface.count()
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, n, surface.count(), "stopped loop publishes nothing")
	})
}

func TestSync_PublishErrorsDoNotStopLoop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		surface := &fakeSurface{publishErr: errors.New("bus gone")}
		src := &fakeSource{}
		src.set(&Item{Title: "Intro"}, Progress{})
		s := NewSync(surface, zerolog.Nop(), 100*time.Millisecond)
		s.SetSource(src)

		s.Start()
		time.Sleep(550 * time.Millisecond)
		synctest.Wait()
		s.Stop()

		assert.Equal(t, 5, surface.count())
	})
}

func TestSync_StartWithoutSource(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		surface := &fakeSurface{}
		s := NewSync(surface, zerolog.Nop(), 0)

		s.Start()
		time.Sleep(time.Second)
		synctest.Wait()
		s.Stop()

		assert.Equal(t, 0, surface.count())
	})
}

func TestSync_TickSkipsStaleTrack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		surface := &fakeSurface{}
		src := &fakeSource{}
		s := NewSync(surface, zerolog.Nop(), 250*time.Millisecond)
		s.SetSource(src)

		// The source still reports Intro while Verse was already pushed.
		src.set(&Item{TrackID: 1, Title: "Intro"}, Progress{Duration: time.Minute, Elapsed: 50 * time.Second})
		s.PublishFull(&Item{TrackID: 2, Title: "Verse", Artist: "The Band"}, Progress{Duration: 2 * time.Minute})
		n := surface.count()

		s.Start()
		time.Sleep(260 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, n, surface.count(), "stale progress must not be published")
		assert.Equal(t, "Verse", surface.last().Title)

		src.set(&Item{TrackID: 2, Title: "Verse"}, Progress{Duration: 2 * time.Minute, Elapsed: time.Second})
		time.Sleep(250 * time.Millisecond)
		synctest.Wait()
		s.Stop()

		m := surface.last()
		assert.Equal(t, "Verse", m.Title)
		assert.Equal(t, 2*time.Minute, m.Duration)
		assert.Equal(t, time.Second, m.Elapsed)
		assert.Equal(t, "The Band", m.Artist)
	})
}
