package player

import (
	"errors"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = beep.SampleRate(1000)

// fakeStream yields n silent frames.
type fakeStream struct {
	pos, n  int
	err     error
	closed  bool
	seekLog []int
}

func (s *fakeStream) Stream(samples [][2]float64) (int, bool) {
	c := min(len(samples), s.n-s.pos)
	if c <= 0 {
		return 0, false
	}
	clear(samples[:c])
	s.pos += c
	return c, true
}

func (s *fakeStream) Err() error    { return s.err }
func (s *fakeStream) Len() int      { return s.n }
func (s *fakeStream) Position() int { return s.pos }
func (s *fakeStream) Close() error  { s.closed = true; return nil }

func (s *fakeStream) Seek(p int) error {
	s.seekLog = append(s.seekLog, p)
	s.pos = p
	return nil
}

func newTestHandle(frames int) (*beepHandle, *fakeStream, beep.Streamer) {
	stream := &fakeStream{n: frames}
	h := newBeepHandle(stream, beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}, testRate)
	return h, stream, h.output()
}

// drain pulls from the mixer side until the output reports exhaustion.
func drain(out beep.Streamer) {
	buf := make([][2]float64, 256)
	for range 1000 {
		if _, ok := out.Stream(buf); !ok {
			return
		}
	}
}

func TestBeepHandle_LoadedPaused(t *testing.T) {
	h, stream, out := newTestHandle(500)

	assert.Equal(t, Paused, h.State())
	assert.False(t, h.IsPlaying())
	assert.Equal(t, 500*time.Millisecond, h.Duration())

	buf := make([][2]float64, 100)
	n, ok := out.Stream(buf)
	assert.Equal(t, 100, n)
	assert.True(t, ok)
	assert.Equal(t, 0, stream.pos, "paused handle must not consume the decoder")
}

func TestBeepHandle_CompletesAtEnd(t *testing.T) {
	h, _, out := newTestHandle(300)
	done := make(chan bool, 1)
	h.OnComplete(func(ok bool) { done <- ok })

	h.Play()
	require.True(t, h.IsPlaying())
	drain(out)

	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("completion not delivered")
	}
	assert.False(t, h.IsPlaying())
}

func TestBeepHandle_CompletionReportsDecodeError(t *testing.T) {
	h, stream, out := newTestHandle(300)
	stream.err = errors.New("corrupt frame")
	done := make(chan bool, 1)
	h.OnComplete(func(ok bool) { done <- ok })

	h.Play()
	drain(out)

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("completion not delivered")
	}
}

func TestBeepHandle_StopSuppressesCompletion(t *testing.T) {
	h, stream, out := newTestHandle(300)
	done := make(chan bool, 1)
	h.OnComplete(func(ok bool) { done <- ok })

	h.Play()
	h.Stop()
	drain(out)

	select {
	case <-done:
		t.Fatal("stopped handle reported completion")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, Stopped, h.State())
	assert.True(t, stream.closed)
	assert.Equal(t, time.Duration(0), h.Position())
	assert.ErrorIs(t, h.SetPosition(0), errHandleStopped)

	h.Play()
	assert.Equal(t, Stopped, h.State(), "stopped handle cannot restart")
}

func TestBeepHandle_PauseResume(t *testing.T) {
	h, _, _ := newTestHandle(300)

	h.Pause()
	assert.Equal(t, Paused, h.State())
	h.Play()
	assert.Equal(t, Playing, h.State())
	h.Pause()
	assert.Equal(t, Paused, h.State())
}

func TestBeepHandle_SetPositionClamps(t *testing.T) {
	h, stream, _ := newTestHandle(1000)

	require.NoError(t, h.SetPosition(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, h.Position())

	require.NoError(t, h.SetPosition(5*time.Second))
	require.NoError(t, h.SetPosition(-time.Second))
	assert.Equal(t, []int{250, 1000, 0}, stream.seekLog)
}
