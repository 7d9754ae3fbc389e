package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

var errHandleStopped = errors.New("player: handle stopped")

// BeepEngine plays audio through the system speaker. The speaker is
// initialized on the first load at that track's sample rate; later tracks
// with a different rate are resampled.
type BeepEngine struct {
	log zerolog.Logger

	mu   sync.Mutex
	rate beep.SampleRate
}

func NewBeepEngine(log zerolog.Logger) *BeepEngine {
	return &BeepEngine{log: log.With().Str("component", "player").Logger()}
}

// Load implements Engine.
func (e *BeepEngine) Load(path string) (Handle, error) {
	stream, format, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	rate, err := e.speakerRate(format.SampleRate)
	if err != nil {
		stream.Close()
		return nil, fmt.Errorf("%w: speaker init: %w", ErrLoad, err)
	}

	h := newBeepHandle(stream, format, rate)
	speaker.Play(h.output())

	e.log.Debug().
		Str("path", path).
		Int("sample_rate", int(format.SampleRate)).
		Dur("duration", h.Duration()).
		Msg("track loaded")
	return h, nil
}

func (e *BeepEngine) speakerRate(want beep.SampleRate) (beep.SampleRate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rate != 0 {
		return e.rate, nil
	}
	if err := speaker.Init(want, want.N(time.Second/10)); err != nil {
		return 0, err
	}
	e.rate = want
	return want, nil
}

// beepHandle is one track queued on the speaker mixer. Lock order is
// speaker lock, then mu: the mixer runs the completion callback with the
// speaker lock held.
type beepHandle struct {
	mu         sync.Mutex
	state      State
	finished   bool
	onComplete func(ok bool)

	stream   beep.StreamSeekCloser
	format   beep.Format
	duration time.Duration
	ctrl     *beep.Ctrl
}

func newBeepHandle(stream beep.StreamSeekCloser, format beep.Format, rate beep.SampleRate) *beepHandle {
	var s beep.Streamer = stream
	if format.SampleRate != rate {
		s = beep.Resample(4, format.SampleRate, rate, stream)
	}
	return &beepHandle{
		state:    Paused,
		stream:   stream,
		format:   format,
		duration: format.SampleRate.D(stream.Len()),
		ctrl:     &beep.Ctrl{Streamer: s, Paused: true},
	}
}

// output is the streamer handed to the mixer.
func (h *beepHandle) output() beep.Streamer {
	return beep.Seq(h.ctrl, beep.Callback(h.finish))
}

// finish runs on the mixer goroutine when the stream is exhausted or the
// handle was stopped.
func (h *beepHandle) finish() {
	h.mu.Lock()
	if h.state == Stopped || h.finished {
		h.mu.Unlock()
		return
	}
	h.finished = true
	h.state = Paused
	fn := h.onComplete
	ok := h.stream.Err() == nil
	h.mu.Unlock()

	if fn != nil {
		go fn(ok)
	}
}

func (h *beepHandle) Play() {
	speaker.Lock()
	defer speaker.Unlock()
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != Paused || h.finished {
		return
	}
	h.ctrl.Paused = false
	h.state = Playing
}

func (h *beepHandle) Pause() {
	speaker.Lock()
	defer speaker.Unlock()
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != Playing {
		return
	}
	h.ctrl.Paused = true
	h.state = Paused
}

func (h *beepHandle) Stop() {
	speaker.Lock()
	h.mu.Lock()
	if h.state == Stopped {
		h.mu.Unlock()
		speaker.Unlock()
		return
	}
	h.state = Stopped
	h.ctrl.Streamer = nil
	stream := h.stream
	h.stream = nil
	h.mu.Unlock()
	speaker.Unlock()

	_ = stream.Close()
}

func (h *beepHandle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *beepHandle) IsPlaying() bool {
	return h.State() == Playing
}

func (h *beepHandle) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stream == nil {
		return 0
	}
	return h.format.SampleRate.D(h.stream.Position())
}

func (h *beepHandle) SetPosition(d time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stream == nil {
		return errHandleStopped
	}
	d = clampPosition(d, h.duration)
	return h.stream.Seek(h.format.SampleRate.N(d))
}

func (h *beepHandle) Duration() time.Duration {
	return h.duration
}

func (h *beepHandle) OnComplete(fn func(ok bool)) {
	h.mu.Lock()
	h.onComplete = fn
	h.mu.Unlock()
}

var _ Handle = (*beepHandle)(nil)
