package player

import (
	"sync"
	"time"
)

// MockEngine is a test double for Engine. It records every load and hands
// out MockHandles.
type MockEngine struct {
	mu        sync.Mutex
	loadErr   map[string]error
	durations map[string]time.Duration
	loads     []string
	handles   []*MockHandle
}

// NewMockEngine creates a new mock engine for testing.
func NewMockEngine() *MockEngine {
	return &MockEngine{
		loadErr:   make(map[string]error),
		durations: make(map[string]time.Duration),
	}
}

func (e *MockEngine) Load(path string) (Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loads = append(e.loads, path)
	if err := e.loadErr[path]; err != nil {
		return nil, err
	}
	h := &MockHandle{path: path, state: Paused, duration: e.durations[path]}
	e.handles = append(e.handles, h)
	return h, nil
}

// Test helpers

// SetLoadError makes loads of path fail with err. A nil err clears it.
func (e *MockEngine) SetLoadError(path string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		delete(e.loadErr, path)
		return
	}
	e.loadErr[path] = err
}

// SetDuration sets the duration reported by handles later loaded from path.
func (e *MockEngine) SetDuration(path string, d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.durations[path] = d
}

// LoadCalls returns the paths passed to Load, in order.
func (e *MockEngine) LoadCalls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.loads...)
}

// Handles returns every handle created so far.
func (e *MockEngine) Handles() []*MockHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*MockHandle(nil), e.handles...)
}

// Last returns the most recently created handle, or nil.
func (e *MockEngine) Last() *MockHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.handles) == 0 {
		return nil
	}
	return e.handles[len(e.handles)-1]
}

// MockHandle is a test double for Handle.
type MockHandle struct {
	mu         sync.Mutex
	path       string
	state      State
	position   time.Duration
	duration   time.Duration
	seekErr    error
	seeks      []time.Duration
	onComplete func(ok bool)
}

func (h *MockHandle) Play() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == Paused {
		h.state = Playing
	}
}

func (h *MockHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == Playing {
		h.state = Paused
	}
}

func (h *MockHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = Stopped
}

func (h *MockHandle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *MockHandle) IsPlaying() bool { return h.State() == Playing }

func (h *MockHandle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

func (h *MockHandle) SetPosition(d time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seeks = append(h.seeks, d)
	if h.seekErr != nil {
		return h.seekErr
	}
	h.position = clampPosition(d, h.duration)
	return nil
}

func (h *MockHandle) Duration() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.duration
}

func (h *MockHandle) OnComplete(fn func(ok bool)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onComplete = fn
}

// Test helpers

// Path returns the path the handle was loaded from.
func (h *MockHandle) Path() string { return h.path }

// SetElapsed moves the playback position without recording a seek.
func (h *MockHandle) SetElapsed(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = d
}

// SetDuration changes the reported duration.
func (h *MockHandle) SetDuration(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.duration = d
}

// SetSeekError makes SetPosition fail with err.
func (h *MockHandle) SetSeekError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seekErr = err
}

// SeekCalls returns the positions passed to SetPosition.
func (h *MockHandle) SeekCalls() []time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]time.Duration(nil), h.seeks...)
}

// Complete simulates the track reaching its end (ok=true) or failing to
// decode (ok=false). The callback runs synchronously on the caller's
// goroutine.
func (h *MockHandle) Complete(ok bool) {
	h.mu.Lock()
	fn := h.onComplete
	if h.state == Playing {
		h.state = Paused
	}
	h.mu.Unlock()
	if fn != nil {
		fn(ok)
	}
}

// Verify implementations at compile time.
var (
	_ Engine = (*BeepEngine)(nil)
	_ Engine = (*MockEngine)(nil)
	_ Handle = (*MockHandle)(nil)
)
