package playback

import "time"

// DefaultRewindWindow is how long a rewind press stays armed.
const DefaultRewindWindow = time.Second

// rewindGesture is the debounce state of the rewind button: Idle or Armed.
// Only the controller loop touches it. Each arm bumps gen so a timer that
// fires after being superseded is ignored.
type rewindGesture struct {
	window time.Duration
	armed  bool
	gen    uint64
	timer  *time.Timer
}

// arm enters Armed and schedules expire(gen) after the window.
func (r *rewindGesture) arm(expire func(gen uint64)) {
	r.disarm()
	r.armed = true
	gen := r.gen
	r.timer = time.AfterFunc(r.window, func() { expire(gen) })
}

// disarm returns to Idle and invalidates any pending timer.
func (r *rewindGesture) disarm() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.armed = false
	r.gen++
}

// expire returns to Idle if gen is still current.
func (r *rewindGesture) expire(gen uint64) bool {
	if gen != r.gen || !r.armed {
		return false
	}
	r.armed = false
	r.timer = nil
	return true
}
