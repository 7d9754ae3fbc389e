package playback

import (
	"time"

	"github.com/llehouerou/recordmachine/internal/library"
)

func (c *Controller) subscribers() []*Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	return append([]*Subscription(nil), c.subs...)
}

// snapshot is the part of the loop state that subscribers see change.
type snapshot struct {
	state State
	index int
	track *library.Track
	armed bool
}

func (c *Controller) snapshot() snapshot {
	return snapshot{
		state: c.state(),
		index: c.current,
		track: c.currentTrack(),
		armed: c.rewind.armed,
	}
}

// emitChanges notifies subscribers of what differs from prev.
func (c *Controller) emitChanges(prev snapshot) {
	subs := c.subscribers()
	if len(subs) == 0 {
		return
	}
	now := c.snapshot()

	if now.state != prev.state {
		e := StateChange{Previous: prev.state, Current: now.state}
		for _, s := range subs {
			s.state.offer(e)
		}
	}

	if now.track != prev.track || now.index != prev.index {
		e := TrackChange{
			Previous:      prev.track,
			Current:       now.track,
			PreviousIndex: prev.index,
			Index:         now.index,
		}
		for _, s := range subs {
			s.track.offer(e)
		}
	}

	if now.armed != prev.armed {
		for _, s := range subs {
			s.rewind.offer(RewindChange{Armed: now.armed})
		}
	}
}

func (c *Controller) emitQueue() {
	e := QueueChange{Tracks: append([]*library.Track(nil), c.queue...), Index: c.current}
	for _, s := range c.subscribers() {
		s.queue.offer(e)
	}
}

func (c *Controller) emitPosition(pos time.Duration) {
	for _, s := range c.subscribers() {
		s.sendPosition(pos)
	}
}

func (c *Controller) emitError(op string, err error) {
	e := ErrorEvent{Operation: op, Err: err}
	if t := c.currentTrack(); t != nil {
		e.Track = t.Title
	}
	for _, s := range c.subscribers() {
		s.errs.offer(e)
	}
}
