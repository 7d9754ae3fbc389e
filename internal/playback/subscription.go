package playback

import "time"

const eventBufferSize = 16

// outbox is a buffered event channel whose sends never block. Events are
// dropped when a slow subscriber lets the buffer fill up.
type outbox[T any] chan T

func newOutbox[T any]() outbox[T] {
	return make(outbox[T], eventBufferSize)
}

func (o outbox[T]) offer(v T) {
	select {
	case o <- v:
	default:
	}
}

// Subscription delivers controller events to one consumer. Done is closed
// when the controller shuts down; the event channels are never closed.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	QueueChanged    <-chan QueueChange
	PositionChanged <-chan PositionChange
	RewindChanged   <-chan RewindChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	state    outbox[StateChange]
	track    outbox[TrackChange]
	queue    outbox[QueueChange]
	position outbox[PositionChange]
	rewind   outbox[RewindChange]
	errs     outbox[ErrorEvent]
	done     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		state:    newOutbox[StateChange](),
		track:    newOutbox[TrackChange](),
		queue:    newOutbox[QueueChange](),
		position: newOutbox[PositionChange](),
		rewind:   newOutbox[RewindChange](),
		errs:     newOutbox[ErrorEvent](),
		done:     make(chan struct{}),
	}
	s.StateChanged, s.TrackChanged, s.QueueChanged = s.state, s.track, s.queue
	s.PositionChanged, s.RewindChanged, s.Error = s.position, s.rewind, s.errs
	s.Done = s.done
	return s
}

func (s *Subscription) close() {
	close(s.done)
}

func (s *Subscription) sendPosition(pos time.Duration) {
	s.position.offer(PositionChange{Position: pos})
}
