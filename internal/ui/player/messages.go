package player

import "time"

// TickMsg refreshes the elapsed time.
type TickMsg time.Time

// StatusChangedMsg is sent when the controller reports a state, track or
// queue change.
type StatusChangedMsg struct{}

// ErrorMsg carries a failure to show in the status line.
type ErrorMsg struct {
	Op  string
	Err error
}

// ClosedMsg is sent when the controller shuts down.
type ClosedMsg struct{}
