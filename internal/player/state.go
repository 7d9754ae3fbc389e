package player

// State is the playback state of a handle.
//
//	Stopped ──Play──▶ Playing ◀──Play/Pause──▶ Paused
//	   ▲                 │                        │
//	   └──────Stop───────┴──────────Stop──────────┘
//
// A freshly loaded handle is Paused at position zero. Stopped is terminal.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if the handle still holds a decoder.
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Paused
}
