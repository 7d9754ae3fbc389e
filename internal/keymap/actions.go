// Package keymap defines key bindings and action dispatch for the player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionNextTrack   Action = "next_track"
	ActionRewind      Action = "rewind"
	ActionRestart     Action = "restart"
	ActionSeekBack    Action = "seek_back"
	ActionSeekForward Action = "seek_forward"

	// Queue actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionPlayTrack Action = "play_track"
)
