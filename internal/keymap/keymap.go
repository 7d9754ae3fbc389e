package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding ties an action to its keys and help text.
type Binding struct {
	Action Action
	Key    key.Binding
}

func bind(a Action, help string, keys ...string) Binding {
	return Binding{
		Action: a,
		Key:    key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help)),
	}
}

// All contains the player's key bindings in help order.
var All = []Binding{
	bind(ActionPlayPause, "play/pause", "space", " ", "k"),
	bind(ActionNextTrack, "next", "n", "pgdown"),
	bind(ActionRewind, "rewind", "p", "pgup"),
	bind(ActionRestart, "restart", "r"),
	bind(ActionSeekBack, "-5s", "left", "h"),
	bind(ActionSeekForward, "+5s", "right", "l"),
	bind(ActionMoveUp, "up", "up"),
	bind(ActionMoveDown, "down", "down"),
	bind(ActionPlayTrack, "play selected", "enter"),
	bind(ActionHelp, "help", "?"),
	bind(ActionQuit, "quit", "q", "ctrl+c"),
}
