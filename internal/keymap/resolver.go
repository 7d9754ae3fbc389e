package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Resolver maps key presses to actions. It also serves as the help.KeyMap
// for the player view.
type Resolver struct {
	bindings []Binding
	byAction map[Action]key.Binding
}

// NewResolver creates a resolver from bindings. Earlier bindings win when
// keys overlap.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: bindings,
		byAction: make(map[Action]key.Binding, len(bindings)),
	}
	for _, b := range bindings {
		if _, ok := r.byAction[b.Action]; !ok {
			r.byAction[b.Action] = b.Key
		}
	}
	return r
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(msg tea.KeyMsg) Action {
	for _, b := range r.bindings {
		if key.Matches(msg, b.Key) {
			return b.Action
		}
	}
	return ""
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action].Keys()
}

// ShortHelp implements help.KeyMap.
func (r *Resolver) ShortHelp() []key.Binding {
	return r.pick(ActionPlayPause, ActionNextTrack, ActionRewind, ActionHelp, ActionQuit)
}

// FullHelp implements help.KeyMap.
func (r *Resolver) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		r.pick(ActionPlayPause, ActionNextTrack, ActionRewind, ActionRestart),
		r.pick(ActionSeekBack, ActionSeekForward),
		r.pick(ActionMoveUp, ActionMoveDown, ActionPlayTrack),
		r.pick(ActionHelp, ActionQuit),
	}
}

func (r *Resolver) pick(actions ...Action) []key.Binding {
	out := make([]key.Binding, 0, len(actions))
	for _, a := range actions {
		if b, ok := r.byAction[a]; ok {
			out = append(out, b)
		}
	}
	return out
}
