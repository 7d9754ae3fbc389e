package player

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/recordmachine/internal/errmsg"
	"github.com/llehouerou/recordmachine/internal/keymap"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(TickCmd(), WatchEvents(m.sub))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.refresh()
		return m, TickCmd()

	case StatusChangedMsg:
		m.refresh()
		return m, WatchEvents(m.sub)

	case ErrorMsg:
		m.errMsg = errmsg.Format(errmsg.Op(msg.Op), msg.Err)
		m.refresh()
		return m, WatchEvents(m.sub)

	case ClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Resolve(msg)
	if action == "" {
		return m, nil
	}

	var err error
	var op errmsg.Op
	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case keymap.ActionPlayPause:
		op, err = errmsg.OpPlaybackToggle, m.ctrl.PlayPause()
	case keymap.ActionNextTrack:
		op, err = errmsg.OpPlaybackSkip, m.ctrl.SkipToNext()
	case keymap.ActionRewind:
		op, err = errmsg.OpPlaybackRewind, m.ctrl.RewindButton()
	case keymap.ActionRestart:
		op, err = errmsg.OpPlaybackRewind, m.ctrl.RestartTrack()
	case keymap.ActionSeekBack:
		op, err = errmsg.OpPlaybackSeek, m.ctrl.Seek(max(m.status.Position-seekStep, 0))
	case keymap.ActionSeekForward:
		op, err = errmsg.OpPlaybackSeek, m.ctrl.Seek(m.status.Position+seekStep)
	case keymap.ActionMoveUp:
		m.cursor = max(m.cursor-1, 0)
	case keymap.ActionMoveDown:
		m.cursor = min(m.cursor+1, max(len(m.status.Queue)-1, 0))
	case keymap.ActionPlayTrack:
		if m.cursor < len(m.status.Queue) {
			op, err = errmsg.OpPlaybackStart, m.ctrl.PlayTrack(m.status.Queue[m.cursor])
		}
	}

	if err != nil {
		m.log.Warn().Err(err).Str("action", string(action)).Msg("key action failed")
		m.errMsg = errmsg.Format(op, err)
	} else if op != "" {
		m.errMsg = ""
	}
	m.refresh()
	return m, nil
}
