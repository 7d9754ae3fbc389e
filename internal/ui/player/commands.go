package player

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/recordmachine/internal/playback"
)

const tickInterval = 250 * time.Millisecond

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchEvents waits for the next controller event and converts it to a
// message.
func WatchEvents(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-sub.StateChanged:
			return StatusChangedMsg{}
		case <-sub.TrackChanged:
			return StatusChangedMsg{}
		case <-sub.QueueChanged:
			return StatusChangedMsg{}
		case <-sub.PositionChanged:
			return StatusChangedMsg{}
		case <-sub.RewindChanged:
			return StatusChangedMsg{}
		case e := <-sub.Error:
			return ErrorMsg{Op: e.Operation, Err: e.Err}
		case <-sub.Done:
			return ClosedMsg{}
		}
	}
}
