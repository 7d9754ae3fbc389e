package player

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/recordmachine/internal/ui/playerbar"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f1a208"))
	trackStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0c0c0"))
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f1a208"))
	cursorStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#303030"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e06c75"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#585858"))
)

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Record Machine"))
	if t := m.status.Track; t != nil {
		b.WriteString(mutedStyle.Render("  " + t.AlbumTitle() + " · " + t.ArtistName()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderQueue(width))
	b.WriteString("\n")
	b.WriteString(playerbar.Render(playerbar.NewState(m.status), width))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(playerbar.Truncate(m.errMsg, width)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderQueue(width int) string {
	if len(m.status.Queue) == 0 {
		return mutedStyle.Render("Queue is empty") + "\n"
	}

	rows := m.visibleRows()
	start := min(max(m.cursor-rows/2, 0), max(len(m.status.Queue)-rows, 0))
	end := min(start+rows, len(m.status.Queue))

	var b strings.Builder
	for i := start; i < end; i++ {
		t := m.status.Queue[i]
		marker := "  "
		style := trackStyle
		if i == m.status.Index {
			marker = "▶ "
			style = currentStyle
		}
		line := playerbar.Truncate(fmt.Sprintf("%s%2d. %s", marker, i+1, t.Title), width)
		line = style.Render(line)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// visibleRows is the number of queue lines that fit above the player bar.
func (m Model) visibleRows() int {
	if m.height <= 0 {
		return len(m.status.Queue)
	}
	// header, blank, blank before bar, error, help
	return max(m.height-playerbar.Height-5, 1)
}
