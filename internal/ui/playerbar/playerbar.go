// Package playerbar renders the transport line of the player view.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/recordmachine/internal/playback"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	armedSymbol = "⏮"
	separator   = "   "
	minBarWidth = 10
)

// Height is the rendered height including the border.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Loaded   bool
	Playing  bool
	Armed    bool
	Title    string
	Artist   string
	Album    string
	FileName string
	Position time.Duration
	Duration time.Duration
}

// NewState builds a State from a controller snapshot.
func NewState(st playback.Status) State {
	s := State{
		Loaded:   st.Track != nil,
		Playing:  st.IsPlaying(),
		Armed:    st.Armed,
		FileName: st.FileName,
		Position: st.Position,
		Duration: st.Duration,
	}
	if st.Track != nil {
		s.Title = st.Track.Title
		s.Artist = st.Track.ArtistName()
		s.Album = st.Track.AlbumTitle()
	}
	return s
}

// Render returns the player bar for the given width.
func Render(s State, width int) string {
	innerWidth := max(width-6, 0)
	if !s.Loaded {
		name := s.FileName
		if name == "" {
			name = playback.Placeholder
		}
		return barStyle.Padding(0, 2).Width(max(width-2, 0)).
			Render(placeholderSt.Render(Truncate(name, innerWidth)))
	}

	status := pauseSymbol
	if s.Playing {
		status = playSymbol
	}
	if s.Armed {
		status += " " + armedStyle.Render(armedSymbol)
	}

	title := s.Title
	if title == "" {
		title = s.FileName
	}
	info := strings.Join(nonEmpty(s.Artist, s.Album), " · ")
	timeStr := fmt.Sprintf("%s / %s", FormatDuration(s.Position), FormatDuration(s.Duration))

	sepWidth := lipgloss.Width(separator)
	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(timeStr) + sepWidth*2 + minBarWidth
	available := innerWidth - fixed

	titleWidth := runewidth.StringWidth(title)
	infoWidth := runewidth.StringWidth(info)

	var content strings.Builder
	used := 0
	switch {
	case info != "" && titleWidth+sepWidth+infoWidth <= available:
		content.WriteString(titleStyle.Render(title))
		content.WriteString(separator)
		content.WriteString(artistStyle.Render(info))
		used = titleWidth + sepWidth + infoWidth
	case info != "" && titleWidth+sepWidth < available:
		maxInfo := available - titleWidth - sepWidth
		content.WriteString(titleStyle.Render(title))
		content.WriteString(separator)
		content.WriteString(artistStyle.Render(Truncate(info, maxInfo)))
		used = titleWidth + sepWidth + maxInfo
	default:
		t := Truncate(title, max(available, minBarWidth))
		content.WriteString(titleStyle.Render(t))
		used = runewidth.StringWidth(t)
	}

	barWidth := max(innerWidth-used-fixed+minBarWidth, 5)
	content.WriteString(separator)
	content.WriteString(statusStyle.Render(status))
	content.WriteString("  ")
	content.WriteString(ProgressBar(s.Position, s.Duration, barWidth))
	content.WriteString(separator)
	content.WriteString(timeStyle.Render(timeStr))

	return barStyle.Padding(0, 2).Width(max(width-2, 0)).Render(content.String())
}

// ProgressBar renders a bar of width cells filled by position/duration.
func ProgressBar(position, duration time.Duration, width int) string {
	var ratio float64
	if duration > 0 {
		ratio = float64(position) / float64(duration)
	}
	filled := min(max(int(float64(width)*ratio), 0), width)
	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// Truncate shortens s to maxWidth cells, ending with an ellipsis when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	d = max(d, 0)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func nonEmpty(parts ...string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
