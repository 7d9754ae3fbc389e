package playerbar

import "github.com/charmbracelet/lipgloss"

// primaryOrange is the accent used for the status symbol and filled bar.
const primaryOrange = lipgloss.Color("#f1a208")

var (
	barStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c0c0c0"))
	artistStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	statusStyle   = lipgloss.NewStyle().Foreground(primaryOrange)
	filledStyle   = lipgloss.NewStyle().Foreground(primaryOrange)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#585858"))
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	armedStyle    = lipgloss.NewStyle().Foreground(primaryOrange).Bold(true)
	placeholderSt = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#585858"))
)
