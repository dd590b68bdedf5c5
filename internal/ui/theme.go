package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	noticeHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#89B4FA")).
				Bold(true)

	labelStyle = lipgloss.NewStyle()

	completedLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6C7086")).
				Strikethrough(true)

	selectedLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#EE6FF8"))

	categoryTagStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAB387"))

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#45475A"))

	dragHandleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF")).
			Bold(true)

	deleteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1"))

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#89B4FA")).
			Padding(0, 1)
)

// applyColorProfilePreference honours NO_COLOR and otherwise keeps termenv's guess.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}
