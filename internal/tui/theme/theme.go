package theme

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors shared by the chat view and the progress printer
type Theme struct {
	Primary   lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	User      lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Badge       lipgloss.Color
}

// Current is the active theme
var Current = Default()

// Default is a warm palette on a dark terminal
func Default() Theme {
	return Theme{
		Primary:     lipgloss.Color("#D2A679"),
		Text:        lipgloss.Color("#F0F0F0"),
		TextMuted:   lipgloss.Color("#888888"),
		User:        lipgloss.Color("#7AA2F7"),
		Success:     lipgloss.Color("#10B981"),
		Warning:     lipgloss.Color("#F59E0B"),
		Error:       lipgloss.Color("#EF4444"),
		Border:      lipgloss.Color("#3d3d3d"),
		BorderFocus: lipgloss.Color("#D2A679"),
		Badge:       lipgloss.Color("#2d2d2d"),
	}
}

// Styles derived from the current theme
func Title() lipgloss.Style   { return lipgloss.NewStyle().Foreground(Current.Primary).Bold(true) }
func Muted() lipgloss.Style   { return lipgloss.NewStyle().Foreground(Current.TextMuted) }
func Success() lipgloss.Style { return lipgloss.NewStyle().Foreground(Current.Success).Bold(true) }
func Failure() lipgloss.Style { return lipgloss.NewStyle().Foreground(Current.Error).Bold(true) }
func Running() lipgloss.Style { return lipgloss.NewStyle().Foreground(Current.Warning).Bold(true) }
