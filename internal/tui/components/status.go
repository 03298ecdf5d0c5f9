package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/toolrunner/internal/tui/theme"
)

// Status is the bottom bar: key hints on the left, agent and model on the right
type Status struct {
	Width    int
	Agent    string
	Model    string
	Thinking bool
	Turn     int
}

// View renders the status bar
func (s *Status) View() string {
	t := theme.Current
	hint := theme.Muted().Render("Enter to send · /reset · /tools · Ctrl+C to quit")

	var right string
	if s.Thinking {
		label := "● thinking..."
		if s.Turn > 0 {
			label = fmt.Sprintf("● turn %d...", s.Turn)
		}
		right = lipgloss.NewStyle().Foreground(t.Primary).Render(label)
	} else {
		model := s.Model
		if model == "" {
			model = "default model"
		}
		right = lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Background(t.Badge).
			Padding(0, 1).
			Render(s.Agent + " · " + model)
	}

	spacing := max(s.Width-lipgloss.Width(hint)-lipgloss.Width(right)-2, 0)
	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		hint,
		lipgloss.NewStyle().Width(spacing).Render(""),
		right,
	)
}
