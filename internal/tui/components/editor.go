package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/toolrunner/internal/tui/theme"
)

// Editor is the prompt input
type Editor struct {
	textarea textarea.Model
	width    int
}

// NewEditor creates an editor with a rounded border
func NewEditor(width, height int, placeholder string) *Editor {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.Prompt = "┃ "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = theme.Muted()
	ta.Focus()

	e := &Editor{textarea: ta}
	e.SetSize(width, height)
	return e
}

// SetSize updates the editor dimensions
func (e *Editor) SetSize(width, height int) {
	e.width = width
	e.textarea.SetWidth(width - 6)
	e.textarea.SetHeight(height - 2)
}

// Value returns the trimmed text, with terminal OSC replies removed
func (e *Editor) Value() string {
	return strings.TrimSpace(stripOSC(e.textarea.Value()))
}

// stripOSC drops "ESC ] ... BEL" sequences some terminals echo into the input
func stripOSC(s string) string {
	for {
		start := strings.Index(s, "\x1b]")
		if start == -1 {
			return s
		}
		rest := s[start+2:]
		end := strings.IndexAny(rest, "\x07\n")
		if end == -1 {
			return s[:start]
		}
		s = s[:start] + rest[end+1:]
	}
}

// Reset clears the editor
func (e *Editor) Reset() {
	e.textarea.Reset()
}

// Update forwards key input to the textarea
func (e *Editor) Update(msg tea.Msg) (*Editor, tea.Cmd) {
	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)
	return e, cmd
}

// View renders the editor
func (e *Editor) View() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current.BorderFocus).
		Width(e.width - 2).
		Padding(0, 1).
		Render(e.textarea.View())
}
