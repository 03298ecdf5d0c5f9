package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/toolrunner/internal/tui/theme"
)

// Role of a chat entry
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
	RoleError     Role = "error"
)

// Message is one entry of the chat log
type Message struct {
	Role     Role
	Content  string
	ToolName string
	ToolArgs string
	Pending  bool // tool call still waiting for its result
	Failed   bool
}

const maxToolOutput = 300

// NewRenderer returns a markdown renderer with a fixed dark style, so the
// terminal is never queried for its background color.
func NewRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(width-10, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

// RenderMarkdown renders md, falling back to the raw text
func RenderMarkdown(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// Messages is the scrollable chat log
type Messages struct {
	viewport viewport.Model
	messages []Message
	renderer *glamour.TermRenderer
	width    int
	welcome  string
}

// NewMessages creates a chat log of the given size
func NewMessages(width, height int, welcome string) *Messages {
	m := &Messages{
		viewport: viewport.New(width, height),
		renderer: NewRenderer(width),
		width:    width,
		welcome:  welcome,
	}
	m.refresh()
	return m
}

// SetSize updates the component dimensions
func (m *Messages) SetSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = height
	m.renderer = NewRenderer(width)
	m.refresh()
}

// Add appends an entry
func (m *Messages) Add(msg Message) {
	m.messages = append(m.messages, msg)
	m.refresh()
}

// Clear removes all entries
func (m *Messages) Clear() {
	m.messages = nil
	m.refresh()
}

// Len returns the number of entries
func (m *Messages) Len() int { return len(m.messages) }

// Entries returns a copy of the log
func (m *Messages) Entries() []Message {
	return append([]Message(nil), m.messages...)
}

// CompleteTool fills in the result of the oldest pending call to name
func (m *Messages) CompleteTool(name, result string, failed bool) {
	for i := range m.messages {
		msg := &m.messages[i]
		if msg.Role == RoleTool && msg.Pending && msg.ToolName == name {
			msg.Content = result
			msg.Pending = false
			msg.Failed = failed
			break
		}
	}
	m.refresh()
}

// Viewport exposes the viewport for scroll input
func (m *Messages) Viewport() *viewport.Model {
	return &m.viewport
}

func (m *Messages) refresh() {
	if len(m.messages) == 0 {
		m.viewport.SetContent(m.welcome)
		return
	}

	t := theme.Current
	width := m.width - 4
	body := lipgloss.NewStyle().Foreground(t.Text).PaddingLeft(2).Width(width)

	var sb strings.Builder
	for _, msg := range m.messages {
		switch msg.Role {
		case RoleUser:
			sb.WriteString(lipgloss.NewStyle().Foreground(t.User).Bold(true).Render("◉ You") + "\n")
			sb.WriteString(body.Render(msg.Content) + "\n\n")

		case RoleAssistant:
			sb.WriteString(theme.Title().Render("⚡ Assistant") + "\n")
			sb.WriteString(body.Render(RenderMarkdown(m.renderer, msg.Content)) + "\n\n")

		case RoleTool:
			sb.WriteString("  " + toolIcon(msg) + " " + theme.Muted().Bold(true).Render(msg.ToolName))
			if msg.ToolArgs != "" {
				sb.WriteString(theme.Muted().Render(" → " + msg.ToolArgs))
			}
			sb.WriteString("\n")
			if !msg.Pending && msg.Content != "" {
				out := msg.Content
				if len(out) > maxToolOutput {
					out = out[:maxToolOutput] + "\n⋯ (truncated)"
				}
				sb.WriteString(theme.Muted().PaddingLeft(4).Width(width-6).Render(out) + "\n")
			}
			sb.WriteString("\n")

		case RoleSystem:
			sb.WriteString(theme.Muted().Italic(true).Render("ℹ "+msg.Content) + "\n\n")

		case RoleError:
			sb.WriteString(theme.Failure().Render("✗ "+msg.Content) + "\n\n")
		}
	}

	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func toolIcon(msg Message) string {
	switch {
	case msg.Pending:
		return theme.Running().Render("◐")
	case msg.Failed:
		return theme.Failure().Render("✗")
	default:
		return theme.Success().Render("✓")
	}
}

// View renders the chat log
func (m *Messages) View() string {
	return m.viewport.View()
}
