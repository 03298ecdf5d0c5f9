// Package tui provides the interactive chat and the styled progress output of the CLI
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/toolrunner/internal/agent"
	"github.com/simonyos/toolrunner/internal/llm"
	"github.com/simonyos/toolrunner/internal/tui/components"
	"github.com/simonyos/toolrunner/internal/tui/theme"
)

const (
	statusHeight = 1
	editorHeight = 5
)

type streamOpenedMsg struct {
	events <-chan agent.StreamEvent
}

type streamEventMsg struct {
	event agent.StreamEvent
}

type streamClosedMsg struct{}

// Chat is a multi-turn conversation with one agent. Each prompt is a run
// seeded with the messages of the earlier runs.
type Chat struct {
	ctx     context.Context
	runner  *agent.Runner
	desc    *agent.Descriptor
	initial []llm.Message
	history []llm.Message

	messages *components.Messages
	editor   *components.Editor
	status   *components.Status
	spinner  spinner.Model

	width, height int
	ready         bool
	thinking      bool
	events        <-chan agent.StreamEvent
}

// NewChat creates a chat starting from history
func NewChat(ctx context.Context, runner *agent.Runner, desc *agent.Descriptor, history []llm.Message) Chat {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Current.Primary)

	return Chat{
		ctx:     ctx,
		runner:  runner,
		desc:    desc,
		initial: llm.CloneMessages(history),
		history: llm.CloneMessages(history),
		status:  &components.Status{Width: 80, Agent: desc.Name(), Model: desc.Model()},
		spinner: sp,
	}
}

// RunChat runs the chat full screen until the user quits or ctx ends
func RunChat(ctx context.Context, runner *agent.Runner, desc *agent.Descriptor, history []llm.Message) error {
	p := tea.NewProgram(NewChat(ctx, runner, desc, history), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// History returns the conversation so far
func (m Chat) History() []llm.Message {
	return llm.CloneMessages(m.history)
}

func (m Chat) Init() tea.Cmd {
	return nil
}

func (m Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.thinking || m.editor == nil {
				return m, nil
			}
			input := m.editor.Value()
			m.editor.Reset()
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, "/") {
				return m.command(input)
			}
			m.messages.Add(components.Message{Role: components.RoleUser, Content: input})
			m.thinking = true
			m.status.Thinking = true
			m.status.Turn = 0
			return m, tea.Batch(m.spinner.Tick, m.send(input))
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		msgHeight := max(m.height-statusHeight-editorHeight, 1)
		if !m.ready {
			m.messages = components.NewMessages(m.width, msgHeight, m.welcome())
			m.editor = components.NewEditor(m.width, editorHeight, "Ask "+m.desc.Name()+"...")
			m.ready = true
		} else {
			m.messages.SetSize(m.width, msgHeight)
			m.editor.SetSize(m.width, editorHeight)
		}
		m.status.Width = m.width

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case streamOpenedMsg:
		m.events = msg.events
		cmds = append(cmds, next(m.events))

	case streamEventMsg:
		m.apply(msg.event)
		if m.events != nil {
			cmds = append(cmds, next(m.events))
		}

	case streamClosedMsg:
		m.finish()
	}

	if !m.thinking && m.editor != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	if m.messages != nil {
		vp := m.messages.Viewport()
		var cmd tea.Cmd
		*vp, cmd = vp.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// apply folds one stream event into the view and the history
func (m *Chat) apply(ev agent.StreamEvent) {
	switch ev.Type {
	case "thinking":
		m.status.Turn = ev.Turn
	case "message":
		m.messages.Add(components.Message{Role: components.RoleAssistant, Content: ev.Text})
	case "tool_start":
		m.messages.Add(components.Message{
			Role:     components.RoleTool,
			ToolName: ev.ToolName,
			ToolArgs: FormatArgs(ev.ToolArgs),
			Pending:  true,
		})
	case "tool_result":
		m.messages.CompleteTool(ev.ToolName, ev.ToolResult, ev.ToolError)
	case "done":
		if ev.Result != nil {
			m.history = ev.Result.Messages
		}
		m.messages.Add(components.Message{Role: components.RoleAssistant, Content: ev.FinalResponse})
		m.finish()
	case "error":
		m.messages.Add(components.Message{Role: components.RoleError, Content: ev.Error.Error()})
		m.finish()
	}
}

func (m *Chat) finish() {
	m.thinking = false
	m.status.Thinking = false
	m.events = nil
}

func (m Chat) send(prompt string) tea.Cmd {
	history := m.History()
	return func() tea.Msg {
		return streamOpenedMsg{events: m.runner.RunStream(m.ctx, m.desc, prompt, agent.WithHistory(history))}
	}
}

func next(events <-chan agent.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return streamEventMsg{event: ev}
	}
}

// command handles slash commands
func (m Chat) command(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit", "/q":
		return m, tea.Quit
	case "/clear":
		m.messages.Clear()
	case "/reset":
		m.history = llm.CloneMessages(m.initial)
		m.messages.Clear()
		m.messages.Add(components.Message{Role: components.RoleSystem, Content: "Conversation reset."})
	case "/tools":
		names := m.desc.ToolNames()
		content := "No tools."
		if len(names) > 0 {
			content = "Tools: " + strings.Join(names, ", ")
		}
		m.messages.Add(components.Message{Role: components.RoleSystem, Content: content})
	default:
		m.messages.Add(components.Message{Role: components.RoleError, Content: "Unknown command: " + input})
	}
	return m, nil
}

func (m Chat) welcome() string {
	var sb strings.Builder
	sb.WriteString(theme.Title().Render("⚡ "+m.desc.Name()) + "\n\n")
	sb.WriteString(theme.Muted().Render(m.desc.Instructions()) + "\n\n")
	if len(m.initial) > 0 {
		sb.WriteString(theme.Muted().Italic(true).Render("Primed with earlier messages.") + "\n")
	}
	return sb.String()
}

func (m Chat) View() string {
	if !m.ready {
		return "Loading..."
	}

	log := m.messages.View()
	if m.thinking {
		log += "\n" + m.spinner.View() + " Thinking..."
	}
	log = lipgloss.NewStyle().Height(max(m.height-statusHeight-editorHeight, 1)).Render(log)

	return lipgloss.JoinVertical(lipgloss.Left, log, m.editor.View(), m.status.View())
}
