package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonyos/toolrunner/internal/agent"
	"github.com/simonyos/toolrunner/internal/llm"
	"github.com/simonyos/toolrunner/internal/prompts"
	"github.com/simonyos/toolrunner/internal/tools"
	"github.com/simonyos/toolrunner/internal/tui/components"
)

func mathDescriptor(t *testing.T) *agent.Descriptor {
	t.Helper()
	d, err := agent.NewDescriptor("Math Solver", "", prompts.MathInstructions, tools.MathTools()...)
	require.NoError(t, err)
	return d
}

func sized(t *testing.T, m Chat) Chat {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Chat)
}

// drive runs one prompt to completion by pumping the stream synchronously
func drive(t *testing.T, m Chat, prompt string) Chat {
	t.Helper()
	updated, _ := m.Update(m.send(prompt)())
	m = updated.(Chat)
	for m.events != nil {
		updated, _ = m.Update(next(m.events)())
		m = updated.(Chat)
	}
	return m
}

func TestFormatArgs(t *testing.T) {
	assert.Equal(t, "", FormatArgs(nil))
	assert.Equal(t, `a=15, b=27, name="x"`, FormatArgs(map[string]any{"b": 27, "a": 15, "name": "x"}))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", firstLine("  one \n"))
	assert.Equal(t, "Found 2 .txt files: …", firstLine("Found 2 .txt files:\na.txt\nb.txt"))
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, WithVerbose(true))

	p.HandleEvent(agent.Event{Kind: agent.EventRunStart, Agent: "Math Solver", Prompt: "1+1"})
	p.HandleEvent(agent.Event{Kind: agent.EventThinking, Turn: 1})
	p.HandleEvent(agent.Event{Kind: agent.EventToolCall, Tool: "add", Arguments: map[string]any{"a": 1, "b": 1}})
	p.HandleEvent(agent.Event{Kind: agent.EventToolResult, Tool: "add", Result: "2"})
	p.HandleEvent(agent.Event{Kind: agent.EventToolResult, Tool: "div", Result: "Error: Division by zero is not allowed", IsError: true})
	p.HandleEvent(agent.Event{Kind: agent.EventError, Error: "engine error"})
	p.Final("The answer is 2")

	out := buf.String()
	for _, want := range []string{"Math Solver", "turn 1", "add", "a=1, b=1", "✓ add: 2", "✗ div", "✗ engine error", "The answer is 2"} {
		assert.Contains(t, out, want)
	}
}

func TestPrinterQuiet(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, WithMarkdown(80))
	p.HandleEvent(agent.Event{Kind: agent.EventThinking, Turn: 1})
	assert.Empty(t, buf.String())

	p.Final("**bold** answer")
	assert.Contains(t, buf.String(), "answer")
}

func TestChat_Conversation(t *testing.T) {
	provider := llm.NewScripted(
		llm.Call(llm.ToolCall{ID: "c1", Name: "add", Arguments: `{"a": 2, "b": 3}`}),
		llm.Reply("2 + 3 = 5"),
		llm.Reply("Yes, still 5"),
	)
	runner := agent.NewRunner(provider)
	m := sized(t, NewChat(context.Background(), runner, mathDescriptor(t), prompts.PrimedHistory()))

	m = drive(t, m, "what is 2 + 3?")
	assert.False(t, m.thinking)

	entries := m.messages.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, components.RoleTool, entries[0].Role)
	assert.Equal(t, "add", entries[0].ToolName)
	assert.False(t, entries[0].Pending)
	assert.Equal(t, "5", entries[0].Content)
	assert.Equal(t, "2 + 3 = 5", entries[1].Content)

	// primed history, prompt, tool call, tool result, answer
	assert.Len(t, m.History(), len(prompts.PrimedHistory())+4)

	m = drive(t, m, "are you sure?")
	reqs := provider.Requests()
	require.Len(t, reqs, 3)
	assert.Len(t, reqs[2].Messages, len(prompts.PrimedHistory())+5)
	assert.Equal(t, "are you sure?", reqs[2].Messages[len(reqs[2].Messages)-1].Content)
}

func TestChat_Error(t *testing.T) {
	runner := agent.NewRunner(llm.NewScripted(llm.Fail(errors.New("rate limited"))))
	m := sized(t, NewChat(context.Background(), runner, mathDescriptor(t), nil))

	m = drive(t, m, "hello")

	entries := m.messages.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, components.RoleError, entries[0].Role)
	assert.Contains(t, entries[0].Content, "rate limited")
	assert.Empty(t, m.History())
}

func TestChat_Commands(t *testing.T) {
	runner := agent.NewRunner(llm.NewScripted(llm.Reply("hi")))
	m := sized(t, NewChat(context.Background(), runner, mathDescriptor(t), prompts.PrimedHistory()))
	m = drive(t, m, "hello")
	require.Len(t, m.History(), len(prompts.PrimedHistory())+2)

	updated, _ := m.command("/reset")
	m = updated.(Chat)
	assert.Equal(t, prompts.PrimedHistory(), m.History())

	updated, _ = m.command("/tools")
	m = updated.(Chat)
	entries := m.messages.Entries()
	assert.Equal(t, "Tools: add, sub, mul, div", entries[len(entries)-1].Content)

	updated, _ = m.command("/bogus")
	m = updated.(Chat)
	entries = m.messages.Entries()
	assert.Equal(t, components.RoleError, entries[len(entries)-1].Role)

	_, cmd := m.command("/quit")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestChat_EnterStartsRun(t *testing.T) {
	runner := agent.NewRunner(llm.NewScripted(llm.Reply("hi")))
	m := sized(t, NewChat(context.Background(), runner, mathDescriptor(t), nil))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello")})
	m = updated.(Chat)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Chat)

	assert.NotNil(t, cmd)
	assert.True(t, m.thinking)
	assert.Equal(t, "hello", m.messages.Entries()[0].Content)
	assert.Contains(t, m.View(), "Thinking")
}
