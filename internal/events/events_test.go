package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonyos/toolrunner/internal/agent"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		event agent.Event
		want  string
	}{
		{agent.Event{RunID: "abc", Kind: agent.EventToolCall}, "toolrunner.runs.abc.tool_call"},
		{agent.Event{RunID: "a.b c", Kind: agent.EventFinal}, "toolrunner.runs.a_b_c.final"},
		{agent.Event{Kind: agent.EventError}, "toolrunner.runs._.error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Subject(tt.event))
	}

	assert.Equal(t, "toolrunner.runs.>", RunSubject(""))
	assert.Equal(t, "toolrunner.runs.r1.>", RunSubject("r1"))
}

func TestMessageEncoding(t *testing.T) {
	e := agent.Event{
		Kind:      agent.EventToolResult,
		RunID:     "run-1",
		Agent:     "Math Solver",
		Turn:      2,
		Tool:      "mul",
		Result:    "126",
		Arguments: map[string]any{"a": 42.0},
	}

	m := NewMessage(e)
	require.NotEmpty(t, m.ID)

	data, err := m.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"tool_result"`)

	decoded, err := DecodeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, m.ID, decoded.ID)
	assert.Equal(t, "mul", decoded.Tool)
	assert.Equal(t, 42.0, decoded.Arguments["a"])

	_, err = DecodeMessage([]byte("{"))
	assert.Error(t, err)
}

func TestPublisher_NotConnected(t *testing.T) {
	var p Publisher
	assert.ErrorIs(t, p.Publish(agent.Event{RunID: "x"}), ErrNotConnected)
	assert.False(t, p.IsConnected())
	assert.NoError(t, p.Close())
	p.HandleEvent(agent.Event{RunID: "x"})
}

func TestPublisher_RoundTrip(t *testing.T) {
	// Skip if NATS isn't running
	cfg := DefaultNATSConfig()
	cfg.ConnectTimeout = time.Second
	pub, err := Connect(cfg)
	if err != nil {
		t.Skipf("NATS not available: %v", err)
	}
	defer pub.Close()

	got := make(chan *Message, 4)
	sub, err := pub.Subscribe("roundtrip", func(m *Message) { got <- m })
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, pub.Flush(time.Second))

	pub.HandleEvent(agent.Event{RunID: "roundtrip", Kind: agent.EventFinal, Text: "126"})
	pub.HandleEvent(agent.Event{RunID: "other", Kind: agent.EventFinal, Text: "ignored"})
	require.NoError(t, pub.Flush(time.Second))

	select {
	case m := <-got:
		assert.Equal(t, agent.EventFinal, m.Kind)
		assert.Equal(t, "126", m.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}

	select {
	case m := <-got:
		t.Fatalf("unexpected event from another run: %+v", m)
	case <-time.After(100 * time.Millisecond):
	}
}
