package agent

import "time"

// EventKind names a point in the run lifecycle
type EventKind string

const (
	EventRunStart   EventKind = "start"
	EventThinking   EventKind = "thinking"
	EventMessage    EventKind = "message"
	EventToolCall   EventKind = "tool_call"
	EventToolResult EventKind = "tool_result"
	EventFinal      EventKind = "final"
	EventError      EventKind = "error"
)

// Event is emitted by the runner while a run progresses
type Event struct {
	Kind  EventKind `json:"kind"`
	RunID string    `json:"run_id"`
	Agent string    `json:"agent"`
	Turn  int       `json:"turn,omitempty"`
	Time  time.Time `json:"time"`

	// Prompt is set on start
	Prompt string `json:"prompt,omitempty"`

	// Text is the model text for message and final events
	Text string `json:"text,omitempty"`

	// Tool fields are set on tool_call and tool_result
	Tool      string         `json:"tool,omitempty"`
	CallID    string         `json:"call_id,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    string         `json:"result,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`

	// Error is set on error events
	Error string `json:"error,omitempty"`
}

// EventHandler receives callbacks during agent execution. Events of one run
// arrive in order on the run goroutine; a handler shared by concurrent runs
// must be safe for concurrent use.
type EventHandler interface {
	HandleEvent(Event)
}

// EventHandlerFunc adapts a function to EventHandler
type EventHandlerFunc func(Event)

func (f EventHandlerFunc) HandleEvent(e Event) { f(e) }

type multiHandler []EventHandler

func (m multiHandler) HandleEvent(e Event) {
	for _, h := range m {
		h.HandleEvent(e)
	}
}

// Handlers combines several handlers into one; nil handlers are skipped
func Handlers(hs ...EventHandler) EventHandler {
	var out multiHandler
	for _, h := range hs {
		if h != nil {
			out = append(out, h)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}
