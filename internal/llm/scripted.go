package llm

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Step is one scripted engine turn: a response or a failure
type Step struct {
	Response *Response
	Err      error
}

// Reply scripts a final text answer
func Reply(content string) Step {
	return Step{Response: &Response{Content: content, FinishReason: "stop"}}
}

// Call scripts a turn requesting the given tool calls
func Call(calls ...ToolCall) Step {
	return Step{Response: &Response{ToolCalls: calls, FinishReason: "tool_calls"}}
}

// Fail scripts an engine failure
func Fail(err error) Step {
	return Step{Err: err}
}

// Scripted is a deterministic Provider that replays a fixed list of steps.
// It records every request so callers can inspect what the engine was sent.
// Once the script is exhausted the last step is repeated.
type Scripted struct {
	mu       sync.Mutex
	steps    []Step
	next     int
	requests []Request
}

// NewScripted creates a scripted provider
func NewScripted(steps ...Step) *Scripted {
	return &Scripted{steps: steps}
}

// Name returns the provider name
func (s *Scripted) Name() string {
	return "scripted"
}

// Complete returns the next scripted step
func (s *Scripted) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req.Messages = CloneMessages(req.Messages)
	s.requests = append(s.requests, req)

	if len(s.steps) == 0 {
		return &Response{FinishReason: "stop"}, nil
	}

	idx := s.next
	if idx >= len(s.steps) {
		idx = len(s.steps) - 1
	} else {
		s.next++
	}

	step := s.steps[idx]
	if step.Err != nil {
		return nil, step.Err
	}

	resp := *step.Response
	resp.ToolCalls = make([]ToolCall, len(step.Response.ToolCalls))
	for i, call := range step.Response.ToolCalls {
		if call.ID == "" {
			call.ID = "call_" + uuid.NewString()[:8]
		}
		resp.ToolCalls[i] = call
	}
	return &resp, nil
}

// Requests returns every request received so far
func (s *Scripted) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Calls returns the number of Complete calls made
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
