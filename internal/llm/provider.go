package llm

import "context"

// Message roles understood by every provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system", "tool"
	Content string `json:"content"`

	// ToolCalls is set on assistant messages that request tool invocations
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID and Name are set on tool result messages
	ToolCallID string `json:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty"`
	IsError    bool   `json:"is_error,omitempty"`
}

// Request is everything the reasoning engine sees for one turn
type Request struct {
	Model        string
	Instructions string
	Messages     []Message
	Tools        []ToolSpec
}

// Response is the engine's answer for one turn: either final text or tool calls
type Response struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}

// Done reports whether the response is a final answer
func (r *Response) Done() bool {
	return len(r.ToolCalls) == 0
}

// Provider is the interface for LLM backends
type Provider interface {
	// Name identifies the backend in logs and the CLI
	Name() string

	// Complete sends one request and returns the engine's response
	Complete(ctx context.Context, req Request) (*Response, error)
}
