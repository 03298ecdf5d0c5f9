package agent

import (
	"time"

	"github.com/simonyos/toolrunner/internal/llm"
	"github.com/simonyos/toolrunner/internal/tools"
)

// TurnKind distinguishes the entries of a transcript
type TurnKind string

const (
	TurnMessage  TurnKind = "message"
	TurnToolCall TurnKind = "tool_call"
)

// ToolInvocation records a single tool call and its result
type ToolInvocation struct {
	ID        string
	Name      string
	Arguments map[string]any
	Result    tools.ToolResult
	Duration  time.Duration
}

// Turn is one transcript entry: either a model message or a tool invocation
type Turn struct {
	Kind    TurnKind
	Message string          // set for TurnMessage
	Call    *ToolInvocation // set for TurnToolCall
}

// RunResult is the outcome of one completed run. It is never modified after
// Run returns.
type RunResult struct {
	RunID       string
	Agent       string
	FinalOutput string
	Transcript  []Turn

	// Messages is the full conversation, without the instructions, so a
	// caller can continue it with WithHistory.
	Messages []llm.Message

	// EngineTurns counts the engine calls the run made
	EngineTurns int
}

// ToolCalls returns the tool invocations in the order they were requested
func (r *RunResult) ToolCalls() []ToolInvocation {
	var calls []ToolInvocation
	for _, t := range r.Transcript {
		if t.Kind == TurnToolCall && t.Call != nil {
			calls = append(calls, *t.Call)
		}
	}
	return calls
}

// Outcome is what RunAsync delivers: a result or an error, never both
type Outcome struct {
	Result *RunResult
	Err    error
}
