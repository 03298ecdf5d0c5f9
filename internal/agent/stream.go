package agent

import "context"

// StreamEvent represents events during a streamed run
type StreamEvent struct {
	Type string // "start", "thinking", "message", "tool_start", "tool_result", "done", "error"

	Turn int

	// For message events
	Text string

	// For tool events
	ToolName   string
	ToolArgs   map[string]any
	ToolResult string
	ToolError  bool

	// For done event
	FinalResponse string
	Result        *RunResult

	// For error event
	Error error
}

// RunStream runs the descriptor and streams progress through a channel. The
// last event is "done" or "error" unless ctx is cancelled first; the channel
// is closed afterwards. The caller must drain the channel or cancel ctx.
func (r *Runner) RunStream(ctx context.Context, d *Descriptor, prompt string, opts ...RunOption) <-chan StreamEvent {
	events := make(chan StreamEvent)

	send := func(ev StreamEvent) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	forward := EventHandlerFunc(func(e Event) {
		switch e.Kind {
		case EventRunStart:
			send(StreamEvent{Type: "start"})
		case EventThinking:
			send(StreamEvent{Type: "thinking", Turn: e.Turn})
		case EventMessage:
			send(StreamEvent{Type: "message", Turn: e.Turn, Text: e.Text})
		case EventToolCall:
			send(StreamEvent{Type: "tool_start", Turn: e.Turn, ToolName: e.Tool, ToolArgs: e.Arguments})
		case EventToolResult:
			send(StreamEvent{Type: "tool_result", Turn: e.Turn, ToolName: e.Tool, ToolResult: e.Result, ToolError: e.IsError})
		}
	})

	go func() {
		defer close(events)

		runOpts := append(append([]RunOption(nil), opts...), WithRunEventHandler(forward))
		res, err := r.Run(ctx, d, prompt, runOpts...)
		if err != nil {
			send(StreamEvent{Type: "error", Error: err})
			return
		}
		send(StreamEvent{Type: "done", FinalResponse: res.FinalOutput, Result: res})
	}()

	return events
}
