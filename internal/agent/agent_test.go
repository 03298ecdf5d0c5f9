package agent

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/simonyos/toolrunner/internal/llm"
	"github.com/simonyos/toolrunner/internal/tools"
)

func call(name, args string) llm.ToolCall {
	return llm.ToolCall{Name: name, Arguments: args}
}

func mathAgent(t *testing.T) *Descriptor {
	t.Helper()
	d, err := NewDescriptor("Math Solver", "gpt-4o-mini",
		"You are a helpful math assistant. Use the available functions to solve mathematical problems.",
		tools.MathTools()...)
	if err != nil {
		t.Fatalf("NewDescriptor() error = %v", err)
	}
	return d
}

// recorder collects run events
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) HandleEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// blockingProvider waits for cancellation on every call
type blockingProvider struct {
	started chan struct{}
}

func (p *blockingProvider) Name() string { return "blocking" }

func (p *blockingProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	close(p.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestNewDescriptor(t *testing.T) {
	tests := []struct {
		name         string
		instructions string
		tools        []tools.Tool
		wantErr      bool
	}{
		{"valid", "be helpful", tools.MathTools(), false},
		{"no tools", "be helpful", nil, false},
		{"duplicate tool", "be helpful", []tools.Tool{tools.NewAddTool(), tools.NewAddTool()}, true},
		{"empty instructions", "", tools.MathTools(), true},
		{"blank instructions", "  \n\t", tools.MathTools(), true},
		{"nil tool", "be helpful", []tools.Tool{nil}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDescriptor("agent", "model", tt.instructions, tt.tools...)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("NewDescriptor() error = %v", err)
				}
				if len(d.Tools()) != len(tt.tools) {
					t.Errorf("Tools() len = %d, want %d", len(d.Tools()), len(tt.tools))
				}
				return
			}

			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("NewDescriptor() error = %v, want *ConfigurationError", err)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("error should match ErrConfiguration")
			}
		})
	}
}

func TestDescriptor_Immutable(t *testing.T) {
	ts := tools.MathTools()
	d, err := NewDescriptor("math", "m", "solve", ts...)
	if err != nil {
		t.Fatal(err)
	}

	ts[0] = tools.NewFetchWeatherTool()
	got := d.Tools()
	got[1] = nil

	if names := d.ToolNames(); strings.Join(names, ",") != "add,sub,mul,div" {
		t.Errorf("ToolNames() = %v, want add,sub,mul,div", names)
	}
	if _, ok := d.Tool("fetch_weather"); ok {
		t.Error("descriptor should not see changes to the caller's slice")
	}

	other := d.WithModel("gpt-4o")
	if d.Model() != "m" || other.Model() != "gpt-4o" {
		t.Errorf("WithModel() changed the original: %q / %q", d.Model(), other.Model())
	}
}

func TestRunner_MathScenario(t *testing.T) {
	provider := llm.NewScripted(
		llm.Call(call("add", `{"a": 15, "b": 27}`)),
		llm.Call(call("mul", `{"a": 42, "b": 3}`)),
		llm.Reply("15 + 27 = 42, and 42 multiplied by 3 is 126."),
	)
	runner := NewRunner(provider)

	result, err := runner.Run(context.Background(), mathAgent(t), "What is 15 + 27 multiplied by 3?")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(result.FinalOutput, "126") {
		t.Errorf("FinalOutput = %q, want it to contain 126", result.FinalOutput)
	}
	if result.EngineTurns != 3 {
		t.Errorf("EngineTurns = %d, want 3", result.EngineTurns)
	}

	calls := result.ToolCalls()
	if len(calls) != 2 {
		t.Fatalf("ToolCalls() len = %d, want 2", len(calls))
	}
	if calls[0].Name != "add" || calls[0].Result.Output != "42" {
		t.Errorf("first call = %s -> %q, want add -> 42", calls[0].Name, calls[0].Result.Output)
	}
	if calls[1].Name != "mul" || calls[1].Result.Output != "126" {
		t.Errorf("second call = %s -> %q, want mul -> 126", calls[1].Name, calls[1].Result.Output)
	}

	// the engine sees each result as a tool message tied to its call
	reqs := provider.Requests()
	last := reqs[len(reqs)-1].Messages
	toolMsg := last[len(last)-1]
	if toolMsg.Role != llm.RoleTool || toolMsg.Content != "126" || toolMsg.ToolCallID != calls[1].ID {
		t.Errorf("last message = %+v, want tool result 126 for %s", toolMsg, calls[1].ID)
	}
	if reqs[0].Instructions != mathAgent(t).Instructions() {
		t.Errorf("Instructions = %q", reqs[0].Instructions)
	}
	if len(reqs[0].Tools) != 4 {
		t.Errorf("Tools len = %d, want 4", len(reqs[0].Tools))
	}
}

func TestRunner_DivisionByZeroReported(t *testing.T) {
	provider := llm.NewScripted(
		llm.Call(call("div", `{"a": 10, "b": 0}`)),
		llm.Reply("You cannot divide by zero."),
	)

	result, err := NewRunner(provider).Run(context.Background(), mathAgent(t), "What is 10 / 0?")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	calls := result.ToolCalls()
	if len(calls) != 1 || calls[0].Result.Success {
		t.Fatalf("ToolCalls() = %+v, want one failed div", calls)
	}
	if !errors.Is(calls[0].Result.Err, tools.ErrDivisionByZero) {
		t.Errorf("Result.Err = %v, want ErrDivisionByZero", calls[0].Result.Err)
	}

	msgs := provider.Requests()[1].Messages
	got := msgs[len(msgs)-1]
	if got.Content != "Error: Division by zero is not allowed" || !got.IsError {
		t.Errorf("engine saw %+v", got)
	}
}

func TestRunner_ArgumentErrorsGoBackToEngine(t *testing.T) {
	provider := llm.NewScripted(
		llm.Call(call("add", `{"a": 1}`), call("mul", `not json`)),
		llm.Call(call("add", `{"a": 1, "b": "2"}`)),
		llm.Reply("3"),
	)

	result, err := NewRunner(provider).Run(context.Background(), mathAgent(t), "1+2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	calls := result.ToolCalls()
	if len(calls) != 3 {
		t.Fatalf("ToolCalls() len = %d, want 3", len(calls))
	}
	if !errors.Is(calls[0].Result.Err, tools.ErrMissingArgument) {
		t.Errorf("first call err = %v, want missing argument", calls[0].Result.Err)
	}
	if !errors.Is(calls[1].Result.Err, tools.ErrInvalidArgument) {
		t.Errorf("second call err = %v, want invalid argument", calls[1].Result.Err)
	}
	if !calls[2].Result.Success || calls[2].Result.Output != "3" {
		t.Errorf("retry = %+v, want 3", calls[2].Result)
	}
}

func TestRunner_UnknownToolIsFatal(t *testing.T) {
	var executed atomic.Int32
	counting := tools.NewFuncTool("count", "counts", nil, func(ctx context.Context, args tools.Args) (string, error) {
		executed.Add(1)
		return "ok", nil
	})
	d, err := NewDescriptor("counter", "", "count things", counting)
	if err != nil {
		t.Fatal(err)
	}

	provider := llm.NewScripted(
		llm.Call(call("count", `{}`), call("launch_rockets", `{}`)),
		llm.Reply("done"),
	)

	_, err = NewRunner(provider).Run(context.Background(), d, "go")
	var unknown *UnknownToolError
	if !errors.As(err, &unknown) {
		t.Fatalf("Run() error = %v, want *UnknownToolError", err)
	}
	if unknown.Tool != "launch_rockets" || !errors.Is(err, ErrUnknownTool) {
		t.Errorf("UnknownToolError = %+v", unknown)
	}
	if executed.Load() != 0 {
		t.Errorf("no tool should run in a step with an unknown tool, ran %d", executed.Load())
	}
	if provider.Calls() != 1 {
		t.Errorf("engine calls = %d, want 1 (no retry)", provider.Calls())
	}
}

func TestRunner_EngineError(t *testing.T) {
	boom := errors.New("rate limited")
	provider := llm.NewScripted(llm.Fail(boom))

	_, err := NewRunner(provider).Run(context.Background(), mathAgent(t), "1+1")

	var engErr *EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("Run() error = %v, want *EngineError", err)
	}
	if engErr.Turn != 1 {
		t.Errorf("Turn = %d, want 1", engErr.Turn)
	}
	if !errors.Is(err, ErrEngine) || !errors.Is(err, boom) {
		t.Errorf("error %v should match ErrEngine and the cause", err)
	}
	if provider.Calls() != 1 {
		t.Errorf("engine calls = %d, want 1", provider.Calls())
	}
}

func TestRunner_RunLimit(t *testing.T) {
	provider := llm.NewScripted(llm.Call(call("add", `{"a": 1, "b": 1}`)))
	runner := NewRunner(provider, WithMaxTurns(3))

	_, err := runner.Run(context.Background(), mathAgent(t), "loop forever")

	var limitErr *RunLimitExceededError
	if !errors.As(err, &limitErr) {
		t.Fatalf("Run() error = %v, want *RunLimitExceededError", err)
	}
	if limitErr.Limit != 3 {
		t.Errorf("Limit = %d, want 3", limitErr.Limit)
	}
	if provider.Calls() != 3 {
		t.Errorf("engine calls = %d, want 3", provider.Calls())
	}
}

func TestRunner_DefaultMaxTurns(t *testing.T) {
	if got := NewRunner(llm.NewScripted(), WithMaxTurns(0)).MaxTurns(); got != DefaultMaxTurns {
		t.Errorf("MaxTurns() = %d, want %d", got, DefaultMaxTurns)
	}
}

func TestRunner_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := llm.NewScripted(llm.Reply("never"))
	_, err := NewRunner(provider).Run(ctx, mathAgent(t), "1+1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if provider.Calls() != 0 {
		t.Errorf("engine calls = %d, want 0", provider.Calls())
	}
}

func TestRunner_CancelledDuringEngineCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := &blockingProvider{started: make(chan struct{})}
	outcome := NewRunner(provider).RunAsync(ctx, mathAgent(t), "1+1")

	<-provider.started
	cancel()

	select {
	case o := <-outcome:
		var engErr *EngineError
		if !errors.As(o.Err, &engErr) || !errors.Is(o.Err, context.Canceled) {
			t.Errorf("Err = %v, want EngineError wrapping context.Canceled", o.Err)
		}
		if o.Result != nil {
			t.Error("Result should be nil on failure")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
}

func TestRunner_EngineTimeout(t *testing.T) {
	provider := &blockingProvider{started: make(chan struct{})}
	runner := NewRunner(provider, WithEngineTimeout(20*time.Millisecond))

	_, err := runner.Run(context.Background(), mathAgent(t), "1+1")
	if !errors.Is(err, ErrEngine) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want engine deadline error", err)
	}
}

func TestRunner_ParallelToolsKeepOrder(t *testing.T) {
	var running, peak atomic.Int32
	slow := func(name string, delay time.Duration) tools.Tool {
		return tools.NewFuncTool(name, "sleeps", nil, func(ctx context.Context, args tools.Args) (string, error) {
			n := running.Add(1)
			defer running.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(delay)
			return name, nil
		})
	}
	d, err := NewDescriptor("sleepy", "", "sleep",
		slow("slowest", 60*time.Millisecond),
		slow("medium", 30*time.Millisecond),
		slow("fast", time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}

	provider := llm.NewScripted(
		llm.Call(call("slowest", "{}"), call("medium", "{}"), call("fast", "{}")),
		llm.Reply("done"),
	)
	result, err := NewRunner(provider, WithParallelTools(3)).Run(context.Background(), d, "go")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var order []string
	for _, c := range result.ToolCalls() {
		order = append(order, c.Result.Output)
	}
	if strings.Join(order, ",") != "slowest,medium,fast" {
		t.Errorf("results order = %v, want request order", order)
	}
	if peak.Load() < 2 {
		t.Errorf("peak concurrency = %d, want at least 2", peak.Load())
	}

	msgs := provider.Requests()[1].Messages
	tail := msgs[len(msgs)-3:]
	for i, want := range []string{"slowest", "medium", "fast"} {
		if tail[i].Content != want {
			t.Errorf("engine message %d = %q, want %q", i, tail[i].Content, want)
		}
	}
}

func TestRunner_WithHistory(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a concise talking male guy, you talk in bullet points"},
		{Role: llm.RoleUser, Content: "your name is alpha"},
		{Role: llm.RoleAssistant, Content: "ok!"},
	}
	d, err := NewDescriptor("chat", "", "You are a concise talking male guy, you talk in bullet points")
	if err != nil {
		t.Fatal(err)
	}

	provider := llm.NewScripted(llm.Reply("- alpha"))
	result, err := NewRunner(provider).Run(context.Background(), d, "what is your name?", WithHistory(history))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	sent := provider.Requests()[0].Messages
	if len(sent) != 3 {
		t.Fatalf("sent %d messages, want 3 (system dropped)", len(sent))
	}
	if sent[0].Content != "your name is alpha" || sent[2].Content != "what is your name?" {
		t.Errorf("sent = %+v", sent)
	}
	if len(result.Messages) != 4 || result.Messages[3].Content != "- alpha" {
		t.Errorf("Messages = %+v", result.Messages)
	}

	history[1].Content = "changed"
	if result.Messages[0].Content != "your name is alpha" {
		t.Error("result should not alias the caller's history")
	}
}

func TestRunner_Events(t *testing.T) {
	rec := &recorder{}
	provider := llm.NewScripted(
		llm.Call(call("add", `{"a": 1, "b": 2}`)),
		llm.Reply("3"),
	)

	result, err := NewRunner(provider, WithEventHandler(rec)).Run(context.Background(), mathAgent(t), "1+2", WithRunID("run-1"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", result.RunID)
	}

	want := []EventKind{EventRunStart, EventThinking, EventToolCall, EventToolResult, EventThinking, EventFinal}
	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
	for _, e := range rec.events {
		if e.RunID != "run-1" || e.Agent != "Math Solver" {
			t.Errorf("event %s missing run metadata: %+v", e.Kind, e)
		}
	}
}

func TestRunner_RunStream(t *testing.T) {
	provider := llm.NewScripted(
		llm.Call(call("mul", `{"a": 6, "b": 7}`)),
		llm.Reply("42"),
	)

	var types []string
	var final StreamEvent
	for ev := range NewRunner(provider).RunStream(context.Background(), mathAgent(t), "6*7") {
		types = append(types, ev.Type)
		final = ev
	}

	if got := strings.Join(types, ","); got != "start,thinking,tool_start,tool_result,thinking,done" {
		t.Errorf("stream = %s", got)
	}
	if final.FinalResponse != "42" || final.Result == nil {
		t.Errorf("final event = %+v", final)
	}
}

func TestRunner_ClassifierEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDescriptor("FileClassifier", "gpt-4o-mini", "classify files", tools.FileTools()...)
	if err != nil {
		t.Fatal(err)
	}

	provider := llm.NewScripted(
		llm.Call(call("list_files", `{"directory": "`+dir+`"}`)),
		llm.Reply("No .txt files found, nothing to classify."),
	)
	result, err := NewRunner(provider).Run(context.Background(), d, "Please classify all .txt files in the directory: "+dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	calls := result.ToolCalls()
	if len(calls) != 1 || calls[0].Result.Output != "No .txt files found in "+dir {
		t.Fatalf("ToolCalls() = %+v", calls)
	}
	for _, c := range calls {
		if c.Name == "copy_file" {
			t.Error("no file should be copied")
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory changed: %d entries", len(entries))
	}
}

func TestSanitizeArgs(t *testing.T) {
	long := strings.Repeat("x", maxLoggedArgLen+50)
	got := sanitizeArgs(map[string]any{"content": long, "n": 3})

	s, _ := got["content"].(string)
	if len(s) != maxLoggedArgLen+3 || !strings.HasSuffix(s, "...") {
		t.Errorf("content not truncated: %d chars", len(s))
	}
	if got["n"] != 3 {
		t.Errorf("n = %v, want 3", got["n"])
	}
}
