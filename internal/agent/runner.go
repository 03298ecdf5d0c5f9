package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/simonyos/toolrunner/internal/llm"
	"github.com/simonyos/toolrunner/internal/tools"
)

// DefaultMaxTurns bounds the engine calls of a run
const DefaultMaxTurns = 10

// Runner drives descriptors against a reasoning engine. A Runner holds no
// per-run state and may run many descriptors concurrently.
type Runner struct {
	provider      llm.Provider
	maxTurns      int
	parallel      int
	engineTimeout time.Duration
	handler       EventHandler
	logger        zerolog.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithMaxTurns sets the number of engine calls after which a run fails with
// RunLimitExceededError. Values below 1 keep the default.
func WithMaxTurns(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxTurns = n
		}
	}
}

// WithParallelTools lets up to n tool calls of one engine step execute
// concurrently. Results are still returned to the engine in request order.
func WithParallelTools(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.parallel = n
		}
	}
}

// WithEngineTimeout bounds each engine call
func WithEngineTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.engineTimeout = d
	}
}

// WithEventHandler sets the callback handler for run events
func WithEventHandler(h EventHandler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithLogger replaces the global zerolog logger
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a runner for the given provider
func NewRunner(provider llm.Provider, opts ...Option) *Runner {
	r := &Runner{
		provider: provider,
		maxTurns: DefaultMaxTurns,
		parallel: 1,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxTurns returns the configured turn bound
func (r *Runner) MaxTurns() int { return r.maxTurns }

type runConfig struct {
	history []llm.Message
	runID   string
	handler EventHandler
}

// RunOption configures a single run
type RunOption func(*runConfig)

// WithHistory seeds the conversation with earlier messages. System messages
// in the history are dropped; the descriptor's instructions always apply.
func WithHistory(msgs []llm.Message) RunOption {
	return func(c *runConfig) {
		c.history = msgs
	}
}

// WithRunID overrides the generated run ID
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}

// WithRunEventHandler adds a handler for this run only
func WithRunEventHandler(h EventHandler) RunOption {
	return func(c *runConfig) {
		c.handler = Handlers(c.handler, h)
	}
}

// run is the state of one Run call
type run struct {
	*Runner
	desc    *Descriptor
	id      string
	handler EventHandler
	log     zerolog.Logger

	messages   []llm.Message
	transcript []Turn
}

// Run executes the descriptor against the prompt and blocks until the
// engine produces a final answer or the run fails.
func (r *Runner) Run(ctx context.Context, d *Descriptor, prompt string, opts ...RunOption) (*RunResult, error) {
	if d == nil {
		return nil, &ConfigurationError{Reason: "descriptor is nil"}
	}

	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}

	st := &run{
		Runner:  r,
		desc:    d,
		id:      cfg.runID,
		handler: Handlers(r.handler, cfg.handler),
		log:     r.logger.With().Str("run_id", cfg.runID).Str("agent", d.Name()).Logger(),
	}
	for _, m := range cfg.history {
		if m.Role != llm.RoleSystem {
			st.messages = append(st.messages, m)
		}
	}
	st.messages = llm.CloneMessages(st.messages)
	st.messages = append(st.messages, llm.Message{Role: llm.RoleUser, Content: prompt})

	st.log.Info().Str("provider", r.provider.Name()).Str("model", d.Model()).Int("history", len(cfg.history)).Msg("run started")
	st.emit(Event{Kind: EventRunStart, Prompt: prompt})

	result, err := st.loop(ctx)
	if err != nil {
		st.log.Error().Err(err).Msg("run failed")
		st.emit(Event{Kind: EventError, Error: err.Error()})
		return nil, err
	}

	st.log.Info().Int("engine_turns", result.EngineTurns).Int("tool_calls", len(result.ToolCalls())).Msg("run finished")
	st.emit(Event{Kind: EventFinal, Turn: result.EngineTurns, Text: result.FinalOutput})
	return result, nil
}

// RunAsync starts the run in a goroutine. The returned channel yields exactly
// one Outcome and is then closed.
func (r *Runner) RunAsync(ctx context.Context, d *Descriptor, prompt string, opts ...RunOption) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		res, err := r.Run(ctx, d, prompt, opts...)
		out <- Outcome{Result: res, Err: err}
	}()
	return out
}

func (st *run) loop(ctx context.Context) (*RunResult, error) {
	specs := st.desc.Specs()

	for turn := 1; turn <= st.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		st.emit(Event{Kind: EventThinking, Turn: turn})
		resp, err := st.complete(ctx, llm.Request{
			Model:        st.desc.Model(),
			Instructions: st.desc.Instructions(),
			Messages:     st.messages,
			Tools:        specs,
		})
		if err != nil {
			return nil, &EngineError{Turn: turn, Err: err}
		}
		st.log.Debug().Int("turn", turn).Int("tool_calls", len(resp.ToolCalls)).Str("finish_reason", resp.FinishReason).Msg("engine responded")

		if resp.Done() {
			st.messages = append(st.messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
			st.transcript = append(st.transcript, Turn{Kind: TurnMessage, Message: resp.Content})
			return &RunResult{
				RunID:       st.id,
				Agent:       st.desc.Name(),
				FinalOutput: resp.Content,
				Transcript:  st.transcript,
				Messages:    st.messages,
				EngineTurns: turn,
			}, nil
		}

		st.messages = append(st.messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		if resp.Content != "" {
			st.transcript = append(st.transcript, Turn{Kind: TurnMessage, Message: resp.Content})
			st.emit(Event{Kind: EventMessage, Turn: turn, Text: resp.Content})
		}

		invocations, err := st.executeTools(ctx, turn, resp.ToolCalls)
		if err != nil {
			return nil, err
		}
		for i := range invocations {
			inv := &invocations[i]
			st.transcript = append(st.transcript, Turn{Kind: TurnToolCall, Call: inv})
			st.messages = append(st.messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    inv.Result.String(),
				ToolCallID: inv.ID,
				Name:       inv.Name,
				IsError:    !inv.Result.Success,
			})
		}
	}

	return nil, &RunLimitExceededError{Limit: st.maxTurns}
}

// complete performs one engine call under the configured timeout
func (st *run) complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if st.engineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, st.engineTimeout)
		defer cancel()
	}

	resp, err := st.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%s returned no response", st.provider.Name())
	}
	return resp, nil
}

// pendingCall is a resolved tool call waiting to execute
type pendingCall struct {
	tool tools.Tool
	inv  ToolInvocation
	bad  error // argument payload could not be decoded
}

// executeTools resolves every call first, so an unknown tool fails the run
// before any tool of the step has side effects. Results keep request order.
func (st *run) executeTools(ctx context.Context, turn int, calls []llm.ToolCall) ([]ToolInvocation, error) {
	pending := make([]pendingCall, len(calls))
	for i, call := range calls {
		tool, ok := st.desc.Tool(call.Name)
		if !ok {
			return nil, &UnknownToolError{Agent: st.desc.Name(), Tool: call.Name, Available: st.desc.ToolNames()}
		}
		args, err := call.ParseArguments()
		if err != nil {
			err = tools.MalformedArguments(call.Name, err)
		}
		pending[i] = pendingCall{
			tool: tool,
			inv:  ToolInvocation{ID: call.ID, Name: call.Name, Arguments: args},
			bad:  err,
		}
	}

	for _, p := range pending {
		st.log.Debug().Int("turn", turn).Str("tool", p.inv.Name).Interface("args", sanitizeArgs(p.inv.Arguments)).Msg("tool call")
		st.emit(Event{Kind: EventToolCall, Turn: turn, Tool: p.inv.Name, CallID: p.inv.ID, Arguments: p.inv.Arguments})
	}

	if st.parallel > 1 && len(pending) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(st.parallel)
		for i := range pending {
			p := &pending[i]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				st.invoke(gctx, p)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range pending {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			st.invoke(ctx, &pending[i])
		}
	}

	out := make([]ToolInvocation, len(pending))
	for i, p := range pending {
		out[i] = p.inv
		ev := st.log.Debug()
		if !p.inv.Result.Success {
			ev = st.log.Warn()
		}
		ev.Int("turn", turn).Str("tool", p.inv.Name).Bool("success", p.inv.Result.Success).Dur("duration", p.inv.Duration).Msg("tool result")
		st.emit(Event{
			Kind:    EventToolResult,
			Turn:    turn,
			Tool:    p.inv.Name,
			CallID:  p.inv.ID,
			Result:  p.inv.Result.String(),
			IsError: !p.inv.Result.Success,
		})
	}
	return out, nil
}

func (st *run) invoke(ctx context.Context, p *pendingCall) {
	start := time.Now()
	if p.bad != nil {
		p.inv.Result = tools.Failed(p.bad)
	} else {
		p.inv.Result = tools.Invoke(ctx, p.tool, p.inv.Arguments)
	}
	p.inv.Duration = time.Since(start)
}

func (st *run) emit(e Event) {
	if st.handler == nil {
		return
	}
	e.RunID = st.id
	e.Agent = st.desc.Name()
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	st.handler.HandleEvent(e)
}

const maxLoggedArgLen = 120

// sanitizeArgs shortens long string arguments for logging
func sanitizeArgs(args map[string]any) map[string]any {
	if len(args) == 0 {
		return args
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > maxLoggedArgLen {
			v = s[:maxLoggedArgLen] + "..."
		}
		out[k] = v
	}
	return out
}
