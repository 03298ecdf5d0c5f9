package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/simonyos/toolrunner/internal/agent"
	"github.com/simonyos/toolrunner/internal/config"
	"github.com/simonyos/toolrunner/internal/events"
	"github.com/simonyos/toolrunner/internal/llm"
	"github.com/simonyos/toolrunner/internal/logging"
	"github.com/simonyos/toolrunner/internal/tui"
)

var (
	providerFlag  string
	modelFlag     string
	maxTurnsFlag  int
	parallelFlag  int
	logLevelFlag  string
	logFormatFlag string
	natsFlag      string
	markdownFlag  bool
	verboseFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "toolrunner",
	Short: "Run tool-using LLM agents from the command line",
	Long: `toolrunner configures small agents with an instruction string and a few
tools, runs them against a prompt and prints the result.

Supported providers:
  openai      - OpenAI API (OPENAI_API_KEY)
  anthropic   - Anthropic API (ANTHROPIC_API_KEY)
  openrouter  - OpenRouter (OPENROUTER_API_KEY)
  litellm     - LiteLLM proxy at http://localhost:4000
  ollama      - local Ollama at http://localhost:11434`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevelFlag
		if level == "" {
			level = config.Get().LogLevel
		}
		return logging.Setup(level, logFormatFlag == "json", os.Stderr)
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&providerFlag, "provider", "p", "", "LLM provider ("+strings.Join(llm.SupportedProviders(), ", ")+")")
	flags.StringVarP(&modelFlag, "model", "m", "", "Model to use (provider-specific)")
	flags.IntVar(&maxTurnsFlag, "max-turns", 0, "Maximum engine calls per run (default from config)")
	flags.IntVar(&parallelFlag, "parallel", 0, "Tool calls of one step that may run concurrently")
	flags.StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormatFlag, "log-format", "console", "Log format (console, json)")
	flags.StringVar(&natsFlag, "nats", "", "Publish run events to this NATS server")
	flags.BoolVar(&markdownFlag, "markdown", false, "Render final answers as markdown")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Print every engine turn")
}

// session bundles what a command needs to run agents
type session struct {
	runner  *agent.Runner
	printer *tui.Printer
	closers []func()
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// newSession builds the provider, the progress printer and the optional
// event publisher from flags and config. extra options are applied last.
func newSession(progress bool, extra ...agent.Option) (*session, error) {
	cfg := config.Get()

	providerName := firstNonEmpty(providerFlag, cfg.DefaultProvider, config.DefaultProvider)
	model := firstNonEmpty(modelFlag, cfg.DefaultModel)

	provider, err := llm.New(llm.Settings{
		Provider: providerName,
		Model:    model,
		APIKey:   config.APIKey(providerName),
		BaseURL:  cfg.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	s := &session{}

	printerOpts := []tui.PrinterOption{tui.WithVerbose(verboseFlag)}
	if markdownFlag {
		printerOpts = append(printerOpts, tui.WithMarkdown(100))
	}
	s.printer = tui.NewPrinter(os.Stdout, printerOpts...)

	var handlers []agent.EventHandler
	if progress {
		handlers = append(handlers, s.printer)
	}

	if url := firstNonEmpty(natsFlag, config.GetNATSURL()); url != "" {
		natsCfg := events.DefaultNATSConfig()
		natsCfg.URL = url
		pub, err := events.Connect(natsCfg)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, pub)
		s.closers = append(s.closers, func() {
			if err := pub.Flush(2 * time.Second); err != nil {
				log.Warn().Err(err).Msg("flushing run events")
			}
			pub.Close()
		})
	}

	maxTurns := maxTurnsFlag
	if maxTurns <= 0 {
		maxTurns = cfg.MaxTurns
	}
	parallel := parallelFlag
	if parallel <= 0 {
		parallel = cfg.ParallelTools
	}

	opts := []agent.Option{
		agent.WithMaxTurns(maxTurns),
		agent.WithParallelTools(parallel),
		agent.WithEngineTimeout(cfg.EngineTimeoutDuration()),
		agent.WithEventHandler(agent.Handlers(handlers...)),
	}
	s.runner = agent.NewRunner(provider, append(opts, extra...)...)
	return s, nil
}

// descriptor applies the --model override
func (s *session) descriptor(d *agent.Descriptor) *agent.Descriptor {
	if modelFlag != "" {
		return d.WithModel(modelFlag)
	}
	return d
}

// run executes one prompt and prints the final output
func (s *session) run(ctx context.Context, d *agent.Descriptor, prompt string) error {
	d = s.descriptor(d)
	res, err := s.runner.Run(ctx, d, prompt)
	if err != nil {
		return err
	}
	s.printer.Final(res.FinalOutput)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// runAgent is the common body of the one-shot agent commands
func runAgent(cmd *cobra.Command, d *agent.Descriptor, prompt string, extra ...agent.Option) error {
	cmd.SilenceUsage = true

	s, err := newSession(true, extra...)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.run(cmd.Context(), d, prompt); err != nil {
		return fmt.Errorf("%s failed: %w", d.Name(), err)
	}
	return nil
}
