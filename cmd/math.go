package cmd

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/simonyos/toolrunner/internal/agent"
	"github.com/simonyos/toolrunner/internal/config"
	"github.com/simonyos/toolrunner/internal/mcp"
	"github.com/simonyos/toolrunner/internal/prompts"
	"github.com/simonyos/toolrunner/internal/tools"
)

var mcpURLFlag string

var mathCmd = &cobra.Command{
	Use:   "math [question...]",
	Short: "Solve an arithmetic question with add/sub/mul/div tools",
	Long: `Solves an arithmetic question step by step. The tools run locally unless
--mcp points at an MCP server (see 'toolrunner mcp serve'), in which case the
server's tools are used instead.`,
	Example: `  toolrunner math "What is 15 + 27 multiplied by 3?"
  toolrunner math --mcp http://localhost:3000/mcp "100 / 8"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		prompt := strings.TrimSpace(strings.Join(args, " "))
		if prompt == "" {
			prompt = prompts.DefaultMathPrompt
		}

		mathTools := tools.MathTools()
		if url := firstNonEmpty(mcpURLFlag, config.Get().MCPURL); url != "" {
			client, err := mcp.Connect(cmd.Context(), url)
			if err != nil {
				return err
			}
			defer client.Close()

			mathTools, err = client.Tools(cmd.Context())
			if err != nil {
				return err
			}
			log.Info().Str("url", url).Int("tools", len(mathTools)).Msg("using remote tools")
		}

		desc, err := agent.NewDescriptor("Math Solver", "", prompts.MathInstructions, mathTools...)
		if err != nil {
			return err
		}
		return runAgent(cmd, desc, prompt)
	},
}

var weatherCmd = &cobra.Command{
	Use:   "weather [location...]",
	Short: "Ask a grumpy assistant about the weather",
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := prompts.DefaultWeatherPrompt
		if loc := strings.TrimSpace(strings.Join(args, " ")); loc != "" {
			prompt = prompts.WeatherPrompt(loc)
		}

		desc, err := agent.NewDescriptor("Weather Assistant", "", prompts.WeatherInstructions, tools.WeatherTools()...)
		if err != nil {
			return err
		}
		return runAgent(cmd, desc, prompt)
	},
}

func init() {
	mathCmd.Flags().StringVar(&mcpURLFlag, "mcp", "", "Use the tools of this MCP server (streamable HTTP endpoint)")
	rootCmd.AddCommand(mathCmd)
	rootCmd.AddCommand(weatherCmd)
}
