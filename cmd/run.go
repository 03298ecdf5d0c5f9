package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/simonyos/toolrunner/internal/agents"
	"github.com/simonyos/toolrunner/internal/config"
	"github.com/simonyos/toolrunner/internal/tools"
)

var runCmd = &cobra.Command{
	Use:   "run <agent> <prompt...>",
	Short: "Run an agent defined in a markdown file",
	Long: `Runs an agent loaded from .toolrunner/agents/ or ~/.config/toolrunner/agents/.

An agent file is markdown with YAML frontmatter:

  ---
  name: calculator
  description: Does arithmetic
  tools: [add, sub, mul, div]
  max_turns: 5
  ---
  You are a calculator. Use the tools for every step.

Without a tools list the agent gets every built-in tool.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		reg := agentRegistry()
		if err := reg.Refresh(); err != nil {
			return err
		}
		def, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		desc, err := def.Descriptor()
		if err != nil {
			return err
		}
		return runAgent(cmd, desc, strings.Join(args[1:], " "), def.RunnerOptions()...)
	},
}

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List agent definitions and built-in tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := agentRegistry()
		if err := reg.Refresh(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		defs := reg.List()
		if len(defs) == 0 {
			fmt.Fprintf(out, "No agents found. Add markdown files to %s\n", strings.Join(config.GetAgentPaths(), " or "))
		} else {
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTOOLS\tSCOPE\tDESCRIPTION")
			for _, d := range defs {
				scope := "project"
				if d.IsGlobal {
					scope = "global"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, strings.Join(d.ToolNames(), ","), scope, d.Description)
			}
			w.Flush()
		}

		fmt.Fprintf(out, "\nBuilt-in tools: %s\n", strings.Join(tools.BuiltinNames(), ", "))
		return nil
	},
}

func agentRegistry() *agents.Registry {
	return agents.NewRegistry(config.GetAgentPaths(), config.GlobalAgentPath())
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(agentsCmd)
}
