package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonyos/toolrunner/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage toolrunner configuration",
	Long: `Manage toolrunner configuration including API keys and run defaults.

Examples:
  toolrunner config                          # Show current config
  toolrunner config set openai <key>         # Set OpenAI API key
  toolrunner config set provider anthropic   # Set default provider
  toolrunner config set max_turns 20         # Allow longer runs
  toolrunner config delete openai            # Remove OpenAI API key`,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig(cmd)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Available keys:
  ` + strings.Join(config.Keys(), "\n  "),
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if err := config.Set(key, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s successfully.\n", key)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		val, err := config.Value(args[0])
		if err != nil {
			return err
		}
		if val == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not set\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], val)
		return nil
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"remove", "unset"},
	Short:   "Delete a configuration value",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.ConfigPath())
	},
}

func showConfig(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration file: %s\n\n", config.ConfigPath())

	keys := config.ListKeys()
	if len(keys) == 0 {
		fmt.Fprintln(out, "No configuration set.")
		fmt.Fprintln(out, "\nUse 'toolrunner config set <key> <value>' to configure.")
		return
	}

	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(out, "  %s: %s\n", k, keys[k])
	}
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configDeleteCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
