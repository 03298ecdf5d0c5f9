package cmd

import (
	"github.com/spf13/cobra"

	"github.com/simonyos/toolrunner/internal/agent"
	"github.com/simonyos/toolrunner/internal/llm"
	"github.com/simonyos/toolrunner/internal/prompts"
	"github.com/simonyos/toolrunner/internal/tools"
	"github.com/simonyos/toolrunner/internal/tui"
)

var (
	chatToolsFlag []string
	chatFreshFlag bool
	chatRulesFlag string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with an assistant that remembers the conversation",
	Long: `Opens an interactive chat. The conversation starts primed with a few
earlier messages (the assistant's name and age) unless --fresh is given.

Slash commands: /reset, /clear, /tools, /quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var ts []tools.Tool
		for _, name := range chatToolsFlag {
			t, err := tools.Builtin(name)
			if err != nil {
				return err
			}
			ts = append(ts, t)
		}
		desc, err := agent.NewDescriptor("Assistant", "", prompts.WithRules(prompts.ChatInstructions, chatRulesFlag), ts...)
		if err != nil {
			return err
		}

		// progress goes to the chat view, not stdout
		s, err := newSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		var history []llm.Message
		if !chatFreshFlag {
			history = prompts.PrimedHistory()
		}
		return tui.RunChat(cmd.Context(), s.runner, s.descriptor(desc), history)
	},
}

func init() {
	chatCmd.Flags().StringSliceVar(&chatToolsFlag, "tools", nil, "Built-in tools to give the assistant")
	chatCmd.Flags().BoolVar(&chatFreshFlag, "fresh", false, "Start without the primed history")
	chatCmd.Flags().StringVar(&chatRulesFlag, "rules", "", "Extra instructions for the assistant")
	rootCmd.AddCommand(chatCmd)
}
