package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonyos/toolrunner/internal/agent"
	"github.com/simonyos/toolrunner/internal/config"
	"github.com/simonyos/toolrunner/internal/events"
	"github.com/simonyos/toolrunner/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch [run_id]",
	Short: "Print run events published to NATS",
	Long: `Subscribes to the run events other toolrunner processes publish with
--nats and prints them as they arrive. Without a run ID every run is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		natsCfg := events.DefaultNATSConfig()
		if url := firstNonEmpty(natsFlag, config.GetNATSURL()); url != "" {
			natsCfg.URL = url
		}
		pub, err := events.Connect(natsCfg)
		if err != nil {
			return err
		}
		defer pub.Close()

		runID := ""
		if len(args) == 1 {
			runID = args[0]
		}

		printer := tui.NewPrinter(os.Stdout, tui.WithVerbose(verboseFlag))
		sub, err := pub.Subscribe(runID, func(m *events.Message) {
			printer.HandleEvent(m.Event)
			if m.Kind == agent.EventFinal {
				printer.Final(m.Text)
			}
		})
		if err != nil {
			return err
		}
		defer sub.Unsubscribe()

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s on %s\n", events.RunSubject(runID), natsCfg.URL)
		<-cmd.Context().Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
