package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonyos/toolrunner/internal/agent"
	"github.com/simonyos/toolrunner/internal/config"
	"github.com/simonyos/toolrunner/internal/prompts"
	"github.com/simonyos/toolrunner/internal/tools"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <directory_path>",
	Short: "Sort the .txt files of a directory into category folders",
	Long: `Lets the agent read every .txt file in the directory, decide a category
for it and copy it into a sub-directory named after that category.

Extra instructions can be added with 'toolrunner config set custom_rules <text>'.`,
	Args: classifyArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		desc, err := classifierDescriptor(config.Get().CustomRules)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Classifying files in %s\n", dir)
		return runAgent(cmd, desc, prompts.ClassifyPrompt(dir))
	},
}

// classifyArgs rejects a missing argument or a path that is not a directory,
// so cobra prints the usage and the command exits 1.
func classifyArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("expected exactly one directory path")
	}
	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("directory '%s' does not exist", args[0])
	}
	if !info.IsDir() {
		return fmt.Errorf("'%s' is not a directory", args[0])
	}
	return nil
}

func classifierDescriptor(customRules string) (*agent.Descriptor, error) {
	return agent.NewDescriptor("File Classifier", "", prompts.Classifier(customRules), tools.FileTools()...)
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
