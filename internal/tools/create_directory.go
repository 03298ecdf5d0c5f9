package tools

import (
	"context"
	"fmt"
	"os"
)

// NewCreateDirectoryTool creates the tool that makes a directory and its parents.
// Creating a directory that already exists succeeds.
func NewCreateDirectoryTool() *FuncTool {
	return NewFuncTool(
		"create_directory",
		"Create a directory for file classification",
		[]Param{
			String("directory", "Directory name to create"),
		},
		createDirectory,
	)
}

func createDirectory(ctx context.Context, args Args) (string, error) {
	dir := args.String("directory")
	if dir == "" {
		return "", fmt.Errorf("creating directory: empty path")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	return fmt.Sprintf("Created directory: %s", dir), nil
}
