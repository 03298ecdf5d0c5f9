package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NewListFilesTool creates the tool that lists .txt files in a directory.
// The listing is not recursive.
func NewListFilesTool() *FuncTool {
	return NewFuncTool(
		"list_files",
		"List .txt files in a directory",
		[]Param{
			String("directory", "Directory path to list files from"),
		},
		listFiles,
	)
}

func listFiles(ctx context.Context, args Args) (string, error) {
	dir := args.String("directory")
	if !isDir(dir) {
		return "", fmt.Errorf("Directory '%s' does not exist", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("listing files: %w", err)
	}

	var files []string
	for _, e := range entries {
		if ok, _ := filepath.Match("*.txt", e.Name()); !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if isRegular(path) {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return fmt.Sprintf("No .txt files found in %s", dir), nil
	}

	return fmt.Sprintf("Found %d .txt files:\n%s", len(files), strings.Join(files, "\n")), nil
}
