package tools

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

const defaultHeadLines = 10

// NewReadFileHeadTool creates the tool that reads the first lines of a file
func NewReadFileHeadTool() *FuncTool {
	return NewFuncTool(
		"read_file_head",
		"Read the first few lines of a file to understand its content",
		[]Param{
			String("filepath", "Path to the file to read"),
			Integer("lines", "Number of lines to read from the beginning (default: 10)").Optional(defaultHeadLines),
		},
		readFileHead,
	)
}

// NewReadFullFileTool creates the tool that reads a whole file
func NewReadFullFileTool() *FuncTool {
	return NewFuncTool(
		"read_full_file",
		"Read the complete content of a file if needed for better classification",
		[]Param{
			String("filepath", "Path to the file to read completely"),
		},
		readFullFile,
	)
}

func readFileHead(ctx context.Context, args Args) (string, error) {
	path := args.String("filepath")
	n := args.Int("lines")
	if n < 0 {
		return "", fmt.Errorf("lines must not be negative, got %d", n)
	}
	if !exists(path) {
		return "", fmt.Errorf("File '%s' does not exist", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("reading file head: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines []string
	for int64(len(lines)) < n && scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading file head: %w", err)
	}

	return fmt.Sprintf("First %d lines of %s:\n%s", n, path, strings.Join(lines, "\n")), nil
}

func readFullFile(ctx context.Context, args Args) (string, error) {
	path := args.String("filepath")
	if !exists(path) {
		return "", fmt.Errorf("File '%s' does not exist", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading full file: %w", err)
	}

	return fmt.Sprintf("Full content of %s:\n%s", path, content), nil
}
