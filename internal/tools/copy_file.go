package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// NewCopyFileTool creates the tool that copies a file into a directory,
// keeping its base name, permissions and modification time.
func NewCopyFileTool() *FuncTool {
	return NewFuncTool(
		"copy_file",
		"Copy a file to a target directory",
		[]Param{
			String("source", "Source file path"),
			String("destination", "Destination directory path"),
		},
		copyFile,
	)
}

func copyFile(ctx context.Context, args Args) (string, error) {
	source := args.String("source")
	destination := args.String("destination")

	if !exists(source) {
		return "", fmt.Errorf("Source file '%s' does not exist", source)
	}
	if !isDir(destination) {
		return "", fmt.Errorf("Destination directory '%s' does not exist", destination)
	}

	name := filepath.Base(source)
	if err := copyPreserving(source, filepath.Join(destination, name)); err != nil {
		return "", fmt.Errorf("copying file: %w", err)
	}

	return fmt.Sprintf("Copied %s to %s/", name, destination), nil
}

// copyPreserving copies src to dst, then restores the source mode and times on dst
func copyPreserving(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(info, dstInfo) {
		return fmt.Errorf("'%s' and '%s' are the same file", src, dst)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
