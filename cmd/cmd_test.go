package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonyos/toolrunner/internal/agent"
	"github.com/simonyos/toolrunner/internal/llm"
	"github.com/simonyos/toolrunner/internal/tui"
)

func TestClassifyArgs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.NoError(t, classifyArgs(classifyCmd, []string{dir}))
	assert.Error(t, classifyArgs(classifyCmd, nil))
	assert.Error(t, classifyArgs(classifyCmd, []string{dir, dir}))
	assert.ErrorContains(t, classifyArgs(classifyCmd, []string{filepath.Join(dir, "missing")}), "does not exist")
	assert.ErrorContains(t, classifyArgs(classifyCmd, []string{file}), "not a directory")
}

func TestClassifierDescriptor(t *testing.T) {
	d, err := classifierDescriptor("Put invoices in 'finance'.")
	require.NoError(t, err)
	assert.Equal(t, []string{"list_files", "read_file_head", "read_full_file", "create_directory", "copy_file"}, d.ToolNames())
	assert.Contains(t, d.Instructions(), "Put invoices in 'finance'.")
}

func TestSessionRun(t *testing.T) {
	d, err := classifierDescriptor("")
	require.NoError(t, err)

	dir := t.TempDir()
	provider := llm.NewScripted(
		llm.Call(llm.ToolCall{ID: "1", Name: "list_files", Arguments: `{"directory": "` + dir + `"}`}),
		llm.Reply("Nothing to classify."),
	)

	var out bytes.Buffer
	printer := tui.NewPrinter(&out)
	s := &session{
		runner:  agent.NewRunner(provider, agent.WithEventHandler(printer)),
		printer: printer,
	}
	require.NoError(t, s.run(context.Background(), d, "classify "+dir))

	assert.Contains(t, out.String(), "list_files")
	assert.Contains(t, out.String(), "No .txt files found")
	assert.Contains(t, out.String(), "Nothing to classify.")
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"classify", "math", "weather", "chat", "run", "agents", "mcp", "watch", "config"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
}
