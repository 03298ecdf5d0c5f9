package agents

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/simonyos/toolrunner/internal/agent"
	"github.com/simonyos/toolrunner/internal/tools"
)

const calculator = `---
name: calculator
description: Does arithmetic
model: gpt-4o-mini
tools: [add, mul]
max_turns: 4
---

You are a calculator. Use the tools for every step.
`

func TestParse(t *testing.T) {
	def, err := Parse(calculator)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if def.Name != "calculator" || def.Model != "gpt-4o-mini" || def.MaxTurns != 4 {
		t.Errorf("unexpected definition: %+v", def)
	}
	if !reflect.DeepEqual(def.Tools, []string{"add", "mul"}) {
		t.Errorf("Tools = %v", def.Tools)
	}
	if def.Instructions != "You are a calculator. Use the tools for every step." {
		t.Errorf("Instructions = %q", def.Instructions)
	}
}

func TestParseWindowsLineEndings(t *testing.T) {
	content := "---\r\nname: crlf\r\n---\r\nBody text\r\n"
	def, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if def.Name != "crlf" || def.Instructions != "Body text" {
		t.Errorf("unexpected definition: %+v", def)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"no frontmatter", "just text", ErrNoFrontmatter},
		{"unterminated", "---\nname: x\n", ErrNoFrontmatter},
		{"missing name", "---\ndescription: x\n---\nbody", ErrMissingName},
		{"missing body", "---\nname: x\n---\n", ErrMissingInstructions},
		{"reserved", "---\nname: Classify\n---\nbody", ErrReservedName},
		{"bad yaml", "---\nname: [x\n---\nbody", ErrInvalidFrontmatter},
		{"negative turns", "---\nname: x\nmax_turns: -1\n---\nbody", ErrInvalidFrontmatter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDescriptor(t *testing.T) {
	def, err := Parse(calculator)
	if err != nil {
		t.Fatal(err)
	}

	d, err := def.Descriptor()
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	if d.Name() != "calculator" || d.Model() != "gpt-4o-mini" {
		t.Errorf("descriptor = %s/%s", d.Name(), d.Model())
	}
	if !reflect.DeepEqual(d.ToolNames(), []string{"add", "mul"}) {
		t.Errorf("ToolNames = %v", d.ToolNames())
	}
	if len(def.RunnerOptions()) != 1 {
		t.Errorf("expected a max turns override")
	}
}

func TestDescriptorAllTools(t *testing.T) {
	def := &Definition{Name: "everything", Instructions: "Help."}
	d, err := def.Descriptor()
	if err != nil {
		t.Fatal(err)
	}
	if len(d.ToolNames()) != len(tools.BuiltinNames()) {
		t.Errorf("got %d tools, want %d", len(d.ToolNames()), len(tools.BuiltinNames()))
	}
	if def.RunnerOptions() != nil {
		t.Errorf("expected no runner overrides")
	}
}

func TestDescriptorUnknownTool(t *testing.T) {
	def := &Definition{Name: "broken", Instructions: "Help.", Tools: []string{"add", "launch_rocket"}}
	_, err := def.Descriptor()
	if !errors.Is(err, agent.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func writeAgent(t *testing.T, dir, file, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryRefresh(t *testing.T) {
	root := t.TempDir()
	local := filepath.Join(root, "local")
	global := filepath.Join(root, "global")

	writeAgent(t, local, "calculator.md", calculator)
	writeAgent(t, local, "notes.txt", "ignored")
	writeAgent(t, local, "broken.md", "no frontmatter")
	writeAgent(t, global, "calculator.md", "---\nname: calculator\n---\nglobal copy")
	writeAgent(t, global, "weather.md", "---\nname: forecaster\ntools: [fetch_weather]\n---\nBe grumpy.")

	reg := NewRegistry([]string{local, global, filepath.Join(root, "missing")}, global)
	if err := reg.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if reg.Count() != 2 {
		t.Fatalf("Count = %d, want 2", reg.Count())
	}

	calc, err := reg.Get("calculator")
	if err != nil {
		t.Fatal(err)
	}
	if calc.IsGlobal || calc.Instructions == "global copy" {
		t.Errorf("local definition should win: %+v", calc)
	}

	fc, err := reg.Get("forecaster")
	if err != nil {
		t.Fatal(err)
	}
	if !fc.IsGlobal || fc.FilePath != filepath.Join(global, "weather.md") {
		t.Errorf("unexpected forecaster: %+v", fc)
	}

	names := []string{}
	for _, d := range reg.List() {
		names = append(names, d.Name)
	}
	if !reflect.DeepEqual(names, []string{"calculator", "forecaster"}) {
		t.Errorf("List = %v", names)
	}

	if _, err := reg.Get("nobody"); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("expected ErrAgentNotFound, got %v", err)
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry(nil, "")
	if err := reg.Register(&Definition{Name: "x"}); !errors.Is(err, ErrMissingInstructions) {
		t.Errorf("expected validation error, got %v", err)
	}
	if err := reg.Register(&Definition{Name: "x", Instructions: "y"}); err != nil {
		t.Fatal(err)
	}
	if reg.Count() != 1 {
		t.Errorf("Count = %d", reg.Count())
	}
}
