package agent

import (
	"fmt"
	"strings"

	"github.com/simonyos/toolrunner/internal/llm"
	"github.com/simonyos/toolrunner/internal/tools"
)

// Descriptor is a named, immutable agent configuration: model, instructions
// and tools. It is safe to share across concurrent runs.
type Descriptor struct {
	name         string
	model        string
	instructions string
	tools        []tools.Tool
	index        map[string]tools.Tool
}

// NewDescriptor validates and builds a descriptor. Tool names must be unique
// and the instructions must not be blank.
func NewDescriptor(name, model, instructions string, ts ...tools.Tool) (*Descriptor, error) {
	if strings.TrimSpace(instructions) == "" {
		return nil, &ConfigurationError{Agent: name, Reason: "instructions are empty"}
	}

	d := &Descriptor{
		name:         name,
		model:        model,
		instructions: instructions,
		tools:        make([]tools.Tool, 0, len(ts)),
		index:        make(map[string]tools.Tool, len(ts)),
	}
	for i, t := range ts {
		if t == nil {
			return nil, &ConfigurationError{Agent: name, Reason: fmt.Sprintf("tool %d is nil", i)}
		}
		toolName := t.Definition().Name
		if toolName == "" {
			return nil, &ConfigurationError{Agent: name, Reason: fmt.Sprintf("tool %d has no name", i)}
		}
		if _, dup := d.index[toolName]; dup {
			return nil, &ConfigurationError{Agent: name, Reason: fmt.Sprintf("duplicate tool name %q", toolName)}
		}
		d.index[toolName] = t
		d.tools = append(d.tools, t)
	}
	return d, nil
}

// Name returns the agent name
func (d *Descriptor) Name() string { return d.name }

// Model returns the model identifier; empty means the provider default
func (d *Descriptor) Model() string { return d.model }

// Instructions returns the system instructions
func (d *Descriptor) Instructions() string { return d.instructions }

// Tools returns a copy of the tools in declaration order
func (d *Descriptor) Tools() []tools.Tool {
	return append([]tools.Tool(nil), d.tools...)
}

// Tool resolves a tool by name
func (d *Descriptor) Tool(name string) (tools.Tool, bool) {
	t, ok := d.index[name]
	return t, ok
}

// ToolNames returns the tool names in declaration order
func (d *Descriptor) ToolNames() []string {
	names := make([]string, len(d.tools))
	for i, t := range d.tools {
		names[i] = t.Definition().Name
	}
	return names
}

// Specs returns the tool schemas sent to the engine
func (d *Descriptor) Specs() []llm.ToolSpec {
	return tools.Specs(d.tools)
}

// WithModel returns a copy of the descriptor using a different model
func (d *Descriptor) WithModel(model string) *Descriptor {
	cp := *d
	cp.model = model
	return &cp
}
