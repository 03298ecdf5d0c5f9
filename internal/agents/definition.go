package agents

import (
	"fmt"
	"strings"

	"github.com/simonyos/toolrunner/internal/agent"
	"github.com/simonyos/toolrunner/internal/tools"
)

// Definition is an agent loaded from a markdown file
type Definition struct {
	// Name identifies the agent on the command line
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Model overrides the provider default when set
	Model string `yaml:"model"`

	// Tools lists built-in tool names. Empty means every built-in tool.
	Tools []string `yaml:"tools"`

	// MaxTurns bounds the engine calls of a run; zero keeps the runner's bound
	MaxTurns int `yaml:"max_turns"`

	// Instructions is the markdown body after the frontmatter
	Instructions string `yaml:"-"`

	FilePath string `yaml:"-"`
	IsGlobal bool   `yaml:"-"`
}

// Validate checks if the definition is usable
func (d *Definition) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	if ReservedNames[strings.ToLower(d.Name)] {
		return fmt.Errorf("%w: %s", ErrReservedName, d.Name)
	}
	if d.Instructions == "" {
		return ErrMissingInstructions
	}
	if d.MaxTurns < 0 {
		return fmt.Errorf("%w: max_turns must not be negative", ErrInvalidFrontmatter)
	}
	return nil
}

// HasRestrictedTools returns true if the agent has a limited tool set
func (d *Definition) HasRestrictedTools() bool {
	return len(d.Tools) > 0
}

// ToolNames returns the tool names the agent will be given
func (d *Definition) ToolNames() []string {
	if !d.HasRestrictedTools() {
		return tools.BuiltinNames()
	}
	return append([]string(nil), d.Tools...)
}

// Descriptor resolves the tool names against the built-in catalog. An unknown
// tool name is a configuration error.
func (d *Definition) Descriptor() (*agent.Descriptor, error) {
	names := d.ToolNames()
	ts := make([]tools.Tool, 0, len(names))
	for _, name := range names {
		t, err := tools.Builtin(name)
		if err != nil {
			return nil, &agent.ConfigurationError{Agent: d.Name, Reason: err.Error()}
		}
		ts = append(ts, t)
	}
	return agent.NewDescriptor(d.Name, d.Model, d.Instructions, ts...)
}

// RunnerOptions returns the per-definition runner overrides
func (d *Definition) RunnerOptions() []agent.Option {
	if d.MaxTurns > 0 {
		return []agent.Option{agent.WithMaxTurns(d.MaxTurns)}
	}
	return nil
}
