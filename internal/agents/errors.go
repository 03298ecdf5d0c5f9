package agents

import "errors"

var (
	// ErrMissingName is returned when a definition has no name
	ErrMissingName = errors.New("agent definition missing required 'name' field")

	// ErrMissingInstructions is returned when the markdown body is empty
	ErrMissingInstructions = errors.New("agent definition missing instructions (markdown body)")

	ErrAgentNotFound = errors.New("agent not found")

	ErrInvalidFrontmatter = errors.New("invalid YAML frontmatter")

	ErrNoFrontmatter = errors.New("markdown file missing YAML frontmatter")

	// ErrReservedName is returned when an agent would shadow a built-in command
	ErrReservedName = errors.New("agent name conflicts with built-in command")
)

// ReservedNames cannot be used for custom agents
var ReservedNames = map[string]bool{
	"classify": true,
	"math":     true,
	"weather":  true,
	"chat":     true,
	"run":      true,
	"agents":   true,
	"config":   true,
	"mcp":      true,
	"watch":    true,
	"help":     true,
}
