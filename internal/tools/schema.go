package tools

import "fmt"

// JSONSchema represents OpenAI-style function parameters
type JSONSchema struct {
	Type        string                 `json:"type,omitempty"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Default     any                    `json:"default,omitempty"`
}

// ToolDefinition is the structured tool definition (like OpenAI)
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  *JSONSchema `json:"parameters"`
}

// ToolResult represents the output of a tool execution
type ToolResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`

	// Err is the underlying failure, when there is one. It is never sent to
	// the engine; callers use it with errors.Is / errors.As.
	Err error `json:"-"`
}

// String renders the result the way the engine sees it
func (r ToolResult) String() string {
	if r.Success {
		return r.Output
	}
	return fmt.Sprintf("Error: %s", r.Error)
}

// Succeeded builds a successful result
func Succeeded(output string) ToolResult {
	return ToolResult{Success: true, Output: output}
}

// Failed builds a failed result from an error
func Failed(err error) ToolResult {
	return ToolResult{Success: false, Error: err.Error(), Err: err}
}
