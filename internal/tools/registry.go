package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/simonyos/toolrunner/internal/llm"
)

// Registry manages tool registration and execution.
// Tools are kept in registration order so the engine always sees the same schema list.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry. A second tool with the same name is rejected.
func (r *Registry) Register(tool Tool) error {
	name := tool.Definition().Name
	if name == "" {
		return fmt.Errorf("tool has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns all registered tools in registration order
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Names returns the registered tool names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of registered tools
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// List returns all registered tool definitions
func (r *Registry) List() []ToolDefinition {
	tools := r.Tools()
	defs := make([]ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, t.Definition())
	}
	return defs
}

// Specs returns the tool definitions in the engine's format
func (r *Registry) Specs() []llm.ToolSpec {
	return Specs(r.Tools())
}

// Specs converts tools to engine tool specs
func Specs(tools []Tool) []llm.ToolSpec {
	result := make([]llm.ToolSpec, 0, len(tools))
	for _, t := range tools {
		def := t.Definition()
		result = append(result, llm.ToolSpec{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  jsonSchemaToMap(def.Parameters),
		})
	}
	return result
}

// jsonSchemaToMap converts JSONSchema to map for the engine APIs.
//
// Limitations: only the features the adapters generate are handled
// (type, description, properties, required, enum, default).
func jsonSchemaToMap(schema *JSONSchema) map[string]any {
	if schema == nil {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}
	}

	result := map[string]any{}
	if schema.Type != "" {
		result["type"] = schema.Type
	}

	if schema.Description != "" {
		result["description"] = schema.Description
	}

	if schema.Type == "object" {
		props := make(map[string]any, len(schema.Properties))
		for name, prop := range schema.Properties {
			props[name] = jsonSchemaToMap(prop)
		}
		result["properties"] = props
	}

	if len(schema.Required) > 0 {
		result["required"] = append([]string(nil), schema.Required...)
	}

	if len(schema.Enum) > 0 {
		result["enum"] = schema.Enum
	}

	if schema.Default != nil {
		result["default"] = schema.Default
	}

	return result
}

// Execute runs a tool by name with raw arguments.
// An unknown name yields a failed result rather than an error.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) ToolResult {
	tool, ok := r.Get(name)
	if !ok {
		return Failed(fmt.Errorf("%w: %s", ErrUnknownTool, name))
	}
	return Invoke(ctx, tool, args)
}
