package tools

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Tool is the interface all tools must implement
type Tool interface {
	// Definition returns the structured tool definition
	Definition() ToolDefinition

	// Parameters returns the declared parameters in call order
	Parameters() []Param

	// Validate coerces untyped arguments to the declared parameter types
	Validate(args map[string]any) (Args, error)

	// Execute runs the tool with validated arguments
	Execute(ctx context.Context, args Args) ToolResult
}

// Handler is the function a FuncTool wraps. Returning an error produces a
// failed ToolResult that the engine sees as an "Error: ..." string.
type Handler func(ctx context.Context, args Args) (string, error)

// BaseTool provides common functionality for tools
type BaseTool struct {
	Def    ToolDefinition
	Params []Param
}

// Definition returns the tool definition
func (b *BaseTool) Definition() ToolDefinition {
	return b.Def
}

// Parameters returns a copy of the declared parameters
func (b *BaseTool) Parameters() []Param {
	return append([]Param(nil), b.Params...)
}

// Validate checks required fields are present and coerces every declared
// argument. Optional arguments that are absent take their default.
// Undeclared arguments are dropped.
func (b *BaseTool) Validate(args map[string]any) (Args, error) {
	out := make(Args, len(b.Params))
	for _, p := range b.Params {
		raw, ok := args[p.Name]
		if !ok || raw == nil {
			if p.Required {
				return nil, missingArgument(b.Def.Name, p.Name)
			}
			if p.Default == nil {
				continue
			}
			raw = p.Default
		}

		v, err := p.coerce(raw)
		if err != nil {
			return nil, invalidArgument(b.Def.Name, p.Name, err.Error())
		}
		out[p.Name] = v
	}
	return out, nil
}

// FuncTool adapts a plain function into a Tool
type FuncTool struct {
	BaseTool
	handler Handler
}

// NewFuncTool creates a tool from a name, description, ordered parameters and handler
func NewFuncTool(name, description string, params []Param, handler Handler) *FuncTool {
	params = append([]Param(nil), params...)
	return &FuncTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name:        name,
				Description: description,
				Parameters:  schemaFor(params),
			},
			Params: params,
		},
		handler: handler,
	}
}

// Execute runs the wrapped handler
func (t *FuncTool) Execute(ctx context.Context, args Args) ToolResult {
	out, err := t.handler(ctx, args)
	if err != nil {
		return Failed(err)
	}
	return Succeeded(out)
}

// Invoke validates raw engine arguments and executes the tool. Argument
// errors and handler panics are turned into failed results so nothing
// escapes to the caller.
func Invoke(ctx context.Context, tool Tool, raw map[string]any) (result ToolResult) {
	name := tool.Definition().Name
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("tool", name).Interface("panic", rec).Msg("tool handler panicked")
			result = Failed(fmt.Errorf("%s panicked: %v", name, rec))
		}
	}()

	args, err := tool.Validate(raw)
	if err != nil {
		return Failed(err)
	}
	return tool.Execute(ctx, args)
}
