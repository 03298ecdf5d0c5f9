// Package mcp serves tool registries over the Model Context Protocol and
// adapts remote MCP tools into local tools.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/simonyos/toolrunner/internal/tools"
)

const (
	ServerName    = "Arithmetic Server"
	ServerVersion = "1.0.0"
	DefaultPath   = "/mcp"
)

// NewServer exposes every tool of the registry as an MCP tool. Tool failures
// are reported as error content, never as protocol errors.
func NewServer(reg *tools.Registry, name, version string) *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{Name: name, Version: version}, nil)

	for _, spec := range reg.Specs() {
		toolName := spec.Name
		server.AddTool(&sdk.Tool{
			Name:        toolName,
			Description: spec.Description,
			InputSchema: spec.Parameters,
		}, func(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
			args, err := decodeArguments(req.Params.Arguments)
			if err != nil {
				result := tools.Failed(tools.MalformedArguments(toolName, err))
				return toCallResult(result), nil
			}

			result := reg.Execute(ctx, toolName, args)
			log.Info().
				Str("tool", toolName).
				Interface("args", args).
				Bool("success", result.Success).
				Str("result", result.String()).
				Msg("mcp tool call")
			return toCallResult(result), nil
		})
	}

	return server
}

// Handler serves the MCP server over streamable HTTP
func Handler(server *sdk.Server) http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return server
	}, nil)
}

func toCallResult(r tools.ToolResult) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: r.String()}},
		IsError: !r.Success,
	}
}

func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return args, nil
}
