package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/simonyos/toolrunner/internal/tools"
)

// ClientName identifies this program to MCP servers
const ClientName = "toolrunner"

// Client is a connected MCP session whose remote tools can be used locally
type Client struct {
	session *sdk.ClientSession
}

// Connect dials an MCP server over streamable HTTP
func Connect(ctx context.Context, endpoint string) (*Client, error) {
	return ConnectTransport(ctx, &sdk.StreamableClientTransport{Endpoint: endpoint})
}

// ConnectTransport opens a session over any MCP transport
func ConnectTransport(ctx context.Context, transport sdk.Transport) (*Client, error) {
	client := sdk.NewClient(&sdk.Implementation{Name: ClientName, Version: ServerVersion}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcp connect: %w", err)
	}
	return &Client{session: session}, nil
}

// Close ends the session
func (c *Client) Close() error {
	return c.session.Close()
}

// Tools lists the server's tools and adapts each into a local tool whose
// handler forwards the call over the session.
func (c *Client) Tools(ctx context.Context) ([]tools.Tool, error) {
	res, err := c.session.ListTools(ctx, &sdk.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("mcp list tools: %w", err)
	}

	out := make([]tools.Tool, 0, len(res.Tools))
	for _, t := range res.Tools {
		out = append(out, c.adapt(t))
	}
	log.Debug().Int("tools", len(out)).Msg("mcp tools loaded")
	return out, nil
}

func (c *Client) adapt(t *sdk.Tool) tools.Tool {
	name := t.Name
	return tools.NewFuncTool(name, t.Description, paramsFromSchema(t.InputSchema),
		func(ctx context.Context, args tools.Args) (string, error) {
			res, err := c.session.CallTool(ctx, &sdk.CallToolParams{Name: name, Arguments: map[string]any(args)})
			if err != nil {
				return "", fmt.Errorf("mcp call %s: %w", name, err)
			}

			text := contentText(res.Content)
			if res.IsError {
				return "", errors.New(strings.TrimPrefix(text, "Error: "))
			}
			return text, nil
		})
}

func contentText(content []sdk.Content) string {
	var parts []string
	for _, c := range content {
		if tc, ok := c.(*sdk.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// paramsFromSchema rebuilds ordered parameters from a JSON schema object.
// Required parameters come first in the schema's order, then the rest sorted.
func paramsFromSchema(schema any) []tools.Param {
	m, _ := schema.(map[string]any)
	props, _ := m["properties"].(map[string]any)

	required := map[string]bool{}
	var order []string
	if req, ok := m["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok && props[s] != nil {
				required[s] = true
				order = append(order, s)
			}
		}
	}

	var rest []string
	for name := range props {
		if !required[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	params := make([]tools.Param, 0, len(order))
	for _, name := range order {
		prop, _ := props[name].(map[string]any)
		desc, _ := prop["description"].(string)
		params = append(params, tools.Param{
			Name:        name,
			Type:        schemaType(prop["type"]),
			Description: desc,
			Required:    required[name],
			Default:     prop["default"],
		})
	}
	return params
}

// schemaType picks the declared type of a property. For a type union such as
// ["number","null"] the first non-null entry wins; a missing type stays empty
// so values pass through uncoerced.
func schemaType(v any) tools.ParamType {
	switch t := v.(type) {
	case string:
		return tools.ParamType(t)
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && s != "null" {
				return tools.ParamType(s)
			}
		}
	}
	return ""
}
