package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel     = "claude-sonnet-4-20250514"
	defaultAnthropicMaxTokens = 4096
)

// messageCreator is the slice of the Anthropic client the provider depends on
type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicConfig configures the Anthropic provider
type AnthropicConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxTokens  int64
	MaxRetries int
	HTTPClient *http.Client
}

// Anthropic implements Provider using the Messages API
type Anthropic struct {
	model     string
	maxTokens int64
	messages  messageCreator
}

// NewAnthropic creates an Anthropic provider
func NewAnthropic(cfg AnthropicConfig) (*Anthropic, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("anthropic: api key required (set ANTHROPIC_API_KEY or run 'toolrunner config set anthropic <key>')")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	client := anthropic.NewClient(opts...)

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	return &Anthropic{
		model:     model,
		maxTokens: maxTokens,
		messages:  &client.Messages,
	}, nil
}

// Name returns the provider name
func (a *Anthropic) Name() string {
	return "anthropic"
}

// Model returns the default model
func (a *Anthropic) Model() string {
	return a.model
}

// Complete sends one Messages API request
func (a *Anthropic) Complete(ctx context.Context, req Request) (*Response, error) {
	tools, err := convertToolsToAnthropic(req.Tools)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = a.model
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: a.maxTokens,
		Messages:  convertMessagesToAnthropic(req.Messages),
	}
	if trimmed := strings.TrimSpace(req.Instructions); trimmed != "" {
		params.System = []anthropic.TextBlockParam{{Text: trimmed}}
	}
	if len(tools) > 0 {
		params.Tools = tools
	}

	msg, err := a.messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	resp := &Response{FinishReason: string(msg.StopReason)}
	var text []string
	for _, block := range msg.Content {
		switch block.Type {
		case "tool_use":
			args := strings.TrimSpace(string(block.Input))
			if args == "" || args == "null" {
				args = "{}"
			}
			resp.ToolCalls = append(resp.ToolCalls, ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		case "text":
			if block.Text != "" {
				text = append(text, block.Text)
			}
		}
	}
	resp.Content = strings.Join(text, "")
	return resp, nil
}

// convertMessagesToAnthropic maps the conversation to Messages API params.
// System messages are folded into user turns and consecutive tool results
// are grouped into a single user message, as the API requires.
func convertMessagesToAnthropic(msgs []Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(msgs))

	for i := 0; i < len(msgs); i++ {
		msg := msgs[i]
		switch msg.Role {
		case RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(buildAnthropicAssistantContent(msg)...))
		case RoleTool:
			var blocks []anthropic.ContentBlockParamUnion
			for ; i < len(msgs) && msgs[i].Role == RoleTool; i++ {
				blocks = append(blocks, anthropic.NewToolResultBlock(msgs[i].ToolCallID, msgs[i].Content, msgs[i].IsError))
			}
			i--
			result = append(result, anthropic.NewUserMessage(blocks...))
		default:
			text := msg.Content
			if strings.TrimSpace(text) == "" {
				text = "."
			}
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
		}
	}
	return result
}

func buildAnthropicAssistantContent(msg Message) []anthropic.ContentBlockParamUnion {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(msg.ToolCalls))
	if strings.TrimSpace(msg.Content) != "" {
		blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
	}
	for _, call := range msg.ToolCalls {
		input := json.RawMessage(call.Arguments)
		if !json.Valid(input) {
			input = json.RawMessage("{}")
		}
		blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, input, call.Name))
	}
	if len(blocks) == 0 {
		blocks = append(blocks, anthropic.NewTextBlock("."))
	}
	return blocks
}

func convertToolsToAnthropic(specs []ToolSpec) ([]anthropic.ToolUnionParam, error) {
	out := make([]anthropic.ToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		schema, err := encodeAnthropicSchema(spec.Parameters)
		if err != nil {
			return nil, fmt.Errorf("tool %s schema: %w", spec.Name, err)
		}

		tool := anthropic.ToolParam{
			Name:        spec.Name,
			InputSchema: schema,
		}
		if desc := strings.TrimSpace(spec.Description); desc != "" {
			tool.Description = anthropic.String(desc)
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return out, nil
}

func encodeAnthropicSchema(raw map[string]any) (anthropic.ToolInputSchemaParam, error) {
	if len(raw) == 0 {
		return anthropic.ToolInputSchemaParam{}, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return anthropic.ToolInputSchemaParam{}, err
	}
	var schema anthropic.ToolInputSchemaParam
	if err := json.Unmarshal(data, &schema); err != nil {
		return anthropic.ToolInputSchemaParam{}, err
	}
	return schema, nil
}
