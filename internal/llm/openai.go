package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const defaultOpenAIModel = "gpt-4o-mini"

// chatCompleter is the slice of the OpenAI client the provider depends on
type chatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIConfig configures an OpenAI-compatible provider
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string // empty means api.openai.com
	MaxRetries int    // SDK-level retries for transport errors; 0 disables
	HTTPClient *http.Client

	// name overrides Name() for OpenAI-compatible presets
	name string
}

// OpenAI implements Provider using the Chat Completions API
type OpenAI struct {
	name        string
	model       string
	completions chatCompleter
}

// NewOpenAI creates an OpenAI provider
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai: api key required (set OPENAI_API_KEY or run 'toolrunner config set openai <key>')")
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

	client := openai.NewClient(opts...)

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	name := cfg.name
	if name == "" {
		name = "openai"
	}

	return &OpenAI{
		name:        name,
		model:       model,
		completions: &client.Chat.Completions,
	}, nil
}

// Name returns the provider name
func (o *OpenAI) Name() string {
	return o.name
}

// Model returns the default model used when a request does not name one
func (o *OpenAI) Model() string {
	return o.model
}

// Complete sends one chat completion request
func (o *OpenAI) Complete(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(o.selectModel(req.Model)),
		Messages: convertMessagesToOpenAI(req.Instructions, req.Messages),
	}
	if len(req.Tools) > 0 {
		params.Tools = convertToolsToOpenAI(req.Tools)
	}

	completion, err := o.completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.name, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%s: response contained no choices", o.name)
	}

	choice := completion.Choices[0]
	resp := &Response{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
	}
	for _, tc := range choice.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return resp, nil
}

func (o *OpenAI) selectModel(override string) string {
	if m := strings.TrimSpace(override); m != "" {
		return m
	}
	return o.model
}

func convertMessagesToOpenAI(instructions string, msgs []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs)+1)

	if trimmed := strings.TrimSpace(instructions); trimmed != "" {
		result = append(result, openai.SystemMessage(trimmed))
	}

	for _, msg := range msgs {
		switch msg.Role {
		case RoleSystem:
			if trimmed := strings.TrimSpace(msg.Content); trimmed != "" {
				result = append(result, openai.SystemMessage(trimmed))
			}
		case RoleAssistant:
			result = append(result, buildOpenAIAssistantMessage(msg))
		case RoleTool:
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

func buildOpenAIAssistantMessage(msg Message) openai.ChatCompletionMessageParamUnion {
	assistant := openai.ChatCompletionAssistantMessageParam{}
	if msg.Content != "" {
		assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
			OfString: openai.String(msg.Content),
		}
	}

	for _, call := range msg.ToolCalls {
		args := call.Arguments
		if strings.TrimSpace(args) == "" {
			args = "{}"
		}
		assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
			ID: call.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      call.Name,
				Arguments: args,
			},
		})
	}

	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}

func convertToolsToOpenAI(specs []ToolSpec) []openai.ChatCompletionToolParam {
	result := make([]openai.ChatCompletionToolParam, 0, len(specs))
	for _, spec := range specs {
		tool := openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:       spec.Name,
				Parameters: shared.FunctionParameters(spec.Parameters),
			},
		}
		if desc := strings.TrimSpace(spec.Description); desc != "" {
			tool.Function.Description = openai.String(desc)
		}
		result = append(result, tool)
	}
	return result
}
