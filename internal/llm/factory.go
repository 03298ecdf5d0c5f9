package llm

import (
	"fmt"
	"strings"
)

// Settings selects and configures a provider
type Settings struct {
	Provider string // openai, anthropic, openrouter, litellm, ollama
	Model    string
	APIKey   string
	BaseURL  string
}

// preset describes an OpenAI-compatible endpoint
type preset struct {
	baseURL      string
	defaultModel string
	defaultKey   string
}

var openAICompatible = map[string]preset{
	"openrouter": {baseURL: "https://openrouter.ai/api/v1", defaultModel: "openai/gpt-4o-mini"},
	"litellm":    {baseURL: "http://localhost:4000/v1", defaultModel: defaultOpenAIModel, defaultKey: "sk-litellm"},
	"ollama":     {baseURL: "http://localhost:11434/v1", defaultModel: "qwen3:1.7b", defaultKey: "ollama"},
}

// SupportedProviders lists the names accepted by New
func SupportedProviders() []string {
	return []string{"openai", "anthropic", "openrouter", "litellm", "ollama"}
}

// New creates a provider from settings
func New(s Settings) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(s.Provider))
	if name == "" {
		name = "openai"
	}

	switch name {
	case "openai":
		return NewOpenAI(OpenAIConfig{APIKey: s.APIKey, Model: s.Model, BaseURL: s.BaseURL})
	case "anthropic", "claude":
		return NewAnthropic(AnthropicConfig{APIKey: s.APIKey, Model: s.Model, BaseURL: s.BaseURL})
	}

	p, ok := openAICompatible[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s (supported: %s)", s.Provider, strings.Join(SupportedProviders(), ", "))
	}

	cfg := OpenAIConfig{
		APIKey:  s.APIKey,
		Model:   s.Model,
		BaseURL: s.BaseURL,
		name:    name,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = p.baseURL
	}
	if cfg.Model == "" {
		cfg.Model = p.defaultModel
	}
	if cfg.APIKey == "" {
		cfg.APIKey = p.defaultKey
	}
	return NewOpenAI(cfg)
}
