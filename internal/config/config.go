package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultProvider      = "openai"
	DefaultMaxTurns      = 10
	DefaultParallelTools = 1
	DefaultEngineTimeout = 120 // seconds
	DefaultLogLevel      = "warn"
	DefaultMCPAddr       = ":3000"
)

// Config holds all application configuration
type Config struct {
	// API Keys
	OpenAIKey     string `json:"openai_api_key,omitempty"`
	AnthropicKey  string `json:"anthropic_api_key,omitempty"`
	OpenRouterKey string `json:"openrouter_api_key,omitempty"`
	LiteLLMKey    string `json:"litellm_api_key,omitempty"`

	// Engine
	BaseURL         string `json:"base_url,omitempty"`
	DefaultProvider string `json:"default_provider,omitempty"`
	DefaultModel    string `json:"default_model,omitempty"`

	// Runner
	MaxTurns      int    `json:"max_turns,omitempty"`
	ParallelTools int    `json:"parallel_tools,omitempty"`
	EngineTimeout int    `json:"engine_timeout,omitempty"` // seconds
	CustomRules   string `json:"custom_rules,omitempty"`

	// Ambient
	LogLevel string `json:"log_level,omitempty"`
	NATSURL  string `json:"nats_url,omitempty"`
	MCPAddr  string `json:"mcp_addr,omitempty"`
	MCPURL   string `json:"mcp_url,omitempty"`
}

var (
	configDir  string
	configFile string
	current    *Config
)

func init() {
	// Use ~/.config/toolrunner for config
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	configDir = filepath.Join(home, ".config", "toolrunner")
	configFile = filepath.Join(configDir, "config.json")
}

func defaults() *Config {
	return &Config{
		DefaultProvider: DefaultProvider,
		MaxTurns:        DefaultMaxTurns,
		ParallelTools:   DefaultParallelTools,
		EngineTimeout:   DefaultEngineTimeout,
		LogLevel:        DefaultLogLevel,
		MCPAddr:         DefaultMCPAddr,
	}
}

// Load reads the config from disk
func Load() (*Config, error) {
	if current != nil {
		return current, nil
	}

	cfg := defaults()

	data, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			current = cfg
			return current, nil // Return default config
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	current = cfg
	return current, nil
}

// Save writes the config to disk
func Save(cfg *Config) error {
	// Ensure config directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	current = cfg
	return nil
}

// Get returns the current config, loading if necessary. A config file that
// cannot be read yields the defaults.
func Get() *Config {
	if current == nil {
		if _, err := Load(); err != nil {
			current = defaults()
		}
	}
	return current
}

// field binds a config key to its struct field
type field struct {
	aliases []string
	secret  bool
	get     func(*Config) string
	set     func(*Config, string) error
}

func stringField(aliases []string, secret bool, ptr func(*Config) *string) field {
	return field{
		aliases: aliases,
		secret:  secret,
		get:     func(c *Config) string { return *ptr(c) },
		set:     func(c *Config, v string) error { *ptr(c) = v; return nil },
	}
}

func intField(key string, aliases []string, ptr func(*Config) *int) field {
	return field{
		aliases: aliases,
		get: func(c *Config) string {
			if *ptr(c) == 0 {
				return ""
			}
			return strconv.Itoa(*ptr(c))
		},
		set: func(c *Config, v string) error {
			if v == "" {
				*ptr(c) = 0
				return nil
			}
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 0 {
				return fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
			}
			*ptr(c) = n
			return nil
		},
	}
}

var fields = map[string]field{
	"openai_api_key":     stringField([]string{"openai"}, true, func(c *Config) *string { return &c.OpenAIKey }),
	"anthropic_api_key":  stringField([]string{"anthropic"}, true, func(c *Config) *string { return &c.AnthropicKey }),
	"openrouter_api_key": stringField([]string{"openrouter"}, true, func(c *Config) *string { return &c.OpenRouterKey }),
	"litellm_api_key":    stringField([]string{"litellm"}, true, func(c *Config) *string { return &c.LiteLLMKey }),
	"base_url":           stringField(nil, false, func(c *Config) *string { return &c.BaseURL }),
	"default_provider":   stringField([]string{"provider"}, false, func(c *Config) *string { return &c.DefaultProvider }),
	"default_model":      stringField([]string{"model"}, false, func(c *Config) *string { return &c.DefaultModel }),
	"max_turns":          intField("max_turns", nil, func(c *Config) *int { return &c.MaxTurns }),
	"parallel_tools":     intField("parallel_tools", []string{"parallel"}, func(c *Config) *int { return &c.ParallelTools }),
	"engine_timeout":     intField("engine_timeout", []string{"timeout"}, func(c *Config) *int { return &c.EngineTimeout }),
	"custom_rules":       stringField([]string{"rules"}, false, func(c *Config) *string { return &c.CustomRules }),
	"log_level":          stringField(nil, false, func(c *Config) *string { return &c.LogLevel }),
	"nats_url":           stringField([]string{"nats"}, false, func(c *Config) *string { return &c.NATSURL }),
	"mcp_addr":           stringField(nil, false, func(c *Config) *string { return &c.MCPAddr }),
	"mcp_url":            stringField(nil, false, func(c *Config) *string { return &c.MCPURL }),
}

// lookup resolves a key or one of its aliases
func lookup(key string) (string, field, error) {
	if f, ok := fields[key]; ok {
		return key, f, nil
	}
	for name, f := range fields {
		for _, alias := range f.aliases {
			if alias == key {
				return name, f, nil
			}
		}
	}
	return "", field{}, fmt.Errorf("unknown config key: %s", key)
}

// Keys returns every config key, sorted
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set updates a config value by key
func Set(key, value string) error {
	_, f, err := lookup(key)
	if err != nil {
		return err
	}

	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := f.set(cfg, value); err != nil {
		return err
	}

	return Save(cfg)
}

// Delete removes a config value
func Delete(key string) error {
	return Set(key, "")
}

// Value returns a config value by key, masked if it is a secret
func Value(key string) (string, error) {
	_, f, err := lookup(key)
	if err != nil {
		return "", err
	}
	v := f.get(Get())
	if f.secret && v != "" {
		v = maskKey(v)
	}
	return v, nil
}

// envKeys maps secret config keys to their environment fallbacks
var envKeys = map[string]string{
	"openai_api_key":     "OPENAI_API_KEY",
	"anthropic_api_key":  "ANTHROPIC_API_KEY",
	"openrouter_api_key": "OPENROUTER_API_KEY",
	"litellm_api_key":    "LITELLM_API_KEY",
	"nats_url":           "TOOLRUNNER_NATS_URL",
}

func withEnv(key string) string {
	if v := fields[key].get(Get()); v != "" {
		return v
	}
	return os.Getenv(envKeys[key])
}

// GetOpenAIKey returns the OpenAI API key (config or env)
func GetOpenAIKey() string { return withEnv("openai_api_key") }

// GetAnthropicKey returns the Anthropic API key (config or env)
func GetAnthropicKey() string { return withEnv("anthropic_api_key") }

// GetOpenRouterKey returns the OpenRouter API key (config or env)
func GetOpenRouterKey() string { return withEnv("openrouter_api_key") }

// GetLiteLLMKey returns the LiteLLM proxy key (config or env)
func GetLiteLLMKey() string { return withEnv("litellm_api_key") }

// GetNATSURL returns the event bus URL (config or env); empty disables publishing
func GetNATSURL() string { return withEnv("nats_url") }

// APIKey returns the key for a provider name, or "" when the provider needs none
func APIKey(provider string) string {
	switch strings.ToLower(provider) {
	case "", "openai":
		return GetOpenAIKey()
	case "anthropic", "claude":
		return GetAnthropicKey()
	case "openrouter":
		return GetOpenRouterKey()
	case "litellm":
		return GetLiteLLMKey()
	}
	return ""
}

// EngineTimeoutDuration returns the engine timeout; zero disables it
func (c *Config) EngineTimeoutDuration() time.Duration {
	return time.Duration(c.EngineTimeout) * time.Second
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return configFile
}

// ListKeys returns configured keys (masked for display)
func ListKeys() map[string]string {
	cfg := Get()
	result := make(map[string]string)

	for key, f := range fields {
		v := f.get(cfg)
		source := ""
		if v == "" && envKeys[key] != "" {
			v = os.Getenv(envKeys[key])
			source = " (env)"
		}
		if v == "" {
			continue
		}
		if f.secret {
			v = maskKey(v)
		}
		result[key] = v + source
	}

	return result
}

// maskKey shows only first 4 and last 4 characters
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// GetAgentPaths returns paths to search for custom agent definitions
// Returns both project-local (.toolrunner/agents/) and global (~/.config/toolrunner/agents/) paths
func GetAgentPaths() []string {
	paths := []string{}

	// Project-local path
	cwd, err := os.Getwd()
	if err == nil {
		paths = append(paths, filepath.Join(cwd, ".toolrunner", "agents"))
	}

	paths = append(paths, GlobalAgentPath())

	return paths
}

// GlobalAgentPath returns the user-wide agent definition directory
func GlobalAgentPath() string {
	return filepath.Join(configDir, "agents")
}
