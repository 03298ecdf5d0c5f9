// Package prompts holds the instructions and default prompts of the built-in agents
package prompts

import (
	"fmt"
	"strings"

	"github.com/simonyos/toolrunner/internal/llm"
)

const (
	// MathInstructions drive the arithmetic agent
	MathInstructions = "You are a helpful math assistant. Use the available functions to solve mathematical problems."

	// WeatherInstructions drive the weather assistant
	WeatherInstructions = "You are a grumpy assistant"

	// ChatInstructions drive the interactive chat
	ChatInstructions = "You are a concise talking male guy, you talk in bullet points"

	DefaultMathPrompt    = "What is 15 + 27 multiplied by 3?"
	DefaultWeatherPrompt = "what is the weather in cscd"
)

// ClassifyPrompt is the user prompt for classifying a directory
func ClassifyPrompt(dir string) string {
	return fmt.Sprintf("Please classify all .txt files in the directory: %s", dir)
}

// WeatherPrompt asks for the weather in a location
func WeatherPrompt(location string) string {
	return fmt.Sprintf("what is the weather in %s", location)
}

// PrimedHistory is the conversation the chat starts from
func PrimedHistory() []llm.Message {
	return []llm.Message{
		{Role: llm.RoleUser, Content: "your name is alpha"},
		{Role: llm.RoleAssistant, Content: "ok!"},
		{Role: llm.RoleUser, Content: "your age is 10 years old"},
		{Role: llm.RoleAssistant, Content: "ok!"},
	}
}

// PromptContext contains the values the instruction components render
type PromptContext struct {
	Categories  []string
	CustomRules string // appended verbatim when set
}

// PromptBuilder constructs instructions from components
type PromptBuilder struct {
	ctx        *PromptContext
	components []func(*PromptContext) string
}

// DefaultCategories are the classifier's target directories
var DefaultCategories = []string{"invoice", "note", "article", "log", "code", "unknown"}

// NewClassifierBuilder creates a builder for the file classifier instructions
func NewClassifierBuilder() *PromptBuilder {
	return &PromptBuilder{
		ctx: &PromptContext{Categories: DefaultCategories},
		components: []func(*PromptContext) string{
			classifierRole,
			classificationGuidelines,
			classifierMethod,
		},
	}
}

// WithCustomRules adds user-defined rules
func (b *PromptBuilder) WithCustomRules(rules string) *PromptBuilder {
	b.ctx.CustomRules = strings.TrimSpace(rules)
	return b
}

// Build generates the complete instructions
func (b *PromptBuilder) Build() string {
	var sections []string
	for _, component := range b.components {
		if section := component(b.ctx); section != "" {
			sections = append(sections, section)
		}
	}

	if b.ctx.CustomRules != "" {
		sections = append(sections, "Additional instructions:\n"+b.ctx.CustomRules)
	}

	return strings.Join(sections, "\n\n")
}

// Classifier builds the file classifier instructions
func Classifier(customRules string) string {
	return NewClassifierBuilder().WithCustomRules(customRules).Build()
}

// WithRules appends user-defined rules to fixed instructions
func WithRules(instructions, customRules string) string {
	customRules = strings.TrimSpace(customRules)
	if customRules == "" {
		return instructions
	}
	return instructions + "\n\nAdditional instructions:\n" + customRules
}

func classifierRole(ctx *PromptContext) string {
	return fmt.Sprintf(`You are a smart file classifier agent. Your job is to:
1. List all .txt files in the target directory
2. Read the content of each file (using read_file_head first, read_full_file if needed)
3. Classify each file into categories: %s
4. Create appropriate directories for each category
5. Copy files to their classified directories
6. For each file moved, explain your reasoning in one clear sentence`, strings.Join(ctx.Categories, ", "))
}

var guidelines = map[string]string{
	"invoice": "Contains billing information, amounts, dates, company names",
	"note":    "Personal notes, reminders, short informal text",
	"article": "Longer formatted text, structured content, news articles",
	"log":     "System logs, timestamps, error messages, structured data entries",
	"code":    "Programming code, scripts, configuration files",
	"unknown": "Ambiguous or unclassifiable content",
}

func classificationGuidelines(ctx *PromptContext) string {
	lines := []string{"Classification guidelines:"}
	for _, c := range ctx.Categories {
		if g, ok := guidelines[c]; ok {
			lines = append(lines, fmt.Sprintf("- %s: %s", c, g))
		}
	}
	return strings.Join(lines, "\n")
}

func classifierMethod(ctx *PromptContext) string {
	return `Always use the tools provided to perform file operations. Be methodical and classify one file at a time.
Start by listing the files, then examine each one systematically.`
}
