package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ToolSpec is a tool definition as sent to the engine
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// ToolCall represents a tool call requested by the model
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON object as text
}

// ParseArguments decodes the raw JSON arguments of a tool call.
// Numbers are kept as json.Number so integer arguments survive intact.
// An empty argument string decodes to an empty map.
func (c ToolCall) ParseArguments() (map[string]any, error) {
	raw := strings.TrimSpace(c.Arguments)
	if raw == "" || raw == "null" {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("arguments for %s are not a JSON object: %w", c.Name, err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// EncodeArguments renders an argument map as the JSON text carried by a ToolCall
func EncodeArguments(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// CloneMessages returns a deep-enough copy of a conversation so callers
// cannot mutate a slice owned by a finished run.
func CloneMessages(messages []Message) []Message {
	if messages == nil {
		return nil
	}
	out := make([]Message, len(messages))
	for i, msg := range messages {
		out[i] = msg
		if msg.ToolCalls != nil {
			out[i].ToolCalls = append([]ToolCall(nil), msg.ToolCalls...)
		}
	}
	return out
}
