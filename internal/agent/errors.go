package agent

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration matches every descriptor construction failure
	ErrConfiguration = errors.New("configuration error")

	// ErrUnknownTool is returned when the engine names a tool the agent does not have
	ErrUnknownTool = errors.New("unknown tool")

	// ErrEngine matches every failure of the reasoning engine call
	ErrEngine = errors.New("engine error")

	// ErrRunLimitExceeded is returned when a run uses up its turn budget
	ErrRunLimitExceeded = errors.New("run limit exceeded")
)

// ConfigurationError reports an invalid agent descriptor
type ConfigurationError struct {
	Agent  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("agent %q: %v: %s", e.Agent, ErrConfiguration, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// UnknownToolError is fatal to a run and never retried
type UnknownToolError struct {
	Agent     string
	Tool      string
	Available []string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("agent %q: %v %q (available: %s)", e.Agent, ErrUnknownTool, e.Tool, strings.Join(e.Available, ", "))
}

func (e *UnknownToolError) Unwrap() error {
	return ErrUnknownTool
}

// EngineError wraps a failed engine call. Turn is the 1-based engine turn.
type EngineError struct {
	Turn int
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%v on turn %d: %v", ErrEngine, e.Turn, e.Err)
}

// Unwrap exposes both ErrEngine and the cause, so errors.Is works for
// context.Canceled and provider errors alike.
func (e *EngineError) Unwrap() []error {
	return []error{ErrEngine, e.Err}
}

// RunLimitExceededError reports a run that never produced a final answer
type RunLimitExceededError struct {
	Limit int
}

func (e *RunLimitExceededError) Error() string {
	return fmt.Sprintf("%v: no final answer after %d engine turns", ErrRunLimitExceeded, e.Limit)
}

func (e *RunLimitExceededError) Unwrap() error {
	return ErrRunLimitExceeded
}
