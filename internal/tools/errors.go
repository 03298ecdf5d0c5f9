package tools

import (
	"errors"
	"fmt"
)

var (
	// ErrToolArgument matches every argument validation failure
	ErrToolArgument = errors.New("tool argument error")

	// ErrMissingArgument is returned when a required argument is absent
	ErrMissingArgument = errors.New("missing required argument")

	// ErrInvalidArgument is returned when an argument cannot be coerced to its declared type
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateTool is returned when a tool name is registered twice
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrUnknownTool is returned when a tool name does not resolve
	ErrUnknownTool = errors.New("unknown tool")
)

// ArgumentError reports arguments the engine supplied that the tool cannot accept.
// It is reported back to the engine as a tool result, never raised to the runner.
type ArgumentError struct {
	Tool   string
	Param  string
	Reason string
	Err    error // ErrMissingArgument or ErrInvalidArgument
}

func (e *ArgumentError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, e.Param)
	}
	return fmt.Sprintf("%s: %v %q: %s", e.Tool, e.Err, e.Param, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrToolArgument) match any argument failure
func (e *ArgumentError) Is(target error) bool {
	return target == ErrToolArgument
}

func missingArgument(tool, param string) *ArgumentError {
	return &ArgumentError{Tool: tool, Param: param, Err: ErrMissingArgument}
}

func invalidArgument(tool, param, reason string) *ArgumentError {
	return &ArgumentError{Tool: tool, Param: param, Reason: reason, Err: ErrInvalidArgument}
}

// MalformedArguments reports an argument payload that is not a JSON object
func MalformedArguments(tool string, err error) *ArgumentError {
	return &ArgumentError{Tool: tool, Param: "arguments", Reason: err.Error(), Err: ErrInvalidArgument}
}
