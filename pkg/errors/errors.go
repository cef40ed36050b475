package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	// ErrorTypeDispatch represents dispatch-core errors (model responses
	// that cannot be turned into a tool execution).
	ErrorTypeDispatch ErrorType = "dispatch"
	// ErrorTypeTool represents tool execution errors.
	ErrorTypeTool ErrorType = "tool"
	// ErrorTypeFactory represents tool factory construction errors.
	ErrorTypeFactory ErrorType = "factory"
	// ErrorTypeAssistant represents assistant construction/hand-off errors.
	ErrorTypeAssistant ErrorType = "assistant"
	// ErrorTypeModel represents LLM transport errors.
	ErrorTypeModel ErrorType = "model"
	// ErrorTypeConfig represents configuration errors.
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields.
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping.
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrType returns the error category. Promoted through embedding so typed
// errors answer for themselves.
func (e *BaseError) ErrType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error.
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Dispatch errors

// ErrInvalidToolCall is returned when the model's tool-call response is
// missing a call, missing a function name, or carries unparsable arguments.
type ErrInvalidToolCall struct {
	*BaseError
	Reason string
}

func NewInvalidToolCall(reason string, err error) *ErrInvalidToolCall {
	return &ErrInvalidToolCall{
		BaseError: NewBaseError(ErrorTypeDispatch, fmt.Sprintf("invalid tool call: %s", reason), err),
		Reason:    reason,
	}
}

// ErrUnknownTool is returned when the model requests a tool name absent
// from the active assistant's loaded set.
type ErrUnknownTool struct {
	*BaseError
	ToolName string
}

func NewUnknownTool(toolName string) *ErrUnknownTool {
	return &ErrUnknownTool{
		BaseError: NewBaseError(ErrorTypeDispatch, fmt.Sprintf("unknown tool: %s", toolName), nil),
		ToolName:  toolName,
	}
}

// Tool errors

// ErrInvalidArguments is returned when a tool's own argument validation
// fails (missing required argument or wrong type).
type ErrInvalidArguments struct {
	*BaseError
	ToolName string
	Param    string
	Reason   string
}

func NewInvalidArguments(toolName, param, reason string) *ErrInvalidArguments {
	return &ErrInvalidArguments{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("invalid arguments for %s: %s (%s)", toolName, param, reason), nil),
		ToolName:  toolName,
		Param:     param,
		Reason:    reason,
	}
}

// Factory errors

// ErrMissingDependency is returned at factory time when a tool cannot be
// constructed because a required shared dependency is absent. Fatal to
// factory construction; no partial tool set is served.
type ErrMissingDependency struct {
	*BaseError
	ToolName   string
	Dependency string
}

func NewMissingDependency(toolName, dependency string) *ErrMissingDependency {
	return &ErrMissingDependency{
		BaseError:  NewBaseError(ErrorTypeFactory, fmt.Sprintf("tool %s requires missing dependency %q", toolName, dependency), nil),
		ToolName:   toolName,
		Dependency: dependency,
	}
}

// ErrDuplicateToolName is returned when two instantiated tools collide on
// their declared name. Fatal at factory time.
type ErrDuplicateToolName struct {
	*BaseError
	ToolName string
}

func NewDuplicateToolName(toolName string) *ErrDuplicateToolName {
	return &ErrDuplicateToolName{
		BaseError: NewBaseError(ErrorTypeFactory, fmt.Sprintf("duplicate tool name: %s", toolName), nil),
		ToolName:  toolName,
	}
}

// Assistant errors

// ErrAssistantUnavailable is returned when a hand-off target cannot be
// constructed (e.g. a required external credential is absent). The active
// assistant remains unchanged.
type ErrAssistantUnavailable struct {
	*BaseError
	Assistant string
	Reason    string
}

func NewAssistantUnavailable(assistant, reason string, err error) *ErrAssistantUnavailable {
	return &ErrAssistantUnavailable{
		BaseError: NewBaseError(ErrorTypeAssistant, fmt.Sprintf("assistant %s unavailable: %s", assistant, reason), err),
		Assistant: assistant,
		Reason:    reason,
	}
}

// Model errors

// ErrModelRequestFailed is returned when the chat completion request fails
// after all retry attempts.
type ErrModelRequestFailed struct {
	*BaseError
	Model    string
	Attempts int
}

func NewModelRequestFailed(model string, attempts int, err error) *ErrModelRequestFailed {
	return &ErrModelRequestFailed{
		BaseError: NewBaseError(ErrorTypeModel, fmt.Sprintf("model request failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
	}
}

// ErrModelEmptyResponse is returned when the model returns no choices.
var ErrModelEmptyResponse = NewBaseError(ErrorTypeModel, "no choices in model response", nil)

// Config errors

// ErrConfigMissingRequired is returned when a required config value is missing.
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// IsErrorType checks whether an error belongs to a specific category.
func IsErrorType(err error, errType ErrorType) bool {
	if typed, ok := err.(interface{ ErrType() ErrorType }); ok {
		return typed.ErrType() == errType
	}
	if wrapper, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapper.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}
