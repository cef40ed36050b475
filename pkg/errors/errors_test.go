package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsErrorType(t *testing.T) {
	err := NewUnknownTool("no_such_tool")

	if !IsErrorType(err, ErrorTypeDispatch) {
		t.Error("unknown-tool must be a dispatch error")
	}
	if IsErrorType(err, ErrorTypeFactory) {
		t.Error("unknown-tool is not a factory error")
	}
}

func TestIsErrorType_ThroughWrapping(t *testing.T) {
	inner := NewMissingDependency("summarize_emails", "chat client")
	wrapped := fmt.Errorf("startup failed: %w", inner)

	if !IsErrorType(wrapped, ErrorTypeFactory) {
		t.Error("wrapping must not hide the category")
	}
}

func TestIsErrorType_PlainError(t *testing.T) {
	if IsErrorType(errors.New("plain"), ErrorTypeModel) {
		t.Error("plain errors have no category")
	}
	if IsErrorType(nil, ErrorTypeModel) {
		t.Error("nil has no category")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewModelRequestFailed("test-model", 3, cause)

	if !errors.Is(err, cause) {
		t.Error("the cause must be reachable through Unwrap")
	}
	if err.Attempts != 3 || err.Model != "test-model" {
		t.Errorf("fields lost: %+v", err)
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NewUnknownTool("x_tool"), "[dispatch] unknown tool: x_tool"},
		{NewDuplicateToolName("x_tool"), "[factory] duplicate tool name: x_tool"},
		{NewConfigMissingRequired("OPENAI_API_KEY"), "[config] missing required config: OPENAI_API_KEY"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestAssistantUnavailable(t *testing.T) {
	err := NewAssistantUnavailable("mail", "IMAP is not configured", nil)
	if !IsErrorType(err, ErrorTypeAssistant) {
		t.Error("expected an assistant error")
	}
	if err.Assistant != "mail" {
		t.Errorf("assistant field lost: %+v", err)
	}
}
