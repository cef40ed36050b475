// Package assistant implements the dispatch core: one request/response
// cycle against the model, tool execution, and the history discipline
// tying them together.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/hanneskern95-jpg/AI-assistant/internal/adapter"
	"github.com/hanneskern95-jpg/AI-assistant/internal/conversation"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	apperrors "github.com/hanneskern95-jpg/AI-assistant/pkg/errors"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

// Config describes one assistant role.
type Config struct {
	// Name identifies the assistant in logs and hand-off targets.
	Name string
	// SystemPrompt is prepended to every model call.
	SystemPrompt string
	// Model is the chat model identifier.
	Model string
	// Groups selects which slice of the shared tool set this assistant
	// exposes to the model.
	Groups []string
	// Loader is the shared role-scoped view over all instantiated tools.
	Loader *tool.Loader
	// Chat is the model call boundary.
	Chat adapter.ChatClient
}

// Assistant owns one conversation. It is not safe for concurrent use:
// Submit is not reentrant and the design assumes one call at a time per
// instance.
type Assistant struct {
	name         string
	systemPrompt string
	model        string
	chat         adapter.ChatClient
	tools        map[string]tool.Tool
	descriptors  []tool.Descriptor
	history      *conversation.History
	logger       *zap.Logger
}

// TurnResult reports the outcome of one Submit call to the caller. Content
// is set for plain-text outcomes; ToolName/CallID/Result for tool
// outcomes, including error-shaped results for recoverable dispatch
// failures.
type TurnResult struct {
	Content  string       `json:"content,omitempty"`
	ToolName string       `json:"tool_name,omitempty"`
	CallID   string       `json:"call_id,omitempty"`
	Result   *tool.Result `json:"result,omitempty"`
}

// New builds an assistant with an empty history and the tool view its
// groups select.
func New(cfg Config) *Assistant {
	tools := map[string]tool.Tool{}
	if cfg.Loader != nil {
		tools = cfg.Loader.Load(cfg.Groups...)
	}

	descriptors := make([]tool.Descriptor, 0, len(tools))
	for _, t := range tools {
		descriptors = append(descriptors, t.Descriptor())
	}
	// Stable descriptor order keeps replayed requests reproducible.
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })

	return &Assistant{
		name:         cfg.Name,
		systemPrompt: cfg.SystemPrompt,
		model:        cfg.Model,
		chat:         cfg.Chat,
		tools:        tools,
		descriptors:  descriptors,
		history:      conversation.NewHistory(),
		logger:       logger.Get(),
	}
}

// Name returns the assistant's role name.
func (a *Assistant) Name() string { return a.name }

// History returns a snapshot of the conversation so far.
func (a *Assistant) History() []conversation.Turn { return a.history.Turns() }

// HistoryAt returns the turn at the given index.
func (a *Assistant) HistoryAt(i int) (conversation.Turn, bool) { return a.history.At(i) }

// Tool looks up a loaded tool by name.
func (a *Assistant) Tool(name string) (tool.Tool, bool) {
	t, ok := a.tools[name]
	return t, ok
}

// Submit runs one conversational exchange. The user turn is appended
// first; the model is called with the full history plus the loaded tool
// descriptors; a plain-text outcome appends an assistant turn while a
// tool-call outcome executes the first requested call and appends the
// paired tool-call and tool turns before returning. Every call is an
// independent state transition; no deduplication is performed.
func (a *Assistant) Submit(ctx context.Context, userText string) (*TurnResult, error) {
	a.history.Append(conversation.UserTurn(userText))

	resp, err := a.chat.Chat(ctx, adapter.ChatRequest{
		Model:        a.model,
		SystemPrompt: a.systemPrompt,
		Turns:        a.history.Turns(),
		Tools:        a.descriptors,
	})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	if resp.Finish != adapter.FinishToolCall {
		a.history.Append(conversation.AssistantTurn(resp.Content))
		return &TurnResult{Content: resp.Content}, nil
	}

	return a.handleToolCall(ctx, resp)
}

// handleToolCall dispatches the first requested call. Only the first call
// is honored even when the model requests several; simultaneous multi-call
// fan-out is out of scope.
func (a *Assistant) handleToolCall(ctx context.Context, resp *adapter.ChatResponse) (*TurnResult, error) {
	if len(resp.ToolCalls) == 0 {
		a.logger.Warn("Tool-call finish without calls", zap.String("assistant", a.name))
		return &TurnResult{Result: tool.Errorf("Error: no tool call found in the model response.")}, nil
	}

	call := resp.ToolCalls[0]
	if call.Name == "" {
		a.logger.Warn("Invalid tool call",
			zap.String("assistant", a.name),
			zap.Error(apperrors.NewInvalidToolCall("missing function name", nil)),
		)
		return &TurnResult{Result: tool.Errorf("Error: tool call is missing a function name.")}, nil
	}

	args, err := parseArguments(call.Arguments)
	if err != nil {
		a.logger.Warn("Invalid tool call",
			zap.String("assistant", a.name),
			zap.String("tool", call.Name),
			zap.Error(apperrors.NewInvalidToolCall("unparsable arguments", err)),
		)
		return &TurnResult{
			ToolName: call.Name,
			CallID:   call.ID,
			Result:   tool.Errorf("Error: could not parse arguments for tool %s: %v", call.Name, err),
		}, nil
	}

	// The call is well-formed from here on: record it, then pair it with a
	// tool turn before returning, whatever the execution outcome.
	a.history.Append(conversation.ToolCallTurn(conversation.ToolCall{
		ID:        call.ID,
		Name:      call.Name,
		Arguments: call.Arguments,
	}))

	var result *tool.Result
	if t, ok := a.tools[call.Name]; ok {
		a.logger.Debug("Executing tool",
			zap.String("assistant", a.name),
			zap.String("tool", call.Name),
			zap.String("call_id", call.ID),
		)
		result = t.Execute(ctx, args)
		if result == nil {
			result = tool.Errorf("Tool %s returned no result.", call.Name)
		}
	} else {
		a.logger.Warn("Unknown tool requested",
			zap.String("assistant", a.name),
			zap.Error(apperrors.NewUnknownTool(call.Name)),
		)
		result = tool.Errorf("Unknown tool: %s", call.Name)
	}

	a.history.Append(conversation.ToolTurn(call.ID, call.Name, result))

	if result.IsError {
		a.logger.Warn("Tool execution failed",
			zap.String("tool", call.Name),
			zap.String("error", result.Summary),
		)
	} else {
		a.logger.Info("Tool executed",
			zap.String("tool", call.Name),
			zap.String("summary", result.Summary),
		)
	}

	return &TurnResult{ToolName: call.Name, CallID: call.ID, Result: result}, nil
}

// NoteHandoff appends a context note to the history. Used when a
// secondary assistant hands control back with a summary of what happened
// while it was active.
func (a *Assistant) NoteHandoff(summary string) {
	if summary == "" {
		return
	}
	a.history.Append(conversation.AssistantTurn(
		fmt.Sprintf("(Returning from a specialized assistant.) %s", summary),
	))
}

// Render turns one history entry into display text, delegating tool turns
// to the originating tool's renderer when it has one.
func (a *Assistant) Render(turn conversation.Turn) string {
	switch turn.Role {
	case conversation.RoleUser, conversation.RoleAssistant:
		return turn.Content
	case conversation.RoleTool:
		if t, ok := a.tools[turn.ToolName]; ok {
			return tool.Render(t, turn.Result)
		}
		if turn.Result != nil {
			return turn.Result.Summary
		}
	}
	return ""
}

// RenderResult renders a tool result via the originating tool's renderer
// when it has one.
func (a *Assistant) RenderResult(toolName string, result *tool.Result) string {
	if result == nil {
		return ""
	}
	if t, ok := a.tools[toolName]; ok {
		return tool.Render(t, result)
	}
	return result.Summary
}

// RenderPinned renders a pinned snapshot via the originating tool.
func (a *Assistant) RenderPinned(toolName string, data map[string]any) string {
	t, ok := a.tools[toolName]
	if !ok {
		return "Pinned object has invalid format."
	}
	return tool.RenderPinned(t, data)
}

func parseArguments(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}
