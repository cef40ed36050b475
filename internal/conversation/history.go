// Package conversation models the ordered, append-only turn log an
// assistant replays to the model on every request.
package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall records one structured call descriptor from an assistant
// tool-call turn. Arguments is kept as the raw JSON string the model
// produced, so replays are byte-faithful.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Turn is one atomic entry in conversation history.
//
// A user turn carries Content only. An assistant turn carries either
// Content or ToolCalls, never both. A tool turn carries the originating
// call id, the tool name, and the tool's structured result.
type Turn struct {
	ID        string       `json:"id"`
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	ToolCalls []ToolCall   `json:"tool_calls,omitempty"`
	ToolName  string       `json:"tool_name,omitempty"`
	CallID    string       `json:"tool_call_id,omitempty"`
	Result    *tool.Result `json:"tool_result,omitempty"`
	At        time.Time    `json:"at"`
}

// UserTurn builds a user turn.
func UserTurn(content string) Turn {
	return Turn{ID: uuid.NewString(), Role: RoleUser, Content: content, At: time.Now()}
}

// AssistantTurn builds a plain-text assistant turn.
func AssistantTurn(content string) Turn {
	return Turn{ID: uuid.NewString(), Role: RoleAssistant, Content: content, At: time.Now()}
}

// ToolCallTurn builds an assistant turn requesting a tool call. Content is
// empty by construction; the two are mutually exclusive.
func ToolCallTurn(calls ...ToolCall) Turn {
	return Turn{ID: uuid.NewString(), Role: RoleAssistant, ToolCalls: calls, At: time.Now()}
}

// ToolTurn builds a tool turn pairing the originating call id with the
// executed tool's result.
func ToolTurn(callID, toolName string, result *tool.Result) Turn {
	return Turn{
		ID:       uuid.NewString(),
		Role:     RoleTool,
		ToolName: toolName,
		CallID:   callID,
		Result:   result,
		At:       time.Now(),
	}
}

// IsToolCall reports whether the turn is an assistant turn carrying call
// descriptors.
func (t Turn) IsToolCall() bool {
	return t.Role == RoleAssistant && len(t.ToolCalls) > 0
}

// History is the ordered, append-only log of turns owned by exactly one
// assistant. Insertion order is chronological order is replay order.
// Turns are never edited or removed once added. Appends come from the one
// assistant that owns the log, but the HTTP layer reads it while a submit
// is in flight, so reads and the append are guarded.
type History struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds turns at the end of the log.
func (h *History) Append(turns ...Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, turns...)
}

// Len returns the number of turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// Turns returns a copied snapshot so callers cannot mutate the log.
func (h *History) Turns() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	snapshot := make([]Turn, len(h.turns))
	copy(snapshot, h.turns)
	return snapshot
}

// At returns the turn at index i and whether the index was in range.
func (h *History) At(i int) (Turn, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if i < 0 || i >= len(h.turns) {
		return Turn{}, false
	}
	return h.turns[i], true
}
