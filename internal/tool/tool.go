package tool

import "context"

// DefaultGroup is the group every tool belongs to unless it says otherwise.
// The master assistant loads this group.
const DefaultGroup = "general"

// Descriptor is the static metadata for one tool. Name is globally unique
// across the registry and is the sole key used for dispatch.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Tool is the interface all model-callable tools must satisfy.
type Tool interface {
	// Descriptor returns the tool's static metadata. Pure, no side effects.
	Descriptor() Descriptor
	// Group returns the capability group tag used by the Loader.
	Group() string
	// Execute runs the tool with arguments parsed from the model's
	// function-call payload. Validation failures and downstream faults are
	// reported as error-shaped Results, never as panics. Execute owns all
	// external I/O; it must not touch conversation state.
	Execute(ctx context.Context, args map[string]any) *Result
}

// Renderer is an optional capability: tools that want richer display than
// the raw summary implement it. Checked by type assertion.
type Renderer interface {
	Render(result *Result) string
}

// PinnedRenderer is an optional capability for rendering a pinned snapshot
// of a past result.
type PinnedRenderer interface {
	RenderPinned(data map[string]any) string
}

// Base provides the default group tag. Concrete tools embed it and
// override Group only when they belong elsewhere.
type Base struct{}

func (Base) Group() string { return DefaultGroup }
