package tool

import "fmt"

// Handoff carries a mode-switch request produced by a tool execution.
// Target names the assistant that should become active ("master" returns
// control to the master assistant). Summary optionally describes what
// happened while the secondary assistant was active, so the master's next
// model call can be given that context.
type Handoff struct {
	Target  string `json:"target"`
	Summary string `json:"summary,omitempty"`
}

// TargetMaster is the hand-off target that restores the master assistant.
const TargetMaster = "master"

// Result is what a tool execution produces. Summary is mandatory and is
// what the default renderer shows. Data carries tool-specific structured
// fields. ModeSwitch flags hand-off results so callers can branch without
// inspecting tool names.
type Result struct {
	Summary    string         `json:"summary"`
	Data       map[string]any `json:"data,omitempty"`
	IsError    bool           `json:"is_error,omitempty"`
	ModeSwitch bool           `json:"mode_switch,omitempty"`
	Handoff    *Handoff       `json:"handoff,omitempty"`
}

// Errorf builds an error-shaped result. Recoverable tool failures use this
// instead of crashing the dispatch loop.
func Errorf(format string, args ...any) *Result {
	return &Result{
		Summary: fmt.Sprintf(format, args...),
		IsError: true,
	}
}

// Switch builds a mode-switch result with the given hand-off target.
func Switch(summary string, handoff Handoff) *Result {
	return &Result{
		Summary:    summary,
		ModeSwitch: true,
		Handoff:    &handoff,
	}
}
