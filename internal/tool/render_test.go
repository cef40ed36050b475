package tool

import (
	"fmt"
	"testing"
)

type renderingTool struct {
	fakeTool
}

func (renderingTool) Render(result *Result) string {
	return fmt.Sprintf("rich: %s", result.Summary)
}

func (renderingTool) RenderPinned(data map[string]any) string {
	name, ok := data["name"].(string)
	if !ok {
		return "Pinned object has invalid format."
	}
	return "pinned: " + name
}

func TestRender_UsesCapabilityWhenPresent(t *testing.T) {
	plain := fakeTool{name: "plain", group: "general"}
	rich := renderingTool{fakeTool{name: "rich", group: "general"}}
	result := &Result{Summary: "done"}

	if got := Render(plain, result); got != "done" {
		t.Errorf("plain tool must render the summary, got %q", got)
	}
	if got := Render(rich, result); got != "rich: done" {
		t.Errorf("renderer capability ignored, got %q", got)
	}
}

func TestRender_NilResult(t *testing.T) {
	if got := Render(fakeTool{}, nil); got != "" {
		t.Errorf("nil result must render empty, got %q", got)
	}
}

func TestRenderPinned_FallbackValidatesShape(t *testing.T) {
	plain := fakeTool{name: "plain", group: "general"}

	if got := RenderPinned(plain, map[string]any{"summary": "a snapshot"}); got != "a snapshot" {
		t.Errorf("expected the summary, got %q", got)
	}
	if got := RenderPinned(plain, map[string]any{}); got != "Pinned object has invalid format." {
		t.Errorf("missing summary must be reported, got %q", got)
	}
	if got := RenderPinned(plain, map[string]any{"summary": 42}); got != "Pinned object has invalid format." {
		t.Errorf("non-string summary must be reported, got %q", got)
	}
}

func TestRenderPinned_UsesCapability(t *testing.T) {
	rich := renderingTool{fakeTool{name: "rich", group: "general"}}
	if got := RenderPinned(rich, map[string]any{"name": "x"}); got != "pinned: x" {
		t.Errorf("pinned renderer ignored, got %q", got)
	}
}

func TestErrorfAndSwitch(t *testing.T) {
	e := Errorf("failed on %s", "input")
	if !e.IsError || e.Summary != "failed on input" {
		t.Errorf("malformed error result: %+v", e)
	}

	s := Switch("going", Handoff{Target: "mail"})
	if !s.ModeSwitch || s.Handoff == nil || s.Handoff.Target != "mail" {
		t.Errorf("malformed switch result: %+v", s)
	}
	if s.IsError {
		t.Error("a switch is not an error")
	}
}
