package tool

// Render turns a tool result into display text. Tools implementing the
// Renderer capability get to format their own output; everything else
// shows the summary verbatim.
func Render(t Tool, result *Result) string {
	if result == nil {
		return ""
	}
	if renderer, ok := t.(Renderer); ok {
		return renderer.Render(result)
	}
	return result.Summary
}

// RenderPinned turns a pinned snapshot into display text. A malformed
// pinned object (missing summary) is reported as a display-level error,
// never a crash.
func RenderPinned(t Tool, data map[string]any) string {
	if renderer, ok := t.(PinnedRenderer); ok {
		return renderer.RenderPinned(data)
	}
	summary, ok := data["summary"].(string)
	if !ok || summary == "" {
		return "Pinned object has invalid format."
	}
	return summary
}
