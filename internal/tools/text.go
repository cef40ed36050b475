package tools

import (
	"regexp"
	"strings"
)

// Models sometimes wrap JSON in a markdown code fence despite instructions
// not to. Strip it before parsing.
var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// stringSlice normalizes a Data field that holds strings. In-process it is
// a []string; after a JSON round trip it comes back as []any.
func stringSlice(v any) []string {
	switch items := v.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
