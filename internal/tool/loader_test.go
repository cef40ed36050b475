package tool

import (
	"context"
	"testing"
)

type fakeTool struct {
	name  string
	group string
}

func (f fakeTool) Descriptor() Descriptor {
	return Descriptor{Name: f.name, Description: "fake", Parameters: map[string]any{"type": "object"}}
}
func (f fakeTool) Group() string { return f.group }
func (f fakeTool) Execute(ctx context.Context, args map[string]any) *Result {
	return &Result{Summary: "ok"}
}

func TestLoader_FiltersByGroup(t *testing.T) {
	loader := NewLoader(map[string]Tool{
		"alpha": fakeTool{name: "alpha", group: "general"},
		"beta":  fakeTool{name: "beta", group: "email"},
		"gamma": fakeTool{name: "gamma", group: "email"},
	})

	general := loader.Load("general")
	if len(general) != 1 {
		t.Fatalf("expected 1 general tool, got %d", len(general))
	}
	if _, ok := general["alpha"]; !ok {
		t.Error("expected alpha in the general view")
	}

	email := loader.Load("email")
	if len(email) != 2 {
		t.Fatalf("expected 2 email tools, got %d", len(email))
	}
	if _, ok := email["alpha"]; ok {
		t.Error("alpha must not leak into the email view")
	}
}

func TestLoader_MultipleGroups(t *testing.T) {
	loader := NewLoader(map[string]Tool{
		"alpha": fakeTool{name: "alpha", group: "general"},
		"beta":  fakeTool{name: "beta", group: "email"},
	})

	both := loader.Load("general", "email")
	if len(both) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(both))
	}
}

func TestLoader_EmptyAndUnknownGroups(t *testing.T) {
	loader := NewLoader(map[string]Tool{
		"alpha": fakeTool{name: "alpha", group: "general"},
	})

	if got := loader.Load(); len(got) != 0 {
		t.Errorf("empty group list must load nothing, got %d", len(got))
	}
	if got := loader.Load("nonexistent"); len(got) != 0 {
		t.Errorf("unknown group must load nothing, got %d", len(got))
	}
}

func TestLoader_SharedInstances(t *testing.T) {
	shared := fakeTool{name: "alpha", group: "general"}
	loader := NewLoader(map[string]Tool{"alpha": shared})

	a := loader.Load("general")["alpha"]
	b := loader.Load("general")["alpha"]
	if a != b {
		t.Error("views must share the same underlying instance")
	}
}
