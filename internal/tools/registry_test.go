package tools

import (
	"context"
	"testing"

	"github.com/hanneskern95-jpg/AI-assistant/internal/adapter"
	"github.com/hanneskern95-jpg/AI-assistant/internal/session"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/config"
	apperrors "github.com/hanneskern95-jpg/AI-assistant/pkg/errors"
)

// Mock implementations for testing

type fakeChat struct {
	completeFunc func(ctx context.Context, req adapter.CompletionRequest) (string, error)
}

func (f *fakeChat) Chat(ctx context.Context, req adapter.ChatRequest) (*adapter.ChatResponse, error) {
	return &adapter.ChatResponse{Finish: adapter.FinishText, Content: "ok"}, nil
}

func (f *fakeChat) Complete(ctx context.Context, req adapter.CompletionRequest) (string, error) {
	if f.completeFunc != nil {
		return f.completeFunc(ctx, req)
	}
	return "", nil
}

func fullDeps() Deps {
	profiles := config.DefaultProfiles()
	return Deps{
		Chat:        &fakeChat{},
		Model:       "test-model",
		SearchModel: "test-search-model",
		Session:     session.New(),
		Profiles:    &profiles,
	}
}

func TestBuiltin_BuildsCompleteToolSet(t *testing.T) {
	registry, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}

	instances, err := registry.Build(fullDeps())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	expected := []string{
		playlistToolName,
		recipeToolName,
		factToolName,
		mailToolName,
		mailSwitchToolName,
		masterSwitchToolName,
	}
	if len(instances) != len(expected) {
		t.Fatalf("expected %d tools, got %d", len(expected), len(instances))
	}
	for _, name := range expected {
		instance, ok := instances[name]
		if !ok {
			t.Errorf("missing tool %s", name)
			continue
		}
		if instance.Descriptor().Name != name {
			t.Errorf("tool %s declares name %s", name, instance.Descriptor().Name)
		}
	}
}

func TestBuiltin_GroupAssignments(t *testing.T) {
	registry, _ := Builtin()
	instances, err := registry.Build(fullDeps())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	groups := map[string]string{
		playlistToolName:     tool.DefaultGroup,
		recipeToolName:       tool.DefaultGroup,
		factToolName:         tool.DefaultGroup,
		mailSwitchToolName:   tool.DefaultGroup,
		mailToolName:         mailToolGroup,
		masterSwitchToolName: subAssistantGroup,
	}
	for name, group := range groups {
		if got := instances[name].Group(); got != group {
			t.Errorf("%s in group %q, expected %q", name, got, group)
		}
	}
}

func TestBuild_MissingDependencyIsFatal(t *testing.T) {
	registry, _ := Builtin()

	deps := fullDeps()
	deps.Chat = nil

	_, err := registry.Build(deps)
	if err == nil {
		t.Fatal("expected a missing-dependency failure")
	}
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeFactory) {
		t.Errorf("expected a factory error, got %v", err)
	}
}

func TestRegister_DuplicateNameFails(t *testing.T) {
	registry := NewRegistry()
	builder := func(deps Deps) (tool.Tool, error) { return &MasterModeSwitcher{}, nil }

	if err := registry.Register("some_tool", builder); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	err := registry.Register("some_tool", builder)
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeFactory) {
		t.Errorf("expected a factory error, got %v", err)
	}
}

func TestBuild_NameMismatchIsFatal(t *testing.T) {
	registry := NewRegistry()
	// MasterModeSwitcher declares masterSwitchToolName, not "wrong_name".
	_ = registry.Register("wrong_name", func(deps Deps) (tool.Tool, error) {
		return &MasterModeSwitcher{}, nil
	})

	if _, err := registry.Build(fullDeps()); err == nil {
		t.Fatal("expected the declared-name mismatch to fail the build")
	}
}
