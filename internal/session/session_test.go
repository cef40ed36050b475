package session

import (
	"context"
	"testing"

	"github.com/hanneskern95-jpg/AI-assistant/internal/adapter"
	"github.com/hanneskern95-jpg/AI-assistant/internal/assistant"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
)

type stubChat struct{}

func (stubChat) Chat(ctx context.Context, req adapter.ChatRequest) (*adapter.ChatResponse, error) {
	return &adapter.ChatResponse{Finish: adapter.FinishText, Content: "ok"}, nil
}
func (stubChat) Complete(ctx context.Context, req adapter.CompletionRequest) (string, error) {
	return "", nil
}

func newNamedAssistant(name string) *assistant.Assistant {
	return assistant.New(assistant.Config{
		Name:   name,
		Model:  "test-model",
		Loader: tool.NewLoader(nil),
		Chat:   stubChat{},
	})
}

func newBoundSession() (*Session, *assistant.Assistant) {
	master := newNamedAssistant("master")
	s := New()
	s.SetLoader(tool.NewLoader(nil))
	s.BindMaster(master)
	return s, master
}

func TestSession_MasterActiveByDefault(t *testing.T) {
	s, master := newBoundSession()
	if s.Active() != master {
		t.Error("master must be active after binding")
	}
	if s.Master() != master {
		t.Error("master accessor broken")
	}
}

func TestApply_SwitchesToStoredSub(t *testing.T) {
	s, master := newBoundSession()
	mailAssistant := newNamedAssistant("mail")
	s.StoreSub("mail", mailAssistant)

	s.Apply(tool.Switch("going", tool.Handoff{Target: "mail"}))

	if s.Active() != mailAssistant {
		t.Error("expected the mail assistant to be active")
	}
	if s.Master() != master {
		t.Error("the master pointer must not move")
	}
}

func TestApply_SwitchBackRecordsSummary(t *testing.T) {
	s, master := newBoundSession()
	s.StoreSub("mail", newNamedAssistant("mail"))
	s.Apply(tool.Switch("going", tool.Handoff{Target: "mail"}))

	s.Apply(tool.Switch("returning", tool.Handoff{
		Target:  tool.TargetMaster,
		Summary: "Summarized 3 emails.",
	}))

	if s.Active() != master {
		t.Error("expected the master to be active again")
	}
	turns := master.History()
	if len(turns) != 1 {
		t.Fatalf("expected one context note, got %d turns", len(turns))
	}
	if turns[0].Content == "" {
		t.Error("the context note must carry the summary")
	}
}

func TestApply_SwitchBackWithoutSummary(t *testing.T) {
	s, master := newBoundSession()
	s.StoreSub("mail", newNamedAssistant("mail"))
	s.Apply(tool.Switch("going", tool.Handoff{Target: "mail"}))

	s.Apply(tool.Switch("returning", tool.Handoff{Target: tool.TargetMaster}))

	if s.Active() != master {
		t.Error("expected the master to be active again")
	}
	if len(master.History()) != 0 {
		t.Error("no summary means no context note")
	}
}

func TestApply_UnknownTargetIgnored(t *testing.T) {
	s, master := newBoundSession()

	s.Apply(tool.Switch("going", tool.Handoff{Target: "nonexistent"}))

	if s.Active() != master {
		t.Error("an unknown target must not move the active pointer")
	}
}

func TestApply_IgnoresNonSwitchResults(t *testing.T) {
	s, master := newBoundSession()
	s.StoreSub("mail", newNamedAssistant("mail"))

	s.Apply(nil)
	s.Apply(&tool.Result{Summary: "plain"})
	s.Apply(&tool.Result{Summary: "marked but incomplete", ModeSwitch: true})

	if s.Active() != master {
		t.Error("non-switch results must not move the active pointer")
	}
}

func TestPinSlot(t *testing.T) {
	s, _ := newBoundSession()

	if s.Pin() != nil {
		t.Error("pin slot starts empty")
	}

	s.SetPin("find_recipe_online", map[string]any{"summary": "recipes"})
	pin := s.Pin()
	if pin == nil || pin.ToolName != "find_recipe_online" {
		t.Fatalf("pin lost: %+v", pin)
	}

	// Pinning again overwrites the single slot.
	s.SetPin("create_spotify_playlist", map[string]any{"summary": "playlist"})
	pin = s.Pin()
	if pin.ToolName != "create_spotify_playlist" {
		t.Errorf("expected the newer pin, got %q", pin.ToolName)
	}

	s.ClearPin()
	if s.Pin() != nil {
		t.Error("clear must empty the slot")
	}
}

func TestSubCache(t *testing.T) {
	s, _ := newBoundSession()

	if _, ok := s.Sub("mail"); ok {
		t.Error("no sub should exist yet")
	}

	mailAssistant := newNamedAssistant("mail")
	s.StoreSub("mail", mailAssistant)

	got, ok := s.Sub("mail")
	if !ok || got != mailAssistant {
		t.Error("stored sub must be retrievable")
	}
}
