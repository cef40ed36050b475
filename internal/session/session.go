// Package session holds the per-conversation mutable state that outlives a
// single dispatch cycle: which assistant is active, the cached secondary
// assistants, and the single pinned result slot.
package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/hanneskern95-jpg/AI-assistant/internal/assistant"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

// Pinned is a snapshot of one past tool result kept visible across
// subsequent turns. One slot; pinning again overwrites.
type Pinned struct {
	ToolName string         `json:"tool_name"`
	Data     map[string]any `json:"data"`
}

// Session owns the active-assistant pointer. Only Apply moves it; tools
// request a switch through the results they return and never touch the
// session directly. The mutex makes the accessors safe for the HTTP layer,
// which serves reads while a submit is in flight.
type Session struct {
	mu     sync.Mutex
	master *assistant.Assistant
	active *assistant.Assistant
	subs   map[string]*assistant.Assistant
	loader *tool.Loader
	pinned *Pinned
	logger *zap.Logger
}

// New creates an unbound session. Construction order requires it: tools
// are built against the session, the master assistant is built against the
// tools, and only then can BindMaster complete the cycle.
func New() *Session {
	return &Session{
		subs:   make(map[string]*assistant.Assistant),
		logger: logger.Get(),
	}
}

// BindMaster attaches the master assistant and makes it active. Called
// once at startup, before any submit.
func (s *Session) BindMaster(master *assistant.Assistant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.master = master
	s.active = master
}

// Master returns the master assistant.
func (s *Session) Master() *assistant.Assistant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.master
}

// Active returns the assistant currently handling submits.
func (s *Session) Active() *assistant.Assistant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Sub returns a cached secondary assistant by name.
func (s *Session) Sub(name string) (*assistant.Assistant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.subs[name]
	return a, ok
}

// StoreSub caches a secondary assistant so a later switch into the same
// mode resumes its conversation instead of starting over.
func (s *Session) StoreSub(name string, a *assistant.Assistant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[name] = a
}

// SetLoader attaches the shared tool loader. Mode-switch tools use it to
// reach instances loaded into other groups.
func (s *Session) SetLoader(l *tool.Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loader = l
}

// Loader returns the shared tool loader.
func (s *Session) Loader() *tool.Loader {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader
}

// SetPin stores a result snapshot in the single pin slot, replacing any
// previous pin.
func (s *Session) SetPin(toolName string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = &Pinned{ToolName: toolName, Data: data}
	s.logger.Debug("Pinned result", zap.String("tool", toolName))
}

// Pin returns the current pinned snapshot, or nil.
func (s *Session) Pin() *Pinned {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinned
}

// ClearPin empties the pin slot.
func (s *Session) ClearPin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = nil
}

// Activate makes the named secondary assistant active. The assistant must
// already be stored via StoreSub; mode-switch tools construct it first and
// report construction failure as an error-shaped result, so by the time
// Apply runs the target exists.
func (s *Session) activate(name string) bool {
	if name == tool.TargetMaster {
		s.active = s.master
		return true
	}
	sub, ok := s.subs[name]
	if !ok {
		return false
	}
	s.active = sub
	return true
}

// Apply inspects a tool result and performs any hand-off it requests.
// Switching back to the master records the secondary assistant's summary
// as a context note in the master's history. A hand-off naming an unknown
// target leaves the active pointer unchanged; the error-shaped result has
// already told the user what happened.
func (s *Session) Apply(result *tool.Result) {
	if result == nil || !result.ModeSwitch || result.Handoff == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := result.Handoff.Target
	from := s.active.Name()
	if !s.activate(target) {
		s.logger.Warn("Hand-off to unknown assistant ignored",
			zap.String("from", from),
			zap.String("target", target),
		)
		return
	}

	if target == tool.TargetMaster && result.Handoff.Summary != "" {
		s.master.NoteHandoff(result.Handoff.Summary)
	}

	s.logger.Info("Active assistant switched",
		zap.String("from", from),
		zap.String("to", s.active.Name()),
	)
}
