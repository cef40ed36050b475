// Package tools hosts the concrete tool implementations and the factory
// that instantiates them from one shared dependency bag.
package tools

import (
	"github.com/hanneskern95-jpg/AI-assistant/internal/adapter"
	"github.com/hanneskern95-jpg/AI-assistant/internal/mail"
	"github.com/hanneskern95-jpg/AI-assistant/internal/session"
	"github.com/hanneskern95-jpg/AI-assistant/internal/spotify"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/config"
)

// Deps is the shared dependency bag every tool builder draws from. It is
// assembled once at startup; builders that need an absent entry fail
// construction rather than producing a half-wired tool.
type Deps struct {
	// Chat is the model call boundary tools use for their own completions.
	Chat adapter.ChatClient
	// Model is the conversation model, used when a secondary assistant is
	// constructed.
	Model string
	// SearchModel is the model tools use internally.
	SearchModel string
	// Session carries the hand-off and pin state. Mode-switch tools need it.
	Session *session.Session
	// Mail holds the IMAP connection parameters; mail mode is unavailable
	// without them.
	Mail mail.Config
	// Spotify is the playlist backend, nil when no token is configured.
	Spotify spotify.API
	// Profiles supplies system prompts and group sets for assistants
	// constructed after startup.
	Profiles *config.Profiles
}
