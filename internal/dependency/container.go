// Package dependency wires the application services using go.uber.org/dig.
package dependency

import (
	"go.uber.org/dig"

	"github.com/hanneskern95-jpg/AI-assistant/internal/adapter"
	"github.com/hanneskern95-jpg/AI-assistant/internal/assistant"
	"github.com/hanneskern95-jpg/AI-assistant/internal/mail"
	"github.com/hanneskern95-jpg/AI-assistant/internal/server"
	"github.com/hanneskern95-jpg/AI-assistant/internal/session"
	"github.com/hanneskern95-jpg/AI-assistant/internal/spotify"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tools"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/config"
)

// Container holds the resolved application singletons. Callers use the
// typed getters; they never need to import dig directly.
type Container struct {
	session *session.Session
	server  *server.Server
}

func (c *Container) Session() *session.Session { return c.session }
func (c *Container) Server() *server.Server { return c.server }

// New builds and wires everything from cfg. The session is created
// unbound, the tool set is built against it, the master assistant is built
// over the resulting loader, and the session is then bound — tools only
// dereference the session at execution time, after binding.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	providers := []any{
		func() *config.Config { return cfg },
		newProfiles,
		newChatClient,
		newSession,
		newDeps,
		newLoader,
		newMasterAssistant,
		newServer,
	}
	for _, p := range providers {
		if err := d.Provide(p); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(sess *session.Session, master *assistant.Assistant, loader *tool.Loader, srv *server.Server) {
		sess.SetLoader(loader)
		sess.BindMaster(master)
		result = &Container{session: sess, server: srv}
	})
	return result, err
}

func newProfiles(cfg *config.Config) (*config.Profiles, error) {
	profiles, err := config.LoadProfiles(cfg.ProfilesPath)
	if err != nil {
		return nil, err
	}
	return &profiles, nil
}

func newChatClient(cfg *config.Config) adapter.ChatClient {
	return adapter.NewLLMAdapter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
}

func newSession() *session.Session {
	return session.New()
}

func newDeps(cfg *config.Config, chat adapter.ChatClient, sess *session.Session, profiles *config.Profiles) tools.Deps {
	deps := tools.Deps{
		Chat:        chat,
		Model:       cfg.ModelID,
		SearchModel: cfg.SearchModelID,
		Session:     sess,
		Profiles:    profiles,
		Mail: mail.Config{
			Addr:     cfg.IMAPAddr,
			Username: cfg.IMAPUsername,
			Password: cfg.IMAPPassword,
		},
	}
	if cfg.SpotifyToken != "" {
		deps.Spotify = spotify.NewClient(cfg.SpotifyToken)
	}
	return deps
}

func newLoader(deps tools.Deps) (*tool.Loader, error) {
	registry, err := tools.Builtin()
	if err != nil {
		return nil, err
	}
	instances, err := registry.Build(deps)
	if err != nil {
		return nil, err
	}
	return tool.NewLoader(instances), nil
}

func newMasterAssistant(cfg *config.Config, chat adapter.ChatClient, loader *tool.Loader, profiles *config.Profiles) *assistant.Assistant {
	return assistant.New(assistant.Config{
		Name:         tool.TargetMaster,
		SystemPrompt: profiles.Master.SystemPrompt,
		Model:        cfg.ModelID,
		Groups:       profiles.Master.Groups,
		Loader:       loader,
		Chat:         chat,
	})
}

func newServer(cfg *config.Config, sess *session.Session) *server.Server {
	return server.New(cfg, sess)
}
