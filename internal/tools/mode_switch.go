package tools

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hanneskern95-jpg/AI-assistant/internal/adapter"
	"github.com/hanneskern95-jpg/AI-assistant/internal/assistant"
	"github.com/hanneskern95-jpg/AI-assistant/internal/mail"
	"github.com/hanneskern95-jpg/AI-assistant/internal/session"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/config"
	apperrors "github.com/hanneskern95-jpg/AI-assistant/pkg/errors"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

const (
	mailSwitchToolName   = "switch_to_mail_mode"
	masterSwitchToolName = "switch_back_to_master_mode"

	// MailAssistantName is the hand-off target for mail mode.
	MailAssistantName = "mail"

	// subAssistantGroup tags tools every secondary assistant carries, most
	// importantly the way back to the master.
	subAssistantGroup = "sub_assistant"
)

// MailModeSwitcher hands the conversation over to the mail assistant. The
// first switch establishes the IMAP session and constructs the assistant;
// later switches resume the cached one. Failures leave the master active
// and are reported as tool errors, never as a broken half-switch.
type MailModeSwitcher struct {
	tool.Base
	chat     adapter.ChatClient
	model    string
	session  *session.Session
	mailCfg  mail.Config
	profile  config.Profile
	mailConn *mail.Client
	logger   *zap.Logger
}

func NewMailModeSwitcher(deps Deps) (tool.Tool, error) {
	if deps.Session == nil {
		return nil, apperrors.NewMissingDependency(mailSwitchToolName, "session")
	}
	if deps.Chat == nil {
		return nil, apperrors.NewMissingDependency(mailSwitchToolName, "chat client")
	}
	if deps.Model == "" {
		return nil, apperrors.NewMissingDependency(mailSwitchToolName, "conversation model")
	}
	if deps.Profiles == nil {
		return nil, apperrors.NewMissingDependency(mailSwitchToolName, "assistant profiles")
	}
	return &MailModeSwitcher{
		chat:    deps.Chat,
		model:   deps.Model,
		session: deps.Session,
		mailCfg: deps.Mail,
		profile: deps.Profiles.Mail,
		logger:  logger.Get(),
	}, nil
}

func (m *MailModeSwitcher) Descriptor() tool.Descriptor {
	return tool.Descriptor{
		Name:        mailSwitchToolName,
		Description: "Switch the conversation to the specialized email assistant. Use when the user wants to read, search, or summarize their emails.",
		Parameters:  tool.ObjectSchema[struct{}](nil),
	}
}

func (m *MailModeSwitcher) Execute(ctx context.Context, args map[string]any) *tool.Result {
	if _, ok := m.session.Sub(MailAssistantName); ok {
		return tool.Switch("Switched to mail mode.", tool.Handoff{Target: MailAssistantName})
	}

	if !m.mailCfg.Configured() {
		err := apperrors.NewAssistantUnavailable(MailAssistantName, "IMAP is not configured", nil)
		m.logger.Warn("Mail mode refused", zap.Error(err))
		return tool.Errorf("The mail assistant is unavailable: IMAP credentials are not configured.")
	}

	conn, err := mail.Connect(m.mailCfg)
	if err != nil {
		uerr := apperrors.NewAssistantUnavailable(MailAssistantName, "IMAP connection failed", err)
		m.logger.Warn("Mail mode refused", zap.Error(uerr))
		return tool.Errorf("The mail assistant is unavailable: could not connect to the mailbox (%v).", err)
	}
	m.mailConn = conn

	loader := m.session.Loader()
	if loader == nil {
		_ = conn.Close()
		return tool.Errorf("The mail assistant is unavailable: tool loader is not attached.")
	}

	// The summarizer instance is shared through the loader; hand it the
	// live session before the mail assistant loads it.
	for _, t := range loader.Load(mailToolGroup) {
		if ms, ok := t.(*MailSummarizer); ok {
			ms.SetMailSession(conn)
		}
	}

	mailAssistant := assistant.New(assistant.Config{
		Name:         MailAssistantName,
		SystemPrompt: m.profile.SystemPrompt,
		Model:        m.model,
		Groups:       m.profile.Groups,
		Loader:       loader,
		Chat:         m.chat,
	})
	m.session.StoreSub(MailAssistantName, mailAssistant)

	m.logger.Info("Mail assistant constructed", zap.Strings("groups", m.profile.Groups))
	return tool.Switch("Switched to mail mode.", tool.Handoff{Target: MailAssistantName})
}

// Close shuts down the IMAP session if one was established.
func (m *MailModeSwitcher) Close() error {
	if m.mailConn == nil {
		return nil
	}
	return m.mailConn.Close()
}

type masterSwitchInput struct {
	Summary string `json:"summary,omitempty"`
}

// MasterModeSwitcher hands control back to the master assistant, carrying
// an optional summary of what the secondary assistant did so the master's
// next model call has that context.
type MasterModeSwitcher struct{}

func NewMasterModeSwitcher(deps Deps) (tool.Tool, error) {
	return &MasterModeSwitcher{}, nil
}

func (m *MasterModeSwitcher) Group() string { return subAssistantGroup }

func (m *MasterModeSwitcher) Descriptor() tool.Descriptor {
	return tool.Descriptor{
		Name:        masterSwitchToolName,
		Description: "Return the conversation to the main assistant. Use when the user is done with the specialized tasks.",
		Parameters: tool.ObjectSchema[masterSwitchInput](map[string]string{
			"summary": "Optional one-paragraph summary of what was accomplished here, passed to the main assistant as context.",
		}),
	}
}

func (m *MasterModeSwitcher) Execute(ctx context.Context, args map[string]any) *tool.Result {
	var input masterSwitchInput
	if err := tool.BindArguments(args, &input); err != nil {
		return tool.Errorf("Invalid arguments: %v", err)
	}

	return tool.Switch("Returning to the main assistant.", tool.Handoff{
		Target:  tool.TargetMaster,
		Summary: strings.TrimSpace(input.Summary),
	})
}
