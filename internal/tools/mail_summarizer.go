package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/hanneskern95-jpg/AI-assistant/internal/adapter"
	"github.com/hanneskern95-jpg/AI-assistant/internal/mail"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	apperrors "github.com/hanneskern95-jpg/AI-assistant/pkg/errors"
)

const (
	mailToolName  = "summarize_emails"
	mailToolGroup = "email"
	maxWindowDays = 31
)

type mailInput struct {
	DaysFromTo []int  `json:"days_from_to"`
	Question   string `json:"question,omitempty"`
}

// MailSummarizer summarizes the inbox over a day window, optionally
// answering a specific question about it. It is constructed without a mail
// session; the mode-switch tool injects one once the IMAP connection is
// established.
type MailSummarizer struct {
	chat    adapter.ChatClient
	model   string
	session *mail.Client
}

func NewMailSummarizer(deps Deps) (tool.Tool, error) {
	if deps.Chat == nil {
		return nil, apperrors.NewMissingDependency(mailToolName, "chat client")
	}
	if deps.SearchModel == "" {
		return nil, apperrors.NewMissingDependency(mailToolName, "search model")
	}
	return &MailSummarizer{chat: deps.Chat, model: deps.SearchModel}, nil
}

func (m *MailSummarizer) Group() string { return mailToolGroup }

// SetMailSession attaches a logged-in IMAP session. Called by the mail
// mode switch after it connects.
func (m *MailSummarizer) SetMailSession(c *mail.Client) {
	m.session = c
}

func (m *MailSummarizer) Descriptor() tool.Descriptor {
	return tool.Descriptor{
		Name:        mailToolName,
		Description: "Summarize inbox emails received in a day window, optionally answering a specific question about them.",
		Parameters: tool.ObjectSchema[mailInput](map[string]string{
			"days_from_to": "Two integers [from, to]: the window in days before today, e.g. [7, 0] for the last week up to today.",
			"question":     "Optional question to answer about the fetched emails instead of a general summary.",
		}),
	}
}

func (m *MailSummarizer) Execute(ctx context.Context, args map[string]any) *tool.Result {
	var input mailInput
	if err := tool.BindArguments(args, &input); err != nil {
		return tool.Errorf("Invalid arguments: %v", err)
	}
	if len(input.DaysFromTo) != 2 {
		return tool.Errorf("days_from_to must be two integers, e.g. [7, 0] for the last week.")
	}
	from, to := input.DaysFromTo[0], input.DaysFromTo[1]
	if from < 0 || to < 0 {
		return tool.Errorf("days_from_to values must be non-negative.")
	}
	if from-to > maxWindowDays {
		return tool.Errorf("The window is capped at %d days.", maxWindowDays)
	}
	if m.session == nil {
		return tool.Errorf("No mail session is active. Switch to mail mode first.")
	}

	messages, err := m.session.FetchWindow(from, to)
	if err != nil {
		return tool.Errorf("Could not fetch emails: %v", err)
	}
	if len(messages) == 0 {
		return &tool.Result{
			Summary: "No emails were received in that window.",
			Data:    map[string]any{"count": 0},
		}
	}

	summary, err := m.summarize(ctx, messages, input.Question)
	if err != nil {
		return tool.Errorf("Could not summarize the emails: %v", err)
	}

	return &tool.Result{
		Summary: summary,
		Data:    map[string]any{"count": len(messages)},
	}
}

func (m *MailSummarizer) summarize(ctx context.Context, messages []mail.Message, question string) (string, error) {
	var b strings.Builder
	for i, msg := range messages {
		fmt.Fprintf(&b, "Email %d\nFrom: %s\nSubject: %s\nDate: %s\n%s\n\n",
			i+1, msg.Sender, msg.Subject, msg.Date.Format("2006-01-02 15:04"), msg.Body)
	}

	instruction := "Summarize these emails: group related messages, call out anything that needs action, and keep it short."
	if question != "" {
		instruction = fmt.Sprintf("Answer this question about the emails below: %s", question)
	}

	return m.chat.Complete(ctx, adapter.CompletionRequest{
		Model:        m.model,
		SystemPrompt: "You are an email assistant. Work only from the emails provided.",
		Prompt:       fmt.Sprintf("%s\n\n%s", instruction, b.String()),
	})
}
