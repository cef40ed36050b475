// Package adapter wraps the chat completion endpoint behind a small
// interface the dispatch core and the tools can share and tests can fake.
package adapter

import (
	"context"
	"encoding/json"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/hanneskern95-jpg/AI-assistant/internal/conversation"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	apperrors "github.com/hanneskern95-jpg/AI-assistant/pkg/errors"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

// Finish distinguishes the two terminal outcomes of a model call.
type Finish string

const (
	// FinishText means the model answered with plain text.
	FinishText Finish = "text"
	// FinishToolCall means the model requested one or more tool calls.
	FinishToolCall Finish = "tool_call"
)

// ToolCall is one requested call as returned by the model. Arguments is
// the raw JSON string; the dispatch core parses it before executing.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ChatRequest carries everything one dispatch cycle sends to the model:
// the system prompt, the full replayed history, and the descriptors of the
// loaded tool set.
type ChatRequest struct {
	Model        string
	SystemPrompt string
	Turns        []conversation.Turn
	Tools        []tool.Descriptor
}

// ChatResponse is the parsed terminal outcome of a model call.
type ChatResponse struct {
	Finish    Finish
	Content   string
	ToolCalls []ToolCall
}

// CompletionRequest is the simpler shape tools use for their own internal
// model calls (no history, no tools).
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Prompt       string
	JSONMode     bool
}

// ChatClient is the model call boundary. The production implementation is
// LLMAdapter; tests substitute fakes.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

const maxRetries = 3

// LLMAdapter talks to an OpenAI-compatible chat completion endpoint.
type LLMAdapter struct {
	client *openai.Client
	logger *zap.Logger
}

// NewLLMAdapter creates an adapter for the given endpoint. An empty
// baseURL targets the public OpenAI API.
func NewLLMAdapter(apiKey, baseURL string) *LLMAdapter {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &LLMAdapter{
		client: openai.NewClientWithConfig(config),
		logger: logger.Get(),
	}
}

// Chat sends the replayed conversation and tool descriptors to the model
// and parses the first choice into a terminal outcome.
func (a *LLMAdapter) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	messages := toMessages(req.SystemPrompt, req.Turns)

	openaiTools := make([]openai.Tool, 0, len(req.Tools))
	for _, d := range req.Tools {
		openaiTools = append(openaiTools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	}
	if len(openaiTools) > 0 {
		chatReq.Tools = openaiTools
	}

	resp, err := a.createWithRetry(ctx, chatReq)
	if err != nil {
		return nil, apperrors.NewModelRequestFailed(req.Model, maxRetries, err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.ErrModelEmptyResponse
	}

	choice := resp.Choices[0]
	out := &ChatResponse{Finish: FinishText, Content: choice.Message.Content}

	if choice.FinishReason == openai.FinishReasonToolCalls || len(choice.Message.ToolCalls) > 0 {
		out.Finish = FinishToolCall
		for _, tc := range choice.Message.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}

	a.logger.Debug("Model response",
		zap.String("model", req.Model),
		zap.String("finish", string(out.Finish)),
		zap.Int("tool_calls", len(out.ToolCalls)),
	)

	return out, nil
}

// Complete runs a standalone completion for a tool's internal use.
func (a *LLMAdapter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := a.createWithRetry(ctx, chatReq)
	if err != nil {
		return "", apperrors.NewModelRequestFailed(req.Model, maxRetries, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.ErrModelEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// createWithRetry retries transient completion failures with linear
// backoff, matching the transport's own behavior for flaky gateways.
func (a *LLMAdapter) createWithRetry(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			a.logger.Warn("Retrying model request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return resp, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err = a.client.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}

		a.logger.Error("Model request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", req.Model),
		)
	}
	return resp, err
}

// toMessages converts the system prompt plus history into the wire shape.
// Tool results are serialized as JSON so the model sees structure, with a
// plain-summary fallback when marshalling fails.
func toMessages(systemPrompt string, turns []conversation.Turn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for _, turn := range turns {
		switch {
		case turn.Role == conversation.RoleUser:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: turn.Content,
			})

		case turn.IsToolCall():
			calls := make([]openai.ToolCall, 0, len(turn.ToolCalls))
			for _, call := range turn.ToolCalls {
				calls = append(calls, openai.ToolCall{
					ID:   call.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: call.Arguments,
					},
				})
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:      openai.ChatMessageRoleAssistant,
				ToolCalls: calls,
			})

		case turn.Role == conversation.RoleAssistant:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: turn.Content,
			})

		case turn.Role == conversation.RoleTool:
			content := ""
			if turn.Result != nil {
				if raw, err := json.Marshal(turn.Result); err == nil {
					content = string(raw)
				} else {
					content = turn.Result.Summary
				}
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    content,
				ToolCallID: turn.CallID,
			})
		}
	}

	return messages
}
