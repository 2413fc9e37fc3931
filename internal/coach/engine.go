// Package coach runs coaching turns: it asks the chat provider for a reply,
// looks up supporting resources and records both in the user's session.
package coach

import (
	"context"
	"errors"
	"log"
	"time"

	"health-coach/internal/llm"
	"health-coach/internal/session"
)

var ErrProviderFailure = errors.New("chat provider failure")

// ProviderError carries the cause of a failed completion call and matches
// ErrProviderFailure.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string   { return e.Err.Error() }
func (e *ProviderError) Unwrap() []error { return []error{ErrProviderFailure, e.Err} }

// PersonaSource supplies the system prompt for each request.
type PersonaSource interface {
	Text() string
}

// Engine produces coach replies from the chat-completion provider.
type Engine struct {
	client  llm.Client
	persona PersonaSource
	timeout time.Duration
}

func NewEngine(client llm.Client, persona PersonaSource, timeout time.Duration) *Engine {
	return &Engine{client: client, persona: persona, timeout: timeout}
}

// BuildMessages assembles the provider request: persona, prior turns and the
// new user message. Resources never reach the provider.
func BuildMessages(persona, userText string, prior []session.Turn) []llm.Message {
	msgs := make([]llm.Message, 0, len(prior)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: persona})
	for _, t := range prior {
		role := llm.RoleUser
		if t.Role == session.RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Content})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: userText})
}

// Reply returns the top completion for userText given the prior turns.
// Provider faults are returned wrapped in ErrProviderFailure.
func (e *Engine) Reply(ctx context.Context, userText string, prior []session.Turn) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.client.Generate(ctx, BuildMessages(e.persona.Text(), userText, prior))
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	log.Printf("LLM response [model=%s, tokens: prompt=%d, completion=%d, total=%d]",
		resp.Model, resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens)
	return resp.Content, nil
}

// ErrorReply renders a failed reply as the text stored in the conversation.
func ErrorReply(err error) string {
	return "Error: " + err.Error()
}
