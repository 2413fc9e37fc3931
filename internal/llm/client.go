package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Options are the generation parameters sent with every completion request.
type Options struct {
	Temperature float32
	MaxTokens   int
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
