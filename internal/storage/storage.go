package storage

import "time"

const (
	ChannelWeb      = "web"
	ChannelTelegram = "telegram"

	KindChat     = "chat"
	KindDocument = "document"
)

// Event represents a single interaction of a user and the coach.
// A record combines the user's message (or uploaded file name) and the
// coach's response. Events are expected to be appended in chronological order.
// The log is an audit trail only; sessions are never restored from it.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	SessionKey        string    `json:"session_key"`
	Channel           string    `json:"channel"`
	Kind              string    `json:"kind"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
	Resources         int       `json:"resources"`
	Failed            bool      `json:"failed,omitempty"`
}

// Recorder abstracts persistence of interaction events.
// LoadInteractions should return events in chronological order.
// AppendInteraction should atomically append a new event.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
