// Package session holds the conversation model: turns, attached resources,
// the active conversation and the named snapshots saved from it.
package session

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	titleLength    = 20
	ellipsisMarker = "..."
)

var (
	ErrInvalidInput    = errors.New("message must not be blank")
	ErrEmptySession    = errors.New("conversation has no turns to save")
	ErrIndexOutOfRange = errors.New("saved chat index out of range")
)

// Link is a titled URL returned by the search provider.
type Link struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Resources are the supplementary links attached to an assistant turn.
// A nil *Resources means no resources; a non-nil value with empty lists
// means the lookup succeeded and found nothing.
type Resources struct {
	Articles []Link `json:"articles"`
	Videos   []Link `json:"videos"`
}

func (r *Resources) clone() *Resources {
	if r == nil {
		return nil
	}
	return &Resources{
		Articles: append([]Link{}, r.Articles...),
		Videos:   append([]Link{}, r.Videos...),
	}
}

// Count is the total number of links, zero for nil.
func (r *Resources) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Articles) + len(r.Videos)
}

type Turn struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Resources *Resources `json:"resources,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (t Turn) clone() Turn {
	t.Resources = t.Resources.clone()
	return t
}

// Conversation is an ordered sequence of turns.
type Conversation struct {
	Turns []Turn `json:"turns"`
}

func (c Conversation) clone() Conversation {
	out := Conversation{Turns: make([]Turn, 0, len(c.Turns))}
	for _, t := range c.Turns {
		out.Turns = append(out.Turns, t.clone())
	}
	return out
}

type SavedChat struct {
	Title        string       `json:"title"`
	Conversation Conversation `json:"conversation"`
}

// Title derives a saved chat title from the first turn's content.
func Title(content string) string {
	if utf8.RuneCountInString(content) <= titleLength {
		return content + ellipsisMarker
	}
	return string([]rune(content)[:titleLength]) + ellipsisMarker
}

// Registry is the state of one user's coaching session. It is not safe for
// concurrent use; Manager serializes access per session key.
type Registry struct {
	active Conversation
	saved  []SavedChat
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{now: time.Now}
}

func (r *Registry) StartNew() {
	r.active = Conversation{}
}

func (r *Registry) AppendUserTurn(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrInvalidInput
	}
	r.active.Turns = append(r.active.Turns, Turn{Role: RoleUser, Content: text, CreatedAt: r.now()})
	return nil
}

func (r *Registry) AppendAssistantTurn(text string, resources *Resources) {
	r.active.Turns = append(r.active.Turns, Turn{
		Role:      RoleAssistant,
		Content:   text,
		Resources: resources.clone(),
		CreatedAt: r.now(),
	})
}

// Save snapshots the active conversation and returns the index of the new
// saved chat.
func (r *Registry) Save() (int, error) {
	if len(r.active.Turns) == 0 {
		return 0, ErrEmptySession
	}
	r.saved = append(r.saved, SavedChat{
		Title:        Title(r.active.Turns[0].Content),
		Conversation: r.active.clone(),
	})
	return len(r.saved) - 1, nil
}

func (r *Registry) LoadSaved(index int) error {
	if index < 0 || index >= len(r.saved) {
		return ErrIndexOutOfRange
	}
	r.active = r.saved[index].Conversation.clone()
	return nil
}

// Turns returns a copy of the active conversation's turns.
func (r *Registry) Turns() []Turn {
	return r.active.clone().Turns
}

func (r *Registry) Len() int { return len(r.active.Turns) }

// Saved returns copies of the saved chats, oldest first.
func (r *Registry) Saved() []SavedChat {
	out := make([]SavedChat, 0, len(r.saved))
	for _, s := range r.saved {
		out = append(out, SavedChat{Title: s.Title, Conversation: s.Conversation.clone()})
	}
	return out
}
