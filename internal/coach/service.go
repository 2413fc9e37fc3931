package coach

import (
	"context"
	"errors"
	"log"
	"time"

	"health-coach/internal/document"
	"health-coach/internal/quiz"
	"health-coach/internal/session"
	"health-coach/internal/storage"
)

// ResourceLookup finds supplementary links for a query; nil means none.
type ResourceLookup interface {
	Lookup(ctx context.Context, query string) *session.Resources
}

// DocumentAnalyzer produces a report about an uploaded file.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, data []byte, mimeType string, size int64) (string, error)
}

// Replier produces the coach reply for a user message.
type Replier interface {
	Reply(ctx context.Context, userText string, prior []session.Turn) (string, error)
}

// TurnResult describes the assistant turn appended by Send.
type TurnResult struct {
	Reply     string
	Resources *session.Resources
	// ReplyErr is set when the provider failed; Reply then holds the
	// rendered error text stored in the conversation.
	ReplyErr error
}

// Upload is a file submitted for analysis.
type Upload struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

type Service struct {
	sessions *session.Manager
	replier  Replier
	lookup   ResourceLookup
	analyzer DocumentAnalyzer
	recorder storage.Recorder
	now      func() time.Time
}

// New wires the service. recorder may be nil to disable the interaction log.
func New(sessions *session.Manager, replier Replier, lookup ResourceLookup, analyzer DocumentAnalyzer, recorder storage.Recorder) *Service {
	return &Service{
		sessions: sessions,
		replier:  replier,
		lookup:   lookup,
		analyzer: analyzer,
		recorder: recorder,
		now:      time.Now,
	}
}

// Send runs one user turn for the session key: append the user turn, get the
// reply, look up resources and append the assistant turn. Blank text fails
// with session.ErrInvalidInput and leaves the conversation unchanged.
func (s *Service) Send(ctx context.Context, channel, key, text string) (TurnResult, error) {
	var res TurnResult
	err := s.sessions.Do(key, func(r *session.Registry) error {
		prior := r.Turns()
		if err := r.AppendUserTurn(text); err != nil {
			return err
		}

		reply, err := s.replier.Reply(ctx, text, prior)
		if err != nil {
			log.Printf("❌ failed to generate reply for %s: %v", key, err)
			res.ReplyErr = err
			reply = ErrorReply(err)
		}
		res.Reply = reply
		res.Resources = s.lookup.Lookup(ctx, text)

		r.AppendAssistantTurn(res.Reply, res.Resources)
		return nil
	})
	if err != nil {
		return TurnResult{}, err
	}

	s.record(storage.Event{
		SessionKey:        key,
		Channel:           channel,
		Kind:              storage.KindChat,
		UserMessage:       text,
		AssistantResponse: res.Reply,
		Resources:         res.Resources.Count(),
		Failed:            res.ReplyErr != nil,
	})
	return res, nil
}

// Analyze runs document analysis and appends the report, or the message
// describing why there is none, as an assistant turn.
func (s *Service) Analyze(ctx context.Context, channel, key string, up Upload) (string, error) {
	report, err := s.analyzer.Analyze(ctx, up.Data, up.MimeType, up.Size)
	text := report
	if err != nil {
		log.Printf("📄 analysis of %q for %s failed: %v", up.Name, key, err)
		text = document.Message(err)
	}
	_ = s.sessions.Do(key, func(r *session.Registry) error {
		r.AppendAssistantTurn(text, nil)
		return nil
	})
	s.record(storage.Event{
		SessionKey:        key,
		Channel:           channel,
		Kind:              storage.KindDocument,
		UserMessage:       up.Name,
		AssistantResponse: text,
		Failed:            err != nil,
	})
	return text, err
}

// NewChat clears the active conversation. Unknown keys have nothing to clear.
func (s *Service) NewChat(key string) {
	_, _ = s.sessions.Peek(key, func(r *session.Registry) error {
		r.StartNew()
		return nil
	})
}

// Save snapshots the active conversation and returns its title.
func (s *Service) Save(key string) (string, error) {
	var title string
	found, err := s.sessions.Peek(key, func(r *session.Registry) error {
		idx, err := r.Save()
		if err != nil {
			return err
		}
		title = r.Saved()[idx].Title
		return nil
	})
	if !found {
		return "", session.ErrEmptySession
	}
	return title, err
}

func (s *Service) Load(key string, index int) error {
	found, err := s.sessions.Peek(key, func(r *session.Registry) error {
		return r.LoadSaved(index)
	})
	if !found {
		return session.ErrIndexOutOfRange
	}
	return err
}

// Snapshot is a read-only view of one session.
type Snapshot struct {
	Turns []session.Turn
	Saved []session.SavedChat
}

// Snapshot returns an empty view for keys that have no session yet; it never
// creates one.
func (s *Service) Snapshot(key string) Snapshot {
	var snap Snapshot
	_, _ = s.sessions.Peek(key, func(r *session.Registry) error {
		snap = Snapshot{Turns: r.Turns(), Saved: r.Saved()}
		return nil
	})
	return snap
}

func (s *Service) Quiz(key string) []quiz.Item {
	return quiz.Generate(s.Snapshot(key).Turns)
}

// EvictIdle forgets sessions unused for longer than ttl.
func (s *Service) EvictIdle(ttl time.Duration) {
	if n := s.sessions.EvictIdle(ttl); n > 0 {
		log.Printf("🧹 evicted %d idle sessions", n)
	}
}

func (s *Service) record(ev storage.Event) {
	if s.recorder == nil {
		return
	}
	ev.Timestamp = s.now().UTC()
	if err := s.recorder.AppendInteraction(ev); err != nil {
		log.Printf("failed to record interaction: %v", err)
	}
}

// IsInputError reports whether err is a caller mistake rather than a fault.
func IsInputError(err error) bool {
	return errors.Is(err, session.ErrInvalidInput) ||
		errors.Is(err, session.ErrEmptySession) ||
		errors.Is(err, session.ErrIndexOutOfRange)
}
