package analytics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"health-coach/internal/storage"
)

func testEvents(day time.Time) []storage.Event {
	return []storage.Event{
		{Timestamp: day.Add(2 * time.Hour), SessionKey: "a", Channel: storage.ChannelWeb, Kind: storage.KindChat, UserMessage: "sleep?", Resources: 5},
		{Timestamp: day.Add(3 * time.Hour), SessionKey: "a", Channel: storage.ChannelWeb, Kind: storage.KindChat, UserMessage: "diet?", Failed: true},
		{Timestamp: day.Add(4 * time.Hour), SessionKey: "42", Channel: storage.ChannelTelegram, Kind: storage.KindChat, UserMessage: "hi", Resources: 2},
		{Timestamp: day.Add(5 * time.Hour), SessionKey: "42", Channel: storage.ChannelTelegram, Kind: storage.KindDocument, UserMessage: "labs.pdf"},
		// next day, ignored
		{Timestamp: day.AddDate(0, 0, 1), SessionKey: "b", Channel: storage.ChannelWeb, Kind: storage.KindChat},
		// previous day, ignored
		{Timestamp: day.Add(-time.Minute), SessionKey: "c", Channel: storage.ChannelWeb, Kind: storage.KindChat},
	}
}

func TestAnalyzeDailyLogs(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	stats := AnalyzeDailyLogs(testEvents(day), day.Add(13*time.Hour))

	if stats.Date != "2024-01-15" {
		t.Errorf("Expected date '2024-01-15', got '%s'", stats.Date)
	}
	if stats.ChatMessages != 3 {
		t.Errorf("Expected 3 chat messages, got %d", stats.ChatMessages)
	}
	if stats.DocumentsChecked != 1 {
		t.Errorf("Expected 1 document, got %d", stats.DocumentsChecked)
	}
	if stats.UniqueSessions != 2 {
		t.Errorf("Expected 2 sessions, got %d", stats.UniqueSessions)
	}
	if stats.FailedResponses != 1 {
		t.Errorf("Expected 1 failure, got %d", stats.FailedResponses)
	}
	if stats.RepliesWithLinks != 2 || stats.ResourceLinks != 7 {
		t.Errorf("Expected 2 replies with 7 links, got %d with %d", stats.RepliesWithLinks, stats.ResourceLinks)
	}
	if stats.ByChannel[storage.ChannelWeb] != 2 || stats.ByChannel[storage.ChannelTelegram] != 2 {
		t.Errorf("Unexpected channel counts: %v", stats.ByChannel)
	}
}

func TestGenerateReportSummary(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	summary := AnalyzeDailyLogs(testEvents(day), day).GenerateReportSummary()

	for _, want := range []string{"2024-01-15", "Chat messages: 3", "Documents analyzed: 1", "- telegram: 2", "- web: 2"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Index(summary, "telegram") > strings.Index(summary, "- web") {
		t.Errorf("channels not sorted:\n%s", summary)
	}
}

func TestToJSON(t *testing.T) {
	stats := AnalyzeDailyLogs(nil, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	out, err := stats.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["date"] != "2024-02-01" || decoded["chat_messages"] != float64(0) {
		t.Fatalf("unexpected json: %s", out)
	}
}
