package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"health-coach/internal/storage"
)

// DailyStats summarizes coaching activity for one day.
type DailyStats struct {
	Date             string         `json:"date"`
	ChatMessages     int            `json:"chat_messages"`
	DocumentsChecked int            `json:"documents_checked"`
	UniqueSessions   int            `json:"unique_sessions"`
	FailedResponses  int            `json:"failed_responses"`
	RepliesWithLinks int            `json:"replies_with_links"`
	ResourceLinks    int            `json:"resource_links"`
	ByChannel        map[string]int `json:"by_channel"`
}

// AnalyzeDailyLogs aggregates the events that happened on targetDate.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:      startOfDay.Format("2006-01-02"),
		ByChannel: make(map[string]int),
	}
	sessions := make(map[string]bool)

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		sessions[event.Channel+"/"+event.SessionKey] = true
		stats.ByChannel[event.Channel]++
		if event.Failed {
			stats.FailedResponses++
		}

		switch event.Kind {
		case storage.KindDocument:
			stats.DocumentsChecked++
		default:
			stats.ChatMessages++
			if event.Resources > 0 {
				stats.RepliesWithLinks++
				stats.ResourceLinks += event.Resources
			}
		}
	}

	stats.UniqueSessions = len(sessions)
	return stats
}

// GenerateReportSummary renders the stats as a short plain-text report.
func (ds *DailyStats) GenerateReportSummary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Health Coach usage for %s:\n\n", ds.Date)
	fmt.Fprintf(&sb, "- Chat messages: %d\n", ds.ChatMessages)
	fmt.Fprintf(&sb, "- Documents analyzed: %d\n", ds.DocumentsChecked)
	fmt.Fprintf(&sb, "- Unique sessions: %d\n", ds.UniqueSessions)
	fmt.Fprintf(&sb, "- Failed responses: %d\n", ds.FailedResponses)
	fmt.Fprintf(&sb, "- Replies with resources: %d (%d links)\n", ds.RepliesWithLinks, ds.ResourceLinks)

	if len(ds.ByChannel) > 0 {
		channels := make([]string, 0, len(ds.ByChannel))
		for ch := range ds.ByChannel {
			channels = append(channels, ch)
		}
		sort.Strings(channels)
		sb.WriteString("\nBy channel:\n")
		for _, ch := range channels {
			fmt.Fprintf(&sb, "- %s: %d\n", ch, ds.ByChannel[ch])
		}
	}
	return sb.String()
}

// ToJSON serializes the stats for detailed inspection.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
