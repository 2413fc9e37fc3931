package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"health-coach/internal/analytics"
	"health-coach/internal/storage"
)

// DailyReport builds the job that summarizes the previous day's interactions
// from the log and hands the summary to publish.
func DailyReport(rec storage.Recorder, now func() time.Time, publish func(summary string)) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		events, err := rec.LoadInteractions()
		if err != nil {
			return fmt.Errorf("load interactions: %w", err)
		}
		day := now().UTC().AddDate(0, 0, -1)
		stats := analytics.AnalyzeDailyLogs(events, day)
		publish(stats.GenerateReportSummary())
		return nil
	}
}

// LogSummary publishes a report to the process log.
func LogSummary(summary string) {
	log.Printf("📊 %s", summary)
}
