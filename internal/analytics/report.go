package analytics

import (
	"fmt"
	"time"

	"dmb-chatter/internal/records"
	"dmb-chatter/internal/storage"
)

// TopUnknownsInReport is how many unknown phrases the daily report lists.
const TopUnknownsInReport = 5

// DailyReport reads the turn log and renders the report for day.
// unknowns may be nil.
func DailyReport(rec storage.Recorder, unknowns *records.Unknowns, day time.Time) (string, error) {
	events, err := rec.LoadInteractions()
	if err != nil {
		return "", fmt.Errorf("load interactions: %w", err)
	}
	stats := AnalyzeDailyLogs(events, day)
	if unknowns != nil {
		stats.WithUnknowns(records.MostFrequent(unknowns, TopUnknownsInReport))
	}
	return stats.GenerateReportSummary(), nil
}
