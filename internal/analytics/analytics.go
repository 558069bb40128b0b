// Package analytics summarises a day of conversation turns for the admins.
package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"dmb-chatter/internal/records"
	"dmb-chatter/internal/storage"
)

// FallbackSkill is the bucket for turns nobody answered.
const FallbackSkill = "fallback"

type DailyStats struct {
	Date                string            `json:"date"`
	TotalTurns          int               `json:"total_turns"`
	UniqueConversations int               `json:"unique_conversations"`
	UniqueUsers         int               `json:"unique_users"`
	FallbackTurns       int               `json:"fallback_turns"`
	TurnsBySkill        map[string]int    `json:"turns_by_skill"`
	TopUnknowns         []records.Unknown `json:"top_unknowns,omitempty"`
}

// AnalyzeDailyLogs counts the turns that happened on targetDate's calendar day.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	stats := &DailyStats{
		Date:         startOfDay.Format("2006-01-02"),
		TurnsBySkill: make(map[string]int),
	}
	conversations := make(map[string]bool)
	users := make(map[int64]bool)

	for _, ev := range events {
		if ev.Timestamp.Before(startOfDay) || !ev.Timestamp.Before(endOfDay) {
			continue
		}
		stats.TotalTurns++
		conversations[ev.ConversationID] = true
		if ev.UserID != 0 {
			users[ev.UserID] = true
		}
		skill := ev.Skill
		if skill == "" {
			skill = FallbackSkill
			stats.FallbackTurns++
		}
		stats.TurnsBySkill[skill]++
	}
	stats.UniqueConversations = len(conversations)
	stats.UniqueUsers = len(users)
	return stats
}

// WithUnknowns attaches the most frequent unknown phrases to the report.
func (ds *DailyStats) WithUnknowns(top []records.Unknown) *DailyStats {
	ds.TopUnknowns = append([]records.Unknown(nil), top...)
	return ds
}

// GenerateReportSummary renders the stats as a chat message.
func (ds *DailyStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily report for %s\n\n", ds.Date)
	fmt.Fprintf(&b, "Turns: %d\nConversations: %d\nUsers: %d\nUnanswered turns: %d\n", ds.TotalTurns, ds.UniqueConversations, ds.UniqueUsers, ds.FallbackTurns)

	if len(ds.TurnsBySkill) > 0 {
		b.WriteString("\nBy skill:\n")
		names := make([]string, 0, len(ds.TurnsBySkill))
		for name := range ds.TurnsBySkill {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			ci, cj := ds.TurnsBySkill[names[i]], ds.TurnsBySkill[names[j]]
			if ci != cj {
				return ci > cj
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			fmt.Fprintf(&b, "- %s: %d\n", name, ds.TurnsBySkill[name])
		}
	}

	if len(ds.TopUnknowns) > 0 {
		b.WriteString("\nMost asked unknowns:\n")
		for _, u := range ds.TopUnknowns {
			b.WriteString(u.AsLine())
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
