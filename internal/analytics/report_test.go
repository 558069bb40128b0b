package analytics

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dmb-chatter/internal/records"
	"dmb-chatter/internal/storage"
)

func TestDailyReport(t *testing.T) {
	dir := t.TempDir()
	rec, err := storage.NewFileRecorder(filepath.Join(dir, "log.jsonl"))
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, skill := range []string{"greetings", "", "unknowns"} {
		ev := storage.Event{Timestamp: day.Add(time.Duration(i) * time.Hour), ConversationID: "c", UserMessage: "x", Skill: skill}
		if err := rec.AppendInteraction(ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	uf, err := storage.NewJSONFile[records.Unknown](filepath.Join(dir, "unknowns.json"))
	if err != nil {
		t.Fatal(err)
	}
	unknowns, err := records.OpenUnknowns(uf)
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range []string{"why", "why", "how"} {
		if _, err := records.Record(unknowns, q); err != nil {
			t.Fatal(err)
		}
	}

	report, err := DailyReport(rec, unknowns, day)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(report, "Turns: 3") || !strings.Contains(report, "1). why - 2 times.") {
		t.Fatalf("unexpected report:\n%s", report)
	}

	report, err = DailyReport(rec, nil, day)
	if err != nil || strings.Contains(report, "Most asked unknowns") {
		t.Fatalf("unexpected report without unknowns: %v\n%s", err, report)
	}
}
