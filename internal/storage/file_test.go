package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileRecorderAppendAndLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "log.jsonl")
	rec, err := NewFileRecorder(p)
	require.NoError(t, err)

	events, err := rec.LoadInteractions()
	require.NoError(t, err)
	require.Empty(t, events)

	ev1 := Event{Timestamp: time.Unix(1, 0).UTC(), ConversationID: "a", UserMessage: "hi", BotResponse: "Hello You..", Skill: "greetings"}
	ev2 := Event{Timestamp: time.Unix(2, 0).UTC(), ConversationID: "b", UserMessage: "foo", BotResponse: "bar"}
	require.NoError(t, rec.AppendInteraction(ev1))
	require.NoError(t, rec.AppendInteraction(ev2))

	events, err = rec.LoadInteractions()
	require.NoError(t, err)
	require.Equal(t, []Event{ev1, ev2}, events)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, 2, countLines(data))
}

func TestFileRecorderSkipsBrokenLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "log.jsonl")
	require.NoError(t, os.WriteFile(p, []byte("{\"conversation_id\":\"x\"}\nnot json\n\n{\"conversation_id\":\"y\""), 0o644))
	rec, err := NewFileRecorder(p)
	require.NoError(t, err)

	events, err := rec.LoadInteractions()
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "x", events[0].ConversationID)
}

func TestFileRecorderAppendsAfterExistingLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "log.jsonl")
	require.NoError(t, os.WriteFile(p, []byte("{\"conversation_id\":\"old\"}\n"), 0o644))
	rec, err := NewFileRecorder(p)
	require.NoError(t, err)

	require.NoError(t, rec.AppendInteraction(Event{ConversationID: "new"}))
	events, err := rec.LoadInteractions()
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "old", events[0].ConversationID)
	require.Equal(t, "new", events[1].ConversationID)
}

func countLines(data []byte) int {
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}
