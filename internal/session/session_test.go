package session

import (
	"sync"
	"testing"

	"dmb-chatter/internal/dialog"
)

func TestTurnKeepsStatePerConversation(t *testing.T) {
	m := NewManager("Bot", "")
	m.Turn("a", func(st *dialog.State) { st.TurnCount++ })
	m.Turn("a", func(st *dialog.State) { st.TurnCount++ })
	m.Turn("b", func(st *dialog.State) { st.TurnCount++ })

	if got := m.Snapshot("a").TurnCount; got != 2 {
		t.Fatalf("a: want 2 turns, got %d", got)
	}
	b := m.Snapshot("b")
	if b.TurnCount != 1 || b.BotName != "Bot" || b.UserName != dialog.DefaultUserName {
		t.Fatalf("b: unexpected state %+v", b)
	}

	m.Reset("a")
	if got := m.Snapshot("a").TurnCount; got != 0 {
		t.Fatalf("reset did not clear a: %d", got)
	}
	if m.Len() != 2 {
		t.Fatalf("want 2 sessions, got %d", m.Len())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	m := NewManager("", "")
	m.Turn("a", func(st *dialog.State) {
		st.Pending = &dialog.PendingQuestion{ID: 1, Text: "?"}
	})
	snap := m.Snapshot("a")
	snap.Pending.Text = "mutated"
	if m.Snapshot("a").Pending.Text != "?" {
		t.Fatalf("snapshot shares pending question")
	}
}

func TestConcurrentTurnsSerialize(t *testing.T) {
	m := NewManager("", "")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Turn("same", func(st *dialog.State) { st.TurnCount++ })
		}()
	}
	wg.Wait()
	if got := m.Snapshot("same").TurnCount; got != 50 {
		t.Fatalf("want 50 turns, got %d", got)
	}
}
