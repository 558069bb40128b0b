// Package session keeps dialog state per conversation for the life of the process.
package session

import (
	"sync"

	"dmb-chatter/internal/dialog"
)

type entry struct {
	mu    sync.Mutex // held for a whole turn
	state *dialog.State
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	botName  string
	userName string
}

func NewManager(botName, userName string) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		botName:  botName,
		userName: userName,
	}
}

func (m *Manager) get(conversationID string) *entry {
	m.mu.RLock()
	e, ok := m.sessions[conversationID]
	m.mu.RUnlock()
	if ok {
		return e
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[conversationID]; ok {
		return e
	}
	e = &entry{state: dialog.NewState(m.botName, m.userName)}
	m.sessions[conversationID] = e
	return e
}

// Turn runs fn with exclusive access to the conversation's state.
// Turns of one conversation run one at a time; different conversations run in parallel.
func (m *Manager) Turn(conversationID string, fn func(st *dialog.State)) {
	e := m.get(conversationID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state)
}

// Snapshot returns a copy of the conversation's state.
func (m *Manager) Snapshot(conversationID string) dialog.State {
	var out dialog.State
	m.Turn(conversationID, func(st *dialog.State) {
		out = *st
		if st.Pending != nil {
			q := *st.Pending
			out.Pending = &q
		}
	})
	return out
}

func (m *Manager) Reset(conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, conversationID)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
