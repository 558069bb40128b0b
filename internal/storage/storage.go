package storage

import "time"

// Event is one conversation turn: what the user said and what the bot answered.
// Skill names the handler that produced the answer, empty for the turn fallback.
type Event struct {
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversation_id"`
	UserID         int64     `json:"user_id,omitempty"`
	UserMessage    string    `json:"user_message"`
	BotResponse    string    `json:"bot_response"`
	Skill          string    `json:"skill,omitempty"`
}

// Recorder abstracts persistence of turn events.
// LoadInteractions should return events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
