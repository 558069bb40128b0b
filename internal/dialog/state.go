// Package dialog keeps per-conversation memory and the small state machines
// that run on it: the pending question and the greeting/valediction cycle.
package dialog

const (
	DefaultBotName  = "DMB"
	DefaultUserName = "Talker"
)

// State is everything remembered about one conversation.
type State struct {
	BotName   string
	UserName  string
	TurnCount int

	Greeted      bool
	FarewellSaid bool

	LikesPancakes *bool

	// Pending is the single question waiting for an answer, nil when idle.
	Pending *PendingQuestion
}

func NewState(botName, userName string) *State {
	if botName == "" {
		botName = DefaultBotName
	}
	if userName == "" {
		userName = DefaultUserName
	}
	return &State{BotName: botName, UserName: userName}
}

func (s *State) AwaitingAnswer() bool { return s.Pending != nil }
