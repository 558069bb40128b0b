package skills

import (
	"context"

	"dmb-chatter/internal/dialog"
	"dmb-chatter/internal/phrases"
)

const (
	TopicPancakes = "pancakes"
	TopicReset    = "reset"
)

// Prompts asks the built-in questions.
type Prompts struct {
	protocol *dialog.Protocol
	phrases  phrases.Phrases
}

func NewPrompts(protocol *dialog.Protocol, p phrases.Phrases) *Prompts {
	return &Prompts{protocol: protocol, phrases: p}
}

func (*Prompts) Name() string { return "prompts" }

func (*Prompts) About() string { return "asks about pancakes or resetting the turn counter" }

func (s *Prompts) Process(_ context.Context, t *Turn) (string, bool) {
	switch t.Text {
	case "pancakes?":
		return s.protocol.Ask(t.State, dialog.Question{Topic: TopicPancakes, Text: s.phrases.PancakesQuestion}), true
	case "reset":
		return s.protocol.Ask(t.State, dialog.Question{
			Topic:     TopicReset,
			Text:      s.phrases.ResetQuestion,
			Responses: []string{s.phrases.ResetDone, s.phrases.ResetDidnt},
		}), true
	}
	return "", false
}

// Questions takes the answer to a pending question. Utterances that match
// none of the choices are left to the other skills and the question stays open.
type Questions struct {
	protocol *dialog.Protocol
}

func NewQuestions(protocol *dialog.Protocol) *Questions {
	return &Questions{protocol: protocol}
}

func (*Questions) Name() string { return "questions" }

func (*Questions) About() string { return "takes the answer to the last question asked" }

func (s *Questions) Process(_ context.Context, t *Turn) (string, bool) {
	pending := t.State.Pending
	if pending == nil {
		return "", false
	}
	reply, outcome := s.protocol.Answer(t.State, t.Text)
	switch outcome {
	case dialog.Unmatched:
		return "", false
	case dialog.Affirmative, dialog.OtherChoice:
		apply(pending.Topic, outcome, t.State)
	}
	return reply, true
}

func apply(topic string, outcome dialog.Outcome, st *dialog.State) {
	switch topic {
	case TopicPancakes:
		likes := outcome == dialog.Affirmative
		st.LikesPancakes = &likes
	case TopicReset:
		if outcome == dialog.Affirmative {
			st.TurnCount = 0
		}
	}
}
