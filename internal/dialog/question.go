package dialog

import (
	"strconv"
	"strings"

	"dmb-chatter/internal/phrases"
)

// PendingQuestionID is the id of every pending question; only one can be outstanding.
const PendingQuestionID = 1

type PendingQuestion struct {
	ID    int
	Topic string
	Text  string
	// Choices[i] pairs with Responses[i]. Only two responses are used:
	// index 0 for the first choice and index 1 for any other matched choice.
	Choices   []string
	Responses []string
}

// Question is what a caller wants to ask. Nil Choices default to yes/no and
// nil Responses to the generic acknowledgement and "didn't get that".
type Question struct {
	Topic     string
	Text      string
	Choices   []string
	Responses []string
}

type Outcome int

const (
	NoQuestion Outcome = iota
	NotAnAnswer
	Unmatched
	Affirmative
	OtherChoice
)

func (o Outcome) Matched() bool { return o == Affirmative || o == OtherChoice }

// Protocol asks questions and interprets the next utterance as the answer.
type Protocol struct {
	phrases phrases.Phrases
}

func NewProtocol(p phrases.Phrases) *Protocol {
	return &Protocol{phrases: p}
}

// Ask stores q as the conversation's pending question, replacing any previous one,
// and returns the prompt to show.
func (p *Protocol) Ask(st *State, q Question) string {
	choices := q.Choices
	if len(choices) == 0 {
		choices = []string{p.phrases.Yes, p.phrases.No}
	}
	responses := q.Responses
	if len(responses) == 0 {
		responses = []string{p.phrases.AfterGood, p.phrases.AfterDidnt}
	}
	if len(responses) == 1 {
		responses = append(responses, p.phrases.AfterDidnt)
	}
	st.Pending = &PendingQuestion{
		ID:        PendingQuestionID,
		Topic:     q.Topic,
		Text:      q.Text,
		Choices:   append([]string(nil), choices...),
		Responses: append([]string(nil), responses...),
	}
	return Prompt(st.Pending)
}

// Prompt renders the question followed by its numbered choices.
func Prompt(q *PendingQuestion) string {
	var b strings.Builder
	b.WriteString(q.Text)
	for i, c := range q.Choices {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(") ")
		b.WriteString(c)
	}
	return b.String()
}

// Answer matches text against the pending question's choices.
// On a match the question is cleared. Unmatched answers return an empty reply
// and leave the question pending; re-asking is up to the caller.
func (p *Protocol) Answer(st *State, text string) (string, Outcome) {
	q := st.Pending
	if q == nil {
		return p.phrases.AfterNoQuestion, NoQuestion
	}
	answer := strings.ToLower(strings.TrimSpace(text))
	if answer == "" {
		return p.phrases.AfterNoAnswer, NotAnAnswer
	}
	for i, c := range q.Choices {
		if strings.ToLower(strings.TrimSpace(c)) != answer {
			continue
		}
		st.Pending = nil
		if i == 0 {
			return q.Responses[0], Affirmative
		}
		return q.Responses[1], OtherChoice
	}
	return "", Unmatched
}
