// Package skills holds the handlers a turn is offered to, in order, until one replies.
package skills

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"dmb-chatter/internal/dialog"
)

// Turn is one user utterance with the conversation it belongs to.
type Turn struct {
	// Text is the utterance lower-cased and trimmed, Raw is what the user typed.
	Text string
	Raw  string

	State   *dialog.State
	UserID  int64
	IsAdmin bool
}

func NewTurn(raw string, st *dialog.State) *Turn {
	return &Turn{
		Text:  strings.ToLower(strings.TrimSpace(raw)),
		Raw:   raw,
		State: st,
	}
}

type Skill interface {
	Name() string
	About() string
	// Process returns ok=false when the skill has nothing to say about the turn.
	Process(ctx context.Context, t *Turn) (reply string, ok bool)
}

// Dispatcher offers turns to skills in registration order; the first reply wins.
type Dispatcher struct {
	skills []Skill
	log    *slog.Logger
}

func NewDispatcher(log *slog.Logger, skills ...Skill) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{skills: skills, log: log}
}

func (d *Dispatcher) Register(s ...Skill) {
	d.skills = append(d.skills, s...)
}

// Dispatch returns the reply and the name of the skill that produced it.
func (d *Dispatcher) Dispatch(ctx context.Context, t *Turn) (reply, skill string, ok bool) {
	for _, s := range d.skills {
		if err := ctx.Err(); err != nil {
			return "", "", false
		}
		if reply, ok := s.Process(ctx, t); ok {
			d.log.Debug("skill replied", "skill", s.Name())
			return reply, s.Name(), true
		}
	}
	return "", "", false
}

func (d *Dispatcher) Skills() []Skill {
	return append([]Skill(nil), d.skills...)
}

// Describe lists every skill as "<name>: <about>".
func (d *Dispatcher) Describe() []string {
	out := make([]string, 0, len(d.skills))
	for _, s := range d.skills {
		out = append(out, fmt.Sprintf("%s: %s", s.Name(), s.About()))
	}
	return out
}
