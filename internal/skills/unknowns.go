package skills

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"dmb-chatter/internal/phrases"
	"dmb-chatter/internal/records"
)

// Answerer produces a reply for a phrase nobody else knew.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Unknowns remembers every phrase that reached it so admins can teach a retort later.
type Unknowns struct {
	store    *records.Unknowns
	answerer Answerer
	phrases  phrases.Phrases
	log      *slog.Logger
}

// NewUnknowns builds the skill; answerer may be nil.
func NewUnknowns(store *records.Unknowns, answerer Answerer, p phrases.Phrases, log *slog.Logger) *Unknowns {
	if log == nil {
		log = slog.Default()
	}
	return &Unknowns{store: store, answerer: answerer, phrases: p, log: log}
}

func (*Unknowns) Name() string { return "unknowns" }

func (*Unknowns) About() string { return "notes phrases nobody could answer" }

func (s *Unknowns) Process(ctx context.Context, t *Turn) (string, bool) {
	if t.Text == "" {
		return "", false
	}
	if _, err := records.Record(s.store, t.Text); err != nil {
		if errors.Is(err, records.ErrInvalid) {
			return "", false
		}
		s.log.Warn("could not record unknown phrase", "err", err)
	}
	if s.answerer != nil {
		answer, err := s.answerer.Answer(ctx, strings.TrimSpace(t.Raw))
		if err != nil {
			s.log.Warn("answerer failed", "err", err)
		} else if strings.TrimSpace(answer) != "" {
			return answer, true
		}
	}
	return s.phrases.UnknownNoted, true
}
