package skills

import (
	"context"

	"dmb-chatter/internal/records"
)

// Retorts answers phrases it has a stored reply for.
type Retorts struct {
	store *records.Retorts
}

func NewRetorts(store *records.Retorts) *Retorts {
	return &Retorts{store: store}
}

func (*Retorts) Name() string { return "retorts" }

func (*Retorts) About() string { return "replies with answers taught by admins" }

func (s *Retorts) Process(_ context.Context, t *Turn) (string, bool) {
	r, ok := s.store.Find(t.Text)
	if !ok {
		return "", false
	}
	return r.Answer, true
}
