package records

import (
	"fmt"
	"strings"
)

// Retort is a quick response: Answer is replied when a user says Question.
type Retort struct {
	ID       uint   `json:"Id"`
	Question string `json:"Question"`
	Answer   string `json:"Answer"`
}

// AsLine renders the retort the way admin listings show it.
func (r Retort) AsLine() string {
	return fmt.Sprintf("%d) %s: %s", r.ID, r.Question, r.Answer)
}

// RetortKind keys retorts by question. Adding a known question is a duplicate whatever
// the answer; changing an answer goes through Update.
type RetortKind struct{}

func (RetortKind) Name() string { return "retorts" }
func (RetortKind) ID(r Retort) uint { return r.ID }
func (RetortKind) WithID(r Retort, id uint) Retort { r.ID = id; return r }
func (RetortKind) Key(r Retort) string { return r.Question }

func (RetortKind) Validate(r Retort) error {
	if strings.TrimSpace(r.Question) == "" {
		return fmt.Errorf("%w: empty question", ErrInvalid)
	}
	if strings.TrimSpace(r.Answer) == "" {
		return fmt.Errorf("%w: empty answer", ErrInvalid)
	}
	return nil
}

func (RetortKind) Merge(existing, _ Retort) (Retort, error) {
	return existing, fmt.Errorf("%w: %q", ErrDuplicate, existing.Question)
}

func (RetortKind) Update(existing, incoming Retort) Retort {
	existing.Question = incoming.Question
	existing.Answer = incoming.Answer
	return existing
}

type Retorts = Store[Retort]

func OpenRetorts(backend Backend[Retort], opts ...StoreOption) (*Retorts, error) {
	return Open[Retort](RetortKind{}, backend, opts...)
}
