package records

import (
	"fmt"
	"sort"
	"strings"
)

// Unknown is a phrase nobody could answer, with how often it was heard.
type Unknown struct {
	ID       uint   `json:"Id"`
	Question string `json:"Question"`
	Count    int    `json:"Count"`
}

func (u Unknown) AsLine() string {
	return fmt.Sprintf("%d). %s - %d times.", u.ID, u.Question, u.Count)
}

// UnknownKind never rejects a repeated question: it bumps the stored count instead.
type UnknownKind struct{}

func (UnknownKind) Name() string { return "unknowns" }
func (UnknownKind) ID(u Unknown) uint { return u.ID }
func (UnknownKind) WithID(u Unknown, id uint) Unknown { u.ID = id; return u }
func (UnknownKind) Key(u Unknown) string { return u.Question }

func (UnknownKind) Validate(u Unknown) error {
	if strings.TrimSpace(u.Question) == "" {
		return fmt.Errorf("%w: empty question", ErrInvalid)
	}
	return nil
}

func (UnknownKind) Merge(existing, _ Unknown) (Unknown, error) {
	existing.Count++
	return existing, nil
}

func (UnknownKind) Update(existing, incoming Unknown) Unknown {
	existing.Question = incoming.Question
	if incoming.Count > 0 {
		existing.Count = incoming.Count
	}
	return existing
}

type Unknowns = Store[Unknown]

func OpenUnknowns(backend Backend[Unknown], opts ...StoreOption) (*Unknowns, error) {
	return Open[Unknown](UnknownKind{}, backend, opts...)
}

// Record adds a phrase heard once more. New phrases start at count 1.
func Record(s *Unknowns, question string) (Unknown, error) {
	return s.Add(Unknown{Question: strings.ToLower(strings.TrimSpace(question)), Count: 1})
}

// MostFrequent returns up to n unknowns ordered by count, then id.
func MostFrequent(s *Unknowns, n int) []Unknown {
	all := s.List()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Count > all[j].Count })
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}
