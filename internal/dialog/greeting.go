package dialog

import (
	"context"

	"github.com/looplab/fsm"

	"dmb-chatter/internal/phrases"
)

const (
	NeverGreeted  = "never_greeted"
	Greeted       = "greeted"
	FarewellGiven = "farewell_given"

	eventGreet    = "greet"
	eventFarewell = "farewell"
)

var greetingEvents = fsm.Events{
	{Name: eventGreet, Src: []string{NeverGreeted, FarewellGiven}, Dst: Greeted},
	{Name: eventFarewell, Src: []string{Greeted}, Dst: FarewellGiven},
}

// GreetingState derives the greeting machine state from the conversation flags.
func (s *State) GreetingState() string {
	switch {
	case s.FarewellSaid:
		return FarewellGiven
	case s.Greeted:
		return Greeted
	default:
		return NeverGreeted
	}
}

func (s *State) setGreetingState(state string) {
	s.Greeted = state == Greeted
	s.FarewellSaid = state == FarewellGiven
}

// Greeter answers hellos and goodbyes once per cycle.
type Greeter struct {
	phrases phrases.Phrases
}

func NewGreeter(p phrases.Phrases) *Greeter {
	return &Greeter{phrases: p}
}

func (g *Greeter) Greet(ctx context.Context, st *State) string {
	if g.fire(ctx, st, eventGreet) {
		return g.phrases.GreetHello
	}
	return g.phrases.GreetAgain
}

func (g *Greeter) Farewell(ctx context.Context, st *State) string {
	if g.fire(ctx, st, eventFarewell) {
		return g.phrases.ByeGoodbye
	}
	return g.phrases.ByeAgain
}

func (g *Greeter) fire(ctx context.Context, st *State, event string) bool {
	m := fsm.NewFSM(st.GreetingState(), greetingEvents, fsm.Callbacks{})
	if err := m.Event(ctx, event); err != nil {
		return false
	}
	st.setGreetingState(m.Current())
	return true
}
