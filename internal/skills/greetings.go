package skills

import (
	"context"

	"dmb-chatter/internal/dialog"
	"dmb-chatter/internal/phrases"
)

var (
	greetWords    = map[string]bool{"hi": true, "hello": true, "welcome": true}
	farewellWords = map[string]bool{"bye": true, "goodbye": true, "farewell": true}
)

type Greetings struct {
	greeter *dialog.Greeter
}

func NewGreetings(p phrases.Phrases) *Greetings {
	return &Greetings{greeter: dialog.NewGreeter(p)}
}

func (*Greetings) Name() string { return "greetings" }

func (*Greetings) About() string { return "says hello and goodbye once per visit" }

func (g *Greetings) Process(ctx context.Context, t *Turn) (string, bool) {
	switch {
	case greetWords[t.Text]:
		return g.greeter.Greet(ctx, t.State), true
	case farewellWords[t.Text]:
		return g.greeter.Farewell(ctx, t.State), true
	}
	return "", false
}
