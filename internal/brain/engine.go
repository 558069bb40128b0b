// Package brain turns one user utterance into one reply.
package brain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dmb-chatter/internal/dialog"
	"dmb-chatter/internal/phrases"
	"dmb-chatter/internal/session"
	"dmb-chatter/internal/skills"
	"dmb-chatter/internal/storage"
)

type Input struct {
	ConversationID string
	UserID         int64
	UserName       string
	Text           string
	IsAdmin        bool
}

type Reply struct {
	Text string
	// Skill is empty when no skill answered and the turn fallback was used.
	Skill string
}

type Engine struct {
	sessions   *session.Manager
	dispatcher *skills.Dispatcher
	phrases    phrases.Phrases
	recorder   storage.Recorder
	now        func() time.Time
	log        *slog.Logger
}

type Option func(*Engine)

// WithRecorder logs every turn; without it turns are not recorded.
func WithRecorder(r storage.Recorder) Option { return func(e *Engine) { e.recorder = r } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

func New(sessions *session.Manager, dispatcher *skills.Dispatcher, p phrases.Phrases, opts ...Option) *Engine {
	e := &Engine{
		sessions:   sessions,
		dispatcher: dispatcher,
		phrases:    p,
		now:        time.Now,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Respond runs one turn. It never fails: anything a skill could not handle
// ends in the turn fallback phrase.
func (e *Engine) Respond(ctx context.Context, in Input) Reply {
	var out Reply
	e.sessions.Turn(in.ConversationID, func(st *dialog.State) {
		st.TurnCount++
		if in.UserName != "" {
			st.UserName = in.UserName
		}
		turnNo := st.TurnCount

		t := skills.NewTurn(in.Text, st)
		t.UserID = in.UserID
		t.IsAdmin = in.IsAdmin
		if reply, skill, ok := e.dispatcher.Dispatch(ctx, t); ok {
			out = Reply{Text: reply, Skill: skill}
			return
		}
		out = Reply{Text: fmt.Sprintf(e.phrases.TurnFallback, turnNo, in.Text)}
	})
	e.record(in, out)
	return out
}

func (e *Engine) record(in Input, out Reply) {
	if e.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:      e.now().UTC(),
		ConversationID: in.ConversationID,
		UserID:         in.UserID,
		UserMessage:    in.Text,
		BotResponse:    out.Text,
		Skill:          out.Skill,
	}
	if err := e.recorder.AppendInteraction(ev); err != nil {
		e.log.Warn("could not record turn", "conversation_id", in.ConversationID, "err", err)
	}
}

// State returns a copy of the conversation's state.
func (e *Engine) State(conversationID string) dialog.State {
	return e.sessions.Snapshot(conversationID)
}

func (e *Engine) Forget(conversationID string) {
	e.sessions.Reset(conversationID)
}
