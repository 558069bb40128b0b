// Package telegram connects the conversation engine to a Telegram bot.
package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dmb-chatter/internal/auth"
	"dmb-chatter/internal/brain"
)

// startCmd is what Telegram clients send when a chat is opened.
const startCmd = "/start"

// sender is the slice of *tgbotapi.BotAPI the bot replies through.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Responder interface {
	Respond(ctx context.Context, in brain.Input) brain.Reply
}

type Bot struct {
	api     *tgbotapi.BotAPI
	s       sender
	engine  Responder
	authSvc *auth.Service
	log     *slog.Logger
}

func New(botToken string, engine Responder, authSvc *auth.Service, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	log.Info("authorized on telegram", "account", api.Self.UserName)
	return &Bot{
		api:     api,
		s:       api,
		engine:  engine,
		authSvc: authSvc,
		log:     log,
	}, nil
}

// Start polls for updates until ctx is cancelled. Messages are handled one at a time.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil || msg.Text == "" {
		return
	}
	text := msg.Text
	if strings.HasPrefix(text, startCmd) {
		text = "hello"
	}
	b.log.Debug("incoming message", "user_id", msg.From.ID, "username", msg.From.UserName, "text", text)

	reply := b.engine.Respond(ctx, brain.Input{
		ConversationID: strconv.FormatInt(msg.Chat.ID, 10),
		UserID:         msg.From.ID,
		UserName:       msg.From.FirstName,
		Text:           text,
		IsAdmin:        b.authSvc != nil && b.authSvc.IsAdmin(msg.From.ID),
	})
	if reply.Text == "" {
		return
	}
	b.sendMessage(msg.Chat.ID, reply.Text)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if err := b.send(chatID, text); err != nil {
		b.log.Warn("failed to send message", "chat_id", chatID, "err", err)
	}
}

func (b *Bot) send(chatID int64, text string) error {
	_, err := b.s.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// NotifyAdmins sends text to every admin's private chat.
func (b *Bot) NotifyAdmins(_ context.Context, text string) error {
	if b.authSvc == nil {
		return nil
	}
	var errs []error
	for _, id := range b.authSvc.IDs() {
		if err := b.send(id, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
