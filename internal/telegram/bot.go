// Package telegram exposes the coach as a Telegram bot. Every chat gets its
// own session.
package telegram

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"health-coach/internal/coach"
)

const (
	newChatCmd  = "new_chat"
	loadPrefix  = "load:"
	quizPrefix  = "quiz:"
	keyPrefix   = "tg:"
	downloadTTL = 2 * time.Minute
)

type Bot struct {
	api   *tgbotapi.BotAPI
	s     sender
	files downloader
	coach *coach.Service
}

func New(botToken string, svc *coach.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	client := botAPISender{api: api, http: &http.Client{Timeout: downloadTTL}}
	return &Bot{
		api:   api,
		s:     client,
		files: client,
		coach: svc,
	}, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("🤖 Telegram bot @%s started", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleIncomingMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func sessionKey(chatID int64) string {
	return keyPrefix + strconv.FormatInt(chatID, 10)
}

func newChatKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆕 New chat", newChatCmd),
		),
	)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) sendWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
