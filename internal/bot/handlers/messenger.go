package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Messenger is the subset of the Bot API the handlers use. *bot.Bot satisfies it.
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
}

// messengerHandler is a handler written against Messenger instead of *bot.Bot.
type messengerHandler func(ctx context.Context, m Messenger, update *models.Update)

// adapt turns a messengerHandler into a bot.HandlerFunc.
func adapt(h messengerHandler) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		h(ctx, b, update)
	}
}

// reply is where a handler answers: a chat and, for callbacks on a visible
// message, the message to edit in place.
type reply struct {
	m         Messenger
	log       *slog.Logger
	chatID    int64
	messageID int
}

// send posts a new HTML message.
func (r reply) send(ctx context.Context, text string, markup models.ReplyMarkup) {
	_, err := r.m.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      r.chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", r.chatID)
	}
}

// show replaces the callback message with text, or posts a new message when there is
// no message to edit.
func (r reply) show(ctx context.Context, text string, markup *models.InlineKeyboardMarkup) {
	if r.messageID == 0 {
		if markup == nil {
			r.send(ctx, text, nil)
		} else {
			r.send(ctx, text, markup)
		}
		return
	}

	params := &bot.EditMessageTextParams{
		ChatID:    r.chatID,
		MessageID: r.messageID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := r.m.EditMessageText(ctx, params); err != nil {
		r.log.ErrorContext(ctx, "Failed to edit message", "error", err, "chat_id", r.chatID, "message_id", r.messageID)
	}
}

// remove deletes the callback message.
func (r reply) remove(ctx context.Context) {
	if r.messageID == 0 {
		return
	}
	_, err := r.m.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: r.chatID, MessageID: r.messageID})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to delete message", "error", err, "chat_id", r.chatID, "message_id", r.messageID)
	}
}
