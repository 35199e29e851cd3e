package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/taskbot/internal/calendar"
)

// NewAddHandler returns a handler for /add and the add task menu button.
// It always starts a fresh dialog, discarding any selection in progress.
func NewAddHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(addHandler{deps}.Handle)
}

type addHandler struct {
	deps HandlerDeps
}

func (h addHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	log := h.deps.Logger.With("handler", "add")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Add handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	userID := update.Message.From.ID
	h.deps.Sessions.Set(userID, calendar.AwaitingTaskName{})
	log.DebugContext(ctx, "Started new task dialog", "user_id", userID)

	r := reply{m: m, log: log, chatID: update.Message.Chat.ID}
	r.send(ctx, h.deps.Config.Messages.EnterTaskName, nil)
}
