package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewCancelHandler returns a handler for /cancel. It ends any open dialog.
func NewCancelHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(cancelHandler{deps}.Handle)
}

type cancelHandler struct {
	deps HandlerDeps
}

func (h cancelHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	log := h.deps.Logger.With("handler", "cancel")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Cancel handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	r := reply{m: m, log: log, chatID: update.Message.Chat.ID}
	if h.deps.Sessions.Clear(update.Message.From.ID) {
		r.send(ctx, h.deps.Config.Messages.FlowCancelled, mainMenu(h.deps.Config.Menu))
		return
	}
	r.send(ctx, h.deps.Config.Messages.NothingToCancel, mainMenu(h.deps.Config.Menu))
}
