package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewHelpHandler returns a handler for the /help command and the help menu button.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(helpHandler{deps}.Handle)
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Help handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	log.InfoContext(ctx, "Handling help request", "chat_id", update.Message.Chat.ID, "user_id", update.Message.From.ID)

	r := reply{m: m, log: log, chatID: update.Message.Chat.ID}
	r.send(ctx, h.deps.Config.Messages.Help, mainMenu(h.deps.Config.Menu))
}
