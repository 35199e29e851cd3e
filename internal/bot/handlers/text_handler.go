package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/taskbot/internal/calendar"
	"github.com/edgard/taskbot/internal/database"
)

// NewTextHandler returns the default handler. Free text is the answer to a name prompt
// when the sender has one open; anything else gets a usage hint.
func NewTextHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(textHandler{deps}.Handle)
}

type textHandler struct {
	deps HandlerDeps
}

func (h textHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	log := h.deps.Logger.With("handler", "text")

	if update.Message == nil || update.Message.From == nil {
		log.DebugContext(ctx, "Ignoring update without message", "update_id", update.ID)
		return
	}

	userID := update.Message.From.ID
	text := update.Message.Text
	msgs := h.deps.Config.Messages
	r := reply{m: m, log: log, chatID: update.Message.Chat.ID}

	st := h.deps.Sessions.Get(userID)
	if strings.HasPrefix(text, "/") {
		st = nil
	}

	switch s := st.(type) {
	case calendar.AwaitingTaskName:
		next, _, err := h.deps.Machine.SubmitName(s, text)
		if h.reprompt(ctx, r, err) {
			return
		}
		if err != nil {
			log.ErrorContext(ctx, "Failed to accept task name", "error", err, "user_id", userID)
			r.send(ctx, msgs.GeneralError, nil)
			return
		}

		h.deps.Sessions.Set(userID, next)
		view, err := h.deps.Machine.Render(next)
		if err != nil {
			log.ErrorContext(ctx, "Failed to render calendar", "error", err, "user_id", userID)
			return
		}
		r.send(ctx, view.Text, inlineMarkup(view.Keyboard))

	case calendar.AwaitingNewName:
		_, name, err := h.deps.Machine.SubmitName(s, text)
		if h.reprompt(ctx, r, err) {
			return
		}
		if err != nil {
			log.ErrorContext(ctx, "Failed to accept new name", "error", err, "user_id", userID)
			r.send(ctx, msgs.GeneralError, nil)
			return
		}

		// The prompt stays open until the store accepts the name.
		task, err := h.deps.Store.RenameTask(ctx, userID, s.TaskID, name)
		if err != nil {
			log.ErrorContext(ctx, "Failed to rename task", "error", err, "user_id", userID, "task_id", s.TaskID)
			r.send(ctx, msgs.GeneralError, nil)
			return
		}
		h.deps.Sessions.Clear(userID)
		if task == nil {
			r.send(ctx, msgs.TaskNotFound, nil)
			return
		}
		r.send(ctx, fmt.Sprintf(msgs.TaskRenamedFmt, html.EscapeString(task.Name)), inlineMarkup(taskKeyboard(task.ID)))

	default:
		r.send(ctx, msgs.TextHint, mainMenu(h.deps.Config.Menu))
	}
}

// reprompt asks for the name again when err rejects the submitted text.
// The dialog state is left unchanged.
func (h textHandler) reprompt(ctx context.Context, r reply, err error) bool {
	msgs := h.deps.Config.Messages
	switch {
	case errors.Is(err, calendar.ErrEmptyName):
		r.send(ctx, msgs.EmptyTaskName, nil)
	case errors.Is(err, calendar.ErrNameTooLong):
		r.send(ctx, fmt.Sprintf(msgs.NameTooLongFmt, database.MaxNameLength), nil)
	default:
		return false
	}
	return true
}
