package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTasksHandler returns a handler for /tasks and the task list menu button.
func NewTasksHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(tasksHandler{deps}.Handle)
}

type tasksHandler struct {
	deps HandlerDeps
}

func (h tasksHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	log := h.deps.Logger.With("handler", "tasks")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Tasks handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	userID := update.Message.From.ID
	r := reply{m: m, log: log, chatID: update.Message.Chat.ID}

	text, markup, err := taskList(ctx, h.deps, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list tasks", "error", err, "user_id", userID)
		r.send(ctx, h.deps.Config.Messages.GeneralError, nil)
		return
	}
	r.send(ctx, text, markup)
}

// taskList renders the task list of userID.
func taskList(ctx context.Context, deps HandlerDeps, userID int64) (string, *models.InlineKeyboardMarkup, error) {
	tasks, err := deps.Store.ListTasks(ctx, userID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	text := deps.Config.Messages.TaskListHeader
	if len(tasks) == 0 {
		text = deps.Config.Messages.NoTasks
	}
	return text, inlineMarkup(taskListKeyboard(tasks, deps.Config.Menu)), nil
}
