package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/taskbot/internal/action"
	"github.com/edgard/taskbot/internal/calendar"
)

// NewCallbackHandler returns the router for every inline button press.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(callbackHandler{deps}.Handle)
}

type callbackHandler struct {
	deps HandlerDeps
}

func (h callbackHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	log := h.deps.Logger.With("handler", "callback")

	if update.CallbackQuery == nil {
		log.WarnContext(ctx, "Callback handler received update without callback query", "update_id", update.ID)
		return
	}

	cq := update.CallbackQuery
	userID := cq.From.ID
	log = log.With("user_id", userID, "data", cq.Data)
	r := callbackReply(m, log, cq)

	notice := h.route(ctx, log, r, userID, cq.Data)

	_, err := m.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cq.ID,
		Text:            notice,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to answer callback query", "error", err)
	}
}

// callbackReply targets the message that carried the pressed button. Messages the bot
// can no longer access are answered with a new message instead of an edit.
func callbackReply(m Messenger, log *slog.Logger, cq *models.CallbackQuery) reply {
	r := reply{m: m, log: log, chatID: cq.From.ID}
	switch {
	case cq.Message.Message != nil:
		r.chatID = cq.Message.Message.Chat.ID
		r.messageID = cq.Message.Message.ID
	case cq.Message.InaccessibleMessage != nil:
		r.chatID = cq.Message.InaccessibleMessage.Chat.ID
	}
	return r
}

// route performs the action encoded in data and returns the callback notice.
func (h callbackHandler) route(ctx context.Context, log *slog.Logger, r reply, userID int64, data string) string {
	msgs := h.deps.Config.Messages

	a, err := action.Parse(data)
	if err != nil {
		log.WarnContext(ctx, "Received malformed callback data", "error", err)
		return msgs.Unavailable
	}

	switch a.Name {
	case action.Ignore:
		return ""
	case action.Cancel:
		h.deps.Sessions.Clear(userID)
		r.remove(ctx)
		return msgs.CalendarHidden
	case action.Month, action.Day, action.Hour, action.Minute, action.AllDay,
		action.BackMonth, action.BackDay, action.BackHour:
		return h.pick(ctx, log, r, userID, a)
	case action.List:
		h.showList(ctx, log, r, userID)
		return ""
	case action.Add:
		h.deps.Sessions.Set(userID, calendar.AwaitingTaskName{})
		r.show(ctx, msgs.EnterTaskName, nil)
		return ""
	}

	taskID, err := a.Param(0)
	if err != nil {
		log.WarnContext(ctx, "Task action without task id", "error", err)
		return msgs.Unavailable
	}
	log = log.With("task_id", taskID)

	switch a.Name {
	case action.View:
		task, err := h.deps.Store.GetTask(ctx, userID, taskID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to get task", "error", err)
			return msgs.GeneralError
		}
		if task == nil {
			return msgs.TaskNotFound
		}
		r.show(ctx, taskDetails(task, h.deps.Machine.Now()), inlineMarkup(taskKeyboard(task.ID)))
		return ""

	case action.Complete:
		task, err := h.deps.Store.ToggleCompleted(ctx, userID, taskID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to toggle task", "error", err)
			return msgs.GeneralError
		}
		if task == nil {
			return msgs.TaskNotFound
		}
		r.show(ctx, taskDetails(task, h.deps.Machine.Now()), inlineMarkup(taskKeyboard(task.ID)))
		return fmt.Sprintf(msgs.TaskMarkedFmt, markedAs(task.Completed))

	case action.Delete:
		task, err := h.deps.Store.DeleteTask(ctx, userID, taskID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to delete task", "error", err)
			return msgs.GeneralError
		}
		if task == nil {
			return msgs.TaskNotFound
		}
		h.showList(ctx, log, r, userID)
		return fmt.Sprintf(msgs.TaskDeletedFmt, task.Name)

	case action.Edit, action.EditName, action.EditDeadline:
		task, err := h.deps.Store.GetTask(ctx, userID, taskID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to get task", "error", err)
			return msgs.GeneralError
		}
		if task == nil {
			return msgs.TaskNotFound
		}

		switch a.Name {
		case action.Edit:
			r.show(ctx, msgs.SelectEditField, inlineMarkup(editKeyboard(task.ID)))
		case action.EditName:
			h.deps.Sessions.Set(userID, calendar.AwaitingNewName{TaskID: task.ID})
			r.show(ctx, msgs.EnterNewName, nil)
		default:
			st := h.deps.Machine.StartDeadline(calendar.Target{Name: task.Name, TaskID: task.ID})
			h.deps.Sessions.Set(userID, st)
			h.render(ctx, log, r, st)
		}
		return ""

	default:
		log.WarnContext(ctx, "Unknown callback action")
		return msgs.Unavailable
	}
}

// pick applies a calendar action to the sender's dialog.
func (h callbackHandler) pick(ctx context.Context, log *slog.Logger, r reply, userID int64, a action.Action) string {
	msgs := h.deps.Config.Messages
	st := h.deps.Sessions.Get(userID)

	res, err := h.deps.Machine.Apply(st, a)
	switch {
	case errors.Is(err, calendar.ErrWrongState):
		log.DebugContext(ctx, "Stale calendar action", "state", calendar.StateName(st))
		return msgs.SelectionExpired
	case errors.Is(err, calendar.ErrNoMinutes):
		hourState, ok := res.Next.(calendar.AwaitingHour)
		hour, hourErr := a.Int(0)
		if !ok || hourErr != nil {
			return msgs.Unavailable
		}
		h.deps.Sessions.Set(userID, hourState)
		view := h.deps.Machine.RenderNoMinutes(hourState, hour)
		r.show(ctx, view.Text, inlineMarkup(view.Keyboard))
		return ""
	case errors.Is(err, calendar.ErrUnavailable):
		h.render(ctx, log, r, st)
		return msgs.Unavailable
	case err != nil:
		log.WarnContext(ctx, "Rejected calendar action", "error", err)
		return msgs.Unavailable
	}

	if res.Commit != nil {
		h.deps.Sessions.Clear(userID)
		h.commit(ctx, log, r, userID, res.Commit)
		return ""
	}

	h.deps.Sessions.Set(userID, res.Next)
	h.render(ctx, log, r, res.Next)
	return ""
}

// commit stores a completed deadline selection.
func (h callbackHandler) commit(ctx context.Context, log *slog.Logger, r reply, userID int64, c *calendar.Commit) {
	msgs := h.deps.Config.Messages

	if c.Target.Editing() {
		task, err := h.deps.Store.SetDeadline(ctx, userID, c.Target.TaskID, c.Deadline)
		if err != nil {
			log.ErrorContext(ctx, "Failed to set deadline", "error", err, "task_id", c.Target.TaskID)
			r.show(ctx, msgs.GeneralError, nil)
			return
		}
		if task == nil {
			r.show(ctx, msgs.TaskNotFound, nil)
			return
		}
		log.InfoContext(ctx, "Task deadline changed", "task_id", task.ID, "deadline", task.Deadline)
		r.show(ctx, fmt.Sprintf(msgs.DeadlineSetFmt, html.EscapeString(task.Name), task.Deadline), inlineMarkup(taskKeyboard(task.ID)))
		return
	}

	task, err := h.deps.Store.CreateTask(ctx, userID, c.Target.Name, c.Deadline)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create task", "error", err)
		r.show(ctx, msgs.GeneralError, nil)
		return
	}
	log.InfoContext(ctx, "Task created", "task_id", task.ID, "deadline", task.Deadline)

	_, markup, err := taskList(ctx, h.deps, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list tasks", "error", err)
		markup = nil
	}
	r.show(ctx, fmt.Sprintf(msgs.TaskCreatedFmt, html.EscapeString(task.Name), task.Deadline), markup)
}

// render shows the picker view of st.
func (h callbackHandler) render(ctx context.Context, log *slog.Logger, r reply, st calendar.State) {
	view, err := h.deps.Machine.Render(st)
	if err != nil {
		log.WarnContext(ctx, "Nothing to render", "error", err)
		return
	}
	r.show(ctx, view.Text, inlineMarkup(view.Keyboard))
}

func (h callbackHandler) showList(ctx context.Context, log *slog.Logger, r reply, userID int64) {
	text, markup, err := taskList(ctx, h.deps, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list tasks", "error", err)
		r.show(ctx, h.deps.Config.Messages.GeneralError, nil)
		return
	}
	r.show(ctx, text, markup)
}
