package handlers

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/taskbot/internal/config"
	"github.com/edgard/taskbot/internal/reminder"
)

// ReminderNotifier delivers reminders as Telegram messages with the task's action keyboard.
type ReminderNotifier struct {
	messenger Messenger
	messages  config.MessagesConfig
	attempts  uint
	delay     time.Duration
	logger    *slog.Logger
}

// NewReminderNotifier creates a notifier sending through m.
func NewReminderNotifier(m Messenger, cfg *config.Config, logger *slog.Logger) *ReminderNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := cfg.Reminder.DeliveryAttempts
	if attempts == 0 {
		attempts = 1
	}
	return &ReminderNotifier{
		messenger: m,
		messages:  cfg.Messages,
		attempts:  attempts,
		delay:     cfg.Reminder.RetryDelay,
		logger:    logger.With("component", "reminder_notifier"),
	}
}

// Notify sends r to its owner, retrying transient failures with back-off.
func (n *ReminderNotifier) Notify(ctx context.Context, r reminder.Reminder) error {
	format, err := n.format(r.Kind)
	if err != nil {
		return err
	}

	params := &bot.SendMessageParams{
		ChatID:      r.UserID,
		Text:        fmt.Sprintf(format, html.EscapeString(r.Task.Name), r.Task.Deadline),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: inlineMarkup(taskKeyboard(r.Task.ID)),
	}

	err = retry.Do(
		func() error {
			_, sendErr := n.messenger.SendMessage(ctx, params)
			return sendErr
		},
		retry.Context(ctx),
		retry.Attempts(n.attempts),
		retry.Delay(n.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			n.logger.DebugContext(ctx, "Retrying reminder delivery",
				"attempt", attempt+1,
				"max_attempts", n.attempts,
				"user_id", r.UserID,
				"task_id", r.Task.ID,
				"error", err,
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to send %s reminder for task %s: %w", r.Kind, r.Task.ID, err)
	}
	return nil
}

func (n *ReminderNotifier) format(kind reminder.Kind) (string, error) {
	switch kind {
	case reminder.KindDay:
		return n.messages.ReminderDayFmt, nil
	case reminder.KindHour:
		return n.messages.ReminderHourFmt, nil
	case reminder.KindFiveMinutes:
		return n.messages.ReminderFiveMinutesFmt, nil
	case reminder.KindNow:
		return n.messages.ReminderNowFmt, nil
	default:
		return "", fmt.Errorf("unknown reminder kind %q", kind)
	}
}
