// Package tasks implements the scheduled tasks of the reminder bot.
// It includes task definitions, dependencies, and registration mechanisms.
package tasks

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/taskbot/internal/calendar"
	"github.com/edgard/taskbot/internal/config"
	"github.com/edgard/taskbot/internal/reminder"
)

// ReminderScanner runs one reminder pass over every stored task.
type ReminderScanner interface {
	Scan(ctx context.Context) (reminder.ScanResult, error)
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Scanner  ReminderScanner
	Sessions *calendar.Sessions
	Clock    clockwork.Clock
}
