package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/edgard/taskbot/internal/database"
	"github.com/edgard/taskbot/internal/deadline"
)

// Reminder is a notification that a task's deadline crossed a threshold.
type Reminder struct {
	UserID int64
	Task   *database.Task
	Kind   Kind
	Due    time.Time
}

// Notifier delivers reminders to users.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// ScanResult summarises one scan pass.
type ScanResult struct {
	Users     int
	Checked   int
	Malformed int
	Fired     int
	Failed    int
}

// Scanner inspects every open task and sends the reminders that are due.
type Scanner struct {
	store    database.Store
	notifier Notifier
	clock    clockwork.Clock
	loc      *time.Location
	logger   *slog.Logger
}

// NewScanner creates a Scanner. Deadlines are interpreted in loc.
func NewScanner(store database.Store, notifier Notifier, clock clockwork.Clock, loc *time.Location, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scanner{
		store:    store,
		notifier: notifier,
		clock:    clock,
		loc:      loc,
		logger:   logger.With("component", "reminder_scanner"),
	}
}

// Scan runs one pass over all users. Failing users or tasks are logged and skipped;
// only a failure to list users or a cancelled context aborts the pass.
func (s *Scanner) Scan(ctx context.Context) (ScanResult, error) {
	var result ScanResult
	log := s.logger.With("pass_id", uuid.NewString())
	now := s.clock.Now().In(s.loc)

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list users: %w", err)
	}
	result.Users = len(users)

	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		tasks, err := s.store.ListTasks(ctx, userID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to list tasks", "user_id", userID, "error", err)
			result.Failed++
			continue
		}

		for _, task := range tasks {
			if task.Completed {
				continue
			}
			result.Checked++
			s.scanTask(ctx, log, now, task, &result)
		}
	}

	log.DebugContext(ctx, "Reminder scan finished",
		"users", result.Users,
		"checked", result.Checked,
		"malformed", result.Malformed,
		"fired", result.Fired,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *Scanner) scanTask(ctx context.Context, log *slog.Logger, now time.Time, task *database.Task, result *ScanResult) {
	log = log.With("user_id", task.UserID, "task_id", task.ID)

	due, err := deadline.Parse(task.Deadline, s.loc)
	if err != nil {
		log.DebugContext(ctx, "Skipping task with malformed deadline", "deadline", task.Deadline, "error", err)
		result.Malformed++
		return
	}

	kind, ok := Evaluate(due.Sub(now))
	if !ok {
		return
	}
	window := WindowKey(due)
	if task.HasFired(string(kind), window) {
		return
	}

	if err := s.notifier.Notify(ctx, Reminder{UserID: task.UserID, Task: task, Kind: kind, Due: due}); err != nil {
		log.WarnContext(ctx, "Failed to deliver reminder", "kind", kind, "error", err)
		result.Failed++
		return
	}
	result.Fired++

	recorded, err := s.store.RecordFiring(ctx, task.UserID, task.ID, database.Firing{
		Kind:    string(kind),
		Window:  window,
		FiredAt: now,
	})
	switch {
	case err != nil:
		log.ErrorContext(ctx, "Failed to record reminder firing", "kind", kind, "error", err)
	case !recorded:
		log.DebugContext(ctx, "Reminder firing not recorded, task gone or already recorded", "kind", kind)
	default:
		log.InfoContext(ctx, "Reminder sent", "kind", kind, "window", window)
	}
}
