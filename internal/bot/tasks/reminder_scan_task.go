package tasks

import (
	"context"
	"fmt"
)

// newReminderScanTask creates the scheduled task that sends due reminders.
func newReminderScanTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "reminder_scan")

	return func(ctx context.Context) error {
		log.DebugContext(ctx, "Starting reminder scan...")
		startTime := deps.Clock.Now()

		result, err := deps.Scanner.Scan(ctx)
		duration := deps.Clock.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Reminder scan failed", "error", err, "duration", duration)
			return fmt.Errorf("reminder scan failed: %w", err)
		}

		attrs := []any{
			"users", result.Users,
			"checked", result.Checked,
			"fired", result.Fired,
			"failed", result.Failed,
			"malformed", result.Malformed,
			"duration", duration,
		}
		if result.Fired > 0 || result.Failed > 0 {
			log.InfoContext(ctx, "Reminder scan completed", attrs...)
		} else {
			log.DebugContext(ctx, "Reminder scan completed", attrs...)
		}
		return nil
	}
}
