package tasks

import (
	"context"
)

// newSessionCleanupTask creates the scheduled task that forgets dialogs left idle
// for longer than the configured session TTL.
func newSessionCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_cleanup")

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		cutoff := deps.Clock.Now().Add(-deps.Config.Reminder.SessionTTL)
		pruned := deps.Sessions.PruneIdle(cutoff)

		log.InfoContext(ctx, "Session cleanup completed",
			"pruned", pruned,
			"remaining", deps.Sessions.Len(),
			"ttl", deps.Config.Reminder.SessionTTL)
		return nil
	}
}
