// Package reminder decides when task deadlines deserve a reminder and delivers them.
package reminder

import (
	"time"

	"github.com/edgard/taskbot/internal/deadline"
)

// Kind identifies a reminder threshold.
type Kind string

// Reminder kinds, in evaluation order.
const (
	KindDay         Kind = "day"
	KindHour        Kind = "hour"
	KindFiveMinutes Kind = "five_minutes"
	KindNow         Kind = "now"
)

// WindowLayout formats the deadline instant that identifies a firing window.
const WindowLayout = "2006-01-02T15:04"

// Evaluate returns the reminder due for a task with remaining time left, if any.
// Thresholds are checked in order and the first match wins:
//
//   - one whole day left (24h <= remaining < 48h): KindDay
//   - no whole day left and the sub-day part in (59m, 60m]: KindHour
//   - no whole day left and the sub-day part in (4m, 5m]: KindFiveMinutes
//   - less than a minute before or after the deadline: KindNow
func Evaluate(remaining time.Duration) (Kind, bool) {
	days, seconds := deadline.Remaining(remaining)

	switch {
	case days == 1:
		return KindDay, true
	case days == 0 && seconds > 3540 && seconds <= 3600:
		return KindHour, true
	case days == 0 && seconds > 240 && seconds <= 300:
		return KindFiveMinutes, true
	case remaining > -time.Minute && remaining < time.Minute:
		return KindNow, true
	default:
		return "", false
	}
}

// WindowKey identifies the firing window of a deadline. A reminder kind fires at most
// once per window; moving the deadline opens a new window.
func WindowKey(due time.Time) string {
	return due.Format(WindowLayout)
}
