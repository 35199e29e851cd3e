package calendar

import "time"

// State is the position of a user in the task dialog. A user without a session is idle.
type State interface {
	isState()
}

// Target identifies what a committed deadline applies to: a new task with Name,
// or the existing task TaskID.
type Target struct {
	Name   string
	TaskID string
}

// Editing reports whether the target is an existing task.
func (t Target) Editing() bool {
	return t.TaskID != ""
}

// AwaitingTaskName waits for the name of a new task.
type AwaitingTaskName struct{}

// AwaitingNewName waits for a replacement name for task TaskID.
type AwaitingNewName struct {
	TaskID string
}

// AwaitingMonth shows the month picker.
type AwaitingMonth struct {
	Target Target
}

// AwaitingDay shows the days of Month in Year.
type AwaitingDay struct {
	Target Target
	Year   int
	Month  time.Month
}

// AwaitingHour shows the hours of Date.
type AwaitingHour struct {
	Target Target
	Date   Date
}

// AwaitingMinute shows the minutes of Hour on Date.
type AwaitingMinute struct {
	Target Target
	Date   Date
	Hour   int
}

func (AwaitingTaskName) isState() {}
func (AwaitingNewName) isState()  {}
func (AwaitingMonth) isState()    {}
func (AwaitingDay) isState()      {}
func (AwaitingHour) isState()     {}
func (AwaitingMinute) isState()   {}

// TargetOf returns the target of a picker state.
func TargetOf(st State) (Target, bool) {
	switch s := st.(type) {
	case AwaitingMonth:
		return s.Target, true
	case AwaitingDay:
		return s.Target, true
	case AwaitingHour:
		return s.Target, true
	case AwaitingMinute:
		return s.Target, true
	default:
		return Target{}, false
	}
}

// StateName returns a short name for logging.
func StateName(st State) string {
	switch st.(type) {
	case nil:
		return "idle"
	case AwaitingTaskName:
		return "awaiting_task_name"
	case AwaitingNewName:
		return "awaiting_new_name"
	case AwaitingMonth:
		return "awaiting_month"
	case AwaitingDay:
		return "awaiting_day"
	case AwaitingHour:
		return "awaiting_hour"
	case AwaitingMinute:
		return "awaiting_minute"
	default:
		return "unknown"
	}
}
