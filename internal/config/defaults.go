package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultDBDriver = "memory"
	// DefaultDBPath keeps the sqlite store inside process memory.
	DefaultDBPath = "file:taskbot?mode=memory&cache=shared"

	DefaultTimezone         = "Local"
	DefaultSessionTTL       = 24 * time.Hour
	DefaultDeliveryAttempts = 3
	DefaultRetryDelay       = time.Second

	DefaultReminderScanInterval   = 30 * time.Second
	DefaultSessionCleanupSchedule = "0 */15 * * * *"
)

// Scheduled task names. They key both the task registry and scheduler.tasks in config.
const (
	TaskReminderScan   = "reminder_scan"
	TaskSessionCleanup = "session_cleanup"
)

// DefaultMenu holds the reply keyboard labels.
var DefaultMenu = MenuConfig{
	Tasks:   "📋 My Tasks",
	AddTask: "➕ Add Task",
	Help:    "ℹ️ Help",
}

// DefaultCommands is the bot command menu published at startup.
var DefaultCommands = []CommandConfig{
	{Command: "start", Description: "Start the bot"},
	{Command: "tasks", Description: "View all tasks"},
	{Command: "add", Description: "Add a new task"},
	{Command: "cancel", Description: "Cancel the current dialog"},
	{Command: "help", Description: "Get help"},
}

// DefaultMessages is the built-in message catalogue. Texts are sent with HTML parse mode.
var DefaultMessages = MessagesConfig{
	Welcome: "👋 Hello! I'm a scheduler bot that will help you manage your tasks.\n\n" +
		"Use the buttons below to manage tasks or the following commands:\n" +
		"/tasks - view all tasks\n" +
		"/add - add a new task\n" +
		"/cancel - cancel the current dialog\n" +
		"/help - get help",
	Help: "🔍 <b>Command Help</b>\n\n" +
		"📋 My Tasks - view all tasks\n" +
		"➕ Add Task - create a new task\n" +
		"ℹ️ Help - show this help\n\n" +
		"The bot reminds you 24 hours, 1 hour and 5 minutes before a task is due, and when it is due.",
	NoTasks:          "You don't have any tasks yet. Add a new task using the button below.",
	TaskListHeader:   "📋 <b>Your tasks:</b>",
	EnterTaskName:    "Enter the task name:",
	EmptyTaskName:    "The task name cannot be empty. Enter the task name:",
	NameTooLongFmt:   "The task name is too long, the limit is %d characters. Enter a shorter name:",
	EnterNewName:     "Enter new task name:",
	TaskRenamedFmt:   "✅ Task name updated to \"%s\"",
	TaskCreatedFmt:   "✅ Task \"%s\" with deadline %s added!\nI will remind you before the deadline.",
	DeadlineSetFmt:   "✅ Deadline for task \"%s\" changed to %s",
	SelectEditField:  "Select what you want to edit:",
	TaskMarkedFmt:    "Task marked as %s",
	TaskDeletedFmt:   "Task \"%s\" deleted",
	TaskNotFound:     "Task not found. It may have been deleted.",
	CalendarHidden:   "Calendar hidden",
	SelectionExpired: "This selection has expired. Start again from the menu.",
	Unavailable:      "This option is no longer available.",
	FlowCancelled:    "Cancelled.",
	NothingToCancel:  "There is nothing to cancel.",
	TextHint:         "Use the menu buttons or /help to see what I can do.",
	GeneralError:     "❌ An error occurred. Please try again later.",

	ReminderDayFmt:         "⏰ <b>Reminder!</b>\n\nTask <b>%s</b> is due in 24 hours\nDeadline: %s",
	ReminderHourFmt:        "⏰ <b>Reminder!</b>\n\nTask <b>%s</b> is due in 1 hour\nDeadline: %s",
	ReminderFiveMinutesFmt: "⚠️ <b>Urgent Reminder!</b>\n\nTask <b>%s</b> is due in 5 minutes\nDeadline: %s",
	ReminderNowFmt:         "🔔 <b>Time's up!</b>\n\nTask <b>%s</b> is due now\nDeadline: %s",
}
