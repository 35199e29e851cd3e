// Package config loads, defaults and validates the task reminder bot configuration.
// Values come from built-in defaults, an optional YAML file and BOT_* environment variables.
package config

import (
	"errors"
	"time"

	"github.com/go-telegram/bot/models"
)

// ErrConfiguration wraps every configuration loading or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the root configuration of the bot.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Menu      MenuConfig      `mapstructure:"menu"`
	Commands  []CommandConfig `mapstructure:"commands" validate:"dive"`
}

// TelegramConfig holds the Bot API credentials and runtime bot identity.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`

	// BotInfo is filled at startup from getMe, never from configuration.
	BotInfo *models.User `mapstructure:"-"`
}

// LoggerConfig controls slog output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig selects the Task Store implementation.
// The sqlite driver defaults to an in-memory database; state never outlives the process
// unless an operator points Path at a file.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory sqlite"`
	Path   string `mapstructure:"path"   validate:"required_if=Driver sqlite"`
}

// ReminderConfig holds deadline interpretation and dialog housekeeping settings.
type ReminderConfig struct {
	Timezone   string        `mapstructure:"timezone"    validate:"required"`
	SessionTTL time.Duration `mapstructure:"session_ttl" validate:"min=1m"`

	// DeliveryAttempts and RetryDelay control retries of a single reminder message.
	DeliveryAttempts uint          `mapstructure:"delivery_attempts" validate:"min=1,max=10"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"       validate:"min=0"`
}

// SchedulerConfig maps scheduled task names to their settings.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures one scheduled task. Interval takes precedence over Schedule.
type TaskConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	Interval time.Duration `mapstructure:"interval" validate:"omitempty,min=1s"`
}

// MenuConfig holds the reply keyboard labels. Menu handlers match these texts exactly.
type MenuConfig struct {
	Tasks   string `mapstructure:"tasks"    validate:"required"`
	AddTask string `mapstructure:"add_task" validate:"required"`
	Help    string `mapstructure:"help"     validate:"required"`
}

// CommandConfig describes one entry of the bot command menu.
type CommandConfig struct {
	Command     string `mapstructure:"command"     validate:"required"`
	Description string `mapstructure:"description" validate:"required"`
}

// MessagesConfig is the catalogue of user-facing texts. Fields ending in Fmt are
// fmt format strings; see the defaults for their verbs.
type MessagesConfig struct {
	Welcome          string `mapstructure:"welcome"            validate:"required"`
	Help             string `mapstructure:"help"               validate:"required"`
	NoTasks          string `mapstructure:"no_tasks"           validate:"required"`
	TaskListHeader   string `mapstructure:"task_list_header"   validate:"required"`
	EnterTaskName    string `mapstructure:"enter_task_name"    validate:"required"`
	EmptyTaskName    string `mapstructure:"empty_task_name"    validate:"required"`
	NameTooLongFmt   string `mapstructure:"name_too_long_fmt"  validate:"required"`
	EnterNewName     string `mapstructure:"enter_new_name"     validate:"required"`
	TaskRenamedFmt   string `mapstructure:"task_renamed_fmt"   validate:"required"`
	TaskCreatedFmt   string `mapstructure:"task_created_fmt"   validate:"required"`
	DeadlineSetFmt   string `mapstructure:"deadline_set_fmt"   validate:"required"`
	SelectEditField  string `mapstructure:"select_edit_field"  validate:"required"`
	TaskMarkedFmt    string `mapstructure:"task_marked_fmt"    validate:"required"`
	TaskDeletedFmt   string `mapstructure:"task_deleted_fmt"   validate:"required"`
	TaskNotFound     string `mapstructure:"task_not_found"     validate:"required"`
	CalendarHidden   string `mapstructure:"calendar_hidden"    validate:"required"`
	SelectionExpired string `mapstructure:"selection_expired"  validate:"required"`
	Unavailable      string `mapstructure:"unavailable"        validate:"required"`
	FlowCancelled    string `mapstructure:"flow_cancelled"     validate:"required"`
	NothingToCancel  string `mapstructure:"nothing_to_cancel"  validate:"required"`
	TextHint         string `mapstructure:"text_hint"          validate:"required"`
	GeneralError     string `mapstructure:"general_error"      validate:"required"`

	ReminderDayFmt         string `mapstructure:"reminder_day_fmt"          validate:"required"`
	ReminderHourFmt        string `mapstructure:"reminder_hour_fmt"         validate:"required"`
	ReminderFiveMinutesFmt string `mapstructure:"reminder_five_minutes_fmt" validate:"required"`
	ReminderNowFmt         string `mapstructure:"reminder_now_fmt"          validate:"required"`
}
