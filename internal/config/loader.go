package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. the YAML file at path (optional)
// 3. BOT_* environment variables (e.g. BOT_TELEGRAM_TOKEN)
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, fmt.Errorf("%w: failed to set defaults: %v", ErrConfiguration, err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrConfiguration, path, err)
		}
		slog.Info("Configuration file not found, using defaults and environment", "path", path)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && task.Interval <= 0 && task.Schedule == "" {
			return fmt.Errorf("scheduler task %q is enabled but has neither interval nor schedule", name)
		}
	}

	return nil
}

// Location resolves the timezone deadlines are interpreted in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Reminder.Timezone, err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) error {
	v.SetDefault("telegram.token", "")

	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	v.SetDefault("database.driver", DefaultDBDriver)
	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("reminder.timezone", DefaultTimezone)
	v.SetDefault("reminder.session_ttl", DefaultSessionTTL)
	v.SetDefault("reminder.delivery_attempts", DefaultDeliveryAttempts)
	v.SetDefault("reminder.retry_delay", DefaultRetryDelay)

	v.SetDefault("scheduler.tasks."+TaskReminderScan+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskReminderScan+".interval", DefaultReminderScanInterval)
	v.SetDefault("scheduler.tasks."+TaskSessionCleanup+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskSessionCleanup+".schedule", DefaultSessionCleanupSchedule)

	v.SetDefault("commands", DefaultCommands)

	// Text catalogues are defaulted key by key so a config file can override single entries.
	if err := setStructDefaults(v, "messages", DefaultMessages); err != nil {
		return err
	}
	return setStructDefaults(v, "menu", DefaultMenu)
}

func setStructDefaults(v *viper.Viper, prefix string, defaults any) error {
	values := map[string]any{}
	if err := mapstructure.Decode(defaults, &values); err != nil {
		return fmt.Errorf("failed to decode %s defaults: %w", prefix, err)
	}
	for key, value := range values {
		v.SetDefault(prefix+"."+key, value)
	}
	return nil
}
