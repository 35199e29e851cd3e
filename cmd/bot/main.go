// Package main contains the entrypoint for the Telegram task reminder bot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/jonboulle/clockwork"

	"github.com/edgard/taskbot/internal/bot"
	"github.com/edgard/taskbot/internal/bot/handlers"
	"github.com/edgard/taskbot/internal/bot/tasks"
	"github.com/edgard/taskbot/internal/calendar"
	"github.com/edgard/taskbot/internal/config"
	"github.com/edgard/taskbot/internal/database"
	"github.com/edgard/taskbot/internal/logger"
	"github.com/edgard/taskbot/internal/reminder"
	"github.com/edgard/taskbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// openStore creates the Task Store selected by the database configuration.
func openStore(cfg config.DatabaseConfig, clock clockwork.Clock, log *slog.Logger) (database.Store, error) {
	switch cfg.Driver {
	case "memory":
		return database.NewMemoryStore(clock, log), nil
	case "sqlite":
		db, err := database.NewDB(cfg.Path)
		if err != nil {
			return nil, err
		}
		return database.NewStore(db, clock, log), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// run initializes and starts all application components (config, logger, store, bot, scheduler),
// handles graceful shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("Invalid reminder timezone", "timezone", cfg.Reminder.Timezone, "error", err)
		return 1
	}

	clock := clockwork.NewRealClock()
	store, err := openStore(cfg.Database, clock, log)
	if err != nil {
		log.Error("Failed to open task store", "driver", cfg.Database.Driver, "error", err)
		return 1
	}
	log.Info("Task store ready", "driver", cfg.Database.Driver)

	sessions := calendar.NewSessions(clock)
	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Sessions: sessions,
		Machine:  calendar.NewMachine(clock, loc),
	}

	// Updates are dispatched in receive order; SerializePerChat fans them out per chat.
	botOpts := []tgbot.Option{
		tgbot.WithNotAsyncHandlers(),
		tgbot.WithMiddlewares(handlers.SerializePerChat(), logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewTextHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		_ = store.Close()
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		_ = store.Close()
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		_ = store.Close()
		return 1
	}
	if err := telegram.SetCommands(ctx, tg, cfg.Commands); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	notifier := handlers.NewReminderNotifier(tg, cfg, log)
	tDeps := tasks.TaskDeps{
		Logger:   log,
		Config:   cfg,
		Scanner:  reminder.NewScanner(store, notifier, clock, loc, log),
		Sessions: sessions,
		Clock:    clock,
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps), clock)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		_ = store.Close()
		return 1
	}
	app := bot.NewBot(log, cfg, store, tg, sched)

	log.Info("Starting bot...", "timezone", loc.String())
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
