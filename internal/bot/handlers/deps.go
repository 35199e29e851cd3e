package handlers

import (
	"log/slog"

	"github.com/edgard/taskbot/internal/calendar"
	"github.com/edgard/taskbot/internal/config"
	"github.com/edgard/taskbot/internal/database"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Sessions *calendar.Sessions
	Machine  *calendar.Machine
}
