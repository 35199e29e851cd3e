package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a handler with its match rule.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns all bot handlers keyed by a descriptive name:
// slash commands, reply keyboard labels and the callback router.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(name string, h tgbot.HandlerFunc) {
		handlers["/"+name] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     name,
			Handler:     h,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
		}
	}
	menu := func(label string, h tgbot.HandlerFunc) {
		handlers["menu:"+label] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     label,
			Handler:     h,
			MatchType:   tgbot.MatchTypeExact,
		}
	}

	start := NewStartHandler(deps)
	help := NewHelpHandler(deps)
	tasks := NewTasksHandler(deps)
	add := NewAddHandler(deps)

	command("start", start)
	command("help", help)
	command("tasks", tasks)
	command("add", add)
	command("cancel", NewCancelHandler(deps))

	menu(deps.Config.Menu.Tasks, tasks)
	menu(deps.Config.Menu.AddTask, add)
	menu(deps.Config.Menu.Help, help)

	handlers["callback"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "",
		Handler:     NewCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
