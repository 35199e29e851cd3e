package handlers

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/taskbot/internal/action"
	"github.com/edgard/taskbot/internal/config"
	"github.com/edgard/taskbot/internal/database"
)

// inlineMarkup converts a transport-neutral keyboard to Bot API markup.
func inlineMarkup(kb action.Keyboard) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, models.InlineKeyboardButton{Text: b.Label, CallbackData: b.Data})
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// mainMenu is the persistent reply keyboard shown under the input field.
func mainMenu(menu config.MenuConfig) *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: menu.Tasks}, {Text: menu.AddTask}},
			{{Text: menu.Help}},
		},
		ResizeKeyboard: true,
	}
}

// taskListKeyboard has one button per task followed by an add button.
func taskListKeyboard(tasks []*database.Task, menu config.MenuConfig) action.Keyboard {
	kb := make(action.Keyboard, 0, len(tasks)+1)
	for _, t := range tasks {
		label := fmt.Sprintf("%s %s (%s)", statusIcon(t.Completed), t.Name, t.Deadline)
		kb = append(kb, []action.Button{action.NewButton(label, action.New(action.View, t.ID))})
	}
	return append(kb, []action.Button{action.NewButton(menu.AddTask, action.New(action.Add))})
}

// taskKeyboard holds the actions of a single task.
func taskKeyboard(taskID string) action.Keyboard {
	return action.Keyboard{
		{
			action.NewButton("✅ Completed", action.New(action.Complete, taskID)),
			action.NewButton("✏️ Edit", action.New(action.Edit, taskID)),
		},
		{
			action.NewButton("🗑️ Delete", action.New(action.Delete, taskID)),
			action.NewButton("« Back", action.New(action.List)),
		},
	}
}

// editKeyboard lets the user pick which field of a task to change.
func editKeyboard(taskID string) action.Keyboard {
	return action.Keyboard{
		{action.NewButton("Edit Name", action.New(action.EditName, taskID))},
		{action.NewButton("Edit Deadline", action.New(action.EditDeadline, taskID))},
		{action.NewButton("« Back", action.New(action.View, taskID))},
	}
}
