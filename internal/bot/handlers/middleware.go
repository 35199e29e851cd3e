// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// SerializePerChat creates a middleware that processes the updates of one chat one at a
// time, in arrival order, while updates of different chats run concurrently. Each update
// is appended to its chat's queue and the middleware returns at once, so it must see
// updates in the order they were received: run the bot with tgbot.WithNotAsyncHandlers.
func SerializePerChat() tgbot.Middleware {
	queues := &chatQueues{pending: make(map[int64][]func())}
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			chatID, ok := UpdateChatID(update)
			if !ok {
				go next(ctx, bot, update)
				return
			}
			queues.enqueue(chatID, func() { next(ctx, bot, update) })
		}
	}
}

// UpdateChatID returns the chat an update belongs to.
func UpdateChatID(update *models.Update) (int64, bool) {
	switch {
	case update == nil:
		return 0, false
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		switch {
		case cq.Message.Message != nil:
			return cq.Message.Message.Chat.ID, true
		case cq.Message.InaccessibleMessage != nil:
			return cq.Message.InaccessibleMessage.Chat.ID, true
		default:
			return cq.From.ID, true
		}
	default:
		return 0, false
	}
}

// chatQueues runs the jobs of each chat in FIFO order on one goroutine per active chat.
// A chat's entry exists exactly while its goroutine runs.
type chatQueues struct {
	mu      sync.Mutex
	pending map[int64][]func()
}

func (q *chatQueues) enqueue(chatID int64, job func()) {
	q.mu.Lock()
	jobs, active := q.pending[chatID]
	q.pending[chatID] = append(jobs, job)
	q.mu.Unlock()

	if !active {
		go q.drain(chatID)
	}
}

func (q *chatQueues) drain(chatID int64) {
	for {
		q.mu.Lock()
		jobs := q.pending[chatID]
		if len(jobs) == 0 {
			delete(q.pending, chatID)
			q.mu.Unlock()
			return
		}
		job := jobs[0]
		jobs[0] = nil
		q.pending[chatID] = jobs[1:]
		q.mu.Unlock()

		job()
	}
}

// active returns the number of chats with queued or running updates.
func (q *chatQueues) active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
