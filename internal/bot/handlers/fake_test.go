package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jonboulle/clockwork"

	"github.com/edgard/taskbot/internal/calendar"
	"github.com/edgard/taskbot/internal/config"
	"github.com/edgard/taskbot/internal/database"
)

// fakeMessenger records Bot API calls.
type fakeMessenger struct {
	mu       sync.Mutex
	sent     []*bot.SendMessageParams
	edited   []*bot.EditMessageTextParams
	answered []*bot.AnswerCallbackQueryParams
	deleted  []*bot.DeleteMessageParams
	sendErrs []error
}

func (f *fakeMessenger) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sendErrs) > 0 {
		err := f.sendErrs[0]
		f.sendErrs = f.sendErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.sent = append(f.sent, p)
	return &models.Message{ID: len(f.sent)}, nil
}

func (f *fakeMessenger) EditMessageText(_ context.Context, p *bot.EditMessageTextParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edited = append(f.edited, p)
	return &models.Message{ID: p.MessageID}, nil
}

func (f *fakeMessenger) AnswerCallbackQuery(_ context.Context, p *bot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, p)
	return true, nil
}

func (f *fakeMessenger) DeleteMessage(_ context.Context, p *bot.DeleteMessageParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, p)
	return true, nil
}

func (f *fakeMessenger) lastSent(t *testing.T) *bot.SendMessageParams {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("no message sent")
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) lastEdit(t *testing.T) *bot.EditMessageTextParams {
	t.Helper()
	if len(f.edited) == 0 {
		t.Fatal("no message edited")
	}
	return f.edited[len(f.edited)-1]
}

func (f *fakeMessenger) lastAnswer(t *testing.T) string {
	t.Helper()
	if len(f.answered) == 0 {
		t.Fatal("no callback answered")
	}
	return f.answered[len(f.answered)-1].Text
}

var errTransient = errors.New("telegram: 502 bad gateway")

const (
	testUser = int64(1001)
	testMsg  = 77
)

var testNow = time.Date(2025, time.December, 25, 14, 42, 0, 0, time.UTC)

type env struct {
	deps     HandlerDeps
	clock    *clockwork.FakeClock
	m        *fakeMessenger
	store    database.Store
	sessions *calendar.Sessions
}

func newEnv() *env {
	clock := clockwork.NewFakeClockAt(testNow)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Messages: config.DefaultMessages,
		Menu:     config.DefaultMenu,
		Reminder: config.ReminderConfig{DeliveryAttempts: 3},
	}
	store := database.NewMemoryStore(clock, logger)
	sessions := calendar.NewSessions(clock)
	return &env{
		deps: HandlerDeps{
			Logger:   logger,
			Config:   cfg,
			Store:    store,
			Sessions: sessions,
			Machine:  calendar.NewMachine(clock, time.UTC),
		},
		clock:    clock,
		m:        &fakeMessenger{},
		store:    store,
		sessions: sessions,
	}
}

func textUpdate(text string) *models.Update {
	return &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   testMsg,
			Text: text,
			Chat: models.Chat{ID: testUser, Type: models.ChatTypePrivate},
			From: &models.User{ID: testUser},
		},
	}
}

func callbackUpdate(data string) *models.Update {
	return &models.Update{
		ID: 2,
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb-" + data,
			From: models.User{ID: testUser},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Type: models.MaybeInaccessibleMessageTypeMessage,
				Message: &models.Message{
					ID:   testMsg,
					Chat: models.Chat{ID: testUser, Type: models.ChatTypePrivate},
				},
			},
		},
	}
}

func (e *env) text(ctx context.Context, text string) {
	textHandler{e.deps}.Handle(ctx, e.m, textUpdate(text))
}

func (e *env) press(ctx context.Context, data string) {
	callbackHandler{e.deps}.Handle(ctx, e.m, callbackUpdate(data))
}
