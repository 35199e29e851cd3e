package database_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/taskbot/internal/database"
)

var epoch = time.Date(2025, time.December, 25, 12, 0, 0, 0, time.UTC)

type storeFactory func(t *testing.T, clock clockwork.Clock) database.Store

func stores() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(_ *testing.T, clock clockwork.Clock) database.Store {
			return database.NewMemoryStore(clock, nil)
		},
		"sqlite": func(t *testing.T, clock clockwork.Clock) database.Store {
			t.Helper()
			db, err := database.NewDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
			require.NoError(t, err)
			return database.NewStore(db, clock, nil)
		},
	}
}

// forEachStore runs fn against a fresh instance of every Store implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, s database.Store, clock *clockwork.FakeClock)) {
	t.Helper()
	for name, factory := range stores() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			clock := clockwork.NewFakeClockAt(epoch)
			s := factory(t, clock)
			t.Cleanup(func() { _ = s.Close() })
			fn(t, s, clock)
		})
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, s database.Store, _ *clockwork.FakeClock) {
		ctx := context.Background()

		created, err := s.CreateTask(ctx, 1, "  Report  ", "01.01.2030 10:00")
		require.NoError(t, err)
		assert.Equal(t, "1", created.ID)
		assert.Equal(t, int64(1), created.UserID)
		assert.Equal(t, "Report", created.Name)
		assert.Equal(t, "01.01.2030 10:00", created.Deadline)
		assert.False(t, created.Completed)
		assert.True(t, epoch.Equal(created.CreatedAt))
		assert.Empty(t, created.Firings)

		got, err := s.GetTask(ctx, 1, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.Name, got.Name)
		assert.True(t, epoch.Equal(got.CreatedAt))
	})
}

func TestStore_MissingIsNotAnError(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, s database.Store, _ *clockwork.FakeClock) {
		ctx := context.Background()

		for _, id := range []string{"1", "abc", "", "-1"} {
			got, err := s.GetTask(ctx, 42, id)
			require.NoError(t, err)
			assert.Nil(t, got)
		}

		tasks, err := s.ListTasks(ctx, 42)
		require.NoError(t, err)
		assert.Empty(t, tasks)

		toggled, err := s.ToggleCompleted(ctx, 42, "1")
		require.NoError(t, err)
		assert.Nil(t, toggled)

		renamed, err := s.RenameTask(ctx, 42, "1", "x")
		require.NoError(t, err)
		assert.Nil(t, renamed)

		moved, err := s.SetDeadline(ctx, 42, "1", "01.01.2030")
		require.NoError(t, err)
		assert.Nil(t, moved)

		deleted, err := s.DeleteTask(ctx, 42, "1")
		require.NoError(t, err)
		assert.Nil(t, deleted)

		recorded, err := s.RecordFiring(ctx, 42, "1", database.Firing{Kind: "hour", Window: "w", FiredAt: epoch})
		require.NoError(t, err)
		assert.False(t, recorded)
	})
}

func TestStore_Validation(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, s database.Store, _ *clockwork.FakeClock) {
		ctx := context.Background()

		_, err := s.CreateTask(ctx, 1, "   ", "01.01.2030")
		assert.ErrorIs(t, err, database.ErrInvalidTask)

		_, err = s.CreateTask(ctx, 1, "ok", "2030-01-01")
		assert.ErrorIs(t, err, database.ErrInvalidTask)

		task, err := s.CreateTask(ctx, 1, "ok", "01.01.2030")
		require.NoError(t, err)

		_, err = s.RenameTask(ctx, 1, task.ID, "")
		assert.ErrorIs(t, err, database.ErrInvalidTask)

		_, err = s.SetDeadline(ctx, 1, task.ID, "31.02.2030")
		assert.ErrorIs(t, err, database.ErrInvalidTask)
	})
}

func TestStore_ListOrderAndUsers(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, s database.Store, _ *clockwork.FakeClock) {
		ctx := context.Background()

		for _, name := range []string{"a", "b", "c"} {
			_, err := s.CreateTask(ctx, 7, name, "01.01.2030")
			require.NoError(t, err)
		}
		_, err := s.CreateTask(ctx, 3, "other", "01.01.2030")
		require.NoError(t, err)

		tasks, err := s.ListTasks(ctx, 7)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{tasks[0].Name, tasks[1].Name, tasks[2].Name})
		assert.Equal(t, []string{"1", "2", "3"}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 7}, users)
	})
}

func TestStore_IDsAreNeverReused(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, s database.Store, _ *clockwork.FakeClock) {
		ctx := context.Background()

		first, err := s.CreateTask(ctx, 1, "first", "01.01.2030")
		require.NoError(t, err)
		second, err := s.CreateTask(ctx, 1, "second", "01.01.2030")
		require.NoError(t, err)

		deleted, err := s.DeleteTask(ctx, 1, first.ID)
		require.NoError(t, err)
		require.NotNil(t, deleted)
		assert.Equal(t, "first", deleted.Name)

		third, err := s.CreateTask(ctx, 1, "third", "01.01.2030")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, third.ID)
		assert.NotEqual(t, second.ID, third.ID)

		got, err := s.GetTask(ctx, 1, first.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		tasks, err := s.ListTasks(ctx, 1)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "second", tasks[0].Name)
		assert.Equal(t, "third", tasks[1].Name)
	})
}

func TestStore_Mutations(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, s database.Store, _ *clockwork.FakeClock) {
		ctx := context.Background()

		task, err := s.CreateTask(ctx, 1, "draft", "01.01.2030")
		require.NoError(t, err)

		toggled, err := s.ToggleCompleted(ctx, 1, task.ID)
		require.NoError(t, err)
		require.NotNil(t, toggled)
		assert.True(t, toggled.Completed)

		toggled, err = s.ToggleCompleted(ctx, 1, task.ID)
		require.NoError(t, err)
		assert.False(t, toggled.Completed)

		renamed, err := s.RenameTask(ctx, 1, task.ID, " final ")
		require.NoError(t, err)
		assert.Equal(t, "final", renamed.Name)

		moved, err := s.SetDeadline(ctx, 1, task.ID, "02.01.2030 09:30")
		require.NoError(t, err)
		assert.Equal(t, "02.01.2030 09:30", moved.Deadline)

		got, err := s.GetTask(ctx, 1, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "final", got.Name)
		assert.Equal(t, "02.01.2030 09:30", got.Deadline)
	})
}

func TestStore_RecordFiring(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, s database.Store, clock *clockwork.FakeClock) {
		ctx := context.Background()

		task, err := s.CreateTask(ctx, 1, "report", "01.01.2030 10:00")
		require.NoError(t, err)

		hour := database.Firing{Kind: "hour", Window: "2030-01-01T10:00", FiredAt: clock.Now()}
		recorded, err := s.RecordFiring(ctx, 1, task.ID, hour)
		require.NoError(t, err)
		assert.True(t, recorded)

		recorded, err = s.RecordFiring(ctx, 1, task.ID, hour)
		require.NoError(t, err)
		assert.False(t, recorded, "same kind and window must be recorded once")

		clock.Advance(time.Minute)
		day := database.Firing{Kind: "day", Window: "2030-01-01T10:00", FiredAt: clock.Now()}
		recorded, err = s.RecordFiring(ctx, 1, task.ID, day)
		require.NoError(t, err)
		assert.True(t, recorded)

		got, err := s.GetTask(ctx, 1, task.ID)
		require.NoError(t, err)
		require.Len(t, got.Firings, 2)
		assert.True(t, got.HasFired("hour", "2030-01-01T10:00"))
		assert.True(t, got.HasFired("day", "2030-01-01T10:00"))
		assert.False(t, got.HasFired("hour", "2030-01-02T10:00"))

		toggled, err := s.ToggleCompleted(ctx, 1, task.ID)
		require.NoError(t, err)
		assert.Len(t, toggled.Firings, 2, "toggling completion keeps firings")

		listed, err := s.ListTasks(ctx, 1)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Len(t, listed[0].Firings, 2)
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, s database.Store, _ *clockwork.FakeClock) {
		ctx := context.Background()

		task, err := s.CreateTask(ctx, 1, "draft", "01.01.2030")
		require.NoError(t, err)

		task.Name = "mutated"
		task.Firings = append(task.Firings, database.Firing{Kind: "day", Window: "x"})

		got, err := s.GetTask(ctx, 1, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "draft", got.Name)
		assert.Empty(t, got.Firings)
	})
}

func TestMemoryStore_ConcurrentUsers(t *testing.T) {
	t.Parallel()

	s := database.NewMemoryStore(clockwork.NewFakeClockAt(epoch), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for user := int64(1); user <= 10; user++ {
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.CreateTask(ctx, user, "task", "01.01.2030")
				assert.NoError(t, err)
			}()
		}
	}
	wg.Wait()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 10)

	for _, user := range users {
		tasks, err := s.ListTasks(ctx, user)
		require.NoError(t, err)
		require.Len(t, tasks, 20)

		seen := make(map[string]bool)
		for _, task := range tasks {
			assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
			seen[task.ID] = true
		}
	}
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "taskbot", database.ExtractDBNameFromPath("file:taskbot?mode=memory&cache=shared"))
	assert.Equal(t, "/var/lib/task bot.db", database.ExtractDBNameFromPath("/var/lib/task%20bot.db"))
}
