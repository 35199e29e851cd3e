package calendar_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/edgard/taskbot/internal/calendar"
)

func TestSessions(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(christmas)
	s := calendar.NewSessions(clock)

	assert.Nil(t, s.Get(1))
	assert.False(t, s.Clear(1))

	s.Set(1, calendar.AwaitingTaskName{})
	assert.Equal(t, calendar.AwaitingTaskName{}, s.Get(1))

	s.Set(1, calendar.AwaitingMonth{Target: calendar.Target{Name: "a"}})
	assert.Equal(t, calendar.AwaitingMonth{Target: calendar.Target{Name: "a"}}, s.Get(1))

	s.Set(1, nil)
	assert.Nil(t, s.Get(1))
	assert.Equal(t, 0, s.Len())

	s.Set(2, calendar.AwaitingTaskName{})
	assert.True(t, s.Clear(2))
	assert.Nil(t, s.Get(2))
}

func TestSessions_PruneIdle(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(christmas)
	s := calendar.NewSessions(clock)

	s.Set(1, calendar.AwaitingTaskName{})
	clock.Advance(2 * time.Hour)
	s.Set(2, calendar.AwaitingTaskName{})

	removed := s.PruneIdle(clock.Now().Add(-time.Hour))
	assert.Equal(t, 1, removed)
	assert.Nil(t, s.Get(1))
	assert.NotNil(t, s.Get(2))
}

func TestSessions_ConcurrentUse(t *testing.T) {
	t.Parallel()

	s := calendar.NewSessions(clockwork.NewFakeClockAt(christmas))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Set(id, calendar.AwaitingTaskName{})
			_ = s.Get(id)
			s.Clear(id)
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 0, s.Len())
}
