package calendar_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/taskbot/internal/action"
	"github.com/edgard/taskbot/internal/calendar"
	"github.com/edgard/taskbot/internal/database"
)

func newMachine(now time.Time) *calendar.Machine {
	return calendar.NewMachine(clockwork.NewFakeClockAt(now), time.UTC)
}

func mustParse(t *testing.T, data string) action.Action {
	t.Helper()
	a, err := action.Parse(data)
	require.NoError(t, err)
	return a
}

func TestMachine_NewTaskFlow(t *testing.T) {
	t.Parallel()

	m := newMachine(christmas)

	st, name, err := m.SubmitName(calendar.AwaitingTaskName{}, "  Report  ")
	require.NoError(t, err)
	assert.Equal(t, "Report", name)
	assert.Equal(t, calendar.AwaitingMonth{Target: calendar.Target{Name: "Report"}}, st)

	steps := []string{"month_1_2026", "day_1_1_2026", "hour_10"}
	for _, data := range steps {
		res, err := m.Apply(st, mustParse(t, data))
		require.NoError(t, err, data)
		require.Nil(t, res.Commit, data)
		st = res.Next
	}
	assert.Equal(t, calendar.AwaitingMinute{
		Target: calendar.Target{Name: "Report"},
		Date:   calendar.Date{Year: 2026, Month: time.January, Day: 1},
		Hour:   10,
	}, st)

	res, err := m.Apply(st, mustParse(t, "minute_10_0"))
	require.NoError(t, err)
	assert.Nil(t, res.Next)
	require.NotNil(t, res.Commit)
	assert.Equal(t, "Report", res.Commit.Target.Name)
	assert.Equal(t, "01.01.2026 10:00", res.Commit.Deadline)
}

func TestMachine_AllDay(t *testing.T) {
	t.Parallel()

	m := newMachine(christmas)
	target := calendar.Target{TaskID: "3"}
	st := calendar.AwaitingHour{Target: target, Date: calendar.Date{Year: 2025, Month: time.December, Day: 31}}

	res, err := m.Apply(st, action.New(action.AllDay))
	require.NoError(t, err)
	require.NotNil(t, res.Commit)
	assert.True(t, res.Commit.Target.Editing())
	assert.Equal(t, "31.12.2025", res.Commit.Deadline)
}

func TestMachine_CancelFromEveryState(t *testing.T) {
	t.Parallel()

	m := newMachine(christmas)
	date := calendar.DateOf(christmas)
	states := []calendar.State{
		nil,
		calendar.AwaitingTaskName{},
		calendar.AwaitingNewName{TaskID: "1"},
		calendar.AwaitingMonth{},
		calendar.AwaitingDay{Year: 2025, Month: time.December},
		calendar.AwaitingHour{Date: date},
		calendar.AwaitingMinute{Date: date, Hour: 15},
	}

	for _, st := range states {
		res, err := m.Apply(st, action.New(action.Cancel))
		require.NoError(t, err, calendar.StateName(st))
		assert.Nil(t, res.Next, calendar.StateName(st))
		assert.Nil(t, res.Commit, calendar.StateName(st))
	}
}

func TestMachine_BackNavigation(t *testing.T) {
	t.Parallel()

	m := newMachine(christmas)
	target := calendar.Target{Name: "x"}
	date := calendar.Date{Year: 2026, Month: time.March, Day: 3}
	minute := calendar.AwaitingMinute{Target: target, Date: date, Hour: 9}

	res, err := m.Apply(minute, action.New(action.BackHour))
	require.NoError(t, err)
	assert.Equal(t, calendar.AwaitingHour{Target: target, Date: date}, res.Next)

	res, err = m.Apply(res.Next, action.New(action.BackDay))
	require.NoError(t, err)
	assert.Equal(t, calendar.AwaitingDay{Target: target, Year: 2026, Month: time.March}, res.Next)

	res, err = m.Apply(res.Next, action.New(action.BackMonth))
	require.NoError(t, err)
	assert.Equal(t, calendar.AwaitingMonth{Target: target}, res.Next)
}

func TestMachine_Errors(t *testing.T) {
	t.Parallel()

	today := calendar.DateOf(christmas)
	tests := []struct {
		name    string
		now     time.Time
		state   calendar.State
		data    string
		wantErr error
	}{
		{name: "idle day press", now: christmas, state: nil, data: "day_26_12_2025", wantErr: calendar.ErrWrongState},
		{name: "minute without hour", now: christmas, state: calendar.AwaitingMonth{}, data: "minute_15_0", wantErr: calendar.ErrWrongState},
		{name: "day from month picker", now: christmas, state: calendar.AwaitingMonth{}, data: "day_26_12_2025", wantErr: calendar.ErrWrongState},
		{name: "back from month picker", now: christmas, state: calendar.AwaitingMonth{}, data: "backmonth", wantErr: calendar.ErrWrongState},
		{name: "name prompt", now: christmas, state: calendar.AwaitingTaskName{}, data: "hour_10", wantErr: calendar.ErrWrongState},
		{name: "past month", now: christmas, state: calendar.AwaitingMonth{}, data: "month_11_2025", wantErr: calendar.ErrUnavailable},
		{name: "past day", now: christmas, state: calendar.AwaitingDay{Year: 2025, Month: time.December}, data: "day_24_12_2025", wantErr: calendar.ErrUnavailable},
		{name: "february 30", now: christmas, state: calendar.AwaitingDay{Year: 2026, Month: time.February}, data: "day_30_2_2026", wantErr: calendar.ErrUnavailable},
		{name: "past hour", now: christmas, state: calendar.AwaitingHour{Date: today}, data: "hour_13", wantErr: calendar.ErrUnavailable},
		{name: "past minute", now: christmas, state: calendar.AwaitingMinute{Date: today, Hour: 14}, data: "minute_14_40", wantErr: calendar.ErrUnavailable},
		{name: "minute of other hour", now: christmas, state: calendar.AwaitingMinute{Date: today, Hour: 15}, data: "minute_16_0", wantErr: calendar.ErrUnavailable},
		{name: "malformed params", now: christmas, state: calendar.AwaitingMonth{}, data: "month_x_2026", wantErr: action.ErrMalformed},
		{name: "unknown action", now: christmas, state: calendar.AwaitingMonth{}, data: "view_1", wantErr: action.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newMachine(tt.now)
			res, err := m.Apply(tt.state, mustParse(t, tt.data))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.state, res.Next)
			assert.Nil(t, res.Commit)
		})
	}
}

func TestMachine_NoMinutesLeft(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.December, 25, 14, 57, 0, 0, time.UTC)
	m := newMachine(now)
	st := calendar.AwaitingMinute{Date: calendar.DateOf(now), Hour: 15}

	res, err := m.Apply(st, action.New(action.Hour, 14))
	require.ErrorIs(t, err, calendar.ErrNoMinutes)
	hour, ok := res.Next.(calendar.AwaitingHour)
	require.True(t, ok)
	assert.Equal(t, calendar.DateOf(now), hour.Date)

	view := m.RenderNoMinutes(hour, 14)
	assert.Contains(t, view.Text, "No available minutes for 14:00")
	assert.Equal(t, "hour_14", view.Keyboard[1][0].Data)
}

func TestMachine_Ignore(t *testing.T) {
	t.Parallel()

	m := newMachine(christmas)
	st := calendar.AwaitingMonth{Target: calendar.Target{Name: "x"}}
	res, err := m.Apply(st, action.New(action.Ignore))
	require.NoError(t, err)
	assert.Equal(t, st, res.Next)
}

func TestMachine_SubmitName(t *testing.T) {
	t.Parallel()

	m := newMachine(christmas)

	_, _, err := m.SubmitName(calendar.AwaitingTaskName{}, "   ")
	assert.ErrorIs(t, err, calendar.ErrEmptyName)

	_, _, err = m.SubmitName(nil, "hello")
	assert.ErrorIs(t, err, calendar.ErrWrongState)

	st, name, err := m.SubmitName(calendar.AwaitingNewName{TaskID: "2"}, " Renamed ")
	require.NoError(t, err)
	assert.Nil(t, st)
	assert.Equal(t, "Renamed", name)
}

func TestMachine_SubmitNameLength(t *testing.T) {
	t.Parallel()

	m := newMachine(christmas)
	longest := strings.Repeat("я", database.MaxNameLength)

	tests := []struct {
		name    string
		state   calendar.State
		text    string
		wantErr error
	}{
		{name: "new task at limit", state: calendar.AwaitingTaskName{}, text: longest},
		{name: "new task over limit", state: calendar.AwaitingTaskName{}, text: longest + "x", wantErr: calendar.ErrNameTooLong},
		{name: "rename over limit", state: calendar.AwaitingNewName{TaskID: "1"}, text: longest + "x", wantErr: calendar.ErrNameTooLong},
		{name: "padding is not counted", state: calendar.AwaitingTaskName{}, text: "  " + longest + "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			next, _, err := m.SubmitName(tt.state, tt.text)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.state, next)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMachine_Render(t *testing.T) {
	t.Parallel()

	m := newMachine(christmas)

	view, err := m.Render(calendar.AwaitingMonth{Target: calendar.Target{Name: "<b>x</b>"}})
	require.NoError(t, err)
	assert.Contains(t, view.Text, "&lt;b&gt;x&lt;/b&gt;")
	require.Len(t, view.Keyboard, 6)
	assert.Equal(t, "ignore", view.Keyboard[0][0].Data)
	assert.Equal(t, "• December 2025", view.Keyboard[1][0].Label)
	assert.Equal(t, "month_12_2025", view.Keyboard[1][0].Data)
	assert.Equal(t, "cancel", view.Keyboard[5][0].Data)

	view, err = m.Render(calendar.AwaitingDay{Year: 2025, Month: time.December})
	require.NoError(t, err)
	assert.Equal(t, "December, 2025\nSelect Day:", view.Text)
	assert.Equal(t, "[25]", view.Keyboard[0][0].Label)
	nav := view.Keyboard[len(view.Keyboard)-1]
	require.Len(t, nav, 3)
	assert.Equal(t, "backmonth", nav[0].Data)
	assert.Equal(t, "day_25_12_2025", nav[2].Data)

	view, err = m.Render(calendar.AwaitingHour{Date: calendar.DateOf(christmas)})
	require.NoError(t, err)
	assert.Equal(t, "14:00", view.Keyboard[1][0].Label)

	view, err = m.Render(calendar.AwaitingMinute{Date: calendar.DateOf(christmas), Hour: 14})
	require.NoError(t, err)
	assert.Equal(t, []string{"minute_14_45", "minute_14_50", "minute_14_55"}, dataOf(view.Keyboard[1]))

	for _, b := range view.Keyboard.Buttons() {
		assert.LessOrEqual(t, len(b.Data), action.MaxPayload)
	}

	_, err = m.Render(calendar.AwaitingTaskName{})
	assert.ErrorIs(t, err, calendar.ErrWrongState)
}

func dataOf(row []action.Button) []string {
	out := make([]string, 0, len(row))
	for _, b := range row {
		out = append(out, b.Data)
	}
	return out
}
