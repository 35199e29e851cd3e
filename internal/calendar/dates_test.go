package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/taskbot/internal/calendar"
)

var christmas = time.Date(2025, time.December, 25, 14, 42, 0, 0, time.UTC)

func TestDaysIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2025, time.April, 30},
		{2025, time.November, 30},
		{2025, time.January, 31},
		{2025, time.December, 31},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, calendar.DaysIn(tt.year, tt.month), "%s %d", tt.month, tt.year)
	}
}

func TestMonths(t *testing.T) {
	t.Parallel()

	months := calendar.Months(christmas)
	require.Len(t, months, calendar.MonthsAhead)
	assert.Equal(t, calendar.MonthOption{Year: 2025, Month: time.December, Current: true}, months[0])
	assert.Equal(t, calendar.MonthOption{Year: 2026, Month: time.January}, months[1])
	assert.Equal(t, calendar.MonthOption{Year: 2026, Month: time.November}, months[11])

	assert.True(t, calendar.IsSelectableMonth(2026, time.March, christmas))
	assert.False(t, calendar.IsSelectableMonth(2025, time.November, christmas))
	assert.False(t, calendar.IsSelectableMonth(2026, time.December, christmas))
}

func TestDays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{25, 26, 27, 28, 29, 30, 31}, calendar.Days(2025, time.December, christmas))
	assert.Empty(t, calendar.Days(2025, time.November, christmas))
	assert.Len(t, calendar.Days(2026, time.February, christmas), 28)
	assert.Len(t, calendar.Days(2028, time.February, christmas), 29)
	assert.Empty(t, calendar.Days(2026, time.Month(13), christmas))

	leapJanuary := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	feb := calendar.Days(2024, time.February, leapJanuary)
	require.Len(t, feb, 29)
	assert.Equal(t, 29, feb[len(feb)-1])

	plainJanuary := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	assert.Len(t, calendar.Days(2025, time.February, plainJanuary), 28)
}

func TestHours(t *testing.T) {
	t.Parallel()

	today := calendar.DateOf(christmas)
	assert.Equal(t, []int{14, 15, 16, 17, 18, 19, 20, 21, 22, 23}, calendar.Hours(today, christmas))
	assert.Len(t, calendar.Hours(calendar.Date{Year: 2025, Month: time.December, Day: 26}, christmas), 24)
	assert.Empty(t, calendar.Hours(calendar.Date{Year: 2025, Month: time.December, Day: 24}, christmas))
}

func TestMinutes(t *testing.T) {
	t.Parallel()

	today := calendar.DateOf(christmas)
	tests := []struct {
		name string
		now  time.Time
		hour int
		want []int
	}{
		{name: "current hour rounds past current slot", now: christmas, hour: 14, want: []int{45, 50, 55}},
		{name: "exact mark is excluded", now: christmas.Add(-2 * time.Minute), hour: 14, want: []int{45, 50, 55}},
		{name: "last slot leaves nothing", now: christmas.Add(13 * time.Minute), hour: 14, want: nil},
		{name: "later hour is full", now: christmas, hour: 15, want: []int{0, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55}},
		{name: "past hour", now: christmas, hour: 13, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, calendar.Minutes(today, tt.hour, tt.now))
		})
	}
}
