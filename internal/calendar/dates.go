// Package calendar implements the inline date and time picker used to set task deadlines.
//
// The picker is a small state machine. Each State value carries exactly the selections
// made so far, Machine moves between states in response to callback actions, and
// Sessions keeps the current state of every user that has a dialog open.
package calendar

import (
	"slices"
	"time"

	"github.com/edgard/taskbot/internal/deadline"
)

// MonthsAhead is the number of months offered by the month picker, current month included.
const MonthsAhead = 12

// MinuteStep is the granularity of the minute picker.
const MinuteStep = 5

// Date is a calendar day without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as a date-only deadline.
func (d Date) String() string {
	return deadline.FormatDate(d.Year, d.Month, d.Day)
}

// Before reports whether d is an earlier day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// MonthOption is one entry of the month picker.
type MonthOption struct {
	Year    int
	Month   time.Month
	Current bool
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	switch month {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if IsLeap(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// Months returns the selectable months: the current month followed by the next eleven.
func Months(now time.Time) []MonthOption {
	year, month, _ := now.Date()
	out := make([]MonthOption, 0, MonthsAhead)
	for i := range MonthsAhead {
		m := int(month) - 1 + i
		out = append(out, MonthOption{
			Year:    year + m/12,
			Month:   time.Month(m%12 + 1),
			Current: i == 0,
		})
	}
	return out
}

// IsSelectableMonth reports whether month of year is offered by Months(now).
func IsSelectableMonth(year int, month time.Month, now time.Time) bool {
	return slices.ContainsFunc(Months(now), func(o MonthOption) bool {
		return o.Year == year && o.Month == month
	})
}

// Days returns the selectable days of month: from today on for the current month,
// every day for future months and none for past months.
func Days(year int, month time.Month, now time.Time) []int {
	if month < time.January || month > time.December {
		return nil
	}

	today := DateOf(now)
	first := 1
	switch {
	case year < today.Year || (year == today.Year && month < today.Month):
		return nil
	case year == today.Year && month == today.Month:
		first = today.Day
	}

	last := DaysIn(year, month)
	out := make([]int, 0, last-first+1)
	for d := first; d <= last; d++ {
		out = append(out, d)
	}
	return out
}

// IsSelectableDay reports whether date is offered by Days.
func IsSelectableDay(date Date, now time.Time) bool {
	return slices.Contains(Days(date.Year, date.Month, now), date.Day)
}

// Hours returns the selectable hours of date: from the current hour on for today,
// every hour for later days.
func Hours(date Date, now time.Time) []int {
	today := DateOf(now)
	if date.Before(today) {
		return nil
	}

	first := 0
	if date == today {
		first = now.Hour()
	}
	out := make([]int, 0, 24-first)
	for h := first; h < 24; h++ {
		out = append(out, h)
	}
	return out
}

// Minutes returns the selectable minutes of hour on date in MinuteStep increments.
// For the current hour of today only marks strictly after the current minute's
// five-minute slot are offered, so the result may be empty.
func Minutes(date Date, hour int, now time.Time) []int {
	if !slices.Contains(Hours(date, now), hour) {
		return nil
	}

	first := 0
	if date == DateOf(now) && hour == now.Hour() {
		first = (now.Minute()/MinuteStep + 1) * MinuteStep
	}
	var out []int
	for m := first; m < 60; m += MinuteStep {
		out = append(out, m)
	}
	return out
}
