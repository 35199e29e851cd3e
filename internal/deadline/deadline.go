// Package deadline formats and parses task deadlines.
//
// A deadline is a date with an optional time of day: "25.12.2025" or "25.12.2025 18:30".
// Date-only deadlines expire at 23:59 of that day.
package deadline

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the layout of date-only deadlines.
	DateLayout = "02.01.2006"
	// DateTimeLayout is the layout of deadlines with a time of day.
	DateTimeLayout = "02.01.2006 15:04"
	// EndOfDay is the time appended to date-only deadlines.
	EndOfDay = "23:59"
)

// ErrMalformed is returned when a deadline string matches neither layout.
var ErrMalformed = errors.New("malformed deadline")

// FormatDate returns a date-only deadline.
func FormatDate(year int, month time.Month, day int) string {
	return fmt.Sprintf("%02d.%02d.%04d", day, int(month), year)
}

// FormatDateTime returns a deadline with a time of day.
func FormatDateTime(year int, month time.Month, day, hour, minute int) string {
	return fmt.Sprintf("%s %02d:%02d", FormatDate(year, month, day), hour, minute)
}

// IsDateOnly reports whether s carries no time component.
func IsDateOnly(s string) bool {
	return len(strings.Fields(s)) == 1
}

// Parse returns the instant a deadline expires in loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	value := strings.TrimSpace(s)
	if IsDateOnly(value) {
		value += " " + EndOfDay
	}

	t, err := time.ParseInLocation(DateTimeLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrMalformed, s, err)
	}
	return t, nil
}

// Remaining splits a signed duration into whole days, rounded towards negative infinity,
// and the remaining sub-day seconds in [0, 86400).
func Remaining(d time.Duration) (days, seconds int64) {
	const day = 24 * 60 * 60

	total := int64(d / time.Second)
	if d < 0 && d%time.Second != 0 {
		total--
	}

	days = total / day
	seconds = total % day
	if seconds < 0 {
		seconds += day
		days--
	}
	return days, seconds
}

// Describe renders the time left as "N d. H h. M min.", dropping leading zero units.
// It returns false once the deadline has passed.
func Describe(d time.Duration) (string, bool) {
	if d < 0 {
		return "", false
	}

	days, seconds := Remaining(d)
	hours, minutes := seconds/3600, seconds%3600/60

	switch {
	case days > 0:
		return fmt.Sprintf("%d d. %d h. %d min.", days, hours, minutes), true
	case hours > 0:
		return fmt.Sprintf("%d h. %d min.", hours, minutes), true
	default:
		return fmt.Sprintf("%d min.", minutes), true
	}
}
