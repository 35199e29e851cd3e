package calendar

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/taskbot/internal/action"
	"github.com/edgard/taskbot/internal/database"
	"github.com/edgard/taskbot/internal/deadline"
)

var (
	// ErrWrongState is returned for actions that do not belong to the current state,
	// typically a button pressed on an outdated keyboard.
	ErrWrongState = errors.New("action not valid in current state")
	// ErrUnavailable is returned when the selected value is no longer offered.
	ErrUnavailable = errors.New("selection unavailable")
	// ErrNoMinutes is returned when the selected hour has no minute left to offer.
	ErrNoMinutes = errors.New("no minutes available in selected hour")
	// ErrEmptyName is returned when a submitted task name is blank.
	ErrEmptyName = errors.New("empty task name")
	// ErrNameTooLong is returned when a submitted task name exceeds database.MaxNameLength.
	ErrNameTooLong = errors.New("task name too long")
)

// Commit is a completed selection: the deadline chosen for Target.
type Commit struct {
	Target   Target
	Deadline string
}

// Result is the outcome of applying an action. A nil Next means the dialog is over.
type Result struct {
	Next   State
	Commit *Commit
}

// Machine applies picker actions relative to the current time in a fixed location.
type Machine struct {
	clock clockwork.Clock
	loc   *time.Location
}

// NewMachine creates a Machine.
func NewMachine(clock clockwork.Clock, loc *time.Location) *Machine {
	if loc == nil {
		loc = time.Local
	}
	return &Machine{clock: clock, loc: loc}
}

// Now returns the current time in the machine's location.
func (m *Machine) Now() time.Time {
	return m.clock.Now().In(m.loc)
}

// StartDeadline opens the month picker for target.
func (m *Machine) StartDeadline(target Target) State {
	return AwaitingMonth{Target: target}
}

// SubmitName consumes free text while the dialog waits for a name. A new task name
// opens the month picker; a rename produces the trimmed name and ends the dialog.
func (m *Machine) SubmitName(st State, text string) (State, string, error) {
	name := strings.TrimSpace(text)

	switch st.(type) {
	case AwaitingTaskName, AwaitingNewName:
	default:
		return st, "", ErrWrongState
	}
	if name == "" {
		return st, "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > database.MaxNameLength {
		return st, "", fmt.Errorf("%w: %d characters", ErrNameTooLong, utf8.RuneCountInString(name))
	}

	if _, ok := st.(AwaitingTaskName); ok {
		return AwaitingMonth{Target: Target{Name: name}}, name, nil
	}
	return nil, name, nil
}

// Apply moves st forward by a. On error the returned Result holds the state the
// dialog should stay in.
func (m *Machine) Apply(st State, a action.Action) (Result, error) {
	stay := Result{Next: st}

	switch a.Name {
	case action.Ignore:
		return stay, nil
	case action.Cancel:
		return Result{}, nil
	}

	target, ok := TargetOf(st)
	if !ok {
		return stay, wrongState(a, st)
	}
	now := m.Now()

	switch a.Name {
	case action.Month:
		v, err := a.Ints(2)
		if err != nil {
			return stay, err
		}
		month, year := time.Month(v[0]), v[1]
		if !IsSelectableMonth(year, month, now) {
			return stay, fmt.Errorf("%w: month %d.%d", ErrUnavailable, month, year)
		}
		return Result{Next: AwaitingDay{Target: target, Year: year, Month: month}}, nil

	case action.Day:
		if _, isMonth := st.(AwaitingMonth); isMonth {
			return stay, wrongState(a, st)
		}
		v, err := a.Ints(3)
		if err != nil {
			return stay, err
		}
		date := Date{Year: v[2], Month: time.Month(v[1]), Day: v[0]}
		if !IsSelectableDay(date, now) {
			return stay, fmt.Errorf("%w: day %s", ErrUnavailable, date)
		}
		return Result{Next: AwaitingHour{Target: target, Date: date}}, nil

	case action.Hour:
		date, ok := selectedDate(st)
		if !ok {
			return stay, wrongState(a, st)
		}
		hour, err := a.Int(0)
		if err != nil {
			return stay, err
		}
		if !slices.Contains(Hours(date, now), hour) {
			return stay, fmt.Errorf("%w: hour %d on %s", ErrUnavailable, hour, date)
		}
		if len(Minutes(date, hour, now)) == 0 {
			return Result{Next: AwaitingHour{Target: target, Date: date}}, fmt.Errorf("%w: %02d:00 on %s", ErrNoMinutes, hour, date)
		}
		return Result{Next: AwaitingMinute{Target: target, Date: date, Hour: hour}}, nil

	case action.Minute:
		s, ok := st.(AwaitingMinute)
		if !ok {
			return stay, wrongState(a, st)
		}
		v, err := a.Ints(2)
		if err != nil {
			return stay, err
		}
		hour, minute := v[0], v[1]
		if hour != s.Hour || !slices.Contains(Minutes(s.Date, hour, now), minute) {
			return stay, fmt.Errorf("%w: %02d:%02d on %s", ErrUnavailable, hour, minute, s.Date)
		}
		return commit(target, deadline.FormatDateTime(s.Date.Year, s.Date.Month, s.Date.Day, hour, minute)), nil

	case action.AllDay:
		date, ok := selectedDate(st)
		if !ok {
			return stay, wrongState(a, st)
		}
		if date.Before(DateOf(now)) {
			return stay, fmt.Errorf("%w: day %s", ErrUnavailable, date)
		}
		return commit(target, date.String()), nil

	case action.BackMonth:
		if _, isMonth := st.(AwaitingMonth); isMonth {
			return stay, wrongState(a, st)
		}
		return Result{Next: AwaitingMonth{Target: target}}, nil

	case action.BackDay:
		date, ok := selectedDate(st)
		if !ok {
			return stay, wrongState(a, st)
		}
		return Result{Next: AwaitingDay{Target: target, Year: date.Year, Month: date.Month}}, nil

	case action.BackHour:
		s, ok := st.(AwaitingMinute)
		if !ok {
			return stay, wrongState(a, st)
		}
		return Result{Next: AwaitingHour{Target: target, Date: s.Date}}, nil

	default:
		return stay, fmt.Errorf("%w: unknown calendar action %q", action.ErrMalformed, a.Name)
	}
}

func selectedDate(st State) (Date, bool) {
	switch s := st.(type) {
	case AwaitingHour:
		return s.Date, true
	case AwaitingMinute:
		return s.Date, true
	default:
		return Date{}, false
	}
}

func commit(target Target, value string) Result {
	return Result{Commit: &Commit{Target: target, Deadline: value}}
}

func wrongState(a action.Action, st State) error {
	return fmt.Errorf("%w: %s in %s", ErrWrongState, a.Name, StateName(st))
}
