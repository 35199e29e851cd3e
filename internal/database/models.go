package database

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edgard/taskbot/internal/deadline"
)

// ErrInvalidTask is returned when a task name or deadline fails validation.
var ErrInvalidTask = errors.New("invalid task")

// MaxNameLength is the longest accepted task name, in characters.
const MaxNameLength = 256

// Task is a named item with a deadline belonging to one user.
// Tasks returned by a Store are copies; changing them does not change stored state.
type Task struct {
	ID        string
	UserID    int64
	Name      string
	Deadline  string
	Completed bool
	CreatedAt time.Time
	Firings   []Firing
}

// Firing records that a reminder of Kind was delivered for the deadline window Window.
type Firing struct {
	Kind    string
	Window  string
	FiredAt time.Time
}

// HasFired reports whether a reminder of kind was already delivered for window.
func (t *Task) HasFired(kind, window string) bool {
	return slices.ContainsFunc(t.Firings, func(f Firing) bool {
		return f.Kind == kind && f.Window == window
	})
}

func (t *Task) clone() *Task {
	c := *t
	c.Firings = slices.Clone(t.Firings)
	return &c
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// normalizeName trims name and checks it is non-empty and reasonably short.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validate.Var(name, "required,max="+strconv.Itoa(MaxNameLength)); err != nil {
		return "", fmt.Errorf("%w: name: %v", ErrInvalidTask, err)
	}
	return name, nil
}

// checkDeadline rejects deadlines that do not follow the deadline format.
func checkDeadline(value string) error {
	if _, err := deadline.Parse(value, time.UTC); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	return nil
}
