// Package action encodes and decodes inline-button callback payloads.
//
// A payload is an action name followed by its parameters, joined with underscores:
// "day_25_12_2025", "view_3", "cancel". Names never contain an underscore.
package action

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Action names.
const (
	Ignore       = "ignore"
	Cancel       = "cancel"
	Month        = "month"
	Day          = "day"
	Hour         = "hour"
	Minute       = "minute"
	AllDay       = "allday"
	BackMonth    = "backmonth"
	BackDay      = "backday"
	BackHour     = "backhour"
	List         = "list"
	Add          = "add"
	View         = "view"
	Complete     = "complete"
	Edit         = "edit"
	EditName     = "editname"
	EditDeadline = "editdeadline"
	Delete       = "delete"
)

// MaxPayload is the largest callback payload Telegram accepts, in bytes.
const MaxPayload = 64

const separator = "_"

// ErrMalformed is returned for payloads that cannot be decoded.
var ErrMalformed = errors.New("malformed action")

// Action is a decoded callback payload.
type Action struct {
	Name   string
	Params []string
}

// New builds an action from a name and integer or string parameters.
func New(name string, params ...any) Action {
	a := Action{Name: name}
	for _, p := range params {
		a.Params = append(a.Params, fmt.Sprint(p))
	}
	return a
}

// Parse decodes a payload.
func Parse(data string) (Action, error) {
	if data == "" || len(data) > MaxPayload {
		return Action{}, fmt.Errorf("%w: %q", ErrMalformed, data)
	}

	parts := strings.Split(data, separator)
	if parts[0] == "" {
		return Action{}, fmt.Errorf("%w: %q", ErrMalformed, data)
	}
	return Action{Name: parts[0], Params: parts[1:]}, nil
}

// String encodes the action as a payload.
func (a Action) String() string {
	if len(a.Params) == 0 {
		return a.Name
	}
	return a.Name + separator + strings.Join(a.Params, separator)
}

// Param returns the i-th parameter.
func (a Action) Param(i int) (string, error) {
	if i < 0 || i >= len(a.Params) || a.Params[i] == "" {
		return "", fmt.Errorf("%w: %s has no parameter %d", ErrMalformed, a.Name, i)
	}
	return a.Params[i], nil
}

// Int returns the i-th parameter as an integer.
func (a Action) Int(i int) (int, error) {
	p, err := a.Param(i)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("%w: %s parameter %d: %v", ErrMalformed, a.Name, i, err)
	}
	return n, nil
}

// Ints returns the first n parameters as integers.
func (a Action) Ints(n int) ([]int, error) {
	if len(a.Params) < n {
		return nil, fmt.Errorf("%w: %s needs %d parameters, got %d", ErrMalformed, a.Name, n, len(a.Params))
	}
	out := make([]int, n)
	for i := range out {
		v, err := a.Int(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
