package calendar

import (
	"fmt"
	"html"
	"strconv"
	"time"

	"github.com/edgard/taskbot/internal/action"
)

// Button labels of the picker.
const (
	LabelSelectMonth = "Select Month"
	LabelSelectTime  = "⏰ Select Time"
	LabelNoDays      = "There are no available days in this month"
	LabelBack        = "« Back"
	LabelBackToDay   = "« Back to Day Selection"
	LabelBackToTime  = "« Back to Time Selection"
	LabelCancel      = "Cancel"
	LabelToday       = "Today"
	LabelAllDay      = "📆 All Day (no time)"
)

const (
	monthsPerRow  = 3
	daysPerRow    = 7
	hoursPerRow   = 4
	minutesPerRow = 4
)

// View is the message text and inline keyboard of a picker step.
type View struct {
	Text     string
	Keyboard action.Keyboard
}

// Render returns the picker view for st. Name prompts are not picker steps and
// yield ErrWrongState.
func (m *Machine) Render(st State) (View, error) {
	now := m.Now()

	switch s := st.(type) {
	case AwaitingMonth:
		return View{Text: monthText(s.Target), Keyboard: monthKeyboard(now)}, nil
	case AwaitingDay:
		return View{
			Text:     fmt.Sprintf("%s, %d\nSelect Day:", s.Month, s.Year),
			Keyboard: dayKeyboard(s.Year, s.Month, now),
		}, nil
	case AwaitingHour:
		return View{
			Text:     fmt.Sprintf("📅 <b>Selected Date:</b> %d %s %d\n\n⏰ Select Time:", s.Date.Day, s.Date.Month, s.Date.Year),
			Keyboard: hourKeyboard(s.Date, now),
		}, nil
	case AwaitingMinute:
		return View{
			Text:     fmt.Sprintf("Selected: %d hours\nNow select minutes:", s.Hour),
			Keyboard: minuteKeyboard(s.Date, s.Hour, now),
		}, nil
	default:
		return View{}, fmt.Errorf("%w: no picker for %s", ErrWrongState, StateName(st))
	}
}

// RenderNoMinutes re-prompts for an hour after hour turned out to have no minutes left.
func (m *Machine) RenderNoMinutes(st AwaitingHour, hour int) View {
	return View{
		Text:     fmt.Sprintf("No available minutes for %d:00.\nPlease select another hour.", hour),
		Keyboard: hourKeyboard(st.Date, m.Now()),
	}
}

func monthText(target Target) string {
	if target.Editing() {
		return "📅 Select a new deadline from the calendar:"
	}
	return fmt.Sprintf("Task: <b>%s</b>\n\n📅 Select a date from the calendar:", html.EscapeString(target.Name))
}

func monthKeyboard(now time.Time) action.Keyboard {
	var months []action.Button
	for _, o := range Months(now) {
		label := fmt.Sprintf("%s %d", o.Month, o.Year)
		if o.Current {
			label = "• " + label
		}
		months = append(months, action.NewButton(label, action.New(action.Month, int(o.Month), o.Year)))
	}

	kb := action.Keyboard{{action.NewButton(LabelSelectMonth, action.New(action.Ignore))}}
	kb = append(kb, action.Rows(months, monthsPerRow)...)
	return append(kb, []action.Button{cancelButton()})
}

func dayKeyboard(year int, month time.Month, now time.Time) action.Keyboard {
	days := Days(year, month, now)
	back := action.NewButton(LabelBack, action.New(action.BackMonth))
	if len(days) == 0 {
		return action.Keyboard{
			{action.NewButton(LabelNoDays, action.New(action.Ignore))},
			{back, cancelButton()},
		}
	}

	today := DateOf(now)
	buttons := make([]action.Button, 0, len(days))
	for _, d := range days {
		label := strconv.Itoa(d)
		if (Date{Year: year, Month: month, Day: d}) == today {
			label = "[" + label + "]"
		}
		buttons = append(buttons, action.NewButton(label, action.New(action.Day, d, int(month), year)))
	}

	kb := action.Rows(buttons, daysPerRow)
	return append(kb, []action.Button{
		back,
		cancelButton(),
		action.NewButton(LabelToday, action.New(action.Day, today.Day, int(today.Month), today.Year)),
	})
}

func hourKeyboard(date Date, now time.Time) action.Keyboard {
	var hours []action.Button
	for _, h := range Hours(date, now) {
		hours = append(hours, action.NewButton(fmt.Sprintf("%d:00", h), action.New(action.Hour, h)))
	}

	kb := action.Keyboard{{action.NewButton(LabelSelectTime, action.New(action.Ignore))}}
	kb = append(kb, action.Rows(hours, hoursPerRow)...)
	return append(kb,
		[]action.Button{action.NewButton(LabelAllDay, action.New(action.AllDay))},
		[]action.Button{action.NewButton(LabelBackToDay, action.New(action.BackDay)), cancelButton()},
	)
}

func minuteKeyboard(date Date, hour int, now time.Time) action.Keyboard {
	var minutes []action.Button
	for _, m := range Minutes(date, hour, now) {
		minutes = append(minutes, action.NewButton(fmt.Sprintf("%d:%02d", hour, m), action.New(action.Minute, hour, m)))
	}

	kb := action.Keyboard{{action.NewButton(fmt.Sprintf("⏰ Selected: %d:__", hour), action.New(action.Ignore))}}
	kb = append(kb, action.Rows(minutes, minutesPerRow)...)
	return append(kb, []action.Button{action.NewButton(LabelBackToTime, action.New(action.BackHour)), cancelButton()})
}

func cancelButton() action.Button {
	return action.NewButton(LabelCancel, action.New(action.Cancel))
}
