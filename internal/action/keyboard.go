package action

// Button is a transport-neutral inline button.
type Button struct {
	Label string
	Data  string
}

// Keyboard is a grid of inline buttons.
type Keyboard [][]Button

// NewButton returns a button that triggers a.
func NewButton(label string, a Action) Button {
	return Button{Label: label, Data: a.String()}
}

// Rows lays buttons out perRow at a time.
func Rows(buttons []Button, perRow int) Keyboard {
	if perRow <= 0 {
		perRow = 1
	}
	var kb Keyboard
	for start := 0; start < len(buttons); start += perRow {
		end := min(start+perRow, len(buttons))
		row := make([]Button, end-start)
		copy(row, buttons[start:end])
		kb = append(kb, row)
	}
	return kb
}

// Buttons returns every button of the keyboard in reading order.
func (k Keyboard) Buttons() []Button {
	var out []Button
	for _, row := range k {
		out = append(out, row...)
	}
	return out
}
