package editor

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ScalarEditor edits one scalar value. Unlike key renames, value commits
// are always accepted, so the editor advances its own committed value
// when it emits.
type ScalarEditor struct {
	input   textinput.Model
	value   string
	opts    Options
	focused bool
}

func NewScalarEditor(value string, opts Options) ScalarEditor {
	opts = opts.withDefaults()
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 0
	in.Width = opts.InputWidth
	in.SetValue(value)
	return ScalarEditor{input: in, value: value, opts: opts}
}

func (e ScalarEditor) Value() string { return e.value }

func (e ScalarEditor) Dirty() bool {
	return e.input.Value() != e.value
}

func (e *ScalarEditor) Focus() tea.Cmd {
	e.focused = true
	e.input.CursorEnd()
	return e.input.Focus()
}

func (e *ScalarEditor) Blur() *ScalarChanged {
	e.focused = false
	e.input.Blur()
	return e.commit()
}

func (e *ScalarEditor) unfocus() {
	e.focused = false
	e.input.Blur()
}

func (e *ScalarEditor) SetDisabled(disabled bool) {
	e.opts.Disabled = disabled
}

// commit keeps the value verbatim: scalar values are never trimmed and
// the empty string is a legal value.
func (e *ScalarEditor) commit() *ScalarChanged {
	next := e.input.Value()
	if next == e.value {
		return nil
	}
	prev := e.value
	e.value = next
	return &ScalarChanged{OldValue: prev, NewValue: next}
}

func (e ScalarEditor) Update(msg tea.Msg) (ScalarEditor, tea.Cmd, *ScalarChanged) {
	if e.opts.Disabled || !e.focused {
		return e, nil, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			ev := e.commit()
			return e, nil, ev
		case "esc":
			e.input.SetValue(e.value)
			e.input.CursorEnd()
			return e, nil, nil
		}
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return e, cmd, nil
}

func (e ScalarEditor) View() string {
	if e.focused && !e.opts.Disabled {
		return e.input.View()
	}
	if e.value == "" {
		return e.opts.Styles.Placeholder.Render(`""`)
	}
	return e.opts.Styles.Value.Render(e.value)
}
