package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"curio-cli/internal/frontmatter"
	"curio-cli/internal/mutate"
)

// ArrayEditor edits an ordered sequence of scalars: one input per
// element, a trailing add control, and ctrl+d to drop the focused
// element. Every accepted change emits ArrayChanged with the sequence
// before and after.
type ArrayEditor struct {
	items   frontmatter.Array
	inputs  []textinput.Model
	focus   int
	opts    Options
	focused bool
}

func NewArrayEditor(items frontmatter.Array, opts Options) ArrayEditor {
	opts = opts.withDefaults()
	e := ArrayEditor{items: items, opts: opts}
	e.inputs = make([]textinput.Model, len(items))
	for i, item := range items {
		e.inputs[i] = newArrayInput(string(item), opts)
	}
	return e
}

func newArrayInput(value string, opts Options) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 0
	in.Width = opts.InputWidth
	in.SetValue(value)
	return in
}

func (e ArrayEditor) Items() frontmatter.Array { return e.items }

// addIndex is the focus slot of the trailing add control.
func (e ArrayEditor) addIndex() int { return len(e.items) }

func (e ArrayEditor) Focused() bool { return e.focused }

// Dirty reports whether the focused element buffer differs from its
// committed value.
func (e ArrayEditor) Dirty() bool {
	if !e.focused || e.focus >= len(e.items) {
		return false
	}
	return e.inputs[e.focus].Value() != string(e.items[e.focus])
}

// ConsumesEsc reports whether esc reverts something here instead of
// ascending to the owning section.
func (e ArrayEditor) ConsumesEsc() bool { return e.Dirty() }

func (e *ArrayEditor) Focus() tea.Cmd {
	e.focused = true
	if len(e.items) == 0 {
		e.focus = e.addIndex()
		return nil
	}
	if e.focus > e.addIndex() {
		e.focus = 0
	}
	return e.focusSlot(e.focus)
}

// Blur commits the focused element edit, if any, on focus departure.
func (e *ArrayEditor) Blur() *ArrayChanged {
	ev := e.commitFocused()
	e.focused = false
	for i := range e.inputs {
		e.inputs[i].Blur()
	}
	return ev
}

func (e *ArrayEditor) unfocus() {
	e.focused = false
	for i := range e.inputs {
		e.inputs[i].Blur()
	}
}

func (e *ArrayEditor) SetDisabled(disabled bool) {
	e.opts.Disabled = disabled
}

func (e *ArrayEditor) focusSlot(i int) tea.Cmd {
	e.focus = i
	for j := range e.inputs {
		e.inputs[j].Blur()
	}
	if i < len(e.inputs) {
		e.inputs[i].CursorEnd()
		return e.inputs[i].Focus()
	}
	return nil
}

func (e *ArrayEditor) commitFocused() *ArrayChanged {
	if e.focus >= len(e.items) {
		return nil
	}
	next := frontmatter.Scalar(e.inputs[e.focus].Value())
	if next == e.items[e.focus] {
		return nil
	}
	prev := e.items
	items, changed := mutate.ArraySet(e.items, e.focus, next)
	if !changed {
		return nil
	}
	e.items = items
	return &ArrayChanged{OldItems: prev, NewItems: items}
}

func (e ArrayEditor) Update(msg tea.Msg) (ArrayEditor, tea.Cmd, *ArrayChanged) {
	if e.opts.Disabled || !e.focused {
		return e, nil, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return e.routeToInput(msg)
	}

	switch km.String() {
	case "up":
		if e.focus == 0 {
			return e, nil, nil
		}
		ev := e.commitFocused()
		cmd := e.focusSlot(e.focus - 1)
		return e, cmd, ev
	case "down":
		if e.focus >= e.addIndex() {
			return e, nil, nil
		}
		ev := e.commitFocused()
		cmd := e.focusSlot(e.focus + 1)
		return e, cmd, ev
	case "enter", " ":
		if e.focus == e.addIndex() {
			return e.appendElement()
		}
		if km.String() == " " {
			break // space types into the element input
		}
		ev := e.commitFocused()
		return e, nil, ev
	case "ctrl+d":
		return e.removeFocused()
	case "esc":
		if e.focus < len(e.items) {
			e.inputs[e.focus].SetValue(string(e.items[e.focus]))
			e.inputs[e.focus].CursorEnd()
		}
		return e, nil, nil
	}
	return e.routeToInput(msg)
}

func (e ArrayEditor) routeToInput(msg tea.Msg) (ArrayEditor, tea.Cmd, *ArrayChanged) {
	if e.focus >= len(e.inputs) {
		return e, nil, nil
	}
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return e, cmd, nil
}

func (e ArrayEditor) appendElement() (ArrayEditor, tea.Cmd, *ArrayChanged) {
	prev := e.items
	e.items = mutate.ArrayAppend(e.items, "")
	e.inputs = append(e.inputs, newArrayInput("", e.opts))
	cmd := e.focusSlot(len(e.items) - 1)
	return e, cmd, &ArrayChanged{OldItems: prev, NewItems: e.items}
}

func (e ArrayEditor) removeFocused() (ArrayEditor, tea.Cmd, *ArrayChanged) {
	if e.focus >= len(e.items) {
		return e, nil, nil
	}
	prev := e.items
	items, changed := mutate.ArrayRemove(e.items, e.focus)
	if !changed {
		return e, nil, nil
	}
	e.items = items
	e.inputs = append(e.inputs[:e.focus], e.inputs[e.focus+1:]...)
	next := e.focus
	if next >= len(e.items) && next > 0 {
		next--
	}
	cmd := e.focusSlot(next)
	return e, cmd, &ArrayChanged{OldItems: prev, NewItems: items}
}

func (e ArrayEditor) View() string {
	st := e.opts.Styles
	var b strings.Builder
	for i := range e.items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(st.Bullet.Render("- "))
		if e.focused && !e.opts.Disabled && e.focus == i {
			b.WriteString(e.inputs[i].View())
			continue
		}
		val := string(e.items[i])
		if val == "" {
			b.WriteString(st.Placeholder.Render(`""`))
			continue
		}
		b.WriteString(st.Value.Render(val))
	}
	if len(e.items) > 0 {
		b.WriteString("\n")
	}
	label := "+ add"
	if e.focused && e.focus == e.addIndex() {
		b.WriteString(st.AddFocused.Render(label))
	} else {
		b.WriteString(st.AddLabel.Render(label))
	}
	return b.String()
}
