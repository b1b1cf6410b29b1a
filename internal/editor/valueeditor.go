package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"curio-cli/internal/frontmatter"
)

// ValueEditor picks the editing strategy for one value by its runtime
// shape: absent values render a placeholder, arrays get the array editor,
// nested mappings recurse into a section editor, and everything else is a
// scalar input. Child events never escape: they are normalized to
// ValueChanged here.
type ValueEditor struct {
	value   frontmatter.Node
	scalar  ScalarEditor
	array   ArrayEditor
	section *SectionEditor
	opts    Options
	focused bool
}

func NewValueEditor(value frontmatter.Node, opts Options, depth int) ValueEditor {
	opts = opts.withDefaults()
	v := ValueEditor{value: value, opts: opts}
	switch n := value.(type) {
	case nil:
		// Absent: a placeholder row, no editor. Rename and remove still
		// apply to the key.
	case frontmatter.Array:
		v.array = NewArrayEditor(n, opts)
	case *frontmatter.Fields:
		sec := newSectionEditor(n, opts, depth+1)
		v.section = &sec
	case frontmatter.Scalar:
		v.scalar = NewScalarEditor(string(n), opts)
	}
	return v
}

func (v ValueEditor) Value() frontmatter.Node { return v.value }

// IsContainer reports whether the child owns its own focus scope, in
// which case the parent routes navigation keys through instead of
// handling them.
func (v ValueEditor) IsContainer() bool {
	if v.section != nil {
		return true
	}
	_, isArray := v.value.(frontmatter.Array)
	return isArray
}

func (v ValueEditor) ConsumesEsc() bool {
	switch {
	case v.section != nil:
		return v.section.ConsumesEsc()
	case v.IsContainer():
		return v.array.ConsumesEsc()
	case v.value == nil:
		return false
	default:
		return v.scalar.Dirty()
	}
}

func (v *ValueEditor) Focus() tea.Cmd {
	v.focused = true
	switch {
	case v.section != nil:
		return v.section.FocusFirst()
	case v.IsContainer():
		return v.array.Focus()
	case v.value == nil:
		return nil
	default:
		return v.scalar.Focus()
	}
}

// Blur commits whatever edit is pending below and normalizes it.
func (v *ValueEditor) Blur() *ValueChanged {
	v.focused = false
	switch {
	case v.section != nil:
		if ev := v.section.Blur(); ev != nil {
			return v.swap(ev.NewFields)
		}
	case v.IsContainer():
		if ev := v.array.Blur(); ev != nil {
			return v.swap(ev.NewItems)
		}
	case v.value == nil:
	default:
		if ev := v.scalar.Blur(); ev != nil {
			return v.swap(frontmatter.Scalar(ev.NewValue))
		}
	}
	return nil
}

func (v *ValueEditor) unfocus() {
	v.focused = false
	switch {
	case v.section != nil:
		v.section.unfocusScope()
	case v.IsContainer():
		v.array.unfocus()
	case v.value == nil:
	default:
		v.scalar.unfocus()
	}
}

func (v *ValueEditor) SetDisabled(disabled bool) {
	v.opts.Disabled = disabled
	switch {
	case v.section != nil:
		v.section.SetDisabled(disabled)
	case v.IsContainer():
		v.array.SetDisabled(disabled)
	case v.value == nil:
	default:
		v.scalar.SetDisabled(disabled)
	}
}

func (v *ValueEditor) swap(next frontmatter.Node) *ValueChanged {
	prev := v.value
	v.value = next
	return &ValueChanged{OldValue: prev, NewValue: next}
}

func (v ValueEditor) Update(msg tea.Msg) (ValueEditor, tea.Cmd, *ValueChanged) {
	switch {
	case v.section != nil:
		sec, cmd, ev := v.section.Update(msg)
		*v.section = sec
		if ev != nil {
			changed := v.swap(ev.NewFields)
			return v, cmd, changed
		}
		return v, cmd, nil
	case v.IsContainer():
		arr, cmd, ev := v.array.Update(msg)
		v.array = arr
		if ev != nil {
			changed := v.swap(ev.NewItems)
			return v, cmd, changed
		}
		return v, cmd, nil
	case v.value == nil:
		return v, nil, nil
	default:
		sc, cmd, ev := v.scalar.Update(msg)
		v.scalar = sc
		if ev != nil {
			changed := v.swap(frontmatter.Scalar(ev.NewValue))
			return v, cmd, changed
		}
		return v, cmd, nil
	}
}

func (v ValueEditor) View() string {
	switch {
	case v.section != nil:
		return v.section.View()
	case v.IsContainer():
		return v.array.View()
	case v.value == nil:
		st := v.opts.Styles.Placeholder
		if v.focused {
			st = st.Reverse(true)
		}
		return st.Render(v.opts.AbsentText)
	default:
		return v.scalar.View()
	}
}
