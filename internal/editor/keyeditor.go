package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyEditor renames one mapping key. It owns only the text buffer: the
// committed key changes when the owning section accepts the rename and
// rebuilds the row.
type KeyEditor struct {
	input   textinput.Model
	key     string
	opts    Options
	focused bool
}

func NewKeyEditor(key string, opts Options) KeyEditor {
	opts = opts.withDefaults()
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 128
	in.Width = opts.InputWidth
	in.SetValue(key)
	return KeyEditor{input: in, key: key, opts: opts}
}

func (e KeyEditor) Key() string { return e.key }

func (e KeyEditor) Focused() bool { return e.focused }

// Dirty reports whether the buffer differs from the committed key.
func (e KeyEditor) Dirty() bool {
	return strings.TrimSpace(e.input.Value()) != e.key
}

func (e *KeyEditor) Focus() tea.Cmd {
	e.focused = true
	e.input.CursorEnd()
	return e.input.Focus()
}

// Blur commits any pending rename: focus departure commits, like enter.
func (e *KeyEditor) Blur() *KeyChanged {
	e.focused = false
	e.input.Blur()
	return e.commit()
}

// unfocus releases focus without committing. Callers use it only on
// cells that cannot be dirty.
func (e *KeyEditor) unfocus() {
	e.focused = false
	e.input.Blur()
}

// Reset reverts the buffer to the committed key.
func (e *KeyEditor) Reset() {
	e.input.SetValue(e.key)
	e.input.CursorEnd()
}

func (e *KeyEditor) SetDisabled(disabled bool) {
	e.opts.Disabled = disabled
}

// commit trims the buffer and decides: empty reverts, unchanged is quiet,
// anything else is proposed to the owning section.
func (e *KeyEditor) commit() *KeyChanged {
	next := strings.TrimSpace(e.input.Value())
	if next == "" {
		e.Reset()
		return nil
	}
	if next == e.key {
		e.input.SetValue(e.key)
		return nil
	}
	return &KeyChanged{OldKey: e.key, NewKey: next}
}

func (e KeyEditor) Update(msg tea.Msg) (KeyEditor, tea.Cmd, *KeyChanged) {
	if e.opts.Disabled || !e.focused {
		return e, nil, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			ev := e.commit()
			return e, nil, ev
		case "esc":
			e.Reset()
			return e, nil, nil
		}
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return e, cmd, nil
}

func (e KeyEditor) View() string {
	if e.focused {
		if e.opts.Disabled {
			return e.opts.Styles.KeyFocused.Render(e.key)
		}
		return e.input.View()
	}
	return e.opts.Styles.Key.Render(e.key)
}
