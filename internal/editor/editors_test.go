package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"curio-cli/internal/frontmatter"
)

func key(t tea.KeyType) tea.Msg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyEditor_CommitOnEnter(t *testing.T) {
	ed := NewKeyEditor("identifier", Options{})
	_ = ed.Focus()

	var ev *KeyChanged
	ed, _, ev = ed.Update(key(tea.KeyCtrlU))
	if ev != nil {
		t.Fatalf("clearing the buffer should not emit")
	}
	ed, _, ev = ed.Update(runes("id"))
	if ev != nil {
		t.Fatalf("typing should not emit")
	}
	ed, _, ev = ed.Update(key(tea.KeyEnter))
	if ev == nil {
		t.Fatalf("expected KeyChanged on enter")
	}
	if ev.OldKey != "identifier" || ev.NewKey != "id" {
		t.Fatalf("expected identifier -> id; got %+v", ev)
	}
	// The editor does not advance its own key: the section decides.
	if ed.Key() != "identifier" {
		t.Fatalf("key editor must not self-commit; got %q", ed.Key())
	}
}

func TestKeyEditor_EmptyCommitReverts(t *testing.T) {
	ed := NewKeyEditor("title", Options{})
	_ = ed.Focus()

	var ev *KeyChanged
	ed, _, _ = ed.Update(key(tea.KeyCtrlU))
	ed, _, ev = ed.Update(key(tea.KeyEnter))
	if ev != nil {
		t.Fatalf("empty rename must not emit")
	}
	if ed.Dirty() {
		t.Fatalf("buffer should revert to the committed key")
	}
}

func TestKeyEditor_UnchangedCommitIsQuiet(t *testing.T) {
	ed := NewKeyEditor("title", Options{})
	_ = ed.Focus()
	var ev *KeyChanged
	ed, _, ev = ed.Update(key(tea.KeyEnter))
	if ev != nil {
		t.Fatalf("unchanged rename must not emit")
	}
	_ = ed
}

func TestKeyEditor_WhitespaceTrimmedBeforeCompare(t *testing.T) {
	ed := NewKeyEditor("title", Options{})
	_ = ed.Focus()
	var ev *KeyChanged
	ed, _, _ = ed.Update(runes("  "))
	ed, _, ev = ed.Update(key(tea.KeyEnter))
	if ev != nil {
		t.Fatalf("whitespace-only change must not emit; got %+v", ev)
	}
}

func TestKeyEditor_EscReverts(t *testing.T) {
	ed := NewKeyEditor("title", Options{})
	_ = ed.Focus()
	ed, _, _ = ed.Update(runes("xxx"))
	if !ed.Dirty() {
		t.Fatalf("expected dirty buffer")
	}
	ed, _, _ = ed.Update(key(tea.KeyEsc))
	if ed.Dirty() {
		t.Fatalf("esc should revert the buffer")
	}
}

func TestKeyEditor_BlurCommits(t *testing.T) {
	ed := NewKeyEditor("a", Options{})
	_ = ed.Focus()
	ed, _, _ = ed.Update(runes("b"))
	ev := ed.Blur()
	if ev == nil || ev.NewKey != "ab" {
		t.Fatalf("expected blur commit a -> ab; got %+v", ev)
	}
}

func TestKeyEditor_DisabledIgnoresKeys(t *testing.T) {
	ed := NewKeyEditor("a", Options{Disabled: true})
	_ = ed.Focus()
	var ev *KeyChanged
	ed, _, ev = ed.Update(runes("x"))
	if ev != nil || ed.Dirty() {
		t.Fatalf("disabled editor must ignore input")
	}
}

func TestScalarEditor_CommitAdvancesValue(t *testing.T) {
	ed := NewScalarEditor("Box", Options{})
	_ = ed.Focus()

	var ev *ScalarChanged
	ed, _, _ = ed.Update(runes(" 12"))
	ed, _, ev = ed.Update(key(tea.KeyEnter))
	if ev == nil || ev.OldValue != "Box" || ev.NewValue != "Box 12" {
		t.Fatalf("expected Box -> Box 12; got %+v", ev)
	}
	if ed.Value() != "Box 12" {
		t.Fatalf("scalar editor self-commits; got %q", ed.Value())
	}

	ed, _, ev = ed.Update(key(tea.KeyEnter))
	if ev != nil {
		t.Fatalf("recommitting the same value must not emit")
	}
}

func TestScalarEditor_EmptyIsALegalValue(t *testing.T) {
	ed := NewScalarEditor("x", Options{})
	_ = ed.Focus()
	var ev *ScalarChanged
	ed, _, _ = ed.Update(key(tea.KeyCtrlU))
	ed, _, ev = ed.Update(key(tea.KeyEnter))
	if ev == nil || ev.NewValue != "" {
		t.Fatalf("expected commit to empty string; got %+v", ev)
	}
	_ = ed
}

func TestAddMenu_OpensChoosesCloses(t *testing.T) {
	m := NewAddMenu(Options{})
	m.Focus()

	var ev *AddRequested
	m, _, ev = m.Update(key(tea.KeyEnter))
	if ev != nil || !m.Open() {
		t.Fatalf("enter should open the menu")
	}

	m, _, _ = m.Update(key(tea.KeyDown))
	m, _, ev = m.Update(key(tea.KeyEnter))
	if ev == nil || ev.Kind != frontmatter.KindArray {
		t.Fatalf("expected array choice; got %+v", ev)
	}
	if m.Open() {
		t.Fatalf("choosing should close the menu")
	}
}

func TestAddMenu_EscClosesWithoutChoosing(t *testing.T) {
	m := NewAddMenu(Options{})
	m.Focus()
	m, _, _ = m.Update(key(tea.KeyEnter))
	var ev *AddRequested
	m, _, ev = m.Update(key(tea.KeyEsc))
	if ev != nil || m.Open() {
		t.Fatalf("esc should close without emitting")
	}
}

func TestAddMenu_BlurDismisses(t *testing.T) {
	m := NewAddMenu(Options{})
	m.Focus()
	m, _, _ = m.Update(key(tea.KeyEnter))
	m.Blur()
	if m.Open() {
		t.Fatalf("focus departure should dismiss the menu")
	}
}

func TestAddMenu_DisabledActivationIsNoOp(t *testing.T) {
	m := NewAddMenu(Options{Disabled: true})
	m.Focus()
	var ev *AddRequested
	m, _, ev = m.Update(key(tea.KeyEnter))
	if ev != nil || m.Open() {
		t.Fatalf("disabled menu must not open")
	}
}

func TestAddMenu_CursorClamps(t *testing.T) {
	m := NewAddMenu(Options{})
	m.Focus()
	m, _, _ = m.Update(key(tea.KeyEnter))
	m, _, _ = m.Update(key(tea.KeyUp))
	var ev *AddRequested
	m, _, ev = m.Update(key(tea.KeyEnter))
	if ev == nil || ev.Kind != frontmatter.KindScalar {
		t.Fatalf("expected field at clamped top; got %+v", ev)
	}

	m.Focus()
	m, _, _ = m.Update(key(tea.KeyEnter))
	for i := 0; i < 5; i++ {
		m, _, _ = m.Update(key(tea.KeyDown))
	}
	m, _, ev = m.Update(key(tea.KeyEnter))
	if ev == nil || ev.Kind != frontmatter.KindSection {
		t.Fatalf("expected section at clamped bottom; got %+v", ev)
	}
}

func TestArrayEditor_ElementCommit(t *testing.T) {
	orig := frontmatter.Array{"a", "b"}
	ed := NewArrayEditor(orig, Options{})
	_ = ed.Focus()

	var ev *ArrayChanged
	ed, _, _ = ed.Update(key(tea.KeyCtrlU))
	ed, _, _ = ed.Update(runes("z"))
	ed, _, ev = ed.Update(key(tea.KeyEnter))
	if ev == nil {
		t.Fatalf("expected ArrayChanged")
	}
	if len(ev.OldItems) != 2 || ev.OldItems[0] != "a" {
		t.Fatalf("expected old items [a b]; got %v", ev.OldItems)
	}
	if len(ev.NewItems) != 2 || ev.NewItems[0] != "z" || ev.NewItems[1] != "b" {
		t.Fatalf("expected new items [z b]; got %v", ev.NewItems)
	}
	if orig[0] != "a" {
		t.Fatalf("input array mutated: %v", orig)
	}
}

func TestArrayEditor_AppendAndRemove(t *testing.T) {
	ed := NewArrayEditor(frontmatter.Array{"a"}, Options{})
	_ = ed.Focus()

	var ev *ArrayChanged
	ed, _, _ = ed.Update(key(tea.KeyDown)) // onto the add control
	ed, _, ev = ed.Update(key(tea.KeyEnter))
	if ev == nil || len(ev.NewItems) != 2 || ev.NewItems[1] != "" {
		t.Fatalf("expected appended empty element; got %+v", ev)
	}

	// Focus is on the new element: drop it again.
	ed, _, ev = ed.Update(key(tea.KeyCtrlD))
	if ev == nil || len(ev.NewItems) != 1 {
		t.Fatalf("expected removal; got %+v", ev)
	}
	if ed.Items()[0] != "a" {
		t.Fatalf("expected [a]; got %v", ed.Items())
	}
}

func TestArrayEditor_EmptyArrayFocusesAddControl(t *testing.T) {
	ed := NewArrayEditor(frontmatter.Array{}, Options{})
	_ = ed.Focus()

	var ev *ArrayChanged
	ed, _, ev = ed.Update(key(tea.KeyEnter))
	if ev == nil || len(ev.NewItems) != 1 {
		t.Fatalf("expected append on empty array; got %+v", ev)
	}
	_ = ed
}

func TestValueEditor_NormalizesScalarChange(t *testing.T) {
	v := NewValueEditor(frontmatter.Scalar("x"), Options{}, 0)
	_ = v.Focus()

	var ev *ValueChanged
	v, _, _ = v.Update(key(tea.KeyCtrlU))
	v, _, _ = v.Update(runes("y"))
	v, _, ev = v.Update(key(tea.KeyEnter))
	if ev == nil {
		t.Fatalf("expected ValueChanged")
	}
	if ev.OldValue != frontmatter.Scalar("x") || ev.NewValue != frontmatter.Scalar("y") {
		t.Fatalf("expected x -> y; got %+v", ev)
	}
	if v.Value() != frontmatter.Scalar("y") {
		t.Fatalf("dispatcher should hold the new value")
	}
}

func TestValueEditor_NormalizesArrayChange(t *testing.T) {
	v := NewValueEditor(frontmatter.Array{"a"}, Options{}, 0)
	_ = v.Focus()

	var ev *ValueChanged
	v, _, _ = v.Update(key(tea.KeyDown))
	v, _, ev = v.Update(key(tea.KeyEnter))
	if ev == nil {
		t.Fatalf("expected ValueChanged for array append")
	}
	arr, ok := ev.NewValue.(frontmatter.Array)
	if !ok || len(arr) != 2 {
		t.Fatalf("expected normalized array value; got %#v", ev.NewValue)
	}
	_ = v
}

func TestValueEditor_AbsentIsInert(t *testing.T) {
	v := NewValueEditor(nil, Options{}, 0)
	_ = v.Focus()

	var ev *ValueChanged
	for _, msg := range []tea.Msg{runes("x"), key(tea.KeyEnter), key(tea.KeyCtrlD)} {
		v, _, ev = v.Update(msg)
		if ev != nil {
			t.Fatalf("absent value must not emit; got %+v", ev)
		}
	}
	if v.Value() != nil {
		t.Fatalf("absent must stay absent; got %#v", v.Value())
	}
	if v.View() == "" {
		t.Fatalf("absent should render a placeholder")
	}
}
