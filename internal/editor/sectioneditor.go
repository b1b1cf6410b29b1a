package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"curio-cli/internal/frontmatter"
	"curio-cli/internal/mutate"
)

type rowCol int

const (
	colKey rowCol = iota
	colValue
	colRemove
)

type sectionRow struct {
	key   string
	keyEd KeyEditor
	val   ValueEditor
}

// SectionEditor edits one mapping: a row per key plus the add control.
// Rows are presented in bucket order (scalars, arrays, sections) and the
// order is recomputed from the data on every rebuild, never stored in it.
//
// All mutations funnel through here: child editors propose changes as
// events, the section applies them with the mutate package and emits one
// SectionChanged per accepted edit. Rejected edits leave the mapping and
// emit nothing.
type SectionEditor struct {
	fields  *frontmatter.Fields
	rows    []sectionRow
	addMenu AddMenu
	row     int
	col     rowCol
	opts    Options
	depth   int
	focused bool
}

// New builds the root editor for a frontmatter mapping.
func New(fields *frontmatter.Fields, opts Options) SectionEditor {
	return newSectionEditor(fields, opts.withDefaults(), 0)
}

func newSectionEditor(fields *frontmatter.Fields, opts Options, depth int) SectionEditor {
	e := SectionEditor{fields: fields, opts: opts, depth: depth}
	e.rebuild()
	return e
}

func (e SectionEditor) Init() tea.Cmd {
	return nil
}

func (e SectionEditor) Fields() *frontmatter.Fields { return e.fields }

func (e SectionEditor) Focused() bool { return e.focused }

// SetFields replaces the whole tree, rebuilding every row from scratch.
func (e *SectionEditor) SetFields(fields *frontmatter.Fields) tea.Cmd {
	e.fields = fields
	e.rebuild()
	if e.focused {
		return e.FocusFirst()
	}
	return nil
}

func (e *SectionEditor) SetDisabled(disabled bool) {
	e.opts.Disabled = disabled
	e.addMenu.SetDisabled(disabled)
	for i := range e.rows {
		e.rows[i].keyEd.SetDisabled(disabled)
		e.rows[i].val.SetDisabled(disabled)
	}
}

func (e SectionEditor) Disabled() bool { return e.opts.Disabled }

func (e *SectionEditor) rebuild() {
	order := mutate.RowOrder(e.fields)
	e.rows = make([]sectionRow, 0, len(order))
	for _, k := range order {
		v, _ := e.fields.Get(k)
		row := sectionRow{
			key:   k,
			keyEd: NewKeyEditor(k, e.opts),
			val:   NewValueEditor(v, e.opts, e.depth),
		}
		e.rows = append(e.rows, row)
	}
	e.addMenu = NewAddMenu(e.opts)
	if e.row > len(e.rows) {
		e.row = len(e.rows)
	}
}

// FocusFirst gives this section the focus scope, landing on the first
// row's key or on the add control when the mapping is empty.
func (e *SectionEditor) FocusFirst() tea.Cmd {
	e.focused = true
	e.row = 0
	e.col = colKey
	return e.focusCell()
}

// Blur commits whatever edit is pending in the focused cell and releases
// the focus scope.
func (e *SectionEditor) Blur() *SectionChanged {
	_, ev := e.leaveCell()
	e.focused = false
	e.addMenu.Blur()
	return ev
}

// ConsumesEsc reports whether esc does local work (revert a dirty buffer,
// close the add menu) instead of ascending out of this section.
func (e SectionEditor) ConsumesEsc() bool {
	if !e.focused {
		return false
	}
	if e.row >= len(e.rows) {
		return e.addMenu.Open()
	}
	switch e.col {
	case colKey:
		return e.rows[e.row].keyEd.Dirty()
	case colValue:
		return e.rows[e.row].val.ConsumesEsc()
	}
	return false
}

func (e SectionEditor) Update(msg tea.Msg) (SectionEditor, tea.Cmd, *SectionChanged) {
	if e.opts.Disabled || !e.focused {
		return e, nil, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return e.routeToFocused(msg)
	}

	// Add control scope.
	if e.row >= len(e.rows) {
		if !e.addMenu.Open() && km.String() == "up" && len(e.rows) > 0 {
			e.addMenu.Blur()
			e.row = len(e.rows) - 1
			e.col = colKey
			cmd := e.focusCell()
			return e, cmd, nil
		}
		return e.routeToFocused(msg)
	}

	// A container value owns its focus scope: navigation happens inside
	// it, and esc ascends only once the child has nothing left to revert.
	if e.col == colValue && e.rows[e.row].val.IsContainer() {
		if km.String() == "esc" && !e.rows[e.row].val.ConsumesEsc() {
			var acmd tea.Cmd
			var sev *SectionChanged
			if ved := e.rows[e.row].val.Blur(); ved != nil {
				acmd, sev = e.applySet(e.row, ved)
			}
			e.col = colKey
			cmd := e.focusCell()
			return e, tea.Batch(acmd, cmd), sev
		}
		return e.routeToFocused(msg)
	}

	switch km.String() {
	case "up":
		return e.moveRow(-1)
	case "down":
		return e.moveRow(+1)
	case "tab":
		return e.moveCol(+1)
	case "shift+tab":
		return e.moveCol(-1)
	case "enter", " ":
		if e.col == colRemove {
			cmd, ev := e.applyRemove(e.row)
			return e, cmd, ev
		}
		return e.routeToFocused(msg)
	default:
		return e.routeToFocused(msg)
	}
}

func (e SectionEditor) routeToFocused(msg tea.Msg) (SectionEditor, tea.Cmd, *SectionChanged) {
	if e.row >= len(e.rows) {
		menu, cmd, ev := e.addMenu.Update(msg)
		e.addMenu = menu
		if ev != nil {
			acmd, sev := e.applyAdd(ev.Kind)
			return e, tea.Batch(cmd, acmd), sev
		}
		return e, cmd, nil
	}
	switch e.col {
	case colKey:
		ed, cmd, ev := e.rows[e.row].keyEd.Update(msg)
		e.rows[e.row].keyEd = ed
		if ev != nil {
			acmd, sev := e.applyRename(e.row, ev)
			return e, tea.Batch(cmd, acmd), sev
		}
		return e, cmd, nil
	case colValue:
		ved, cmd, ev := e.rows[e.row].val.Update(msg)
		e.rows[e.row].val = ved
		if ev != nil {
			acmd, sev := e.applySet(e.row, ev)
			return e, tea.Batch(cmd, acmd), sev
		}
		return e, cmd, nil
	}
	return e, nil, nil
}

func (e SectionEditor) moveRow(delta int) (SectionEditor, tea.Cmd, *SectionChanged) {
	if target := e.row + delta; target < 0 || target > len(e.rows) {
		return e, nil, nil
	}
	leaveCmd, ev := e.leaveCell()
	// An accepted rename rebuilds the rows and may have moved the focused
	// row: recompute the target from the refreshed position.
	target := e.row + delta
	if target < 0 {
		target = 0
	}
	if target > len(e.rows) {
		target = len(e.rows)
	}
	e.row = target
	e.col = colKey
	cmd := e.focusCell()
	return e, tea.Batch(leaveCmd, cmd), ev
}

func (e SectionEditor) moveCol(delta int) (SectionEditor, tea.Cmd, *SectionChanged) {
	if e.row >= len(e.rows) {
		return e, nil, nil
	}
	leaveCmd, ev := e.leaveCell()
	next := (int(e.col) + delta + 3) % 3
	e.col = rowCol(next)
	cmd := e.focusCell()
	return e, tea.Batch(leaveCmd, cmd), ev
}

// leaveCell blur-commits the focused cell. An accepted commit mutates the
// mapping, so the returned event must reach the caller.
func (e *SectionEditor) leaveCell() (tea.Cmd, *SectionChanged) {
	if e.row >= len(e.rows) {
		e.addMenu.Blur()
		return nil, nil
	}
	switch e.col {
	case colKey:
		if ev := e.rows[e.row].keyEd.Blur(); ev != nil {
			return e.applyRename(e.row, ev)
		}
	case colValue:
		if ev := e.rows[e.row].val.Blur(); ev != nil {
			return e.applySet(e.row, ev)
		}
	}
	return nil, nil
}

// focusCell clears every cell-level focus in this section, then focuses
// the current target. Everything off-target is clean by construction, so
// the unfocus never swallows an edit.
func (e *SectionEditor) focusCell() tea.Cmd {
	e.dropCellFocus()
	if e.row >= len(e.rows) {
		e.addMenu.Focus()
		return nil
	}
	switch e.col {
	case colKey:
		return e.rows[e.row].keyEd.Focus()
	case colValue:
		return e.rows[e.row].val.Focus()
	}
	return nil
}

func (e *SectionEditor) dropCellFocus() {
	for i := range e.rows {
		e.rows[i].keyEd.unfocus()
		e.rows[i].val.unfocus()
	}
	e.addMenu.Blur()
}

// unfocusScope releases this section's focus scope without committing
// anything, recursing through nested editors.
func (e *SectionEditor) unfocusScope() {
	e.focused = false
	e.dropCellFocus()
}

func (e *SectionEditor) applyRename(i int, ev *KeyChanged) (tea.Cmd, *SectionChanged) {
	next, changed := mutate.RenameKey(e.fields, ev.OldKey, ev.NewKey)
	if !changed {
		e.rows[i].keyEd.Reset()
		return nil, nil
	}
	prev := e.fields
	e.fields = next
	e.rebuild()
	cmd := e.focusKey(ev.NewKey)
	return cmd, &SectionChanged{OldFields: prev, NewFields: next}
}

func (e *SectionEditor) applySet(i int, ev *ValueChanged) (tea.Cmd, *SectionChanged) {
	next, changed := mutate.SetValue(e.fields, e.rows[i].key, ev.NewValue)
	if !changed {
		return nil, nil
	}
	prev := e.fields
	e.fields = next
	// The row's value editor already carries the new value, and a value
	// edit can change neither the kind nor the row order: no rebuild.
	return nil, &SectionChanged{OldFields: prev, NewFields: next}
}

func (e *SectionEditor) applyRemove(i int) (tea.Cmd, *SectionChanged) {
	if i >= len(e.rows) {
		return nil, nil
	}
	next, changed := mutate.RemoveKey(e.fields, e.rows[i].key)
	if !changed {
		return nil, nil
	}
	prev := e.fields
	e.fields = next
	e.rebuild()
	if len(e.rows) == 0 {
		e.row = 0
		e.col = colKey
		e.addMenu.Focus()
		return nil, &SectionChanged{OldFields: prev, NewFields: next}
	}
	if i >= len(e.rows) {
		i = len(e.rows) - 1
	}
	e.row = i
	e.col = colKey
	cmd := e.focusCell()
	return cmd, &SectionChanged{OldFields: prev, NewFields: next}
}

func (e *SectionEditor) applyAdd(kind frontmatter.Kind) (tea.Cmd, *SectionChanged) {
	var res mutate.AddResult
	switch kind {
	case frontmatter.KindArray:
		res = mutate.AddArray(e.fields)
	case frontmatter.KindSection:
		res = mutate.AddSection(e.fields)
	default:
		res = mutate.AddField(e.fields)
	}
	prev := e.fields
	e.fields = res.Fields
	e.rebuild()
	cmd := e.focusKey(res.Key)
	return cmd, &SectionChanged{OldFields: prev, NewFields: res.Fields}
}

// focusKey points the focus at the row holding key, falling back to the
// add control when it is gone.
func (e *SectionEditor) focusKey(key string) tea.Cmd {
	for i := range e.rows {
		if e.rows[i].key == key {
			e.row = i
			e.col = colKey
			return e.focusCell()
		}
	}
	e.row = len(e.rows)
	e.col = colKey
	e.addMenu.Focus()
	return nil
}

var indentStyle = lipgloss.NewStyle().PaddingLeft(2)

func (e SectionEditor) View() string {
	st := e.opts.Styles
	var b strings.Builder
	if len(e.rows) == 0 {
		b.WriteString(st.Hint.Render("no fields yet"))
		b.WriteString("\n")
	}
	for i := range e.rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.rowView(i))
	}
	if len(e.rows) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(e.addMenu.View())
	return b.String()
}

func (e SectionEditor) rowView(i int) string {
	st := e.opts.Styles
	row := e.rows[i]

	remove := st.Remove.Render("[-]")
	if e.focused && e.row == i && e.col == colRemove {
		remove = st.RemoveFocus.Render("[-]")
	}

	keyPart := row.keyEd.View() + st.Key.Render(":")
	if row.val.IsContainer() {
		header := keyPart + " " + remove
		return header + "\n" + indentStyle.Render(row.val.View())
	}
	return keyPart + " " + row.val.View() + " " + remove
}
