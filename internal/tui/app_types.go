package tui

import (
	"curio-cli/internal/gitrepo"
)

type view int

const (
	viewPages view = iota
	viewPage
	viewSearch
)

type reloadTickMsg struct{}

type resizeDoneMsg struct{ seq int }

type gitStatusMsg struct {
	seq    int
	status gitrepo.Status
	err    string
}

type externalEditorDoneMsg struct {
	err error
}

type modalKind int

const (
	modalNone modalKind = iota
	modalFrontmatter
	modalNewPage
	modalRenamePage
	modalConfirmDiscard
	modalConfirmDelete
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// newPageFocus switches the new-page dialog between the title input and
// the embedded frontmatter editor.
type newPageFocus int

const (
	newPageFocusTitle newPageFocus = iota
	newPageFocusFields
)

type searchFocus int

const (
	searchFocusInput searchFocus = iota
	searchFocusResults
)

// closeAllModals resets every piece of modal state. Safe to call whatever
// is (or isn't) open.
func (m *appModel) closeAllModals() {
	if m == nil {
		return
	}
	m.modal = modalNone
	m.modalForPath = ""

	m.fmEditor = editorZero()
	m.fmDraft = nil
	m.fmBaseline = nil
	m.fmDirty = false
	m.fmSaving = false

	m.confirmFocus = confirmFocusConfirm
	m.newPageFocus = newPageFocusTitle

	m.input.Placeholder = "Title"
	m.input.SetValue("")
	m.input.Blur()
}
