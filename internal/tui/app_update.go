package tui

import (
	"strings"
	"time"

	"curio-cli/internal/editor"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd { return tickReload() }

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case externalEditorDoneMsg:
		(&m).applyExternalEditorResult(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		(&m).resizeLists()
		// Don't show the resize overlay on startup; only after we've seen an
		// initial size.
		if !m.seenWindowSize {
			m.seenWindowSize = true
			m.resizing = false
			(&m).ensureBodyCache()
			return m, nil
		}
		m.resizing = true
		m.resizeSeq++
		seq := m.resizeSeq
		return m, tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg { return resizeDoneMsg{seq: seq} })

	case resizeDoneMsg:
		// Debounce: only clear when this matches the latest resize seq.
		if msg.seq == m.resizeSeq {
			m.resizing = false
			(&m).ensureBodyCache()
			(&m).clampPageScroll()
		}
		return m, nil

	case reloadTickMsg:
		if m.minibufferText != "" && time.Since(m.minibufferSetAt) >= minibufferAutoClearAfter {
			m.minibufferText = ""
		}
		if stamp := (&m).workspaceStamp(); stamp != m.pagesStamp {
			m.pagesStamp = stamp
			(&m).refreshPages()
		}
		if (&m).openPageChangedOnDisk() {
			was := m.openPath
			if (&m).reloadOpenPage() {
				if m.modal == modalNone && m.view == viewPage {
					(&m).showMinibuffer("Reloaded " + m.openPath + " (changed on disk)")
				}
			} else if m.modal != modalNone && m.modalForPath == was {
				// The page the dialog was bound to is gone.
				(&m).closeAllModals()
				(&m).showMinibuffer("Page removed: " + was)
			}
		}
		cmds := []tea.Cmd{tickReload()}
		if (&m).shouldRefreshGitStatus() {
			cmds = append(cmds, (&m).startGitStatusRefresh())
		}
		return m, tea.Batch(cmds...)

	case gitStatusMsg:
		if msg.seq != m.gitStatusFetchSeq {
			// Stale response.
			return m, nil
		}
		m.gitStatus = msg.status
		m.gitStatusAt = time.Now()
		m.gitStatusErr = strings.TrimSpace(msg.err)
		m.gitStatusFetching = false
		return m, nil

	case tea.KeyMsg:
		m.debugKeyMsg(msg)
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// With a dialog open every key belongs to the dialog, so text inputs
		// behave normally (backspace edits instead of navigating).
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		switch m.view {
		case viewPage:
			return m.updatePageKey(msg)
		case viewSearch:
			return m.updateSearchKey(msg)
		default:
			return m.updatePagesKey(msg)
		}
	}
	return m, nil
}

func (m appModel) updatePagesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is active every keystroke belongs to it.
	if m.pagesList.SettingFilter() {
		var cmd tea.Cmd
		m.pagesList, cmd = m.pagesList.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		if it, ok := m.pagesList.SelectedItem().(pageRowItem); ok {
			(&m).openPage(it.path())
		}
		return m, nil
	case "n":
		(&m).openNewPageDialog()
		return m, textinput.Blink
	case "R":
		if it, ok := m.pagesList.SelectedItem().(pageRowItem); ok {
			(&m).openRenameDialog(it.path())
			return m, textinput.Blink
		}
		return m, nil
	case "d":
		if it, ok := m.pagesList.SelectedItem().(pageRowItem); ok {
			m.modal = modalConfirmDelete
			m.modalForPath = it.path()
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		if it, ok := m.pagesList.SelectedItem().(pageRowItem); ok {
			if err := copyToClipboard(it.path()); err != nil {
				(&m).showMinibuffer("Clipboard error: " + err.Error())
			} else {
				(&m).showMinibuffer("Copied: " + it.path())
			}
		}
		return m, nil
	case "r":
		(&m).refreshPages()
		m.pagesStamp = (&m).workspaceStamp()
		(&m).showMinibuffer("Reloaded")
		return m, nil
	case "s":
		m.view = viewSearch
		m.searchFocus = searchFocusInput
		m.searchInput.Focus()
		return m, textinput.Blink
	}
	var cmd tea.Cmd
	m.pagesList, cmd = m.pagesList.Update(msg)
	return m, cmd
}

func (m appModel) updatePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewPages
		m.page = nil
		m.openPath = ""
		m.pageScroll = 0
		(&m).invalidateBodyCache()
		(&m).refreshPages()
		return m, nil
	case "e", "enter":
		(&m).openFrontmatterDialog()
		return m, textinput.Blink
	case "E":
		cmd, err := (&m).openExternalEditorForPage()
		if err != nil {
			(&m).showMinibuffer("Editor: " + err.Error())
			return m, nil
		}
		return m, cmd
	case "r":
		if (&m).reloadOpenPage() {
			(&m).showMinibuffer("Reloaded " + m.openPath)
		}
		return m, nil
	case "R":
		(&m).openRenameDialog(m.openPath)
		return m, textinput.Blink
	case "d":
		m.modal = modalConfirmDelete
		m.modalForPath = m.openPath
		m.confirmFocus = confirmFocusConfirm
		return m, nil
	case "y":
		if err := copyToClipboard(m.openPath); err != nil {
			(&m).showMinibuffer("Clipboard error: " + err.Error())
		} else {
			(&m).showMinibuffer("Copied: " + m.openPath)
		}
		return m, nil
	case "j", "down":
		m.pageScroll++
		(&m).clampPageScroll()
		return m, nil
	case "k", "up":
		m.pageScroll--
		(&m).clampPageScroll()
		return m, nil
	case "pgdown", "ctrl+d":
		m.pageScroll += m.halfPage()
		(&m).clampPageScroll()
		return m, nil
	case "pgup", "ctrl+u":
		m.pageScroll -= m.halfPage()
		(&m).clampPageScroll()
		return m, nil
	case "g", "home":
		m.pageScroll = 0
		return m, nil
	case "G", "end":
		m.pageScroll = 1 << 20
		(&m).clampPageScroll()
		return m, nil
	}
	return m, nil
}

func (m appModel) halfPage() int {
	h := (m.height - chromeRows) / 2
	if h < 1 {
		h = 1
	}
	return h
}

func (m appModel) updateSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		if m.searchFocus == searchFocusResults {
			m.searchFocus = searchFocusInput
			m.searchInput.Focus()
			return m, textinput.Blink
		}
		m.searchInput.Blur()
		m.view = viewPages
		return m, nil
	case "tab":
		if m.searchFocus == searchFocusInput {
			m.searchFocus = searchFocusResults
			m.searchInput.Blur()
			return m, nil
		}
		m.searchFocus = searchFocusInput
		m.searchInput.Focus()
		return m, textinput.Blink
	case "enter":
		if m.searchFocus == searchFocusInput {
			(&m).runSearch()
			if m.searchResults > 0 {
				m.searchFocus = searchFocusResults
				m.searchInput.Blur()
			}
			return m, nil
		}
		if it, ok := m.searchList.SelectedItem().(searchHitItem); ok {
			m.searchInput.Blur()
			(&m).openPage(it.path())
		}
		return m, nil
	}
	if m.searchFocus == searchFocusInput {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	// "q" backs out of the results; the list would otherwise quit on it.
	if msg.String() == "q" {
		m.view = viewPages
		return m, nil
	}
	var cmd tea.Cmd
	m.searchList, cmd = m.searchList.Update(msg)
	return m, cmd
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalFrontmatter:
		return m.updateFrontmatterModal(msg)
	case modalNewPage:
		return m.updateNewPageModal(msg)
	case modalRenamePage:
		return m.updateRenameModal(msg)
	case modalConfirmDiscard:
		return m.updateConfirmDiscard(msg)
	case modalConfirmDelete:
		return m.updateConfirmDelete(msg)
	}
	return m, nil
}

func (m appModel) updateFrontmatterModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.fmSaving {
		return m, nil
	}
	switch msg.String() {
	case "ctrl+s":
		if m.fmDirty {
			(&m).saveFrontmatterDialog()
		} else {
			(&m).closeAllModals()
		}
		return m, nil
	case "ctrl+g":
		// Hard cancel: drop the draft without asking.
		(&m).closeAllModals()
		return m, nil
	case "esc":
		if m.fmEditor.ConsumesEsc() {
			// The editor is mid-edit; let it cancel its own input.
			break
		}
		if m.fmDirty {
			m.modal = modalConfirmDiscard
			m.confirmFocus = confirmFocusCancel
			return m, nil
		}
		(&m).closeAllModals()
		return m, nil
	}
	var cmd tea.Cmd
	var ev *editor.SectionChanged
	m.fmEditor, cmd, ev = m.fmEditor.Update(msg)
	(&m).applyEditorEvent(ev)
	return m, cmd
}

func (m appModel) updateNewPageModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		(&m).createNewPage()
		return m, nil
	case "ctrl+g":
		(&m).closeAllModals()
		return m, nil
	case "esc":
		if m.newPageFocus == newPageFocusFields && m.fmEditor.ConsumesEsc() {
			break
		}
		(&m).closeAllModals()
		return m, nil
	case "tab":
		if m.newPageFocus == newPageFocusFields && m.fmEditor.ConsumesEsc() {
			break
		}
		if m.newPageFocus == newPageFocusTitle {
			m.newPageFocus = newPageFocusFields
			m.input.Blur()
			cmd := m.fmEditor.FocusFirst()
			return m, cmd
		}
		m.newPageFocus = newPageFocusTitle
		(&m).applyEditorEvent(m.fmEditor.Blur())
		m.input.Focus()
		return m, textinput.Blink
	case "enter":
		if m.newPageFocus == newPageFocusTitle {
			(&m).createNewPage()
			return m, nil
		}
		// Fields focused: enter belongs to the embedded editor.
	}
	if m.newPageFocus == newPageFocusTitle {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	var ev *editor.SectionChanged
	m.fmEditor, cmd, ev = m.fmEditor.Update(msg)
	(&m).applyEditorEvent(ev)
	return m, cmd
}

func (m appModel) updateRenameModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "ctrl+s":
		(&m).applyRename()
		return m, nil
	case "esc", "ctrl+g":
		(&m).closeAllModals()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmDiscard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right":
		m.confirmFocus = toggleConfirmFocus(m.confirmFocus)
		return m, nil
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			(&m).closeAllModals()
			return m, nil
		}
		m.modal = modalFrontmatter
		m.confirmFocus = confirmFocusConfirm
		return m, nil
	case "esc":
		// Back to editing, draft intact.
		m.modal = modalFrontmatter
		m.confirmFocus = confirmFocusConfirm
		return m, nil
	case "ctrl+g":
		(&m).closeAllModals()
		return m, nil
	}
	return m, nil
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right":
		m.confirmFocus = toggleConfirmFocus(m.confirmFocus)
		return m, nil
	case "enter":
		rel := m.modalForPath
		confirmed := m.confirmFocus == confirmFocusConfirm
		(&m).closeAllModals()
		if confirmed && rel != "" {
			(&m).deletePage(rel)
		}
		return m, nil
	case "esc", "ctrl+g":
		(&m).closeAllModals()
		return m, nil
	}
	return m, nil
}

func toggleConfirmFocus(f confirmModalFocus) confirmModalFocus {
	if f == confirmFocusConfirm {
		return confirmFocusCancel
	}
	return confirmFocusConfirm
}
