package tui

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"curio-cli/internal/editor"
	"curio-cli/internal/frontmatter"
	"curio-cli/internal/gitrepo"
	"curio-cli/internal/model"
	"curio-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

type appModel struct {
	store     store.Store
	workspace string

	width  int
	height int

	// We treat the very first WindowSizeMsg as "initial sizing" rather than a
	// user-driven resize. Otherwise we briefly render the full-height
	// "Resizing…" overlay on startup.
	seenWindowSize bool

	view view

	pagesList list.Model
	// pagesStamp summarizes the markdown files on disk; when it changes, the
	// list is refreshed on the next tick.
	pagesStamp string

	// Open page state (viewPage).
	openPath   string
	page       *model.Page
	pageScroll int

	bodyCache        string
	bodyCacheForPath string
	bodyCacheW       int
	bodyCacheMod     time.Time

	// Search view state.
	searchInput   textinput.Model
	searchList    list.Model
	searchFocus   searchFocus
	searchRan     bool
	searchResults int

	// Modal state. The frontmatter dialog owns fmDraft, a working copy of
	// the open page's tree; the page and the file only change on ctrl+s.
	modal        modalKind
	modalForPath string
	fmEditor     editor.SectionEditor
	fmDraft      *frontmatter.Fields
	fmBaseline   *frontmatter.Fields
	fmDirty      bool
	fmSaving     bool
	confirmFocus confirmModalFocus
	newPageFocus newPageFocus
	input        textinput.Model

	// externalEditorPath is the page being edited in $VISUAL/$EDITOR.
	externalEditorPath string

	committer *gitrepo.DebouncedCommitter

	gitStatus         gitrepo.Status
	gitStatusAt       time.Time
	gitStatusErr      string
	gitStatusFetching bool
	gitStatusFetchSeq int

	resizing  bool
	resizeSeq int

	minibufferText  string
	minibufferSetAt time.Time

	debugEnabled bool
	debugLogPath string
}

func newAppModel(s store.Store) appModel {
	m := appModel{
		store: s,
		view:  viewPages,
	}
	if info, err := s.Info(); err == nil {
		m.workspace = info.Name
	}

	if strings.TrimSpace(os.Getenv("CURIO_TUI_DEBUG")) != "" {
		m.debugEnabled = true
	}
	m.debugLogPath = strings.TrimSpace(os.Getenv("CURIO_TUI_DEBUG_LOG"))

	m.pagesList = newList("Pages", []list.Item{})
	m.pagesList.SetDelegate(newPageRowDelegate())

	m.searchList = newList("Results", []list.Item{})
	m.searchList.SetDelegate(newPageRowDelegate())
	m.searchList.SetFilteringEnabled(false)
	m.searchList.SetShowFilter(false)

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "Search pages"
	m.searchInput.CharLimit = 200
	m.searchInput.Width = 40

	m.input = textinput.New()
	m.input.Placeholder = "Title"
	m.input.CharLimit = 200
	m.input.Width = 40

	if gitrepo.AutoCommitEnabled() {
		m.committer = gitrepo.NewDebouncedCommitter(gitrepo.DebouncedCommitterOpts{
			WorkspaceRoot:  s.Root,
			AutoPush:       gitrepo.AutoPushEnabled(),
			AutoPullRebase: gitrepo.AutoPullRebaseEnabled(),
		})
	}

	m.refreshPages()
	m.pagesStamp = m.workspaceStamp()
	return m
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// We render our own global header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("page", "pages")
	// Bubble list defaults to quitting on ESC; in Curio ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases (common muscle memory).
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

func editorZero() editor.SectionEditor { return editor.SectionEditor{} }

// editorStyles maps the TUI palette onto the frontmatter editor chrome.
func editorStyles() editor.Styles {
	st := editor.DefaultStyles()
	st.Key = lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
	st.KeyFocused = lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	st.Placeholder = faintIfDark(lipgloss.NewStyle().Italic(true).Foreground(colorMuted))
	st.Hint = faintIfDark(lipgloss.NewStyle().Italic(true).Foreground(colorMuted))
	st.AddLabel = faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
	st.AddFocused = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg)
	st.MenuCursor = lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	st.RemoveFocus = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg)
	return st
}

func (m *appModel) refreshPages() {
	curPath := ""
	if it, ok := m.pagesList.SelectedItem().(pageRowItem); ok {
		curPath = it.path()
	}
	refs, err := m.store.ListPages()
	if err != nil {
		m.showMinibuffer("List pages: " + err.Error())
		return
	}
	items := make([]list.Item, 0, len(refs))
	for _, ref := range refs {
		items = append(items, pageRowItem{ref: ref})
	}
	m.pagesList.SetItems(items)
	if curPath != "" {
		selectPageByPath(&m.pagesList, curPath)
	}
}

func selectPageByPath(l *list.Model, path string) {
	for i, it := range l.Items() {
		if row, ok := it.(pageRowItem); ok && row.path() == path {
			l.Select(i)
			return
		}
	}
}

// workspaceStamp folds every page's modtime and size into one comparable
// string. Cheap enough to run on the reload tick for wiki-sized workspaces.
func (m *appModel) workspaceStamp() string {
	var count int
	var maxMod int64
	var totalSize int64
	root := m.store.Root
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if p != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, ".") {
			return nil
		}
		if info, ierr := d.Info(); ierr == nil {
			count++
			if mt := info.ModTime().UnixNano(); mt > maxMod {
				maxMod = mt
			}
			totalSize += info.Size()
		}
		return nil
	})
	return strconv.Itoa(count) + ":" + strconv.FormatInt(maxMod, 10) + ":" + strconv.FormatInt(totalSize, 10)
}

// openPage loads a page from disk and switches to the page view.
func (m *appModel) openPage(rel string) {
	p, err := m.store.LoadPage(rel)
	if err != nil {
		m.showMinibuffer("Open: " + err.Error())
		return
	}
	m.openPath = p.Path
	m.page = p
	m.pageScroll = 0
	m.invalidateBodyCache()
	m.ensureBodyCache()
	m.view = viewPage
}

func (m *appModel) reloadOpenPage() bool {
	if strings.TrimSpace(m.openPath) == "" {
		return false
	}
	p, err := m.store.LoadPage(m.openPath)
	if err != nil {
		// Deleted behind our back: drop to the list.
		m.page = nil
		m.openPath = ""
		if m.view == viewPage {
			m.view = viewPages
		}
		m.refreshPages()
		return false
	}
	m.page = p
	m.invalidateBodyCache()
	m.ensureBodyCache()
	return true
}

// openPageChangedOnDisk compares the on-disk modtime with the loaded copy.
func (m *appModel) openPageChangedOnDisk() bool {
	if m.page == nil || strings.TrimSpace(m.openPath) == "" {
		return false
	}
	st, err := os.Stat(filepath.Join(m.store.Root, filepath.FromSlash(m.openPath)))
	if err != nil {
		return true
	}
	return !st.ModTime().Equal(m.page.ModTime) || st.Size() != m.page.Size
}

func (m *appModel) invalidateBodyCache() {
	m.bodyCache = ""
	m.bodyCacheForPath = ""
	m.bodyCacheW = 0
	m.bodyCacheMod = time.Time{}
}

// openFrontmatterDialog seeds the working copy from the open page. The
// dialog edits the copy; the page keeps its tree until a save replaces it.
func (m *appModel) openFrontmatterDialog() {
	if m.page == nil {
		return
	}
	base := m.page.Frontmatter
	if base == nil {
		base = frontmatter.NewFields()
	}
	m.fmBaseline = base
	m.fmDraft = base
	m.fmDirty = false
	m.fmSaving = false
	m.modal = modalFrontmatter
	m.modalForPath = m.openPath
	m.fmEditor = editor.New(m.fmDraft, editor.Options{
		Styles:     editorStyles(),
		InputWidth: m.dialogInputWidth(),
	})
	_ = m.fmEditor.FocusFirst()
}

// dialogInputWidth sizes editor text inputs so rows fit the modal body at
// the current terminal width.
func (m *appModel) dialogInputWidth() int {
	w := modalBodyWidth(m.width) - 20
	if w < 16 {
		w = 16
	}
	return w
}

// applyEditorEvent records one accepted edit from the embedded editor.
func (m *appModel) applyEditorEvent(ev *editor.SectionChanged) {
	if ev == nil {
		return
	}
	m.fmDraft = ev.NewFields
	m.fmDirty = !m.fmDraft.Equal(m.fmBaseline)
}

// saveFrontmatterDialog writes the draft through the store and closes the
// dialog. Runs synchronously; page saves are small files.
func (m *appModel) saveFrontmatterDialog() {
	if m.page == nil || m.fmDraft == nil {
		m.closeAllModals()
		return
	}
	m.fmSaving = true
	m.fmEditor.SetDisabled(true)

	p := &model.Page{
		Path:        m.page.Path,
		Frontmatter: m.fmDraft,
		Body:        m.page.Body,
	}
	if err := m.store.SavePage(p); err != nil {
		m.fmSaving = false
		m.fmEditor.SetDisabled(false)
		m.showMinibuffer("Save failed: " + err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.IndexPage(ctx, p); err != nil {
		m.showMinibuffer("Saved; index update failed: " + err.Error())
	} else {
		m.showMinibuffer("Saved " + p.Path)
	}
	m.committer.Notify()

	// Reload so the in-memory copy carries the real modtime and size.
	if rp, err := m.store.LoadPage(p.Path); err == nil {
		m.page = rp
	} else {
		m.page = p
	}
	m.invalidateBodyCache()
	m.ensureBodyCache()
	m.closeAllModals()
	m.refreshPages()
}

// openNewPageDialog starts the new-page flow: a title input plus a seeded
// frontmatter tree (title mirrors the input on create, type is editable).
func (m *appModel) openNewPageDialog() {
	seed := frontmatter.NewFields()
	seed.Set("type", frontmatter.Scalar("note"))
	m.fmBaseline = seed
	m.fmDraft = seed
	m.fmDirty = false
	m.modal = modalNewPage
	m.newPageFocus = newPageFocusTitle
	m.fmEditor = editor.New(m.fmDraft, editor.Options{
		Styles:     editorStyles(),
		InputWidth: m.dialogInputWidth(),
	})
	m.input.Placeholder = "Title"
	m.input.SetValue("")
	m.input.Focus()
}

// createNewPage writes the page and opens it.
func (m *appModel) createNewPage() {
	title := strings.TrimSpace(m.input.Value())
	if title == "" {
		m.showMinibuffer("Title is required")
		return
	}
	fields := m.fmDraft
	if fields == nil {
		fields = frontmatter.NewFields()
	}
	if _, ok := fields.Get("title"); !ok {
		fields = fields.Clone()
		fields.Set("title", frontmatter.Scalar(title))
	}
	p, err := m.store.CreatePage("", title, fields, "")
	if err != nil {
		m.showMinibuffer("Create failed: " + err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.store.IndexPage(ctx, p)
	m.committer.Notify()

	m.closeAllModals()
	m.refreshPages()
	m.showMinibuffer("Created " + p.Path)
	m.openPage(p.Path)
}

// openRenameDialog edits the workspace-relative path of a page.
func (m *appModel) openRenameDialog(rel string) {
	m.modal = modalRenamePage
	m.modalForPath = rel
	m.input.Placeholder = "new/path.md"
	m.input.SetValue(rel)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *appModel) applyRename() {
	oldRel := m.modalForPath
	newRel := strings.TrimSpace(m.input.Value())
	if newRel == "" || newRel == oldRel {
		m.closeAllModals()
		return
	}
	if err := m.store.RenamePage(oldRel, newRel); err != nil {
		m.showMinibuffer("Rename failed: " + err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.store.RemoveFromIndex(ctx, oldRel)
	if p, err := m.store.LoadPage(newRel); err == nil {
		_ = m.store.IndexPage(ctx, p)
	}
	m.committer.Notify()

	m.closeAllModals()
	m.showMinibuffer("Renamed " + oldRel + " " + glyphArrow() + " " + newRel)
	if m.openPath == oldRel {
		m.openPage(newRel)
	}
	m.refreshPages()
}

func (m *appModel) deletePage(rel string) {
	if err := m.store.DeletePage(rel); err != nil {
		m.showMinibuffer("Delete failed: " + err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.store.RemoveFromIndex(ctx, rel)
	m.committer.Notify()

	if m.openPath == rel {
		m.page = nil
		m.openPath = ""
		m.view = viewPages
	}
	m.refreshPages()
	m.showMinibuffer("Deleted " + rel)
}

func (m *appModel) runSearch() {
	query := strings.TrimSpace(m.searchInput.Value())
	m.searchRan = true
	if query == "" {
		m.searchList.SetItems(nil)
		m.searchResults = 0
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	hits, err := m.store.Search(ctx, query)
	if err != nil {
		m.showMinibuffer("Search: " + err.Error())
		return
	}
	items := make([]list.Item, 0, len(hits))
	for _, h := range hits {
		items = append(items, searchHitItem{hit: h})
	}
	m.searchList.SetItems(items)
	m.searchResults = len(hits)
	if len(items) > 0 {
		m.searchList.Select(0)
	}
}

const minibufferAutoClearAfter = 5 * time.Second

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = strings.TrimSpace(text)
	m.minibufferSetAt = time.Now()
}
