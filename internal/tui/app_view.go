package tui

import (
	"strconv"
	"strings"

	"curio-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// chromeRows is the header + minibuffer + footer rows around the body.
const chromeRows = 3

// splitMinWidth is the narrowest terminal that gets the side-by-side page
// layout (markdown left, frontmatter panel right).
const splitMinWidth = 96

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading…"
	}
	if m.resizing {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styleMuted().Render("Resizing…"))
	}

	bodyH := m.height - chromeRows
	if bodyH < 1 {
		bodyH = 1
	}
	var body string
	switch m.view {
	case viewPage:
		body = m.renderPageView(m.width, bodyH)
	case viewSearch:
		body = m.renderSearchView()
	default:
		body = m.pagesList.View()
	}

	base := m.renderHeader() + "\n" +
		normalizePane(body, m.width, bodyH) + "\n" +
		m.renderMinibufferLine() + "\n" +
		m.renderFooter()

	if m.modal != modalNone {
		return m.renderModalOverlay(base)
	}
	return base
}

func (m appModel) renderHeader() string {
	brand := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccentFg).
		Background(colorAccent).
		Padding(0, 1).
		Render("curio")
	name := m.workspace
	if strings.TrimSpace(name) == "" {
		name = m.store.Root
	}
	left := brand + " " + lipgloss.NewStyle().Bold(true).Render(name)
	if m.view == viewPage && m.page != nil {
		left += styleMuted().Render("  " + glyphArrow() + " " + m.openPath)
	}

	right := ""
	if badge := m.gitStatusBadgeText(); badge != "" {
		right = styleMuted().Render(badge)
	}
	pad := m.width - xansi.StringWidth(left) - xansi.StringWidth(right) - 1
	if pad < 1 || right == "" {
		return normalizePane(left, m.width, 1)
	}
	return normalizePane(left+strings.Repeat(" ", pad)+right, m.width, 1)
}

func (m appModel) renderMinibufferLine() string {
	if strings.TrimSpace(m.minibufferText) == "" {
		return normalizePane("", m.width, 1)
	}
	line := lipgloss.NewStyle().Foreground(colorAccent).Render(" " + m.minibufferText)
	return normalizePane(line, m.width, 1)
}

func (m appModel) renderFooter() string {
	var help string
	switch m.view {
	case viewPage:
		help = "e: frontmatter   E: editor   r: reload   R: rename   d: delete   y: copy path   esc: back   q: quit"
	case viewSearch:
		help = "enter: search / open   tab: switch focus   esc: back"
	default:
		help = "enter: open   n: new   s: search   /: filter   R: rename   d: delete   y: copy path   q: quit"
	}
	return normalizePane(styleMuted().Render(" "+help), m.width, 1)
}

// renderPageView lays out the open page: a pinned title block, then either
// body|frontmatter columns (wide) or frontmatter above body (narrow). Only
// the content below the title block scrolls.
func (m appModel) renderPageView(width, height int) string {
	if m.page == nil {
		return styleMuted().Render(" No page open.")
	}
	head := m.pageViewHead(width)
	content, viewH := m.pageScrollContent()
	vis := sliceScrolled(content, m.pageScroll, viewH)

	if width >= splitMinWidth {
		fmW := fmPanelWidth(width)
		left := normalizePane(vis, m.pageBodyWidth(), viewH)
		right := normalizePane(m.fmPaneContent(fmW), fmW, viewH)
		return head + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}
	return head + "\n" + vis
}

func (m appModel) pageViewHead(width int) string {
	p := m.page
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = p.Path
	}
	meta := p.Path
	if t := model.PageType(p.Frontmatter); t != "" {
		meta += "  [" + t + "]"
	}
	if !p.ModTime.IsZero() {
		meta += "  " + p.ModTime.Format("2006-01-02 15:04")
	}
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), width))
	return normalizePane(lipgloss.NewStyle().Bold(true).Render(" "+title), width, 1) + "\n" +
		normalizePane(styleMuted().Render(" "+meta), width, 1) + "\n" +
		normalizePane(rule, width, 1)
}

func (m appModel) fmPaneContent(fmW int) string {
	innerW := fmW - 2
	if innerW < 8 {
		innerW = 8
	}
	label := lipgloss.NewStyle().Bold(true).Render("Frontmatter")
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), innerW))
	return label + "\n" + rule + "\n" + renderFrontmatterPanel(m.page.Frontmatter, innerW)
}

// pageScrollContent returns the scrollable part of the page view and the
// number of rows it renders into. Update uses the same pair to clamp the
// scroll offset exactly.
func (m *appModel) pageScrollContent() (string, int) {
	viewH := m.height - chromeRows - 3
	if viewH < 1 {
		viewH = 1
	}
	if m.page == nil {
		return "", viewH
	}

	bodyW := m.pageBodyWidth()
	body := m.bodyCache
	if m.bodyCacheForPath != m.openPath || m.bodyCacheW != bodyW || !m.bodyCacheMod.Equal(m.page.ModTime) {
		body = renderMarkdown(m.page.Body, bodyW)
	}
	if strings.TrimSpace(body) == "" {
		body = styleMuted().Italic(true).Render("(empty page)")
	}
	if m.width >= splitMinWidth {
		return body, viewH
	}

	fm := m.page.Frontmatter
	if fm == nil || fm.Len() == 0 {
		return body, viewH
	}
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), bodyW))
	return renderFrontmatterPanel(fm, bodyW) + "\n" + rule + "\n" + body, viewH
}

func (m *appModel) clampPageScroll() {
	if m.page == nil {
		m.pageScroll = 0
		return
	}
	if m.pageScroll < 0 {
		m.pageScroll = 0
		return
	}
	content, viewH := m.pageScrollContent()
	maxScroll := strings.Count(content, "\n") + 1 - viewH
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.pageScroll > maxScroll {
		m.pageScroll = maxScroll
	}
}

func sliceScrolled(content string, off, height int) string {
	lines := strings.Split(content, "\n")
	maxOff := len(lines) - height
	if maxOff < 0 {
		maxOff = 0
	}
	if off > maxOff {
		off = maxOff
	}
	if off < 0 {
		off = 0
	}
	end := off + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[off:end], "\n")
}

func fmPanelWidth(total int) int {
	w := total / 3
	if w > 40 {
		w = 40
	}
	if w < 24 {
		w = 24
	}
	return w
}

// pageBodyWidth is the width the markdown pane renders at for the current
// terminal size and layout.
func (m *appModel) pageBodyWidth() int {
	w := m.width - 2
	if m.width >= splitMinWidth {
		w = m.width - fmPanelWidth(m.width) - 2
	}
	if w < 10 {
		w = 10
	}
	return w
}

// ensureBodyCache re-renders the markdown body when the page, its modtime
// or the pane width changed. Called from Update so the cache persists; the
// view falls back to a direct render when the cache is stale.
func (m *appModel) ensureBodyCache() {
	if m.page == nil || m.width <= 0 {
		return
	}
	w := m.pageBodyWidth()
	if m.bodyCacheForPath == m.openPath && m.bodyCacheW == w && m.bodyCacheMod.Equal(m.page.ModTime) {
		return
	}
	m.bodyCache = renderMarkdown(m.page.Body, w)
	m.bodyCacheForPath = m.openPath
	m.bodyCacheW = w
	m.bodyCacheMod = m.page.ModTime
}

func (m *appModel) resizeLists() {
	bodyH := m.height - chromeRows
	if bodyH < 1 {
		bodyH = 1
	}
	m.pagesList.SetSize(m.width, bodyH)

	listH := bodyH - 2
	if listH < 1 {
		listH = 1
	}
	m.searchList.SetSize(m.width, listH)

	iw := modalBodyWidth(m.width) - 2
	if iw < 10 {
		iw = 10
	}
	m.input.Width = iw

	sw := m.width - 12
	if sw > 60 {
		sw = 60
	}
	if sw < 10 {
		sw = 10
	}
	m.searchInput.Width = sw
}

func (m appModel) renderSearchView() string {
	var b strings.Builder
	label := lipgloss.NewStyle().Bold(true).Render(" Search")
	b.WriteString(label + "  " + m.searchInput.View() + "\n")
	if m.searchRan {
		word := "results"
		if m.searchResults == 1 {
			word = "result"
		}
		b.WriteString(styleMuted().Render(" "+strconv.Itoa(m.searchResults)+" "+word) + "\n")
	} else {
		b.WriteString(styleMuted().Render(" Titles, paths and frontmatter values are searched.") + "\n")
	}
	b.WriteString(m.searchList.View())
	return b.String()
}

func (m appModel) renderModalOverlay(base string) string {
	var modal string
	switch m.modal {
	case modalFrontmatter:
		modal = m.renderFrontmatterModal()
	case modalNewPage:
		modal = m.renderNewPageModal()
	case modalRenamePage:
		modal = m.renderRenameModal()
	case modalConfirmDiscard:
		modal = renderConfirmModal(m.width, "Discard changes?",
			"The frontmatter draft has unsaved edits.",
			"Discard", "Keep editing", m.confirmFocus)
	case modalConfirmDelete:
		modal = renderConfirmModal(m.width, "Delete page?",
			m.modalForPath+" will be removed from the workspace.",
			"Delete", "Cancel", m.confirmFocus)
	}
	return overlayCenter(dimBackground(base), modal, m.width, m.height)
}

// modalStatusLine surfaces the minibuffer inside an open dialog, where the
// dimmed base would otherwise hide it.
func (m appModel) modalStatusLine(bodyW int) string {
	if strings.TrimSpace(m.minibufferText) == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(colorAccent).Width(bodyW).Render(m.minibufferText)
}

func (m appModel) renderFrontmatterModal() string {
	bodyW := modalBodyWidth(m.width)
	help := "ctrl+s: save   esc: close   ctrl+g: discard"
	switch {
	case m.fmSaving:
		help = "saving…"
	case m.fmDirty:
		help = "modified   " + help
	}
	parts := []string{
		m.fmEditor.View(),
		"",
		styleMuted().Width(bodyW).Render(help),
	}
	if s := m.modalStatusLine(bodyW); s != "" {
		parts = append(parts, s)
	}
	return renderModalBox(m.width, "Frontmatter: "+m.modalForPath, strings.Join(parts, "\n"))
}

func (m appModel) renderNewPageModal() string {
	bodyW := modalBodyWidth(m.width)
	focused := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	plain := lipgloss.NewStyle().Bold(true).Foreground(colorModalSurfaceFg)

	titleLabel := plain.Render("Title")
	fieldsLabel := plain.Render("Fields")
	if m.newPageFocus == newPageFocusTitle {
		titleLabel = focused.Render("Title")
	} else {
		fieldsLabel = focused.Render("Fields")
	}

	parts := []string{
		titleLabel,
		renderInputLine(bodyW, m.input.View()),
		"",
		fieldsLabel,
		m.fmEditor.View(),
		"",
		styleMuted().Width(bodyW).Render("enter: create   tab: switch   esc: cancel"),
	}
	if s := m.modalStatusLine(bodyW); s != "" {
		parts = append(parts, s)
	}
	return renderModalBox(m.width, "New page", strings.Join(parts, "\n"))
}

func (m appModel) renderRenameModal() string {
	bodyW := modalBodyWidth(m.width)
	parts := []string{
		styleMuted().Width(bodyW).Render("Workspace-relative path, e.g. notes/plan.md"),
		renderInputLine(bodyW, m.input.View()),
		"",
		styleMuted().Width(bodyW).Render("enter: rename   esc: cancel"),
	}
	if s := m.modalStatusLine(bodyW); s != "" {
		parts = append(parts, s)
	}
	return renderModalBox(m.width, "Rename: "+m.modalForPath, strings.Join(parts, "\n"))
}
