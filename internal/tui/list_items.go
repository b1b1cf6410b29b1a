package tui

import (
	"fmt"
	"io"
	"strings"

	"curio-cli/internal/model"
	"curio-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type pageRowItem struct {
	ref model.PageRef
}

func (i pageRowItem) FilterValue() string {
	return strings.TrimSpace(i.ref.Title + " " + i.ref.Path)
}

func (i pageRowItem) path() string { return i.ref.Path }

func (i pageRowItem) rowText() (title, badge, meta string) {
	title = strings.TrimSpace(i.ref.Title)
	if title == "" {
		title = i.ref.Path
	}
	return title, strings.TrimSpace(i.ref.Type), i.ref.Path
}

type searchHitItem struct {
	hit store.SearchResult
}

func (i searchHitItem) FilterValue() string {
	return strings.TrimSpace(i.hit.Title + " " + i.hit.Path)
}

func (i searchHitItem) path() string { return i.hit.Path }

func (i searchHitItem) rowText() (title, badge, meta string) {
	title = strings.TrimSpace(i.hit.Title)
	if title == "" {
		title = i.hit.Path
	}
	meta = i.hit.Path
	if f := strings.TrimSpace(i.hit.Field); f != "" && f != "title" {
		meta += "  (" + f + ")"
	}
	return title, strings.TrimSpace(i.hit.Type), meta
}

// pageRow is what both list item types render as: a title, an optional
// type badge, and a muted path.
type pageRow interface {
	path() string
	rowText() (title, badge, meta string)
}

// pageRowDelegate renders one page per line: "Title [type]  path", cut
// ANSI-aware to the list width.
type pageRowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	badge    lipgloss.Style
	meta     lipgloss.Style
	metaSel  lipgloss.Style
}

func newPageRowDelegate() pageRowDelegate {
	return pageRowDelegate{
		normal: lipgloss.NewStyle().Foreground(colorSurfaceFg),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		badge:   lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent).Padding(0, 1),
		meta:    faintIfDark(lipgloss.NewStyle().Foreground(colorRowMetaFg)),
		metaSel: lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg),
	}
}

func (d pageRowDelegate) Height() int  { return 1 }
func (d pageRowDelegate) Spacing() int { return 0 }
func (d pageRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d pageRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	row, ok := item.(pageRow)
	if !ok {
		fmt.Fprint(w, fmt.Sprint(item))
		return
	}
	title, badge, meta := row.rowText()

	sel := index == m.Index()
	style := d.normal
	metaStyle := d.meta
	if sel {
		style = d.selected
		metaStyle = d.metaSel
	}

	line := style.Render(" " + title)
	if badge != "" {
		line += " " + d.badge.Render(badge)
	}
	if meta != "" && meta != title {
		line += "  " + metaStyle.Render(meta)
	}

	lineW := xansi.StringWidth(line)
	if lineW > contentW {
		line = xansi.Cut(line, 0, contentW-1) + "…"
	} else if sel && lineW < contentW {
		// Extend the selection background across the row.
		line += d.selected.Render(strings.Repeat(" ", contentW-lineW))
	}
	fmt.Fprint(w, line)
}
