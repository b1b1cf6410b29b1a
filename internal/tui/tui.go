// Package tui is the interactive terminal app: a pages list, a page view
// with a rendered body and frontmatter panel, and modal dialogs for
// editing. Dialogs own a working copy of the frontmatter tree; the page
// on disk only changes on an explicit save.
package tui

import (
	"curio-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(s store.Store) error {
	applyColorProfilePreference()

	// Env preferences win over the global config file.
	var prefs store.TUIConfig
	if cfg, err := store.LoadConfig(); err == nil && cfg.TUI != nil {
		prefs = *cfg.TUI
	}
	applyThemePreference(prefs.Theme)
	applyGlyphPreference(prefs.Glyphs)

	m := newAppModel(s)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
