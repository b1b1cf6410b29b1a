package tui

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

func externalEditorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// openExternalEditorForPage suspends the TUI and opens the page file itself
// in $VISUAL/$EDITOR. Pages are plain files; editing them in place is the
// whole point of a local-first wiki.
func (m *appModel) openExternalEditorForPage() (tea.Cmd, error) {
	if m.page == nil {
		return nil, nil
	}
	args := splitShellWords(externalEditorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}

	m.externalEditorPath = m.openPath
	abs := filepath.Join(m.store.Root, filepath.FromSlash(m.openPath))

	cmd := exec.Command(args[0], append(args[1:], abs)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalEditorDoneMsg{err: err}
	}), nil
}

// applyExternalEditorResult reloads the edited page and refreshes the index.
func (m *appModel) applyExternalEditorResult(msg externalEditorDoneMsg) {
	rel := m.externalEditorPath
	m.externalEditorPath = ""
	if strings.TrimSpace(rel) == "" {
		return
	}

	if msg.err != nil {
		m.showMinibuffer("Editor failed: " + msg.err.Error())
		return
	}

	if rel != m.openPath || !m.reloadOpenPage() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.store.IndexPage(ctx, m.page)
	m.committer.Notify()
	m.refreshPages()
	m.showMinibuffer("Updated from " + externalEditorName())
}

// splitShellWords splits a shell-like command string into argv, handling basic
// quoting: single quotes, double quotes, and backslash escaping (outside
// single quotes).
func splitShellWords(s string) []string {
	var out []string
	var cur []rune
	inSingle := false
	inDouble := false
	escaped := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
	}

	for _, r := range s {
		if escaped {
			cur = append(cur, r)
			escaped = false
			continue
		}

		if r == '\\' && !inSingle {
			escaped = true
			continue
		}

		if r == '\'' && !inDouble {
			inSingle = !inSingle
			continue
		}

		if r == '"' && !inSingle {
			inDouble = !inDouble
			continue
		}

		if !inSingle && !inDouble && unicode.IsSpace(r) {
			flush()
			continue
		}

		cur = append(cur, r)
	}

	flush()
	return out
}
