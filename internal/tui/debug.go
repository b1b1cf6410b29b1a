package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// debugLogf appends one timestamped line to the debug log file. Best-effort:
// a missing or unwritable path drops the line silently.
func (m *appModel) debugLogf(format string, args ...any) {
	if m == nil || !m.debugEnabled {
		return
	}
	path := strings.TrimSpace(m.debugLogPath)
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// debugKeyMsg records incoming keys; compact but high-signal for diagnosing
// terminal-specific modifier sequences.
func (m appModel) debugKeyMsg(k tea.KeyMsg) {
	if !m.debugEnabled {
		return
	}
	(&m).debugLogf(
		"key view=%d modal=%d filter(setting=%v filtered=%v) str=%q type=%v alt=%v runes=%q",
		int(m.view),
		int(m.modal),
		m.pagesList.SettingFilter(),
		m.pagesList.IsFiltered(),
		k.String(),
		k.Type,
		k.Alt,
		string(k.Runes),
	)
}
