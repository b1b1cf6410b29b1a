package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"curio-cli/internal/frontmatter"
)

var addMenuKinds = []frontmatter.Kind{
	frontmatter.KindScalar,
	frontmatter.KindArray,
	frontmatter.KindSection,
}

// AddMenu is the add-entry control: a single-line affordance that expands
// into a three-way kind picker. Focus departure dismisses it.
type AddMenu struct {
	open    bool
	cursor  int
	opts    Options
	focused bool
}

func NewAddMenu(opts Options) AddMenu {
	return AddMenu{opts: opts.withDefaults()}
}

func (m AddMenu) Open() bool { return m.open }

func (m *AddMenu) Focus() {
	m.focused = true
}

// Blur closes the menu without choosing: nothing is added when focus
// leaves the control.
func (m *AddMenu) Blur() {
	m.focused = false
	m.open = false
	m.cursor = 0
}

func (m *AddMenu) SetDisabled(disabled bool) {
	m.opts.Disabled = disabled
	if disabled {
		m.open = false
	}
}

func (m AddMenu) Update(msg tea.Msg) (AddMenu, tea.Cmd, *AddRequested) {
	if m.opts.Disabled || !m.focused {
		return m, nil, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, nil
	}

	if !m.open {
		switch km.String() {
		case "enter", " ":
			m.open = true
			m.cursor = 0
		}
		return m, nil, nil
	}

	switch km.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(addMenuKinds)-1 {
			m.cursor++
		}
	case "enter", " ":
		kind := addMenuKinds[m.cursor]
		m.open = false
		m.cursor = 0
		return m, nil, &AddRequested{Kind: kind}
	case "esc":
		m.open = false
		m.cursor = 0
	}
	return m, nil, nil
}

func (m AddMenu) View() string {
	st := m.opts.Styles
	if !m.open {
		label := "+ add"
		if m.focused {
			return st.AddFocused.Render(label)
		}
		return st.AddLabel.Render(label)
	}
	var b strings.Builder
	b.WriteString(st.AddLabel.Render("add:"))
	for i, kind := range addMenuKinds {
		b.WriteString("\n")
		line := "  " + kind.String()
		if i == m.cursor {
			b.WriteString(st.MenuCursor.Render("> " + kind.String()))
			continue
		}
		b.WriteString(st.MenuItem.Render(line))
	}
	return b.String()
}
