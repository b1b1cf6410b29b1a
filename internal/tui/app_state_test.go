package tui

import (
	"context"
	"testing"
	"time"

	"curio-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// newTestApp builds an app model over a fresh workspace, sized so key
// handling behaves like a real terminal session.
func newTestApp(t *testing.T) (store.Store, appModel) {
	t.Helper()
	t.Setenv("CURIO_AUTOCOMMIT", "0")
	dir := t.TempDir()
	s := store.Store{Root: dir}
	if _, err := s.Init("wiki"); err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	m := newAppModel(s)
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return s, mm.(appModel)
}

func press(m appModel, msg tea.Msg) appModel {
	mm, _ := m.Update(msg)
	return mm.(appModel)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMinibufferClearsAfterDelay(t *testing.T) {
	_, m := newTestApp(t)

	(&m).showMinibuffer("Hello")
	m.minibufferSetAt = time.Now().Add(-minibufferAutoClearAfter - 100*time.Millisecond)

	m = press(m, reloadTickMsg{})
	if got := m.minibufferText; got != "" {
		t.Fatalf("expected minibuffer text to clear, got %q", got)
	}
}

func TestMinibufferRemainsBeforeDelay(t *testing.T) {
	_, m := newTestApp(t)

	(&m).showMinibuffer("Hello")
	m.minibufferSetAt = time.Now()

	m = press(m, reloadTickMsg{})
	if got := m.minibufferText; got == "" {
		t.Fatalf("expected minibuffer text to remain set")
	}
}

func TestOpenSelectedPage_SwitchesToPageView(t *testing.T) {
	t.Setenv("CURIO_AUTOCOMMIT", "0")
	dir := t.TempDir()
	s := store.Store{Root: dir}
	if _, err := s.Init("wiki"); err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	p, err := s.CreatePage("", "Alpha", nil, "# Alpha\n\nHello.")
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	m := newAppModel(s)
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = mm.(appModel)
	if got := len(m.pagesList.Items()); got != 1 {
		t.Fatalf("expected 1 page in the list, got %d", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewPage {
		t.Fatalf("expected page view after enter, got %v", m.view)
	}
	if m.openPath != p.Path {
		t.Fatalf("expected open path %q, got %q", p.Path, m.openPath)
	}
	if m.page == nil || m.page.Title != "Alpha" {
		t.Fatalf("expected loaded page with resolved title")
	}
}

func TestEscFromPageView_BacksToList(t *testing.T) {
	s, m := newTestApp(t)
	p, err := s.CreatePage("", "Alpha", nil, "body")
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	(&m).openPage(p.Path)
	if m.view != viewPage {
		t.Fatalf("expected page view, got %v", m.view)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewPages {
		t.Fatalf("expected pages view after esc, got %v", m.view)
	}
	if m.openPath != "" || m.page != nil {
		t.Fatalf("expected open page state to clear")
	}
}

func TestQuitKey(t *testing.T) {
	_, m := newTestApp(t)

	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg from q")
	}
}

func TestSearchFlow_FindsIndexedPageAndOpensIt(t *testing.T) {
	s, m := newTestApp(t)
	p, err := s.CreatePage("", "Alpha", nil, "# Alpha\n\nHello wiki.")
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if err := s.IndexPage(context.Background(), p); err != nil {
		t.Fatalf("index page: %v", err)
	}
	(&m).refreshPages()

	m = press(m, keyRune('s'))
	if m.view != viewSearch || m.searchFocus != searchFocusInput {
		t.Fatalf("expected search view with input focus")
	}

	m.searchInput.SetValue("alpha")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.searchResults < 1 {
		t.Fatalf("expected at least one hit, got %d", m.searchResults)
	}
	if m.searchFocus != searchFocusResults {
		t.Fatalf("expected focus to move to the results")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewPage || m.openPath != p.Path {
		t.Fatalf("expected the hit to open; view=%v path=%q", m.view, m.openPath)
	}
}

func TestSearchEsc_BacksToPages(t *testing.T) {
	_, m := newTestApp(t)

	m = press(m, keyRune('s'))
	if m.view != viewSearch {
		t.Fatalf("expected search view, got %v", m.view)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewPages {
		t.Fatalf("expected pages view after esc, got %v", m.view)
	}
}
