package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func clearMarkdownStyleEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CURIO_TUI_MD_STYLE", "")
	t.Setenv("CURIO_TUI_THEME", "")
	t.Setenv("CURIO_TUI_DARKBG", "")
	t.Setenv("COLORFGBG", "")
}

func TestMarkdownStyle_EnvChain(t *testing.T) {
	oldBG := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(oldBG) })
	clearMarkdownStyleEnv(t)

	t.Setenv("CURIO_TUI_MD_STYLE", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected explicit md style to win; got %q", got)
	}

	t.Setenv("CURIO_TUI_MD_STYLE", "")
	t.Setenv("CURIO_TUI_THEME", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected theme preference to apply; got %q", got)
	}

	t.Setenv("CURIO_TUI_THEME", "")
	t.Setenv("CURIO_TUI_DARKBG", "false")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected CURIO_TUI_DARKBG=false => light; got %q", got)
	}

	t.Setenv("CURIO_TUI_DARKBG", "")
	t.Setenv("COLORFGBG", "15;0")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected COLORFGBG bg=0 => dark; got %q", got)
	}
	t.Setenv("COLORFGBG", "0;15")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected COLORFGBG bg=15 => light; got %q", got)
	}

	// With nothing set, follow Lip Gloss's background detection.
	t.Setenv("COLORFGBG", "")
	lipgloss.SetHasDarkBackground(true)
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected fallback to background detection; got %q", got)
	}
}

func TestRenderMarkdown_RendersHeadingText(t *testing.T) {
	clearMarkdownStyleEnv(t)
	t.Setenv("CURIO_TUI_MD_STYLE", "dark")

	out := renderMarkdown("# Hello\n\nSome *body* text.", 60)
	if out == "" {
		t.Fatalf("expected rendered output")
	}
	plain := stripANSIEscapes(out)
	if !strings.Contains(plain, "Hello") || !strings.Contains(plain, "body") {
		t.Fatalf("expected heading and body text in output; got %q", plain)
	}
	if strings.HasSuffix(out, "\n") {
		t.Fatalf("expected trailing newlines to be trimmed")
	}
}

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	if got := renderMarkdown("   \n", 40); got != "" {
		t.Fatalf("expected empty output for blank input; got %q", got)
	}
}
