package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestDimBackground_StripsInnerANSIStyles(t *testing.T) {
	oldProfile := lipgloss.ColorProfile()
	oldBG := lipgloss.HasDarkBackground()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(oldProfile)
		lipgloss.SetHasDarkBackground(oldBG)
	})
	lipgloss.SetHasDarkBackground(true)

	// Give the inner content a strong color. If dimBackground does not strip
	// ANSI codes first, the inner style can override the scrim.
	in := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("HELLO")
	out := dimBackground(in)

	if !strings.Contains(out, "38;5;241") {
		t.Fatalf("expected dimmed foreground (38;5;241) in output; got %q", out)
	}
	if strings.Contains(out, "38;5;196") {
		t.Fatalf("expected inner foreground (38;5;196) to be stripped; got %q", out)
	}
}

func TestOverlayCenter_SplicesModalIntoBackdrop(t *testing.T) {
	oldProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(oldProfile) })

	backdrop := strings.TrimRight(strings.Repeat("ABCDEFGHIJ\n", 5), "\n")
	out := overlayCenter(backdrop, "XX", 10, 5)

	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	mid := lines[2]
	if !strings.Contains(mid, "XX") {
		t.Fatalf("expected modal content on the middle line; got %q", mid)
	}
	// The backdrop should still be visible around the modal.
	if !strings.Contains(mid, "A") || !strings.Contains(mid, "J") {
		t.Fatalf("expected backdrop on both sides of the modal; got %q", mid)
	}
}
