package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const maxModalW = 76

func modalBodyWidth(width int) int {
	w := width - 8
	if w > maxModalW-4 {
		w = maxModalW - 4
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderModalBox draws a titled modal: a header strip over a padded body.
// Avoid borders: some terminals show background artifacts when nesting
// bordered components inside a background-colored box.
func renderModalBox(width int, title string, content string) string {
	bodyW := modalBodyWidth(width)
	boxW := bodyW + 4

	header := lipgloss.NewStyle().
		Width(boxW).
		Padding(0, 2).
		Bold(true).
		Foreground(colorModalHeaderFg).
		Background(colorModalHeaderBg).
		Render(title)

	body := lipgloss.NewStyle().
		Width(boxW).
		Padding(1, 2).
		Foreground(colorModalSurfaceFg).
		Background(colorModalSurfaceBg).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// dimBackground repaints the current view as an inert backdrop behind a
// modal. Inner ANSI styling is stripped first so it cannot override the
// scrim color.
func dimBackground(s string) string {
	scrim := lipgloss.NewStyle().Foreground(ac("250", "241"))
	lines := strings.Split(stripANSIEscapes(s), "\n")
	for i := range lines {
		lines[i] = scrim.Render(lines[i])
	}
	return strings.Join(lines, "\n")
}

// overlayCenter splices the modal into the middle of the backdrop. The
// spliced edges are ANSI-cut and reset so backdrop styling cannot bleed
// into the modal (or vice versa).
func overlayCenter(backdrop, modal string, width, height int) string {
	base := strings.Split(normalizePane(backdrop, width, height), "\n")
	box := strings.Split(modal, "\n")

	boxW := 0
	for _, ln := range box {
		if w := xansi.StringWidth(ln); w > boxW {
			boxW = w
		}
	}
	if boxW > width {
		boxW = width
	}
	top := (height - len(box)) / 2
	if top < 0 {
		top = 0
	}
	left := (width - boxW) / 2
	if left < 0 {
		left = 0
	}

	for i, ln := range box {
		row := top + i
		if row >= len(base) {
			break
		}
		if w := xansi.StringWidth(ln); w > boxW {
			ln = xansi.Cut(ln, 0, boxW)
		} else if w < boxW {
			ln += strings.Repeat(" ", boxW-w)
		}
		leftPart := xansi.Cut(base[row], 0, left)
		rightPart := ""
		if left+boxW < width {
			rightPart = xansi.Cut(base[row], left+boxW, width)
		}
		base[row] = leftPart + "\x1b[0m" + ln + "\x1b[0m" + rightPart
	}
	return strings.Join(base, "\n")
}

// renderInputLine renders a text input as exactly one visual line on the
// input background. If the view ever contains newlines (or overflows due to
// ANSI/cursor styling), it can trigger wrapping behavior that looks like
// "newline insertion" while typing.
func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}

	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Never exceed the modal body width; terminate ANSI styling to prevent bleed.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}
