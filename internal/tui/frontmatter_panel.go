package tui

import (
	"strings"

	"curio-cli/internal/frontmatter"
	"curio-cli/internal/mutate"

	"github.com/charmbracelet/lipgloss"
)

// renderFrontmatterPanel renders a mapping read-only, in the same bucket
// order the editor shows: scalars, then arrays, then sections, each bucket
// sorted by key. Nested sections indent two columns per level.
func renderFrontmatterPanel(fields *frontmatter.Fields, width int) string {
	var b strings.Builder
	writeFrontmatterRows(&b, fields, 0, width)
	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return styleMuted().Italic(true).Render("no frontmatter")
	}
	return out
}

func writeFrontmatterRows(b *strings.Builder, fields *frontmatter.Fields, depth, width int) {
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
	valStyle := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	absentStyle := styleMuted().Italic(true)
	bulletStyle := styleMuted()

	indent := strings.Repeat("  ", depth)
	for _, key := range mutate.RowOrder(fields) {
		v, _ := fields.Get(key)
		switch val := v.(type) {
		case nil:
			b.WriteString(indent + keyStyle.Render(key+":") + " " + absentStyle.Render("(no value)") + "\n")
		case frontmatter.Scalar:
			b.WriteString(indent + keyStyle.Render(key+":") + " " + valStyle.Render(string(val)) + "\n")
		case frontmatter.Array:
			b.WriteString(indent + keyStyle.Render(key+":") + "\n")
			if len(val) == 0 {
				b.WriteString(indent + "  " + absentStyle.Render("(empty)") + "\n")
			}
			for _, item := range val {
				b.WriteString(indent + "  " + bulletStyle.Render(glyphBullet()) + " " + valStyle.Render(string(item)) + "\n")
			}
		case *frontmatter.Fields:
			b.WriteString(indent + keyStyle.Render(glyphSectionMarker()+" "+key+":") + "\n")
			if val.Len() == 0 {
				b.WriteString(indent + "  " + absentStyle.Render("(empty)") + "\n")
				continue
			}
			writeFrontmatterRows(b, val, depth+1, width)
		}
	}
}
