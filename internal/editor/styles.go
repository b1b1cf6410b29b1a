package editor

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles is the host-supplied chrome. The engine carries no color policy
// of its own beyond these defaults.
type Styles struct {
	Key         lipgloss.Style
	KeyFocused  lipgloss.Style
	Value       lipgloss.Style
	Placeholder lipgloss.Style
	Remove      lipgloss.Style
	RemoveFocus lipgloss.Style
	Hint        lipgloss.Style
	AddLabel    lipgloss.Style
	AddFocused  lipgloss.Style
	MenuItem    lipgloss.Style
	MenuCursor  lipgloss.Style
	Bullet      lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Key:         lipgloss.NewStyle().Bold(true),
		KeyFocused:  lipgloss.NewStyle().Bold(true).Reverse(true),
		Value:       lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Faint(true).Italic(true),
		Remove:      lipgloss.NewStyle().Faint(true),
		RemoveFocus: lipgloss.NewStyle().Reverse(true),
		Hint:        lipgloss.NewStyle().Faint(true).Italic(true),
		AddLabel:    lipgloss.NewStyle().Faint(true),
		AddFocused:  lipgloss.NewStyle().Reverse(true),
		MenuItem:    lipgloss.NewStyle(),
		MenuCursor:  lipgloss.NewStyle().Bold(true).Reverse(true),
		Bullet:      lipgloss.NewStyle().Faint(true),
	}
}

// Options configure a whole editor tree at construction.
type Options struct {
	Styles Styles
	// Disabled renders all affordances but rejects interaction.
	Disabled bool
	// AbsentText labels rows whose value is absent. Defaults to "(no value)".
	AbsentText string
	// InputWidth is the width of key and value text inputs.
	InputWidth int
}

func (o Options) withDefaults() Options {
	if o.AbsentText == "" {
		o.AbsentText = "(no value)"
	}
	if o.InputWidth <= 0 {
		o.InputWidth = 32
	}
	return o
}
