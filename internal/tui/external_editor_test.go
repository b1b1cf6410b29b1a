package tui

import (
	"reflect"
	"testing"
)

func TestSplitShellWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"vim", []string{"vim"}},
		{"code --wait", []string{"code", "--wait"}},
		{"vim -u 'foo bar'", []string{"vim", "-u", "foo bar"}},
		{"vim -c \"set ft=markdown\"", []string{"vim", "-c", "set ft=markdown"}},
		{"vim\\ -u\\ foo", []string{"vim -u foo"}},
	}

	for _, tt := range tests {
		if got := splitShellWords(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("splitShellWords(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExternalEditorName_Defaults(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if got := externalEditorName(); got != "vi" {
		t.Fatalf("externalEditorName()=%q, want vi", got)
	}

	t.Setenv("EDITOR", "nano")
	if got := externalEditorName(); got != "nano" {
		t.Fatalf("externalEditorName()=%q, want nano", got)
	}

	t.Setenv("VISUAL", "code --wait")
	if got := externalEditorName(); got != "code --wait" {
		t.Fatalf("externalEditorName()=%q, want VISUAL to win", got)
	}
}
