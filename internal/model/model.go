package model

import (
	"strings"
	"time"

	"curio-cli/internal/frontmatter"
)

// Page is one markdown file in a workspace: frontmatter plus body.
type Page struct {
	// Path is workspace-relative, forward slashes, .md included.
	Path        string              `json:"path"`
	Title       string              `json:"title"`
	Frontmatter *frontmatter.Fields `json:"-"`
	Body        string              `json:"-"`
	ModTime     time.Time           `json:"modTime"`
	Size        int64               `json:"size"`
}

// PageRef is the listing shape: enough to render an index row without
// loading the file.
type PageRef struct {
	Path    string    `json:"path"`
	Title   string    `json:"title"`
	Type    string    `json:"type,omitempty"`
	ModTime time.Time `json:"modTime"`
}

type WorkspaceInfo struct {
	Name      string    `json:"name"`
	Root      string    `json:"root"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResolveTitle picks the display title: the frontmatter title scalar,
// else the first H1 heading, else the filename stem.
func ResolveTitle(path string, fields *frontmatter.Fields, body string) string {
	if fields != nil {
		if v, ok := fields.Get("title"); ok {
			if s, ok := v.(frontmatter.Scalar); ok && strings.TrimSpace(string(s)) != "" {
				return strings.TrimSpace(string(s))
			}
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, found := strings.CutPrefix(trimmed, "# "); found {
			if title := strings.TrimSpace(rest); title != "" {
				return title
			}
		}
		if trimmed != "" {
			break
		}
	}
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, ".md")
}

// PageType reads the frontmatter type scalar, empty when unset.
func PageType(fields *frontmatter.Fields) string {
	if fields == nil {
		return ""
	}
	if v, ok := fields.Get("type"); ok {
		if s, ok := v.(frontmatter.Scalar); ok {
			return strings.TrimSpace(string(s))
		}
	}
	return ""
}
