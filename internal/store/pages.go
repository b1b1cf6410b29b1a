package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"curio-cli/internal/frontmatter"
	"curio-cli/internal/model"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrPageExists   = errors.New("page already exists")
)

// normalizeRel cleans a workspace-relative page path to slash form and
// rejects anything that would escape the root.
func normalizeRel(rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, "./")
	if rel == "" {
		return "", errors.New("empty page path")
	}
	if path.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("page path must be workspace-relative: %q", rel)
	}
	cleaned := path.Clean(rel)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("page path escapes the workspace: %q", rel)
	}
	if !strings.HasSuffix(cleaned, ".md") {
		return "", fmt.Errorf("page path must end in .md: %q", rel)
	}
	return cleaned, nil
}

func (s Store) pagePath(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

// LoadPage reads and parses one page.
func (s Store) LoadPage(rel string) (*model.Page, error) {
	rel, err := normalizeRel(rel)
	if err != nil {
		return nil, err
	}
	abs := s.pagePath(rel)
	b, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPageNotFound, rel)
		}
		return nil, err
	}
	doc, err := frontmatter.ParseDocument(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	return &model.Page{
		Path:        rel,
		Title:       model.ResolveTitle(rel, doc.Fields, doc.Body),
		Frontmatter: doc.Fields,
		Body:        doc.Body,
		ModTime:     st.ModTime(),
		Size:        st.Size(),
	}, nil
}

// SavePage renders and writes the page back to disk. The write is atomic
// (temp file + rename) and the previous content is kept as one .bak copy.
func (s Store) SavePage(p *model.Page) error {
	if p == nil {
		return errors.New("nil page")
	}
	rel, err := normalizeRel(p.Path)
	if err != nil {
		return err
	}
	abs := s.pagePath(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}

	doc := frontmatter.Document{Fields: p.Frontmatter, Body: p.Body}
	out, err := doc.Render()
	if err != nil {
		return err
	}

	// Best-effort safety net; never blocks the save.
	if _, statErr := os.Stat(abs); statErr == nil {
		_ = CopyFile(abs, abs+".bak")
	}

	if err := atomicWriteFile(filepath.Dir(abs), ".curio-page.*.tmp", abs, out, 0o644); err != nil {
		return err
	}

	if st, err := os.Stat(abs); err == nil {
		p.ModTime = st.ModTime()
		p.Size = st.Size()
	}
	p.Title = model.ResolveTitle(rel, p.Frontmatter, p.Body)
	return nil
}

// Slugify lowercases a title into a filename stem: letters and digits kept,
// runs of anything else collapsed to single dashes.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		out = "untitled"
	}
	return out
}

// uniquePagePath probes slug.md, slug-1.md, slug-2.md, ... for the first
// path not on disk.
func (s Store) uniquePagePath(dir, slug string) (string, error) {
	for i := 0; ; i++ {
		name := slug + ".md"
		if i > 0 {
			name = fmt.Sprintf("%s-%d.md", slug, i)
		}
		rel := name
		if dir != "" {
			rel = path.Join(dir, name)
		}
		if _, err := os.Stat(s.pagePath(rel)); errors.Is(err, os.ErrNotExist) {
			return rel, nil
		} else if err != nil {
			return "", err
		}
	}
}

// CreatePage writes a new page under dir (workspace-relative, "" for the
// root) with a path derived from the title.
func (s Store) CreatePage(dir, title string, fields *frontmatter.Fields, body string) (*model.Page, error) {
	dir = strings.Trim(filepath.ToSlash(strings.TrimSpace(dir)), "/")
	if dir != "" {
		if _, err := normalizeRel(path.Join(dir, "probe.md")); err != nil {
			return nil, err
		}
	}
	rel, err := s.uniquePagePath(dir, Slugify(title))
	if err != nil {
		return nil, err
	}

	p := &model.Page{
		Path:        rel,
		Frontmatter: fields,
		Body:        body,
	}
	if err := s.SavePage(p); err != nil {
		return nil, err
	}
	return s.LoadPage(rel)
}

// RenamePage moves a page to a new workspace-relative path.
func (s Store) RenamePage(oldRel, newRel string) error {
	oldRel, err := normalizeRel(oldRel)
	if err != nil {
		return err
	}
	newRel, err = normalizeRel(newRel)
	if err != nil {
		return err
	}
	src := s.pagePath(oldRel)
	dst := s.pagePath(newRel)
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrPageNotFound, oldRel)
	} else if err != nil {
		return err
	}
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrPageExists, newRel)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.Rename(src, dst)
}

// DeletePage removes a page and its .bak copy if present.
func (s Store) DeletePage(rel string) error {
	rel, err := normalizeRel(rel)
	if err != nil {
		return err
	}
	abs := s.pagePath(rel)
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPageNotFound, rel)
		}
		return err
	}
	_ = os.Remove(abs + ".bak")
	return nil
}

// ListPages walks the workspace for markdown files, skipping dot-directories
// (.curio, .git, ...). Results are sorted by path.
func (s Store) ListPages() ([]model.PageRef, error) {
	var out []model.PageRef
	err := filepath.WalkDir(s.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != s.Root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, ".") {
			return nil
		}
		rel, rerr := filepath.Rel(s.Root, p)
		if rerr != nil {
			return rerr
		}
		rel = filepath.ToSlash(rel)

		ref := model.PageRef{Path: rel}
		if info, ierr := d.Info(); ierr == nil {
			ref.ModTime = info.ModTime()
		}
		if b, rerr := os.ReadFile(p); rerr == nil {
			if doc, derr := frontmatter.ParseDocument(b); derr == nil {
				ref.Title = model.ResolveTitle(rel, doc.Fields, doc.Body)
				ref.Type = model.PageType(doc.Fields)
			}
		}
		if ref.Title == "" {
			ref.Title = strings.TrimSuffix(path.Base(rel), ".md")
		}
		out = append(out, ref)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	if out == nil {
		out = []model.PageRef{}
	}
	return out, nil
}
