package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strings"
	"time"

	"curio-cli/internal/model"

	_ "modernc.org/sqlite"
)

// The index is a derived cache over the markdown files. It can be rebuilt
// from the workspace at any time; the files are the source of truth.

func (s Store) openIndex(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(s.curioDir(), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.indexPath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness with CLI + TUI + web side by side.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateIndex(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateIndex(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			path TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			frontmatter_json TEXT NOT NULL,
			mtime_unixms INTEGER NOT NULL,
			size INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_pages_title ON pages(title);`,
		`CREATE INDEX IF NOT EXISTS idx_pages_type ON pages(type);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func frontmatterJSON(p *model.Page) string {
	raw, err := json.Marshal(p.Frontmatter)
	if err != nil || len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

// IndexPage upserts one page row.
func (s Store) IndexPage(ctx context.Context, p *model.Page) error {
	db, err := s.openIndex(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return indexPageTx(ctx, db, p)
}

func indexPageTx(ctx context.Context, db execer, p *model.Page) error {
	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO pages(
		path, title, type, frontmatter_json, mtime_unixms, size, updated_at_unixms
	) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		p.Path, p.Title, model.PageType(p.Frontmatter), frontmatterJSON(p),
		p.ModTime.UTC().UnixMilli(), p.Size, time.Now().UTC().UnixMilli())
	return err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RemoveFromIndex drops one page row; removing an unindexed page is a no-op.
func (s Store) RemoveFromIndex(ctx context.Context, rel string) error {
	rel, err := normalizeRel(rel)
	if err != nil {
		return err
	}
	db, err := s.openIndex(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM pages WHERE path = ?`, rel)
	return err
}

// Reindex rebuilds the whole index from the files and reports how many
// pages were indexed.
func (s Store) Reindex(ctx context.Context) (int, error) {
	refs, err := s.ListPages()
	if err != nil {
		return 0, err
	}

	db, err := s.openIndex(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	// Replace-all keeps deletions out of the picture.
	if _, err := tx.ExecContext(ctx, `DELETE FROM pages`); err != nil {
		return 0, err
	}

	n := 0
	for _, ref := range refs {
		p, err := s.LoadPage(ref.Path)
		if err != nil {
			// Unparseable files stay out of the index, not out of the workspace.
			continue
		}
		if err := indexPageTx(ctx, tx, p); err != nil {
			return 0, err
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

type SearchResult struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
	// Field names where the query matched: "title", "path" or "frontmatter".
	Field string `json:"field"`
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Search runs a case-insensitive substring match over title, path and
// frontmatter text. Title hits rank before the rest.
func (s Store) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	db, err := s.openIndex(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	pat := "%" + escapeLike(query) + "%"
	rows, err := db.QueryContext(ctx, `
		SELECT path, title, type,
			(title LIKE ? ESCAPE '\') AS in_title,
			(path LIKE ? ESCAPE '\') AS in_path
		FROM pages
		WHERE title LIKE ? ESCAPE '\'
			OR path LIKE ? ESCAPE '\'
			OR frontmatter_json LIKE ? ESCAPE '\'
		ORDER BY in_title DESC, title COLLATE NOCASE ASC, path ASC
	`, pat, pat, pat, pat, pat)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var inTitle, inPath int
		if err := rows.Scan(&r.Path, &r.Title, &r.Type, &inTitle, &inPath); err != nil {
			return nil, err
		}
		switch {
		case inTitle != 0:
			r.Field = "title"
		case inPath != 0:
			r.Field = "path"
		default:
			r.Field = "frontmatter"
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []SearchResult{}
	}
	return out, nil
}
