package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"curio-cli/internal/frontmatter"
	"curio-cli/internal/model"
	"curio-cli/internal/store"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	s := store.Store{Root: t.TempDir()}
	if _, err := s.Init("wiki"); err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Root: s.Root})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv, s
}

func savePage(t *testing.T, s store.Store, rel, title, body string, extra func(*frontmatter.Fields)) {
	t.Helper()
	fields := frontmatter.NewFields()
	fields.Set("title", frontmatter.Scalar(title))
	if extra != nil {
		extra(fields)
	}
	if err := s.SavePage(&model.Page{Path: rel, Frontmatter: fields, Body: body}); err != nil {
		t.Fatalf("save %s: %v", rel, err)
	}
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthAndStatic(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("health: code=%d body=%q", rec.Code, rec.Body.String())
	}

	rec = get(t, srv, "/static/app.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("app.css: code=%d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/css") {
		t.Fatalf("app.css content-type = %q", ct)
	}
}

func TestHomeListsPages(t *testing.T) {
	srv, s := newTestServer(t)
	savePage(t, s, "garage/drill.md", "Cordless Drill", "Bits in the top drawer.", func(f *frontmatter.Fields) {
		f.Set("type", frontmatter.Scalar("tool"))
	})
	savePage(t, s, "home.md", "Home", "Start here.", nil)

	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("home: code=%d body=%q", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Cordless Drill", "garage/drill.md", "tool", `id="curio-main"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("home missing %q:\n%s", want, body)
		}
	}
}

func TestPageViewRendersFrontmatterAndBody(t *testing.T) {
	srv, s := newTestServer(t)
	savePage(t, s, "garage/drill.md", "Cordless Drill", "Keep the **batteries** charged.\n\n<script>alert(1)</script>", func(f *frontmatter.Fields) {
		f.Set("brand", frontmatter.Scalar("Ryobi"))
		needs := frontmatter.Array{"drill bits", "charger"}
		f.Set("needs", needs)
		specs := frontmatter.NewFields()
		specs.Set("voltage", frontmatter.Scalar("18V"))
		f.Set("specs", specs)
		f.Set("serial", nil)
	})

	rec := get(t, srv, "/pages/garage/drill.md")
	if rec.Code != http.StatusOK {
		t.Fatalf("page: code=%d body=%q", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Cordless Drill",
		"Ryobi",
		"drill bits",
		"voltage",
		"<strong>batteries</strong>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q:\n%s", want, body)
		}
	}
	// Raw HTML in page bodies must never pass through.
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Fatalf("raw html leaked into page view:\n%s", body)
	}
}

func TestPageViewNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv, "/pages/nope.md")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code=%d, want 404", rec.Code)
	}
}

func TestAPIPages(t *testing.T) {
	srv, s := newTestServer(t)
	savePage(t, s, "home.md", "Home", "", nil)

	rec := get(t, srv, "/api/pages")
	if rec.Code != http.StatusOK {
		t.Fatalf("api list: code=%d", rec.Code)
	}
	var list struct {
		Pages []model.PageRef `json:"pages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Pages) != 1 || list.Pages[0].Path != "home.md" {
		t.Fatalf("pages = %+v", list.Pages)
	}

	rec = get(t, srv, "/api/pages/home.md")
	if rec.Code != http.StatusOK {
		t.Fatalf("api page: code=%d body=%q", rec.Code, rec.Body.String())
	}
	var page struct {
		Path        string            `json:"path"`
		Title       string            `json:"title"`
		Frontmatter map[string]string `json:"frontmatter"`
		Body        string            `json:"body"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Path != "home.md" || page.Title != "Home" {
		t.Fatalf("page = %+v", page)
	}
	if page.Frontmatter["title"] != "Home" {
		t.Fatalf("frontmatter = %+v", page.Frontmatter)
	}

	rec = get(t, srv, "/api/pages/missing.md")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing page: code=%d, want 404", rec.Code)
	}
}

func TestFmRowsFlattensSections(t *testing.T) {
	fields := frontmatter.NewFields()
	fields.Set("zeta", frontmatter.Scalar("1"))
	fields.Set("alpha", frontmatter.Scalar("2"))
	fields.Set("tags", frontmatter.Array{"a"})
	specs := frontmatter.NewFields()
	specs.Set("inner", frontmatter.Scalar("x"))
	fields.Set("specs", specs)
	fields.Set("gone", nil)

	rows := fmRows(fields, 0)
	var got []string
	for _, r := range rows {
		got = append(got, r.Key)
	}
	want := []string{"alpha", "gone", "zeta", "tags", "specs", "inner"}
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	}
	last := rows[len(rows)-1]
	if last.Key != "inner" || last.Indent != 1 {
		t.Fatalf("nested row = %+v, want indent 1", last)
	}
	for _, r := range rows {
		if r.Key == "gone" && r.Kind != "absent" {
			t.Fatalf("absent row rendered as %q", r.Kind)
		}
	}
}

func TestFmRowsNilFields(t *testing.T) {
	if rows := fmRows(nil, 0); len(rows) != 0 {
		t.Fatalf("rows = %v, want none", rows)
	}
}
