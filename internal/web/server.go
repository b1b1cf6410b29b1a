package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"curio-cli/internal/frontmatter"
	"curio-cli/internal/gitrepo"
	"curio-cli/internal/model"
	"curio-cli/internal/mutate"
	"curio-cli/internal/store"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

type ServerConfig struct {
	Addr string
	Root string
}

// Server is the read-only workspace viewer behind `curio serve`. All writes
// happen through the CLI or TUI; the browser just watches the files.
type Server struct {
	mu   sync.RWMutex
	cfg  ServerConfig
	tmpl *template.Template

	bc *pageBroadcaster
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Root = strings.TrimSpace(cfg.Root)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Root == "" {
		return nil, errors.New("web: workspace root is empty")
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	srv := &Server{cfg: cfg, tmpl: tmpl}
	srv.bc = newPageBroadcaster(cfg.Root)
	go srv.bc.watchLoop()
	return srv, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Close() {
	s.broadcaster().Stop()
}

func (s *Server) root() string {
	s.mu.RLock()
	r := s.cfg.Root
	s.mu.RUnlock()
	return r
}

func (s *Server) broadcaster() *pageBroadcaster {
	s.mu.RLock()
	b := s.bc
	s.mu.RUnlock()
	return b
}

func (s *Server) st() store.Store {
	return store.Store{Root: s.root()}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /api/pages", s.handleAPIPages)
	mux.HandleFunc("GET /api/pages/{path...}", s.handleAPIPage)
	mux.HandleFunc("GET /pages/{path...}", s.handlePage)
	mux.HandleFunc("GET /", s.handleHome)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

type baseVM struct {
	Now       string
	Workspace string
	Root      string
	Git       gitrepo.Status
	StreamURL string
}

func (s *Server) baseVMForRequest(r *http.Request, streamURL string) baseVM {
	ctx, cancel := context.WithTimeout(r.Context(), 1200*time.Millisecond)
	defer cancel()

	root := s.root()
	gst, _ := gitrepo.GetStatus(ctx, root)

	name := ""
	if info, err := s.st().Info(); err == nil {
		name = info.Name
	}

	return baseVM{
		Now:       time.Now().Format(time.RFC3339),
		Workspace: name,
		Root:      root,
		Git:       gst,
		StreamURL: streamURL,
	}
}

type pageRefVM struct {
	Path    string
	Title   string
	Type    string
	ModTime string
}

type searchHitVM struct {
	Path  string
	Title string
	Type  string
	Field string
}

type homeVM struct {
	baseVM
	Pages   []pageRefVM
	Query   string
	Results []searchHitVM
}

func (s *Server) homeVMForRequest(r *http.Request, query string) (homeVM, error) {
	st := s.st()
	refs, err := st.ListPages()
	if err != nil {
		return homeVM{}, err
	}

	streamURL := "/events"
	if query != "" {
		streamURL = "/events?q=" + url.QueryEscape(query)
	}
	vm := homeVM{
		baseVM: s.baseVMForRequest(r, streamURL),
		Query:  query,
	}
	for _, ref := range refs {
		vm.Pages = append(vm.Pages, pageRefVM{
			Path:    ref.Path,
			Title:   ref.Title,
			Type:    ref.Type,
			ModTime: ref.ModTime.Format("2006-01-02 15:04"),
		})
	}
	if query != "" {
		hits, err := st.Search(r.Context(), query)
		if err != nil {
			return homeVM{}, err
		}
		for _, h := range hits {
			vm.Results = append(vm.Results, searchHitVM{Path: h.Path, Title: h.Title, Type: h.Type, Field: h.Field})
		}
	}
	return vm, nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	vm, err := s.homeVMForRequest(r, strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeHTMLTemplate(w, "home.html", vm)
}

// fmRowVM is one rendered frontmatter row. Sections contribute a header row
// followed by their children at a deeper indent, in the same order the
// TUI editor shows them.
type fmRowVM struct {
	Indent int
	Key    string
	Kind   string // field|array|section|absent
	Value  string
	Values []string
}

func fmRows(fields *frontmatter.Fields, indent int) []fmRowVM {
	var rows []fmRowVM
	for _, key := range mutate.RowOrder(fields) {
		node, _ := fields.Get(key)
		switch v := node.(type) {
		case nil:
			rows = append(rows, fmRowVM{Indent: indent, Key: key, Kind: "absent"})
		case frontmatter.Scalar:
			rows = append(rows, fmRowVM{Indent: indent, Key: key, Kind: "field", Value: string(v)})
		case frontmatter.Array:
			vals := make([]string, 0, len(v))
			for _, item := range v {
				vals = append(vals, string(item))
			}
			rows = append(rows, fmRowVM{Indent: indent, Key: key, Kind: "array", Values: vals})
		case *frontmatter.Fields:
			rows = append(rows, fmRowVM{Indent: indent, Key: key, Kind: "section"})
			rows = append(rows, fmRows(v, indent+1)...)
		}
	}
	return rows
}

type pageVM struct {
	baseVM
	Path     string
	Title    string
	Type     string
	Rows     []fmRowVM
	BodyHTML template.HTML
	ModTime  string
}

func (s *Server) pageVMForRequest(r *http.Request, p *model.Page) pageVM {
	return pageVM{
		baseVM:   s.baseVMForRequest(r, "/events?page="+url.QueryEscape(p.Path)),
		Path:     p.Path,
		Title:    p.Title,
		Type:     model.PageType(p.Frontmatter),
		Rows:     fmRows(p.Frontmatter, 0),
		BodyHTML: renderMarkdownHTML(path.Dir(p.Path), p.Body),
		ModTime:  p.ModTime.Format("2006-01-02 15:04"),
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	p, err := s.st().LoadPage(r.PathValue("path"))
	if err != nil {
		if errors.Is(err, store.ErrPageNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeHTMLTemplate(w, "page.html", s.pageVMForRequest(r, p))
}

func (s *Server) handleAPIPages(w http.ResponseWriter, r *http.Request) {
	refs, err := s.st().ListPages()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{"pages": refs})
}

func (s *Server) handleAPIPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.st().LoadPage(r.PathValue("path"))
	if err != nil {
		if errors.Is(err, store.ErrPageNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	fields := p.Frontmatter
	if fields == nil {
		fields = frontmatter.NewFields()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"path":        p.Path,
		"title":       p.Title,
		"type":        model.PageType(p.Frontmatter),
		"frontmatter": fields,
		"body":        p.Body,
		"modTime":     p.ModTime,
		"size":        p.Size,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if rel := strings.TrimSpace(r.URL.Query().Get("page")); rel != "" {
		s.serveMainStream(w, r, pageKey(rel), func() (string, error) {
			p, err := s.st().LoadPage(rel)
			if err != nil {
				return "", err
			}
			return s.renderTemplate("page_main", s.pageVMForRequest(r, p))
		})
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	s.serveMainStream(w, r, workspaceKey(), func() (string, error) {
		vm, err := s.homeVMForRequest(r, query)
		if err != nil {
			return "", err
		}
		return s.renderTemplate("home_main", vm)
	})
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}
