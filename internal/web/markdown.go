package web

import (
	"bytes"
	"html/template"
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var pageBaseDirKey = parser.NewContextKey()

// pageLinkTransformer rewrites relative links to other .md pages so they land
// on the viewer's /pages/ routes. External URLs, anchors, absolute paths, and
// non-page files pass through untouched.
type pageLinkTransformer struct{}

func (pageLinkTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	baseDir, _ := pc.Get(pageBaseDirKey).(string)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok {
			if dest, ok := rewriteRelativePageDest(baseDir, string(link.Destination)); ok {
				link.Destination = []byte(dest)
			}
		}
		return ast.WalkContinue, nil
	})
}

func rewriteRelativePageDest(baseDir, dest string) (string, bool) {
	trimmed := strings.TrimSpace(dest)
	if trimmed == "" || strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	if u, err := url.Parse(trimmed); err != nil || u.Scheme != "" {
		return "", false
	}
	rel, frag, _ := strings.Cut(trimmed, "#")
	if !strings.HasSuffix(rel, ".md") {
		return "", false
	}
	joined := path.Clean(path.Join(baseDir, rel))
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}
	out := "/pages/" + joined
	if frag != "" {
		out += "#" + frag
	}
	return out, true
}

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithASTTransformers(util.Prioritized(pageLinkTransformer{}, 900)),
	),
	goldmark.WithRendererOptions(
		// Do not allow raw HTML passthrough (avoid XSS).
		// Note: we intentionally do NOT use html.WithUnsafe().
		html.WithHardWraps(),
	),
)

// renderMarkdownHTML renders a page body. pageDir is the page's directory
// relative to the workspace root; links to sibling pages resolve against it.
func renderMarkdownHTML(pageDir, src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	ctx := parser.NewContext()
	ctx.Set(pageBaseDirKey, path.Clean(strings.TrimSpace(pageDir)))
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b, parser.WithContext(ctx)); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	// goldmark output is trusted only because raw HTML is disabled above.
	return template.HTML(b.String())
}
