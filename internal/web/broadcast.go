package web

import (
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/starfederation/datastar-go/datastar"
)

type resourceKey struct {
	kind string
	id   string
}

func (k resourceKey) String() string {
	kind := strings.TrimSpace(k.kind)
	id := strings.TrimSpace(k.id)
	if id == "" {
		return kind
	}
	return kind + ":" + id
}

func pageKey(rel string) resourceKey { return resourceKey{kind: "page", id: rel} }

func workspaceKey() resourceKey { return resourceKey{kind: "workspace"} }

type resourceHub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newResourceHub() *resourceHub {
	return &resourceHub{subs: map[chan struct{}]struct{}{}}
}

func (h *resourceHub) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}
}

func (h *resourceHub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

type pageStamp struct {
	modNano int64
	size    int64
}

// pageBroadcaster polls the workspace markdown files and fans change
// notifications out to SSE subscribers. Diffing per-page stamps tells us which
// page changed, so a viewer of one page is not re-rendered for edits to another.
type pageBroadcaster struct {
	root string

	mu   sync.Mutex
	hubs map[string]*resourceHub
	rev  string

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newPageBroadcaster(root string) *pageBroadcaster {
	return &pageBroadcaster{
		root:   filepath.Clean(strings.TrimSpace(root)),
		hubs:   map[string]*resourceHub{},
		stopCh: make(chan struct{}),
	}
}

func (b *pageBroadcaster) Stop() {
	if b == nil {
		return
	}
	b.stopOnce.Do(func() {
		close(b.stopCh)
	})
}

func (b *pageBroadcaster) hubFor(key resourceKey) *resourceHub {
	k := key.String()
	if k == "" {
		k = "workspace"
	}
	b.mu.Lock()
	h := b.hubs[k]
	if h == nil {
		h = newResourceHub()
		b.hubs[k] = h
	}
	b.mu.Unlock()
	return h
}

// snapshot stats every markdown file under the workspace root. Stat-only and
// skips dot-directories, so it stays cheap enough for a 1s poll on typical wikis.
func (b *pageBroadcaster) snapshot() map[string]pageStamp {
	stamps := map[string]pageStamp{}
	_ = filepath.WalkDir(b.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if p != b.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".md") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(b.root, p)
		if err != nil {
			return nil
		}
		stamps[filepath.ToSlash(rel)] = pageStamp{
			modNano: info.ModTime().UnixNano(),
			size:    info.Size(),
		}
		return nil
	})
	return stamps
}

func revOf(stamps map[string]pageStamp) string {
	var maxMod, total int64
	for _, st := range stamps {
		if st.modNano > maxMod {
			maxMod = st.modNano
		}
		total += st.size
	}
	return strconv.Itoa(len(stamps)) + ":" + strconv.FormatInt(maxMod, 10) + ":" + strconv.FormatInt(total, 10)
}

func (b *pageBroadcaster) currentRev() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rev
}

func (b *pageBroadcaster) setRev(rev string) {
	b.mu.Lock()
	b.rev = rev
	b.mu.Unlock()
}

func (b *pageBroadcaster) watchLoop() {
	var prev map[string]pageStamp
	t := time.NewTicker(1 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-t.C:
		}

		cur := b.snapshot()
		if prev == nil {
			// First observation seeds the baseline without waking anyone.
			prev = cur
			b.setRev(revOf(cur))
			continue
		}

		changed := map[string]struct{}{}
		for rel, st := range cur {
			if old, ok := prev[rel]; !ok || old != st {
				changed[rel] = struct{}{}
			}
		}
		for rel := range prev {
			if _, ok := cur[rel]; !ok {
				changed[rel] = struct{}{}
			}
		}
		prev = cur
		if len(changed) == 0 {
			continue
		}
		b.setRev(revOf(cur))

		for rel := range changed {
			b.hubFor(pageKey(rel)).broadcast()
		}
		b.hubFor(workspaceKey()).broadcast()
	}
}

func (s *Server) serveElementsStream(w http.ResponseWriter, r *http.Request, key resourceKey, selector string, render func() (string, error)) {
	sse := datastar.NewSSE(w, r)

	bc := s.broadcaster()
	rev := ""
	if bc != nil {
		rev = strings.TrimSpace(bc.currentRev())
	}
	_ = sse.MarshalAndPatchSignals(map[string]any{"rev": rev})

	h := bc.hubFor(key)
	ch, cancel := h.subscribe()
	defer cancel()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	selector = strings.TrimSpace(selector)
	if selector == "" {
		selector = "#curio-main"
	}

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			html, err := render()
			if err != nil {
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
				continue
			}
			if strings.TrimSpace(html) == "" {
				continue
			}
			_ = sse.PatchElements(html, datastar.WithSelector(selector), datastar.WithMode(datastar.ElementPatchModeOuter))

			rev := ""
			if bc := s.broadcaster(); bc != nil {
				rev = strings.TrimSpace(bc.currentRev())
			}
			_ = sse.MarshalAndPatchSignals(map[string]any{"rev": rev})
		}
	}
}

func (s *Server) serveMainStream(w http.ResponseWriter, r *http.Request, key resourceKey, renderMain func() (string, error)) {
	s.serveElementsStream(w, r, key, "#curio-main", renderMain)
}
