package gitrepo

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DebouncedCommitter batches rapid page saves into a single auto-commit.
// The TUI notifies it on every successful save; a burst of edits to the same
// page produces one commit instead of one per keystroke-save.
type DebouncedCommitter struct {
	workspaceRoot string
	debounce      time.Duration
	autoPush      bool
	autoPull      bool

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
}

type DebouncedCommitterOpts struct {
	WorkspaceRoot string
	Debounce      time.Duration

	// AutoPush enables best-effort `git push` after committing when an upstream exists.
	AutoPush bool
	// AutoPullRebase enables a best-effort `git pull --rebase` retry on non-fast-forward push errors.
	AutoPullRebase bool
}

func NewDebouncedCommitter(opts DebouncedCommitterOpts) *DebouncedCommitter {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &DebouncedCommitter{
		workspaceRoot: opts.WorkspaceRoot,
		debounce:      debounce,
		autoPush:      opts.AutoPush,
		autoPull:      opts.AutoPullRebase,
	}
}

func (d *DebouncedCommitter) Notify() {
	if d == nil {
		return
	}

	d.mu.Lock()
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.debounce, d.onTimer)
		d.mu.Unlock()
		return
	}
	d.timer.Reset(d.debounce)
	d.mu.Unlock()
}

func (d *DebouncedCommitter) onTimer() {
	d.mu.Lock()
	if d.running {
		// Another run is in-flight; schedule again to pick up pending changes.
		if d.timer != nil {
			d.timer.Reset(d.debounce)
		}
		d.mu.Unlock()
		return
	}
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	// Best-effort: errors are intentionally dropped; the user can always run
	// `git status` in the workspace and commit by hand.
	ctx := context.Background()
	committed, _ := CommitPagesAuto(ctx, d.workspaceRoot)
	if committed && d.autoPush {
		st, err := GetStatus(ctx, d.workspaceRoot)
		if err == nil && st.IsRepo && !st.Unmerged && !st.InProgress && strings.TrimSpace(st.Upstream) != "" {
			if err := Push(ctx, d.workspaceRoot); err != nil && d.autoPull && IsNonFastForwardPushErr(err) {
				_ = PullRebase(ctx, d.workspaceRoot)
				_ = Push(ctx, d.workspaceRoot)
			}
		}
	}

	d.mu.Lock()
	d.running = false
	// If another Notify happened while running, schedule another run.
	if d.pending && d.timer != nil {
		d.timer.Reset(d.debounce)
	}
	d.mu.Unlock()
}
