package gitrepo

import (
	"context"
	"os"
	"strconv"
	"strings"
)

func boolEnvDefault(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	switch strings.ToLower(v) {
	case "y", "yes", "on":
		return true
	case "n", "no", "off":
		return false
	default:
		return def
	}
}

// AutoCommitEnabled controls whether Curio commits page changes automatically
// in git-backed workspaces. Default: true. Disable with CURIO_AUTOCOMMIT=0.
func AutoCommitEnabled() bool {
	return boolEnvDefault("CURIO_AUTOCOMMIT", true)
}

// AutoPushEnabled controls whether Curio pushes after auto-committing.
// Pushing someone's wiki without asking is surprising, so this is opt-in:
// enable with CURIO_AUTOPUSH=1.
func AutoPushEnabled() bool {
	return boolEnvDefault("CURIO_AUTOPUSH", false)
}

// AutoPullRebaseEnabled controls whether non-fast-forward pushes are retried
// after a `git pull --rebase`. Default: true. Disable with CURIO_AUTOPULL_REBASE=0.
func AutoPullRebaseEnabled() bool {
	return boolEnvDefault("CURIO_AUTOPULL_REBASE", true)
}

// AutoCommitAndPush is a best-effort helper used by the CLI and TUI to keep
// git-backed workspaces committed after a successful page mutation.
func AutoCommitAndPush(ctx context.Context, workspaceRoot string) (committed bool, pushed bool, err error) {
	committed, err = CommitPagesAuto(ctx, workspaceRoot)
	if err != nil || !committed || !AutoPushEnabled() {
		return committed, false, err
	}

	st, stErr := GetStatus(ctx, workspaceRoot)
	if stErr != nil || !st.IsRepo || st.Unmerged || st.InProgress || strings.TrimSpace(st.Upstream) == "" {
		return committed, false, nil
	}

	if err := Push(ctx, workspaceRoot); err != nil {
		if AutoPullRebaseEnabled() && IsNonFastForwardPushErr(err) {
			_ = PullRebase(ctx, workspaceRoot)
			if err2 := Push(ctx, workspaceRoot); err2 == nil {
				return committed, true, nil
			}
		}
		return committed, false, err
	}
	return committed, true, nil
}

func PullRebase(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, "pull", "--rebase")
	return err
}

func Push(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, "push")
	return err
}

func IsNonFastForwardPushErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{
		"non-fast-forward",
		"fetch first",
		"rejected",
		"updates were rejected",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
