package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CommitPages stages and commits the content of a Curio workspace.
//
// Page markdown and `.curio/workspace.json` are canonical; the SQLite index is
// derived and kept out of the repo via .gitignore. Returns committed=false when
// there is nothing to commit.
func CommitPages(ctx context.Context, workspaceRoot string, message string) (committed bool, err error) {
	workspaceRoot = filepath.Clean(workspaceRoot)

	st, err := GetStatus(ctx, workspaceRoot)
	if err != nil {
		return false, err
	}
	if !st.IsRepo {
		return false, nil
	}
	if st.Unmerged || st.InProgress {
		return false, errors.New("git repo has an in-progress merge/rebase; resolve first")
	}

	if _, err := EnsureGitignoreHasCurioIgnores(filepath.Join(workspaceRoot, ".gitignore")); err != nil {
		return false, err
	}

	if err := stageWorkspace(ctx, workspaceRoot, st.Root); err != nil {
		return false, err
	}

	// Commit only if there's something staged.
	out, err := git(ctx, workspaceRoot, "diff", "--cached", "--name-only")
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(out) == "" {
		return false, nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = fmt.Sprintf("curio: update (%s)", time.Now().UTC().Format(time.RFC3339))
	}

	if _, err := git(ctx, workspaceRoot, "commit", "-m", msg); err != nil {
		return false, err
	}
	return true, nil
}

// CommitPagesAuto commits with a message summarizing the staged page changes,
// falling back to a timestamp message when no summary can be built.
func CommitPagesAuto(ctx context.Context, workspaceRoot string) (committed bool, err error) {
	workspaceRoot = filepath.Clean(workspaceRoot)

	st, err := GetStatus(ctx, workspaceRoot)
	if err != nil || !st.IsRepo {
		return false, err
	}
	if st.Unmerged || st.InProgress {
		return false, nil
	}

	if _, err := EnsureGitignoreHasCurioIgnores(filepath.Join(workspaceRoot, ".gitignore")); err != nil {
		return false, err
	}
	if err := stageWorkspace(ctx, workspaceRoot, st.Root); err != nil {
		return false, err
	}

	summary, _, _ := StagedPageSummary(ctx, workspaceRoot, 6)
	msg := ""
	if strings.TrimSpace(summary) != "" {
		msg = "curio: " + strings.TrimSpace(summary)
	}
	return CommitPages(ctx, workspaceRoot, msg)
}

// stageWorkspace stages the workspace directory relative to the repo root.
// `.curio/index.sqlite*` stays untracked through the gitignore entries above.
func stageWorkspace(ctx context.Context, workspaceRoot string, repoRoot string) error {
	workspaceRoot = filepath.Clean(workspaceRoot)
	repoRoot = filepath.Clean(repoRoot)

	// On macOS, temp dirs may involve symlinks like /var -> /private/var. Git often
	// reports a canonicalized repo root, so normalize both sides before Rel() to avoid
	// "path is outside repository" errors.
	if v, err := filepath.EvalSymlinks(workspaceRoot); err == nil {
		workspaceRoot = v
	}
	if v, err := filepath.EvalSymlinks(repoRoot); err == nil {
		repoRoot = v
	}

	rel, err := filepath.Rel(repoRoot, workspaceRoot)
	if err != nil {
		return err
	}
	rel = filepath.Clean(rel)
	if rel == "" {
		rel = "."
	}

	_, err = git(ctx, repoRoot, "add", "-A", "--", rel)
	return err
}

// EnsureGitignoreHasCurioIgnores appends ignore rules for derived Curio state
// to the workspace .gitignore. The workspace meta file stays tracked; only the
// SQLite index (and its WAL/SHM siblings) is local-only.
func EnsureGitignoreHasCurioIgnores(path string) (updated bool, err error) {
	path = filepath.Clean(strings.TrimSpace(path))
	if path == "" {
		return false, errors.New("empty gitignore path")
	}

	want := []string{
		"# Curio (derived/local-only)",
		".curio/index.sqlite*",
	}

	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	existing := string(b)
	has := map[string]bool{}
	for _, ln := range strings.Split(existing, "\n") {
		has[strings.TrimSpace(ln)] = true
	}

	var toAppend []string
	for _, ln := range want {
		if !has[ln] {
			toAppend = append(toAppend, ln)
		}
	}
	if len(toAppend) == 0 {
		return false, nil
	}

	out := existing
	if strings.TrimSpace(out) != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	out += strings.Join(append([]string{""}, toAppend...), "\n") + "\n"

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
