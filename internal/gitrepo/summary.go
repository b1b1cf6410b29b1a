package gitrepo

import (
	"context"
	"fmt"
	"strings"
)

type pageChange struct {
	Kind string // add|edit|delete|rename
	Path string
	To   string // rename target
}

// StagedPageSummary inspects staged markdown changes and produces a compact
// human summary for commit messages, e.g. `edit garage/drill.md; add notes/todo.md`.
// Best-effort: failures return an empty summary.
func StagedPageSummary(ctx context.Context, workspaceRoot string, maxPaths int) (summary string, counts map[string]int, err error) {
	st, err := GetStatus(ctx, workspaceRoot)
	if err != nil {
		return "", nil, err
	}
	if !st.IsRepo {
		return "", map[string]int{}, nil
	}
	if maxPaths <= 0 {
		maxPaths = 6
	}

	out, err := git(ctx, workspaceRoot, "diff", "--cached", "--name-status", "-M", "--no-color", "--", "*.md")
	if err != nil {
		return "", nil, err
	}

	changes := parseNameStatus(out)
	if len(changes) == 0 {
		return "", map[string]int{}, nil
	}

	counts = map[string]int{}
	phrases := make([]string, 0, maxPaths)
	for _, c := range changes {
		counts[c.Kind]++
		if len(phrases) >= maxPaths {
			continue
		}
		switch c.Kind {
		case "rename":
			phrases = append(phrases, fmt.Sprintf("rename %s -> %s", c.Path, c.To))
		default:
			phrases = append(phrases, c.Kind+" "+c.Path)
		}
	}
	if len(changes) > maxPaths {
		phrases = append(phrases, fmt.Sprintf("+%d more", len(changes)-maxPaths))
	}
	return strings.Join(phrases, "; "), counts, nil
}

// parseNameStatus reads `git diff --name-status` output. Lines look like
// `M\tpath`, `A\tpath`, `D\tpath` or `R100\told\tnew`.
func parseNameStatus(out string) []pageChange {
	var changes []pageChange
	for _, ln := range strings.Split(out, "\n") {
		ln = strings.TrimRight(ln, "\r")
		if strings.TrimSpace(ln) == "" {
			continue
		}
		fields := strings.Split(ln, "\t")
		if len(fields) < 2 {
			continue
		}
		code := strings.TrimSpace(fields[0])
		if code == "" {
			continue
		}
		switch code[0] {
		case 'A':
			changes = append(changes, pageChange{Kind: "add", Path: fields[1]})
		case 'M':
			changes = append(changes, pageChange{Kind: "edit", Path: fields[1]})
		case 'D':
			changes = append(changes, pageChange{Kind: "delete", Path: fields[1]})
		case 'R':
			if len(fields) >= 3 {
				changes = append(changes, pageChange{Kind: "rename", Path: fields[1], To: fields[2]})
			}
		case 'C':
			if len(fields) >= 3 {
				changes = append(changes, pageChange{Kind: "add", Path: fields[2]})
			}
		default:
			changes = append(changes, pageChange{Kind: "edit", Path: fields[1]})
		}
	}
	return changes
}
