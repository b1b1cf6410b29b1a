package cli

import (
	"context"
	"fmt"
	"time"

	"curio-cli/internal/gitrepo"
	"curio-cli/internal/store"

	"github.com/spf13/cobra"
)

// autoCommitBestEffort commits page changes in git-backed workspaces after a
// successful mutation. Failures warn on stderr and never fail the command.
func autoCommitBestEffort(cmd *cobra.Command, s store.Store) {
	if !gitrepo.AutoCommitEnabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	gs, err := gitrepo.GetStatus(ctx, s.Root)
	if err != nil || !gs.IsRepo || gs.Unmerged || gs.InProgress {
		return
	}

	if _, _, err := gitrepo.AutoCommitAndPush(ctx, s.Root); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: auto-commit failed: %v\n", err)
	}
}
