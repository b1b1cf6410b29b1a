package cli

import (
	"github.com/spf13/cobra"
)

func newReindexCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the sqlite page index from the markdown files",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := s.Reindex(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"root": s.Root, "indexed": n},
			})
		},
	}
	return cmd
}
