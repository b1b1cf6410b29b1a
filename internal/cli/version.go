package cli

import (
	"github.com/spf13/cobra"
)

// Version is stamped by the build (-ldflags "-X curio-cli/internal/cli.Version=...").
var Version = "dev"

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the curio version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"version": Version}})
		},
	}
}
