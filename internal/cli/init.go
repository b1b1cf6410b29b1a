package cli

import (
	"os"
	"path/filepath"
	"strings"

	"curio-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var name string
	var register bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Mark a directory as a curio workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := strings.TrimSpace(app.Dir)
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return writeErr(cmd, err)
				}
				dir = cwd
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return writeErr(cmd, err)
			}

			s := store.Store{Root: abs}
			meta, err := s.Init(name)
			if err != nil {
				return writeErr(cmd, err)
			}

			if register {
				if err := store.RegisterWorkspace(meta.Name, abs); err != nil {
					return writeErr(cmd, err)
				}
				// First registered workspace becomes the current one.
				if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace == "" {
					cfg.CurrentWorkspace = meta.Name
					_ = store.SaveConfig(cfg)
				}
			}

			if _, err := s.Reindex(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"root":       abs,
					"name":       meta.Name,
					"registered": register,
					"indexPath":  filepath.Join(abs, ".curio", "index.sqlite"),
				},
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Workspace name (default: directory name)")
	cmd.Flags().BoolVar(&register, "register", true, "Add the workspace to the global registry")
	return cmd
}
