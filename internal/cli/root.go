package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"curio-cli/internal/format"
	"curio-cli/internal/store"
	"curio-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "curio",
		Short:        "Curio (local-first wiki) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI in the enclosing workspace
  curio

  # Scriptable commands
  curio pages list

  # Frontmatter edits from scripts
  curio fm set garage/drill.md specs.voltage 18V

  # Direct page lookup (shortcut for: curio pages show <path>)
  curio garage/drill.md
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// An explicit --workspace outranks a CURIO_DIR picked up from the
		// environment. An explicit --dir still outranks everything.
		if c.Flags().Changed("workspace") && !c.Flags().Changed("dir") {
			app.Dir = ""
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("CURIO_DIR", ""), "Workspace root (overrides discovery and --workspace)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("CURIO_WORKSPACE", ""), "Registered workspace name")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CURIO_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newPagesCmd(app))
	cmd.AddCommand(newFmCmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newReindexCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newWebtuiCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

func runTUI(app *App) error {
	s, err := openStore(app)
	if err != nil {
		return err
	}
	return tui.Run(s)
}

// resolveRoot picks the workspace root:
// 1) --dir
// 2) --workspace (registered name)
// 3) upward discovery from the cwd, else the registered current workspace
func resolveRoot(app *App) (string, error) {
	if dir := strings.TrimSpace(app.Dir); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		return abs, nil
	}
	if app.Workspace != "" {
		return store.WorkspaceDir(app.Workspace)
	}
	return store.DefaultRoot()
}

func openStore(app *App) (store.Store, error) {
	root, err := resolveRoot(app)
	if err != nil {
		return store.Store{}, err
	}
	s := store.Store{Root: root}
	if !s.IsWorkspace() {
		return s, fmt.Errorf("not a workspace: %s (run `curio init` there first)", root)
	}
	return s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
