package cli

import (
	"errors"
	"strings"

	"curio-cli/internal/frontmatter"
	"curio-cli/internal/model"
	"curio-cli/internal/store"

	"github.com/spf13/cobra"
)

func newPagesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Page commands",
	}
	cmd.AddCommand(newPagesListCmd(app))
	cmd.AddCommand(newPagesShowCmd(app))
	cmd.AddCommand(newPagesCreateCmd(app))
	cmd.AddCommand(newPagesRenameCmd(app))
	cmd.AddCommand(newPagesDeleteCmd(app))
	return cmd
}

// pagePayload is the full envelope body for one page: frontmatter and body
// are deliberately not part of model.Page's own JSON shape.
func pagePayload(p *model.Page) map[string]any {
	fm := p.Frontmatter
	if fm == nil {
		fm = frontmatter.NewFields()
	}
	return map[string]any{
		"path":        p.Path,
		"title":       p.Title,
		"type":        model.PageType(p.Frontmatter),
		"frontmatter": fm,
		"body":        p.Body,
		"modTime":     p.ModTime,
		"size":        p.Size,
	}
}

func newPagesListCmd(app *App) *cobra.Command {
	var pageType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pages in the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			refs, err := s.ListPages()
			if err != nil {
				return writeErr(cmd, err)
			}
			if t := strings.TrimSpace(pageType); t != "" {
				filtered := make([]model.PageRef, 0, len(refs))
				for _, r := range refs {
					if r.Type == t {
						filtered = append(filtered, r)
					}
				}
				refs = filtered
			}
			return writeOut(cmd, app, map[string]any{
				"data": refs,
				"meta": map[string]any{"count": len(refs)},
			})
		},
	}

	cmd.Flags().StringVar(&pageType, "type", "", "Only pages with this frontmatter type")
	return cmd
}

func newPagesShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Show one page (frontmatter + body)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := s.LoadPage(args[0])
			if err != nil {
				if errors.Is(err, store.ErrPageNotFound) {
					return writeErr(cmd, errNotFound("page", args[0]))
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": pagePayload(p)})
		},
	}
	return cmd
}

func newPagesCreateCmd(app *App) *cobra.Command {
	var title string
	var pageType string
	var body string
	var inDir string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			fields := frontmatter.NewFields()
			fields.Set("title", frontmatter.Scalar(strings.TrimSpace(title)))
			if t := strings.TrimSpace(pageType); t != "" {
				fields.Set("type", frontmatter.Scalar(t))
			}

			p, err := s.CreatePage(inDir, title, fields, body)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.IndexPage(cmd.Context(), p); err != nil {
				return writeErr(cmd, err)
			}
			autoCommitBestEffort(cmd, s)
			return writeOut(cmd, app, map[string]any{"data": pagePayload(p)})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Page title")
	cmd.Flags().StringVar(&pageType, "type", "", "Frontmatter type scalar")
	cmd.Flags().StringVar(&body, "body", "", "Initial body")
	cmd.Flags().StringVar(&inDir, "in", "", "Workspace-relative directory for the new page")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newPagesRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <path> <new-path>",
		Short: "Move a page to a new path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.RenamePage(args[0], args[1]); err != nil {
				if errors.Is(err, store.ErrPageNotFound) {
					return writeErr(cmd, errNotFound("page", args[0]))
				}
				return writeErr(cmd, err)
			}
			_ = s.RemoveFromIndex(cmd.Context(), args[0])
			if p, err := s.LoadPage(args[1]); err == nil {
				_ = s.IndexPage(cmd.Context(), p)
			}
			autoCommitBestEffort(cmd, s)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"from": args[0], "to": args[1]},
			})
		},
	}
	return cmd
}

func newPagesDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.DeletePage(args[0]); err != nil {
				if errors.Is(err, store.ErrPageNotFound) {
					return writeErr(cmd, errNotFound("page", args[0]))
				}
				return writeErr(cmd, err)
			}
			_ = s.RemoveFromIndex(cmd.Context(), args[0])
			autoCommitBestEffort(cmd, s)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": args[0]},
			})
		},
	}
	return cmd
}
