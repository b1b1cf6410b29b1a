package cli

import (
	"errors"
	"fmt"
	"strings"

	"curio-cli/internal/frontmatter"
	"curio-cli/internal/model"
	"curio-cli/internal/mutate"
	"curio-cli/internal/store"

	"github.com/spf13/cobra"
)

func newFmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fm",
		Short: "Frontmatter commands (key paths are dot-separated: specs.voltage)",
	}
	cmd.AddCommand(newFmGetCmd(app))
	cmd.AddCommand(newFmSetCmd(app))
	cmd.AddCommand(newFmUnsetCmd(app))
	cmd.AddCommand(newFmRenameKeyCmd(app))
	cmd.AddCommand(newFmAddCmd(app))
	return cmd
}

// splitKeyPath splits "specs.power.voltage" into segments. Keys containing
// literal dots are not addressable from the CLI.
func splitKeyPath(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errInvalidKey(path, "empty")
	}
	segs := strings.Split(path, ".")
	for _, s := range segs {
		if strings.TrimSpace(s) == "" {
			return nil, errInvalidKey(path, "empty segment")
		}
	}
	return segs, nil
}

// nodeAt walks a dot path down through sections.
func nodeAt(root *frontmatter.Fields, segs []string) (frontmatter.Node, error) {
	cur := root
	for i, seg := range segs {
		v, ok := cur.Get(seg)
		if !ok {
			return nil, errNotFound("key", strings.Join(segs[:i+1], "."))
		}
		if i == len(segs)-1 {
			return v, nil
		}
		sec, ok := v.(*frontmatter.Fields)
		if !ok {
			return nil, errInvalidKey(strings.Join(segs[:i+1], "."), "not a section")
		}
		cur = sec
	}
	return nil, errInvalidKey(strings.Join(segs, "."), "empty")
}

// applyAt rebuilds the tree along parentSegs: op transforms the leaf section,
// then every ancestor is re-pointed at its rebuilt child. Sections on the
// path must already exist.
func applyAt(root *frontmatter.Fields, parentSegs []string, op func(*frontmatter.Fields) (*frontmatter.Fields, error)) (*frontmatter.Fields, error) {
	if len(parentSegs) == 0 {
		return op(root)
	}
	head := parentSegs[0]
	v, ok := root.Get(head)
	if !ok {
		return nil, errNotFound("key", head)
	}
	child, ok := v.(*frontmatter.Fields)
	if !ok {
		return nil, errInvalidKey(head, "not a section")
	}
	rebuilt, err := applyAt(child, parentSegs[1:], op)
	if err != nil {
		return nil, err
	}
	out, ok := mutate.SetValue(root, head, rebuilt)
	if !ok {
		return nil, errNotFound("key", head)
	}
	return out, nil
}

// editFrontmatter loads the page, applies op to the root fields, saves and
// reindexes. op returns the replacement tree.
func editFrontmatter(cmd *cobra.Command, app *App, rel string, op func(*frontmatter.Fields) (*frontmatter.Fields, error)) (*model.Page, error) {
	s, err := openStore(app)
	if err != nil {
		return nil, err
	}
	p, err := s.LoadPage(rel)
	if err != nil {
		if errors.Is(err, store.ErrPageNotFound) {
			return nil, errNotFound("page", rel)
		}
		return nil, err
	}
	fields := p.Frontmatter
	if fields == nil {
		fields = frontmatter.NewFields()
	}
	next, err := op(fields)
	if err != nil {
		return nil, err
	}
	p.Frontmatter = next
	if err := s.SavePage(p); err != nil {
		return nil, err
	}
	if err := s.IndexPage(cmd.Context(), p); err != nil {
		return nil, err
	}
	autoCommitBestEffort(cmd, s)
	return p, nil
}

func newFmGetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <path> [key]",
		Short: "Read frontmatter (whole tree, or one key path)",
		Args:  cobra.RangeArgs(1, 2),
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
			fields := p.Frontmatter
			if fields == nil {
				fields = frontmatter.NewFields()
			}

			if len(args) == 1 {
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"path": p.Path, "frontmatter": fields},
					"meta": map[string]any{"rowOrder": mutate.RowOrder(fields)},
				})
			}

			segs, err := splitKeyPath(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			v, err := nodeAt(fields, segs)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": p.Path, "key": args[1], "value": v},
			})
		},
	}
	return cmd
}

func newFmSetCmd(app *App) *cobra.Command {
	var absent bool

	cmd := &cobra.Command{
		Use:   "set <path> <key> [value...]",
		Short: "Set a key (one value: field; several: array; --absent: key without value)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			segs, err := splitKeyPath(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			values := args[2:]

			var node frontmatter.Node
			switch {
			case absent:
				if len(values) != 0 {
					return writeErr(cmd, fmt.Errorf("--absent takes no values"))
				}
				node = nil
			case len(values) == 0:
				return writeErr(cmd, fmt.Errorf("missing value (or pass --absent)"))
			case len(values) == 1:
				node = frontmatter.Scalar(values[0])
			default:
				arr := make(frontmatter.Array, len(values))
				for i, v := range values {
					arr[i] = frontmatter.Scalar(v)
				}
				node = arr
			}

			leafKey := segs[len(segs)-1]
			p, err := editFrontmatter(cmd, app, args[0], func(root *frontmatter.Fields) (*frontmatter.Fields, error) {
				return applyAt(root, segs[:len(segs)-1], func(leaf *frontmatter.Fields) (*frontmatter.Fields, error) {
					if out, ok := mutate.SetValue(leaf, leafKey, node); ok {
						return out, nil
					}
					// New key: append at the end of the section.
					out := leaf.Clone()
					out.Set(leafKey, node)
					return out, nil
				})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": p.Path, "key": args[1], "value": node},
			})
		},
	}

	cmd.Flags().BoolVar(&absent, "absent", false, "Set the key with no value")
	return cmd
}

func newFmUnsetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset <path> <key>",
		Short: "Remove a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			segs, err := splitKeyPath(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			leafKey := segs[len(segs)-1]
			p, err := editFrontmatter(cmd, app, args[0], func(root *frontmatter.Fields) (*frontmatter.Fields, error) {
				return applyAt(root, segs[:len(segs)-1], func(leaf *frontmatter.Fields) (*frontmatter.Fields, error) {
					out, ok := mutate.RemoveKey(leaf, leafKey)
					if !ok {
						return nil, errNotFound("key", args[1])
					}
					return out, nil
				})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": p.Path, "removed": args[1]},
			})
		},
	}
	return cmd
}

func newFmRenameKeyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename-key <path> <key> <new-name>",
		Short: "Rename a key in place (value and position survive)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			segs, err := splitKeyPath(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			newName := strings.TrimSpace(args[2])
			if strings.Contains(newName, ".") {
				return writeErr(cmd, errInvalidKey(args[2], "new name must be a single segment"))
			}
			leafKey := segs[len(segs)-1]
			p, err := editFrontmatter(cmd, app, args[0], func(root *frontmatter.Fields) (*frontmatter.Fields, error) {
				return applyAt(root, segs[:len(segs)-1], func(leaf *frontmatter.Fields) (*frontmatter.Fields, error) {
					out, ok := mutate.RenameKey(leaf, leafKey, newName)
					if !ok {
						return nil, errInvalidKey(args[1], "rename rejected (empty, unchanged, duplicate or unknown key)")
					}
					return out, nil
				})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": p.Path, "from": args[1], "to": newName},
			})
		},
	}
	return cmd
}

func newFmAddCmd(app *App) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "add <path> [section]",
		Short: "Add a field, array or section with a generated key",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind = strings.ToLower(strings.TrimSpace(kind))
			if kind == "" {
				kind = "field"
			}
			if kind != "field" && kind != "array" && kind != "section" {
				return writeErr(cmd, fmt.Errorf("invalid kind %q (expected field|array|section)", kind))
			}

			var parentSegs []string
			if len(args) == 2 {
				segs, err := splitKeyPath(args[1])
				if err != nil {
					return writeErr(cmd, err)
				}
				parentSegs = segs
			}

			var addedKey string
			p, err := editFrontmatter(cmd, app, args[0], func(root *frontmatter.Fields) (*frontmatter.Fields, error) {
				return applyAt(root, parentSegs, func(leaf *frontmatter.Fields) (*frontmatter.Fields, error) {
					var res mutate.AddResult
					switch kind {
					case "field":
						res = mutate.AddField(leaf)
					case "array":
						res = mutate.AddArray(leaf)
					default:
						res = mutate.AddSection(leaf)
					}
					addedKey = res.Key
					return res.Fields, nil
				})
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			full := addedKey
			if len(parentSegs) > 0 {
				full = strings.Join(parentSegs, ".") + "." + addedKey
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": p.Path, "key": full, "kind": kind},
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "field", "What to add (field|array|section)")
	return cmd
}
