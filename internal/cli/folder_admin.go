package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"photos-cli/internal/format"
	"photos-cli/internal/gallery"
	"photos-cli/internal/model"
	"photos-cli/internal/treefilter"
)

// openAdminFolder loads a folder for a destructive operation. The tree supplies the
// folder's tags endpoint and path, which the folder payload does not carry.
func openAdminFolder(cmd *cobra.Command, app *App, link string) (*gallery.Controller, error) {
	b, err := app.backend()
	if err != nil {
		return nil, err
	}
	var (
		canAdmin bool
		raw      []model.RawFolder
	)
	g, gctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		canAdmin, err = b.CanAdmin(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		raw, err = b.Tree(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !canAdmin {
		return nil, gallery.ErrNotAdmin
	}

	key := b.Resolve(link)
	req := model.LoadRequest{Key: key}
	if n, ok := treefilter.Find(treefilter.Adapt(b.BaseURL(), raw), key); ok {
		req = model.LoadRequest{Key: n.Key, TagsURL: n.TagsURL, Path: n.Path, Title: n.Title}
	}
	return loadFolder(cmd, app, b, req, true)
}

func newFolderTagCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder-tag",
		Short: "Add, recolor or remove folder tags",
	}

	var color string
	add := &cobra.Command{
		Use:   "add <folder-url> <value>",
		Short: "Add a tag to a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFolderTag(cmd, app, args[0], func(g *gallery.Controller) (gallery.Ticket, string, model.RawTag, error) {
				return g.BeginAddTag(args[1], color)
			})
		},
	}
	add.Flags().StringVar(&color, "color", "", "Tag color (#rrggbb or a name; default green)")

	var newColor string
	recolor := &cobra.Command{
		Use:   "recolor <folder-url> <value>",
		Short: "Change the color of a folder tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFolderTag(cmd, app, args[0], func(g *gallery.Controller) (gallery.Ticket, string, model.RawTag, error) {
				return g.BeginRecolorTag(args[1], newColor)
			})
		},
	}
	recolor.Flags().StringVar(&newColor, "color", "", "New color (#rrggbb or a name)")
	_ = recolor.MarkFlagRequired("color")

	remove := &cobra.Command{
		Use:   "remove <folder-url> <value>",
		Short: "Remove a tag from a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFolderTag(cmd, app, args[0], func(g *gallery.Controller) (gallery.Ticket, string, model.RawTag, error) {
				return g.BeginRemoveTag(args[1])
			})
		},
	}

	cmd.AddCommand(add, recolor, remove)
	return cmd
}

func runFolderTag(cmd *cobra.Command, app *App, link string, begin func(*gallery.Controller) (gallery.Ticket, string, model.RawTag, error)) error {
	g, err := openAdminFolder(cmd, app, link)
	if err != nil {
		return writeErr(cmd, err)
	}
	t, url, tag, err := begin(g)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := g.ApplyTag(g.SaveTag(cmd.Context(), t, url, tag)); err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, format.Envelope{Data: g.State().Folder.Tags})
}

func newFolderAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder-admin",
		Short: "Folder maintenance: rescan, refresh EXIF, remove, edit details",
	}

	action := func(use, short string, a gallery.Action) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <folder-url>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				g, err := openAdminFolder(cmd, app, args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				t, link, err := g.BeginAction(a)
				if err != nil {
					return writeErr(cmd, err)
				}
				if _, err := g.ApplyAction(g.RunAction(cmd.Context(), t, a, link)); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, format.Envelope{Data: map[string]any{"action": string(a), "folder": args[0], "ok": true}})
			},
		}
	}

	var (
		title       string
		description string
	)
	edit := &cobra.Command{
		Use:   "edit <folder-url>",
		Short: "Set the title and description of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := openAdminFolder(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			cur := g.State().Folder
			if !cmd.Flags().Changed("title") {
				title = cur.Title
			}
			if !cmd.Flags().Changed("description") {
				description = cur.Description
			}
			t, d, err := g.BeginEditDetails(title, description)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := g.ApplyDetails(g.EditDetails(cmd.Context(), t, d)); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: g.State().Folder})
		},
	}
	edit.Flags().StringVar(&title, "title", "", "Folder title")
	edit.Flags().StringVar(&description, "description", "", "Folder description (markdown)")

	var group int
	del := &cobra.Command{
		Use:   "delete <folder-url> <image>...",
		Short: "Delete images of a folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := openAdminFolder(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if group >= 0 {
				if err := g.SelectGroup(group); err != nil {
					return writeErr(cmd, err)
				}
			}
			for _, name := range args[1:] {
				idx := indexOfImage(g.State().Images, name)
				if idx < 0 {
					return writeErr(cmd, errNotFound("image", name))
				}
				if !g.State().Images[idx].Selected {
					g.Select(idx)
				}
			}
			t, paths, err := g.BeginDelete()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := g.ApplyDelete(g.Delete(cmd.Context(), t, paths)); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{
				Data: paths,
				Meta: map[string]any{"deleted": len(paths), "remaining": len(g.State().OriginalImages)},
			})
		},
	}
	del.Flags().IntVar(&group, "group", -1, "Timeline group index (multi-folder results only)")

	cmd.AddCommand(
		del,
		action("update", "Rescan a folder on the server", gallery.ActionUpdate),
		action("exif", "Refresh EXIF data of a folder", gallery.ActionUpdateExif),
		action("remove", "Remove an empty folder", gallery.ActionRemoveFolder),
		edit,
	)
	return cmd
}
