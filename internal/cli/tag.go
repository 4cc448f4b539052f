package cli

import (
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"photos-cli/internal/format"
	"photos-cli/internal/gallery"
	"photos-cli/internal/model"
	"photos-cli/internal/selection"
	"photos-cli/internal/tagging"
)

type tagResult struct {
	Person   model.Person          `json:"person"`
	Folder   model.FolderID        `json:"folder"`
	Changes  []model.TagAssignment `json:"changes"`
	Assigned int                   `json:"assigned"`
	Saved    bool                  `json:"saved"`
}

func newTagCmd(app *App) *cobra.Command {
	var (
		folderURL string
		person    int
		toggles   []string
		group     int
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag or untag a person on images of a folder",
		Long: "Toggle a person on the named images of a folder and save the difference against the\n" +
			"server's current tags in one request. Images already tagged are untagged.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()

			var (
				people   []model.Person
				canAdmin bool
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				people, err = b.People(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				canAdmin, err = b.CanAdmin(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return writeErr(cmd, err)
			}
			if !canAdmin {
				return writeErr(cmd, gallery.ErrNotAdmin)
			}

			var who model.Person
			found := false
			for _, p := range people {
				if p.ID == model.PersonID(person) {
					who, found = p, true
					break
				}
			}
			if !found {
				return writeErr(cmd, errNotFound("person", strconv.Itoa(person)))
			}

			gc, err := loadFolder(cmd, app, b, model.LoadRequest{Key: b.Resolve(folderURL)}, true)
			if err != nil {
				return writeErr(cmd, err)
			}
			gc.SetPeople(people)
			if group >= 0 {
				if err := gc.SelectGroup(group); err != nil {
					return writeErr(cmd, err)
				}
			}
			t, fetch, err := gc.SetMode(selection.KindTagAssign)
			if err != nil {
				return writeErr(cmd, err)
			}
			if fetch {
				if err := gc.ApplyBaseline(gc.FetchBaseline(ctx, t, gc.FolderID())); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := gc.SelectPerson(who); err != nil {
				return writeErr(cmd, err)
			}

			for _, name := range toggles {
				idx := indexOfImage(gc.State().Images, name)
				if idx < 0 {
					return writeErr(cmd, errNotFound("image", name))
				}
				gc.Select(idx)
			}

			res := tagResult{
				Person:  who,
				Folder:  gc.FolderID(),
				Changes: tagging.SavePayload(gc.State().Tagging),
			}
			if res.Changes == nil {
				res.Changes = []model.TagAssignment{}
			}
			if !dryRun && len(res.Changes) > 0 {
				if err := gc.SaveNow(ctx); err != nil {
					return writeErr(cmd, err)
				}
				res.Saved = true
			}
			res.Assigned, _ = tagging.CountAssigned(gc.State().Tagging, who.ID)
			return writeOut(cmd, app, format.Envelope{Data: res, Meta: map[string]any{"dryRun": dryRun}})
		},
	}

	cmd.Flags().StringVar(&folderURL, "folder", "", "Folder URL (as printed by `photos tree`)")
	cmd.Flags().IntVar(&person, "person", 0, "Person id (see `photos people list`)")
	cmd.Flags().StringArrayVar(&toggles, "toggle", nil, "Image name to toggle (repeatable)")
	cmd.Flags().IntVar(&group, "group", -1, "Timeline group index (multi-folder results only)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the change set without saving it")
	_ = cmd.MarkFlagRequired("folder")
	_ = cmd.MarkFlagRequired("person")
	return cmd
}

// indexOfImage finds an image by name, or by its full path.
func indexOfImage(images []model.MediaItem, name string) int {
	for i, it := range images {
		if it.Name == name || it.Path == name {
			return i
		}
	}
	for i, it := range images {
		if model.Basename(it.Path) == model.Basename(name) {
			return i
		}
	}
	return -1
}
