package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"photos-cli/internal/api"
	"photos-cli/internal/format"
	"photos-cli/internal/gallery"
	"photos-cli/internal/model"
)

type groupView struct {
	Index int       `json:"index"`
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Count int       `json:"count"`
	First time.Time `json:"first"`
}

type folderView struct {
	Folder      model.FolderInfo  `json:"folder"`
	MultiFolder bool              `json:"multiFolder"`
	Groups      []groupView       `json:"groups,omitempty"`
	Images      []model.MediaItem `json:"images"`
}

// loadFolder opens one folder through the gallery controller, the same path the TUI takes.
func loadFolder(cmd *cobra.Command, app *App, b *api.Client, req model.LoadRequest, canAdmin bool) (*gallery.Controller, error) {
	g := gallery.New(b, gallery.Options{
		Logger:   app.log,
		Metrics:  app.metrics,
		CanAdmin: canAdmin,
	})
	if err := g.Load(cmd.Context(), req); err != nil {
		return nil, err
	}
	return g, nil
}

func newFolderCmd(app *App) *cobra.Command {
	var group int

	cmd := &cobra.Command{
		Use:   "folder <url>",
		Short: "List the images of a folder",
		Long: "List the images of a folder. Folders that gather images from several source folders\n" +
			"are grouped into a timeline; pass --group to list one group.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			g, err := loadFolder(cmd, app, b, model.LoadRequest{Key: b.Resolve(args[0])}, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			if group >= 0 {
				if err := g.SelectGroup(group); err != nil {
					return writeErr(cmd, fmt.Errorf("group %d: %w", group, err))
				}
			}

			st := g.State()
			view := folderView{Folder: st.Folder, MultiFolder: st.ShowTimeline, Images: st.Images}
			meta := map[string]any{"images": len(st.Images), "total": len(st.OriginalImages)}
			if tl := st.Timeline; tl != nil {
				view.Groups = make([]groupView, 0, tl.Len())
				for i, gr := range tl.Groups {
					view.Groups = append(view.Groups, groupView{
						Index: i,
						Key:   gr.Key,
						Label: gr.Label,
						Count: len(gr.Items),
						First: gr.First().Date,
					})
				}
				meta["selectedGroup"] = tl.Selected()
			}
			return writeOut(cmd, app, format.Envelope{Data: view, Meta: meta})
		},
	}

	cmd.Flags().IntVar(&group, "group", -1, "Timeline group index to list (multi-folder results only)")
	return cmd
}
