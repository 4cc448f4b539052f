package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"photos-cli/internal/api"
	"photos-cli/internal/format"
	"photos-cli/internal/model"
	"photos-cli/internal/treefilter"
)

type flatFolder struct {
	ID        int    `json:"id"`
	Key       string `json:"key"`
	Title     string `json:"title"`
	Path      string `json:"path,omitempty"`
	Depth     int    `json:"depth"`
	HasImages bool   `json:"hasImages"`
}

func flatten(nodes []model.FolderNode, depth int, out []flatFolder) []flatFolder {
	for _, n := range nodes {
		out = append(out, flatFolder{ID: n.ID, Key: n.Key, Title: n.Title, Path: n.Path, Depth: depth, HasImages: n.HasImages || n.IsLeaf()})
		out = flatten(n.Children, depth+1, out)
	}
	return out
}

func countNodes(nodes []model.FolderNode) int {
	n := 0
	for _, c := range nodes {
		n += 1 + countNodes(c.Children)
	}
	return n
}

func newTreeCmd(app *App) *cobra.Command {
	var (
		filter string
		person int
		flat   bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the folder tree, optionally filtered by text or person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()

			var (
				raw         []model.RawFolder
				treeErr     error
				serverPaths []string
				folderIDs   []int
			)
			// The tree and the filter lookups are independent; fetch them together.
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				raw, treeErr = b.Tree(gctx)
				return nil
			})
			if filter != "" {
				g.Go(func() error {
					var err error
					serverPaths, err = b.FilterTags(gctx, filter)
					return err
				})
			}
			if person > 0 {
				g.Go(func() error {
					var err error
					folderIDs, err = b.FoldersByPerson(gctx, model.PersonID(person))
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return writeErr(cmd, err)
			}

			meta := map[string]any{"source": "server"}
			cache := app.openCache(ctx)
			defer cache.Close()

			var roots []model.FolderNode
			switch {
			case api.IsDecode(treeErr):
				app.log.Warn("unreadable folder tree, showing none", zap.Error(treeErr))
				roots = []model.FolderNode{}
				meta["degraded"] = true
			case treeErr != nil:
				entry, ok, cerr := cache.Tree(ctx)
				if cerr != nil || !ok || !api.IsNetwork(treeErr) {
					return writeErr(cmd, treeErr)
				}
				app.log.Warn("tree fetch failed, using cache", zap.Error(treeErr))
				roots = entry.Value
				meta["source"] = "cache"
				meta["storedAt"] = entry.StoredAt.Format(time.RFC3339)
			default:
				roots = treefilter.Adapt(b.BaseURL(), raw)
				if err := cache.PutTree(ctx, roots); err != nil {
					app.log.Warn("cache tree", zap.Error(err))
				}
			}

			engine := treefilter.NewEngine(roots)
			if filter != "" {
				roots = engine.FilterText(filter, serverPaths)
				meta["filter"] = filter
			}
			if person > 0 {
				id := model.PersonID(person)
				engine.TogglePerson(id)
				engine.ApplyPerson(id, folderIDs)
				roots = engine.Tree()
				meta["person"] = strconv.Itoa(person)
			}
			meta["folders"] = countNodes(roots)
			meta["total"] = countNodes(engine.Original())

			var data any = roots
			if flat {
				data = flatten(roots, 0, []flatFolder{})
			}
			return writeOut(cmd, app, format.Envelope{Data: data, Meta: meta})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Keep folders whose name or tags match (ancestors are kept)")
	cmd.Flags().IntVar(&person, "person", 0, "Keep folders where this person id is tagged")
	cmd.Flags().BoolVar(&flat, "flat", false, "Print one row per folder instead of a nested tree")
	cmd.MarkFlagsMutuallyExclusive("filter", "person")
	return cmd
}
