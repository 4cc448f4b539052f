package cli

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"photos-cli/internal/format"
)

type cacheEntryView struct {
	Entry    string     `json:"entry"`
	Present  bool       `json:"present"`
	Items    int        `json:"items"`
	StoredAt *time.Time `json:"storedAt,omitempty"`
	Age      string     `json:"age,omitempty"`
}

func newCacheCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the offline cache",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show what the offline cache holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cache, err := app.store.OpenCache(ctx, app.metrics)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer cache.Close()

			tree, treeOK, err := cache.Tree(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			people, peopleOK, err := cache.People(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			entries := []cacheEntryView{
				describeEntry("tree", treeOK, countNodes(tree.Value), tree.StoredAt),
				describeEntry("people", peopleOK, len(people.Value), people.StoredAt),
			}
			return writeOut(cmd, app, format.Envelope{
				Data: entries,
				Meta: map[string]any{"path": app.store.CachePath()},
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := app.store.OpenCache(cmd.Context(), app.metrics)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer cache.Close()
			if err := cache.Clear(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info("cache cleared")
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{"cleared": true}})
		},
	}

	cmd.AddCommand(show, clearCmd)
	return cmd
}

func describeEntry(name string, ok bool, items int, at time.Time) cacheEntryView {
	v := cacheEntryView{Entry: name, Present: ok}
	if !ok {
		return v
	}
	v.Items = items
	v.StoredAt = &at
	v.Age = humanize.Time(at)
	return v
}
