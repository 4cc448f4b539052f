package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"photos-cli/internal/api"
	"photos-cli/internal/format"
	"photos-cli/internal/model"
	"photos-cli/internal/tagging"
)

func newPeopleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "List or add people used for tagging",
	}
	cmd.AddCommand(newPeopleListCmd(app))
	cmd.AddCommand(newPeopleAddCmd(app))
	return cmd
}

func newPeopleListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the people catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			cache := app.openCache(ctx)
			defer cache.Close()

			meta := map[string]any{"source": "server"}
			people, err := b.People(ctx)
			if err != nil {
				entry, ok, cerr := cache.People(ctx)
				if cerr != nil || !ok || !api.IsNetwork(err) {
					return writeErr(cmd, err)
				}
				app.log.Warn("people fetch failed, using cache", zap.Error(err))
				people = entry.Value
				meta["source"] = "cache"
				meta["storedAt"] = entry.StoredAt.Format(time.RFC3339)
			} else if err := cache.PutPeople(ctx, people); err != nil {
				app.log.Warn("cache people", zap.Error(err))
			}
			if people == nil {
				people = []model.Person{}
			}
			meta["count"] = len(people)
			return writeOut(cmd, app, format.Envelope{Data: people, Meta: meta})
		},
	}
}

func newPeopleAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a person to the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if err := tagging.ValidatePersonName(name); err != nil {
				return writeErr(cmd, err)
			}
			b, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := b.AddPerson(cmd.Context(), name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: p})
		},
	}
}
