package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"photos-cli/internal/format"
	"photos-cli/internal/store"
)

type doctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check config, server reachability and the offline cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var checks []doctorCheck
			add := func(name string, err error, detail string) {
				c := doctorCheck{Name: name, OK: err == nil, Detail: detail}
				if err != nil {
					c.Detail = err.Error()
				}
				checks = append(checks, c)
			}

			path, err := store.ConfigPath()
			add("config", err, path)

			b, err := app.backend()
			if err != nil {
				add("server", err, "")
			} else {
				start := time.Now()
				raw, err := b.Tree(ctx)
				add("server", err, fmt.Sprintf("%s (%s, %s)",
					b.BaseURL(), time.Since(start).Round(time.Millisecond), plural(len(raw), "root folder")))
				admin, err := b.CanAdmin(ctx)
				detail := "read-only session"
				if admin {
					detail = "admin session"
				}
				add("canAdmin", err, detail)
			}

			cache, err := app.store.OpenCache(ctx, app.metrics)
			add("cache", err, app.store.CachePath())
			_ = cache.Close()

			failed := 0
			for _, c := range checks {
				if !c.OK {
					failed++
				}
			}
			samples, _ := app.metrics.Snapshot()
			if err := writeOut(cmd, app, format.Envelope{
				Data: checks,
				Meta: map[string]any{"failed": failed, "metrics": samples},
			}); err != nil {
				return err
			}
			if fail && failed > 0 {
				return errDoctorFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if a check fails")
	return cmd
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
