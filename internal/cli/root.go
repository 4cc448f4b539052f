package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"photos-cli/internal/api"
	"photos-cli/internal/format"
	"photos-cli/internal/logging"
	"photos-cli/internal/metrics"
	"photos-cli/internal/store"
	"photos-cli/internal/tui"
)

type App struct {
	Server     string
	Root       string
	PrettyJSON bool
	Format     string
	LogFile    string
	LogLevel   string

	config  *store.GlobalConfig
	store   store.Store
	log     *zap.Logger
	metrics *metrics.Metrics
	client  *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "photos",
		Short:        "Photo archive browser (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Point the client at a server once
  photos config set serverUrl http://nas:8080

  # Start the interactive browser
  photos

  # Scriptable commands
  photos tree --filter holidays
  photos folder /browserf/2024/trip
  photos tag --folder /browserf/2024/trip --person 3 --toggle IMG_0001.jpg --toggle IMG_0002.jpg
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			_ = app.log.Sync()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("PHOTOS_SERVER", ""), "Photos server base URL (overrides serverUrl in config.json)")
	cmd.PersistentFlags().StringVar(&app.Root, "root", envOr("PHOTOS_ROOT", ""), "Folder tree endpoint, relative to the server (default /rootFolders)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PHOTOS_FORMAT", ""), "Output format (json|edn)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("PHOTOS_LOG_FILE", ""), "Log file (\"-\" disables logging)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("PHOTOS_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newFolderCmd(app))
	cmd.AddCommand(newPeopleCmd(app))
	cmd.AddCommand(newTagCmd(app))
	cmd.AddCommand(newFolderTagCmd(app))
	cmd.AddCommand(newFolderAdminCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newCacheCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup resolves flags against config.json and builds the logger. The server client
// is built lazily so that config commands work before a server is configured.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.config = cfg
	st, err := store.Default()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.store = st

	if app.Format == "" {
		app.Format = cfg.Format
	}
	if err := format.Check(app.Format); err != nil {
		return writeErr(cmd, err)
	}
	if app.LogLevel == "" {
		app.LogLevel = cfg.LogLevel
	}
	if app.LogFile == "" {
		app.LogFile = cfg.LogFile
	}

	log, err := logging.New(logging.Config{Level: app.LogLevel, Path: st.LogPath(app.LogFile)})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
		log = zap.NewNop()
	}
	app.log = log.With(zap.String("command", cmd.CommandPath()))
	app.metrics = metrics.New()
	return nil
}

// backend returns the server client, or an error naming how to configure one.
func (app *App) backend() (*api.Client, error) {
	if app.client != nil {
		return app.client, nil
	}
	server := strings.TrimSpace(app.Server)
	if server == "" && app.config != nil {
		server = app.config.ServerURL
	}
	if server == "" {
		return nil, errNoServer
	}
	root := strings.TrimSpace(app.Root)
	if root == "" && app.config != nil {
		root = app.config.RootURL
	}
	app.client = api.New(api.Config{
		BaseURL:  server,
		RootPath: root,
		Logger:   app.log,
		Metrics:  app.metrics,
	})
	return app.client, nil
}

// openCache opens the offline cache. Failures degrade to no cache.
func (app *App) openCache(ctx context.Context) *store.Cache {
	c, err := app.store.OpenCache(ctx, app.metrics)
	if err != nil {
		app.log.Warn("open cache", zap.String("path", app.store.CachePath()), zap.Error(err))
		return nil
	}
	return c
}

func runTUI(ctx context.Context, app *App) error {
	b, err := app.backend()
	if err != nil {
		return err
	}
	cache := app.openCache(ctx)
	defer cache.Close()
	return tui.Run(ctx, tui.Options{
		Backend: b,
		Store:   app.store,
		Cache:   cache,
		Logger:  app.log,
		Metrics: app.metrics,
		Config:  app.config,
	})
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
