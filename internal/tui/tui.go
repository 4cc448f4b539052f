package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"photos-cli/internal/gallery"
	"photos-cli/internal/logging"
	"photos-cli/internal/metrics"
	"photos-cli/internal/model"
	"photos-cli/internal/store"
)

// Backend is everything the browser needs from the photo server.
type Backend interface {
	gallery.Backend
	BaseURL() string
	Tree(ctx context.Context) ([]model.RawFolder, error)
	FilterTags(ctx context.Context, value string) ([]string, error)
	FoldersByPerson(ctx context.Context, id model.PersonID) ([]int, error)
	People(ctx context.Context) ([]model.Person, error)
	CanAdmin(ctx context.Context) (bool, error)
}

type Options struct {
	Backend Backend
	Store   store.Store
	// Cache may be nil; the browser then starts empty until the server answers.
	Cache   *store.Cache
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Config  *store.GlobalConfig
}

// Run starts the full-screen browser and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Backend == nil {
		return errors.New("tui: no backend")
	}
	log := logging.OrNop(opts.Logger)
	opts.Logger = log

	applyThemePreference()
	applyColorProfilePreference()
	glyphPref := ""
	if opts.Config != nil && opts.Config.TUI != nil {
		glyphPref = opts.Config.TUI.Glyphs
	}
	applyGlyphPreference(glyphPref)

	st, err := opts.Store.LoadTUIState()
	if err != nil {
		log.Warn("load tui state", zap.Error(err))
		st = &store.TUIState{}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newAppModel(ctx, opts, st)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(appModel); ok {
		if serr := opts.Store.SaveTUIState(fm.tuiState()); serr != nil {
			log.Warn("save tui state", zap.Error(serr))
		}
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
