package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"photos-cli/internal/gallery"
	"photos-cli/internal/logging"
	"photos-cli/internal/metrics"
	"photos-cli/internal/model"
	"photos-cli/internal/selection"
	"photos-cli/internal/store"
	"photos-cli/internal/treefilter"
)

type pane int

const (
	paneTree pane = iota
	paneGrid
)

func (p pane) String() string {
	if p == paneGrid {
		return "grid"
	}
	return "tree"
}

const sidePanelWidth = 30

type appModel struct {
	ctx     context.Context
	backend Backend
	gallery *gallery.Controller
	cache   *store.Cache
	store   store.Store
	log     *zap.Logger
	metrics *metrics.Metrics
	keys    keyMap
	help    help.Model

	width  int
	height int
	pane   pane

	filter *treefilter.Engine
	tree   treePane
	grid   gridPane
	// treeSeq orders text filter requests; only the latest answer is applied.
	treeSeq int

	serverName string
	offline    bool
	// treeLive and peopleLive are set once the server answered; cached data never
	// overwrites live data.
	treeLive     bool
	peopleLive   bool
	treeCachedAt time.Time

	modal        modalKind
	pickPurpose  pickPurpose
	tagPurpose   tagPurpose
	confirmFocus confirmModalFocus
	picker       list.Model
	input        textinput.Model
	input2       textinput.Model
	inputFocus   int
	pendingTag   model.Tag
	previewIndex int

	pendingDelete      gallery.Ticket
	pendingDeletePaths []string

	flashText string
	flashSeq  int

	lastFolder *model.LoadRequest
}

func newAppModel(ctx context.Context, opts Options, st *store.TUIState) appModel {
	charWidth := 0
	if opts.Config != nil && opts.Config.TUI != nil {
		charWidth = opts.Config.TUI.CharWidth
	}
	log := logging.OrNop(opts.Logger)
	m := appModel{
		ctx:     ctx,
		backend: opts.Backend,
		gallery: gallery.New(opts.Backend, gallery.Options{
			Logger:    log,
			Metrics:   opts.Metrics,
			CharWidth: charWidth,
		}),
		cache:      opts.Cache,
		store:      opts.Store,
		log:        log,
		metrics:    opts.Metrics,
		keys:       newKeyMap(),
		help:       help.New(),
		filter:     treefilter.NewEngine(nil),
		tree:       newTreePane(st.ExpandedSet()),
		grid:       gridPane{cards: !st.HideThumbnails},
		serverName: opts.Backend.BaseURL(),
		input:      newInput("", 120),
		input2:     newInput("", 2000),
		lastFolder: st.LastFolder,
	}
	if st.Pane == paneGrid.String() {
		m.pane = paneGrid
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCachedCmd(), m.fetchTreeCmd(), m.fetchPeopleCmd(), m.fetchAdminCmd()}
	if m.lastFolder != nil && !m.lastFolder.Empty() {
		cmds = append(cmds, m.openFolderCmd(*m.lastFolder))
	}
	return tea.Batch(cmds...)
}

// tuiState captures what is restored on the next launch.
func (m appModel) tuiState() *store.TUIState {
	st := &store.TUIState{Version: 1, HideThumbnails: !m.grid.cards, Pane: m.pane.String()}
	st.SetExpanded(m.tree.expanded)
	if req := m.gallery.State().Request; !req.Empty() {
		st.LastFolder = &req
	}
	return st
}

func (m appModel) bodyHeight() int {
	h := m.height - 3 // header, summary, footer
	if h < 3 {
		h = 3
	}
	return h
}

func (m appModel) paneWidths() (tree, grid, side int) {
	side = sidePanelWidth
	if m.width < 80 {
		side = 0
	}
	tree, grid = split(m.width-side, 0.3, 16, 20)
	return tree, grid, side
}

func (m appModel) gridWidth() int {
	_, w, _ := m.paneWidths()
	return w - 1
}

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}
	st := m.gallery.State()
	mode := m.gallery.Mode()
	treeW, gridW, sideW := m.paneWidths()
	bodyH := m.bodyHeight()

	header := m.viewHeader(st)

	treeView := normalizePane(m.tree.view(treeW-1, bodyH, m.pane == paneTree, st.Request.Key), treeW-1, bodyH)
	sep := styleMuted().Render(strings.TrimRight(strings.Repeat("│\n", bodyH), "\n"))
	if glyphs() == glyphSetASCII {
		sep = styleMuted().Render(strings.TrimRight(strings.Repeat("|\n", bodyH), "\n"))
	}

	gridH := bodyH
	var gridParts []string
	if st.ShowTimeline && st.Timeline != nil {
		gridParts = append(gridParts, renderTimeline(st.Timeline, gridW), "")
		gridH -= 2
	}
	switch {
	case st.Loading:
		gridParts = append(gridParts, styleMuted().Render("Loading…"))
	case st.LoadErr != nil:
		gridParts = append(gridParts, lipgloss.NewStyle().Foreground(colorFlashErrorBg).Render("Error: "+st.LoadErr.Error()))
	case !st.Open():
		gridParts = append(gridParts, styleMuted().Render("Pick a folder in the tree."))
	case st.ShowTimeline && st.Timeline != nil && st.Timeline.Selected() < 0:
		gridParts = append(gridParts, styleMuted().Render("Pick a group with [ and ]."))
	case len(st.Images) == 0:
		gridParts = append(gridParts, styleMuted().Render("No images."))
	default:
		gridParts = append(gridParts, m.grid.view(st.Images, gridW-1, gridH, m.pane == paneGrid))
	}
	gridView := normalizePane(strings.Join(gridParts, "\n"), gridW-1, bodyH)

	cols := []string{treeView, sep, " " + strings.ReplaceAll(gridView, "\n", "\n ")}
	if sideW > 0 {
		side := normalizePane(renderSidePanel(st, mode, sideW-2), sideW-2, bodyH)
		cols = append(cols, sep, " "+strings.ReplaceAll(side, "\n", "\n "))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	summary := ""
	if st.Open() {
		summary = imageSummary(st.Images, len(st.Tagging.AllImages))
	}
	summary = styleMuted().Render(fitWidth(summary, m.width))

	footer := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.flashText != "" {
		footer = lipgloss.NewStyle().Bold(true).Render(m.flashText)
	}

	screen := strings.Join([]string{header, body, summary, fitWidth(footer, m.width)}, "\n")
	if overlay := m.viewModal(st); overlay != "" {
		return placeOverlay(m.width, m.height, overlay)
	}
	return screen
}

func (m appModel) viewHeader(st gallery.State) string {
	parts := []string{lipgloss.NewStyle().Bold(true).Render("Photos"), styleMuted().Render(m.serverName)}
	if m.offline {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorWarn).Render("offline"))
	}
	if st.Open() {
		title := st.Folder.Title
		if title == "" {
			title = st.Request.Title
		}
		parts = append(parts, title)
	}
	if q := m.filter.Query(); q != "" {
		parts = append(parts, styleMuted().Render("filter: "+q))
	}
	if id, ok := m.filter.ActivePerson(); ok {
		name := fmt.Sprintf("#%d", id)
		if p, found := st.Tagging.FindPerson(id); found {
			name = p.Name
		}
		parts = append(parts, styleMuted().Render("person: "+name))
	}
	mode := "browse"
	if st.Mode == selection.KindTagAssign {
		mode = "tagging"
		if st.Saving {
			mode = "saving…"
		}
	} else if st.FilterEnabled {
		mode = "people filter"
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(colorAccent).Render("["+mode+"]"))
	return fitWidth(strings.Join(parts, "  "), m.width)
}

func (m appModel) viewModal(st gallery.State) string {
	switch m.modal {
	case modalNone:
		return ""
	case modalTreeFilter:
		return renderInputModal(m.width, "Filter folders", "enter: apply   empty: clear   esc: cancel", m.input)
	case modalPickPerson, modalPickTag:
		return renderModalBox(m.width, m.picker.Title, m.picker.View())
	case modalAddPerson:
		return renderInputModal(m.width, "Add person", "enter: add   esc: cancel", m.input)
	case modalAddTag:
		return renderInputModal(m.width, "Add folder tag", "name, then an optional color (#rrggbb or a name)   tab: next field   enter: add", m.input, m.input2)
	case modalRecolorTag:
		return renderInputModal(m.width, "Recolor "+m.pendingTag.Value, "#rrggbb or a color name   enter: save", m.input)
	case modalEditDetails:
		return renderInputModal(m.width, "Edit folder details", "tab: next field   enter: save   esc: cancel", m.input, m.input2)
	case modalConfirmDelete:
		return renderConfirmModal(m.width, "Delete images", deleteConfirmBody(selection.Selected(st.Images)), "Delete", "Cancel", m.confirmFocus)
	case modalConfirmRemoveFolder:
		return renderConfirmModal(m.width, "Remove folder", fmt.Sprintf("Remove the empty folder %s?", st.Folder.Path), "Remove", "Cancel", m.confirmFocus)
	case modalConfirmRemoveTag:
		return renderConfirmModal(m.width, "Remove tag", fmt.Sprintf("Remove tag %q from this folder?", m.pendingTag.Value), "Remove", "Cancel", m.confirmFocus)
	case modalPreview:
		if m.previewIndex < 0 || m.previewIndex >= len(st.Images) {
			return ""
		}
		body := renderPreview(st.Images[m.previewIndex], m.previewIndex, len(st.Images), modalBodyWidth(m.width))
		hint := styleMuted().Render("←/→: prev/next   del/x: toggle selection   esc: close")
		return renderModalBox(m.width, "Preview", body+"\n\n"+hint)
	case modalHelp:
		h := m.help
		h.ShowAll = true
		return renderModalBox(m.width, "Keys", h.View(m.keys))
	}
	return ""
}
