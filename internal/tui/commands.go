package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"photos-cli/internal/api"
	"photos-cli/internal/gallery"
	"photos-cli/internal/model"
	"photos-cli/internal/store"
	"photos-cli/internal/treefilter"
)

// Messages returned by commands. Gallery results carry the ticket issued when the
// request started; the controller drops the ones that were superseded.

type cachedMsg struct {
	tree     store.Entry[[]model.FolderNode]
	treeOK   bool
	people   store.Entry[[]model.Person]
	peopleOK bool
}

type treeMsg struct {
	roots    []model.FolderNode
	degraded bool
	err      error
}

type peopleMsg struct {
	people []model.Person
	err    error
}

type adminMsg struct {
	can bool
	err error
}

type treeTextMsg struct {
	seq   int
	query string
	paths []string
	err   error
}

type treePersonMsg struct {
	id  model.PersonID
	ids []int
	err error
}

type folderMsg struct{ res gallery.FolderResult }

type baselineMsg struct{ res gallery.BaselineResult }

type searchMsg struct{ res gallery.SearchResult }

type saveMsg struct{ res gallery.SaveResult }

type personAddedMsg struct{ res gallery.PersonResult }

type deleteMsg struct{ out gallery.DeleteOutcome }

type actionMsg struct{ res gallery.ActionResult }

type tagMsg struct{ res gallery.TagResult }

type detailsMsg struct{ res gallery.DetailsResult }

type flashDoneMsg struct{ seq int }

func (m appModel) loadCachedCmd() tea.Cmd {
	ctx, cache, log := m.ctx, m.cache, m.log
	if cache == nil {
		return nil
	}
	return func() tea.Msg {
		var msg cachedMsg
		var err error
		if msg.tree, msg.treeOK, err = cache.Tree(ctx); err != nil {
			log.Warn("read cached tree", zap.Error(err))
		}
		if msg.people, msg.peopleOK, err = cache.People(ctx); err != nil {
			log.Warn("read cached people", zap.Error(err))
		}
		return msg
	}
}

func (m appModel) fetchTreeCmd() tea.Cmd {
	ctx, b, cache, log := m.ctx, m.backend, m.cache, m.log
	return func() tea.Msg {
		raw, err := b.Tree(ctx)
		if api.IsDecode(err) {
			log.Warn("unreadable folder tree, showing none", zap.Error(err))
			return treeMsg{roots: []model.FolderNode{}, degraded: true}
		}
		if err != nil {
			return treeMsg{err: err}
		}
		roots := treefilter.Adapt(b.BaseURL(), raw)
		if err := cache.PutTree(ctx, roots); err != nil {
			log.Warn("cache tree", zap.Error(err))
		}
		return treeMsg{roots: roots}
	}
}

func (m appModel) fetchPeopleCmd() tea.Cmd {
	ctx, b, cache, log := m.ctx, m.backend, m.cache, m.log
	return func() tea.Msg {
		people, err := b.People(ctx)
		if err != nil {
			return peopleMsg{err: err}
		}
		if err := cache.PutPeople(ctx, people); err != nil {
			log.Warn("cache people", zap.Error(err))
		}
		return peopleMsg{people: people}
	}
}

func (m appModel) fetchAdminCmd() tea.Cmd {
	ctx, b := m.ctx, m.backend
	return func() tea.Msg {
		can, err := b.CanAdmin(ctx)
		return adminMsg{can: can, err: err}
	}
}

func (m appModel) filterTreeCmd(seq int, query string) tea.Cmd {
	ctx, b := m.ctx, m.backend
	return func() tea.Msg {
		paths, err := b.FilterTags(ctx, query)
		return treeTextMsg{seq: seq, query: query, paths: paths, err: err}
	}
}

func (m appModel) foldersByPersonCmd(id model.PersonID) tea.Cmd {
	ctx, b := m.ctx, m.backend
	return func() tea.Msg {
		ids, err := b.FoldersByPerson(ctx, id)
		return treePersonMsg{id: id, ids: ids, err: err}
	}
}

func (m appModel) openFolderCmd(req model.LoadRequest) tea.Cmd {
	ctx, g := m.ctx, m.gallery
	t := g.Open(req)
	if req.Empty() {
		return nil
	}
	return func() tea.Msg { return folderMsg{res: g.Fetch(ctx, t, req)} }
}

func (m appModel) baselineCmd(t gallery.Ticket, folder model.FolderID) tea.Cmd {
	ctx, g := m.ctx, m.gallery
	return func() tea.Msg { return baselineMsg{res: g.FetchBaseline(ctx, t, folder)} }
}

func (m appModel) searchCmd(t gallery.Ticket, folder model.FolderID, person model.PersonID) tea.Cmd {
	ctx, g := m.ctx, m.gallery
	return func() tea.Msg { return searchMsg{res: g.Search(ctx, t, folder, person)} }
}

func (m appModel) saveCmd() tea.Cmd {
	t, snap, err := m.gallery.BeginSave()
	if err != nil {
		return m.flash(err.Error())
	}
	ctx, g := m.ctx, m.gallery
	return func() tea.Msg { return saveMsg{res: g.Save(ctx, t, snap)} }
}

func (m appModel) addPersonCmd(name string) tea.Cmd {
	ctx, g := m.ctx, m.gallery
	return func() tea.Msg { return personAddedMsg{res: g.AddPerson(ctx, name)} }
}

func (m appModel) deleteCmd(t gallery.Ticket, paths []string) tea.Cmd {
	ctx, g := m.ctx, m.gallery
	return func() tea.Msg { return deleteMsg{out: g.Delete(ctx, t, paths)} }
}

func (m appModel) actionCmd(a gallery.Action) tea.Cmd {
	t, link, err := m.gallery.BeginAction(a)
	if err != nil {
		return m.flash(err.Error())
	}
	ctx, g := m.ctx, m.gallery
	return func() tea.Msg { return actionMsg{res: g.RunAction(ctx, t, a, link)} }
}

func (m appModel) tagCmd(t gallery.Ticket, url string, tag model.RawTag) tea.Cmd {
	ctx, g := m.ctx, m.gallery
	return func() tea.Msg { return tagMsg{res: g.SaveTag(ctx, t, url, tag)} }
}

func (m appModel) detailsCmd(t gallery.Ticket, d model.FolderDetails) tea.Cmd {
	ctx, g := m.ctx, m.gallery
	return func() tea.Msg { return detailsMsg{res: g.EditDetails(ctx, t, d)} }
}

const flashDuration = 3 * time.Second

// flash shows text in the minibuffer from code that cannot mutate the model.
func (m appModel) flash(text string) tea.Cmd {
	return func() tea.Msg { return flashRequestMsg{text: text} }
}

type flashRequestMsg struct{ text string }

func flashDoneCmd(seq int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}
