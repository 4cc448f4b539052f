package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"photos-cli/internal/gallery"
	"photos-cli/internal/model"
	"photos-cli/internal/selection"
	"photos-cli/internal/treefilter"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizePicker()
		return m, nil

	case flashRequestMsg:
		return m, m.setFlash(msg.text)

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flashText = ""
		}
		return m, nil

	case cachedMsg:
		if msg.treeOK && !m.treeLive {
			m.treeCachedAt = msg.tree.StoredAt
			m.filter.Reset(msg.tree.Value)
			m.tree.setRoots(m.filter.Tree(), false)
		}
		if msg.peopleOK && !m.peopleLive {
			m.gallery.SetPeople(msg.people.Value)
		}
		return m, nil

	case treeMsg:
		if msg.err != nil {
			m.log.Warn("fetch tree", zap.Error(msg.err))
			if !m.treeCachedAt.IsZero() && !m.treeLive {
				m.offline = true
				return m, m.setFlash(fmt.Sprintf("Server unreachable; showing folders cached %s", humanize.Time(m.treeCachedAt)))
			}
			return m, m.setFlash("Could not load folders: " + msg.err.Error())
		}
		m.treeLive = true
		m.offline = false
		query := m.filter.Query()
		m.filter.Reset(msg.roots)
		m.tree.setRoots(m.filter.Tree(), false)
		if msg.degraded {
			return m, m.setFlash("Server sent an unreadable folder list")
		}
		if query != "" {
			m.treeSeq++
			return m, m.filterTreeCmd(m.treeSeq, query)
		}
		return m, nil

	case peopleMsg:
		if msg.err != nil {
			m.log.Warn("fetch people", zap.Error(msg.err))
			return m, nil
		}
		m.peopleLive = true
		m.gallery.SetPeople(msg.people)
		return m, nil

	case adminMsg:
		if msg.err != nil {
			m.log.Warn("check admin rights", zap.Error(msg.err))
			return m, nil
		}
		m.gallery.SetCanAdmin(msg.can)
		return m, nil

	case treeTextMsg:
		if msg.seq != m.treeSeq {
			m.metrics.RecordStale("tree_filter")
			return m, nil
		}
		if msg.err != nil {
			return m, m.setFlash("Filter failed: " + msg.err.Error())
		}
		roots := m.filter.FilterText(msg.query, msg.paths)
		m.tree.setRoots(roots, true)
		if len(roots) == 0 {
			return m, m.setFlash(fmt.Sprintf("No folder matches %q", msg.query))
		}
		return m, nil

	case treePersonMsg:
		if msg.err != nil {
			return m, m.setFlash("Person filter failed: " + msg.err.Error())
		}
		if !m.filter.ApplyPerson(msg.id, msg.ids) {
			m.metrics.RecordStale("tree_person")
			return m, nil
		}
		m.tree.setRoots(m.filter.Tree(), true)
		return m, nil

	case folderMsg:
		err := m.gallery.ApplyFolder(msg.res)
		if errors.Is(err, gallery.ErrStale) {
			return m, nil
		}
		m.grid.reset()
		if err != nil {
			return m, m.setFlash("Could not load folder: " + err.Error())
		}
		if msg.res.BaselineErr != nil {
			return m, m.setFlash("Loaded without tag data: " + msg.res.BaselineErr.Error())
		}
		return m, nil

	case baselineMsg:
		return m, m.applyErr(m.gallery.ApplyBaseline(msg.res), "Could not load tags")

	case searchMsg:
		err := m.gallery.ApplySearch(msg.res)
		if !errors.Is(err, gallery.ErrStale) {
			m.grid.reset()
		}
		return m, m.applyErr(err, "Search failed")

	case saveMsg:
		if err := m.gallery.ApplySave(msg.res); err != nil {
			if errors.Is(err, gallery.ErrStale) {
				return m, nil
			}
			return m, m.setFlash("Save failed, changes kept: " + err.Error())
		}
		return m, m.setFlash("Tags saved")

	case personAddedMsg:
		if err := m.gallery.ApplyPerson(msg.res); err != nil {
			return m, m.setFlash("Could not add person: " + err.Error())
		}
		return m, tea.Batch(m.setFlash("Added "+msg.res.Person.Name), m.fetchPeopleCmd())

	case deleteMsg:
		if err := m.gallery.ApplyDelete(msg.out); err != nil {
			if errors.Is(err, gallery.ErrStale) {
				return m, nil
			}
			return m, m.setFlash("Delete failed: " + err.Error())
		}
		m.grid.clamp(len(m.gallery.State().Images))
		return m, m.setFlash(fmt.Sprintf("Deleted %s", plural(len(msg.out.Paths), "image")))

	case actionMsg:
		reload, err := m.gallery.ApplyAction(msg.res)
		if errors.Is(err, gallery.ErrStale) {
			return m, nil
		}
		if err != nil {
			return m, m.setFlash(actionTitle(msg.res.Action) + " failed: " + err.Error())
		}
		cmds := []tea.Cmd{m.setFlash(actionTitle(msg.res.Action) + " done")}
		if reload {
			cmds = append(cmds, m.openFolderCmd(m.gallery.State().Request))
		} else {
			m.grid.reset()
			cmds = append(cmds, m.fetchTreeCmd())
		}
		return m, tea.Batch(cmds...)

	case tagMsg:
		if err := m.gallery.ApplyTag(msg.res); err != nil {
			if errors.Is(err, gallery.ErrStale) {
				return m, nil
			}
			return m, m.setFlash("Tag update failed: " + err.Error())
		}
		return m, nil

	case detailsMsg:
		if err := m.gallery.ApplyDetails(msg.res); err != nil {
			if errors.Is(err, gallery.ErrStale) {
				return m, nil
			}
			return m, m.setFlash("Could not save details: " + err.Error())
		}
		return m, tea.Batch(m.setFlash("Details saved"), m.fetchTreeCmd())

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateKey(msg)
	}

	if m.modal == modalPickPerson || m.modal == modalPickTag {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	if m.modal != modalNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) setFlash(text string) tea.Cmd {
	m.flashSeq++
	m.flashText = text
	return flashDoneCmd(m.flashSeq)
}

// applyErr flashes err unless it is nil or a dropped stale response.
func (m *appModel) applyErr(err error, prefix string) tea.Cmd {
	if err == nil || errors.Is(err, gallery.ErrStale) {
		return nil
	}
	return m.setFlash(prefix + ": " + err.Error())
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.gallery.State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.modal = modalHelp
		return m, nil
	case key.Matches(msg, m.keys.SwitchPane):
		if m.pane == paneTree {
			m.pane = paneGrid
		} else {
			m.pane = paneTree
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		cmds := []tea.Cmd{m.fetchTreeCmd(), m.fetchPeopleCmd(), m.fetchAdminCmd()}
		if st.Open() {
			cmds = append(cmds, m.openFolderCmd(st.Request))
		}
		return m, tea.Batch(cmds...)
	case key.Matches(msg, m.keys.TreeFilter):
		m.input.SetValue(m.filter.Query())
		m.input.Placeholder = "folder name or tag"
		return m, m.openInputModal(modalTreeFilter)
	case key.Matches(msg, m.keys.PersonFilter):
		return m, m.openPersonPicker(pickForTree, "Show folders of")
	case key.Matches(msg, m.keys.Thumbnails):
		m.grid.cards = !m.grid.cards
		m.grid.offset = 0
		return m, nil
	case key.Matches(msg, m.keys.PrevGroup), key.Matches(msg, m.keys.NextGroup):
		return m.stepGroup(key.Matches(msg, m.keys.NextGroup))
	case key.Matches(msg, m.keys.ScrollBack):
		m.gallery.ScrollTimeline(false, m.gridWidth()-4)
		return m, nil
	case key.Matches(msg, m.keys.ScrollAhead):
		m.gallery.ScrollTimeline(true, m.gridWidth()-4)
		return m, nil
	case key.Matches(msg, m.keys.ToggleFilter):
		if err := m.gallery.ToggleFilter(); err != nil {
			return m, m.setFlash(modeHint(err))
		}
		m.grid.reset()
		return m, nil
	case key.Matches(msg, m.keys.PickPerson):
		switch {
		case st.Mode == selection.KindTagAssign:
			return m, m.openPersonPicker(pickForTagging, "Tag images of")
		case st.FilterEnabled:
			return m, m.openPersonPicker(pickForFilter, "Show images of")
		}
		return m, m.setFlash("Turn on the people filter (f) or tag mode (t) first")
	case key.Matches(msg, m.keys.TagMode):
		return m.toggleTagMode()
	case key.Matches(msg, m.keys.AddPerson):
		if !st.CanAdmin {
			return m, m.setFlash(gallery.ErrNotAdmin.Error())
		}
		m.input.SetValue("")
		m.input.Placeholder = "name"
		return m, m.openInputModal(modalAddPerson)
	case key.Matches(msg, m.keys.Save):
		return m, m.saveCmd()
	case key.Matches(msg, m.keys.DeleteSelected):
		t, paths, err := m.gallery.BeginDelete()
		if err != nil {
			return m, m.setFlash(modeHint(err))
		}
		m.pendingDelete, m.pendingDeletePaths = t, paths
		return m, m.openConfirm(modalConfirmDelete)
	case key.Matches(msg, m.keys.RemoveFolder):
		if _, _, err := m.gallery.BeginAction(gallery.ActionRemoveFolder); err != nil {
			return m, m.setFlash(modeHint(err))
		}
		return m, m.openConfirm(modalConfirmRemoveFolder)
	case key.Matches(msg, m.keys.UpdateFolder):
		return m, m.actionCmd(gallery.ActionUpdate)
	case key.Matches(msg, m.keys.UpdateExif):
		return m, m.actionCmd(gallery.ActionUpdateExif)
	case key.Matches(msg, m.keys.AddTag):
		if !st.CanAdmin || !st.Open() {
			return m, m.setFlash(modeHint(gallery.ErrNotAdmin))
		}
		m.input.SetValue("")
		m.input.Placeholder = "tag"
		m.input2.SetValue("")
		m.input2.Placeholder = model.DefaultTagColor.String()
		return m, m.openInputModal(modalAddTag)
	case key.Matches(msg, m.keys.RecolorTag):
		return m, m.openTagPicker(tagRecolor)
	case key.Matches(msg, m.keys.RemoveTag):
		return m, m.openTagPicker(tagRemove)
	case key.Matches(msg, m.keys.EditDetails):
		if !st.CanAdmin || !st.Open() {
			return m, m.setFlash(modeHint(gallery.ErrNotAdmin))
		}
		m.input.SetValue(st.Folder.Title)
		m.input.Placeholder = "title"
		m.input2.SetValue(st.Folder.Description)
		m.input2.Placeholder = "description (markdown)"
		return m, m.openInputModal(modalEditDetails)
	}

	if m.pane == paneTree {
		return m.updateTreeKey(msg)
	}
	return m.updateGridKey(msg)
}

func (m appModel) updateTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.tree.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.tree.move(1)
	case key.Matches(msg, m.keys.Left):
		m.tree.collapse()
	case key.Matches(msg, m.keys.Right):
		m.tree.expand()
	case key.Matches(msg, m.keys.Select):
		m.tree.toggle()
	case key.Matches(msg, m.keys.Open):
		n, ok := m.tree.selected()
		if !ok {
			return m, nil
		}
		req, ok := treefilter.Select(n)
		if !ok {
			m.tree.toggle()
			return m, nil
		}
		m.grid.reset()
		return m, m.openFolderCmd(req)
	}
	return m, nil
}

func (m appModel) updateGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.gallery.State().Images)
	w := m.gridWidth()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.grid.move(0, -1, n, w)
	case key.Matches(msg, m.keys.Down):
		m.grid.move(0, 1, n, w)
	case key.Matches(msg, m.keys.Left):
		m.grid.move(-1, 0, n, w)
	case key.Matches(msg, m.keys.Right):
		m.grid.move(1, 0, n, w)
	case key.Matches(msg, m.keys.Select):
		return m, m.selectImage(m.grid.cursor)
	case key.Matches(msg, m.keys.Open):
		if n == 0 {
			return m, nil
		}
		m.previewIndex = m.grid.cursor
		m.modal = modalPreview
	}
	return m, nil
}

// selectImage applies the current selection mode to the image at index.
func (m *appModel) selectImage(index int) tea.Cmd {
	st := m.gallery.State()
	if index < 0 || index >= len(st.Images) {
		return nil
	}
	if st.Mode == selection.KindTagAssign {
		if st.Saving {
			return m.setFlash("Saving…")
		}
		if st.Tagging.CurrentTag == nil {
			return m.setFlash("Pick a person first (p)")
		}
	}
	m.gallery.Select(index)
	return nil
}

func (m appModel) stepGroup(forward bool) (tea.Model, tea.Cmd) {
	tl := m.gallery.State().Timeline
	if tl == nil || tl.Len() == 0 {
		return m, m.setFlash(gallery.ErrNoTimeline.Error())
	}
	i := tl.Selected()
	switch {
	case i < 0:
		i = 0
	case forward:
		i++
	default:
		i--
	}
	if i < 0 || i >= tl.Len() {
		return m, nil
	}
	hadPending := m.gallery.State().Tagging.HasPending()
	if err := m.gallery.SelectGroup(i); err != nil {
		return m, m.setFlash(modeHint(err))
	}
	m.grid.reset()
	if hadPending {
		return m, m.setFlash("Unsaved tag changes discarded")
	}
	return m, nil
}

func (m appModel) toggleTagMode() (tea.Model, tea.Cmd) {
	st := m.gallery.State()
	if st.Mode == selection.KindTagAssign {
		pending := st.Tagging.HasPending()
		if _, _, err := m.gallery.SetMode(selection.KindBrowse); err != nil {
			return m, m.setFlash(modeHint(err))
		}
		m.grid.clamp(len(m.gallery.State().Images))
		if pending {
			return m, m.setFlash("Unsaved tag changes discarded")
		}
		return m, nil
	}
	t, fetch, err := m.gallery.SetMode(selection.KindTagAssign)
	if err != nil {
		return m, m.setFlash(modeHint(err))
	}
	if !fetch {
		return m, nil
	}
	return m, m.baselineCmd(t, m.gallery.FolderID())
}

// modeHint turns a rejected operation into a short message.
func modeHint(err error) string {
	switch {
	case errors.Is(err, gallery.ErrNotAdmin):
		return "Admin rights required"
	case errors.Is(err, gallery.ErrNoFolder):
		return "Open a folder first"
	case errors.Is(err, gallery.ErrWrongMode):
		return "Not available in this mode"
	case errors.Is(err, gallery.ErrNothingSelected):
		return "Nothing selected"
	case errors.Is(err, gallery.ErrFolderNotEmpty):
		return "Only empty folders can be removed"
	case errors.Is(err, gallery.ErrBusy):
		return "Wait for the save to finish"
	case errors.Is(err, gallery.ErrNoTimeline):
		return "This folder has no timeline"
	}
	return err.Error()
}

func actionTitle(a gallery.Action) string {
	switch a {
	case gallery.ActionRemoveFolder:
		return "Remove folder"
	case gallery.ActionUpdate:
		return "Update"
	case gallery.ActionUpdateExif:
		return "EXIF update"
	}
	return string(a)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), noun)
}

func (m *appModel) openInputModal(kind modalKind) tea.Cmd {
	m.modal = kind
	m.inputFocus = 0
	m.input2.Blur()
	return m.input.Focus()
}

func (m *appModel) openConfirm(kind modalKind) tea.Cmd {
	m.modal = kind
	m.confirmFocus = confirmFocusCancel
	return nil
}

func (m *appModel) openPersonPicker(purpose pickPurpose, title string) tea.Cmd {
	st := m.gallery.State()
	if len(st.Tagging.People) == 0 {
		return m.setFlash("No people yet")
	}
	active, hasActive := model.PersonID(0), false
	switch purpose {
	case pickForTree:
		active, hasActive = m.filter.ActivePerson()
	case pickForFilter:
		if st.Tagging.FilterTag != nil {
			active, hasActive = *st.Tagging.FilterTag, true
		}
	case pickForTagging:
		if st.Tagging.CurrentTag != nil {
			active, hasActive = st.Tagging.CurrentTag.ID, true
		}
	}
	items := make([]list.Item, 0, len(st.Tagging.People))
	selected := 0
	for i, p := range st.Tagging.People {
		note := ""
		if hasActive && p.ID == active {
			note = "active"
			if purpose != pickForTagging {
				note = "active, choose again to clear"
			}
			selected = i
		}
		items = append(items, personItem{person: p, note: note})
	}
	m.picker = newList(title, items)
	m.picker.Select(selected)
	m.pickPurpose = purpose
	m.modal = modalPickPerson
	m.resizePicker()
	return nil
}

func (m *appModel) openTagPicker(purpose tagPurpose) tea.Cmd {
	st := m.gallery.State()
	if !st.CanAdmin {
		return m.setFlash(modeHint(gallery.ErrNotAdmin))
	}
	if len(st.Folder.Tags) == 0 {
		return m.setFlash("This folder has no tags")
	}
	items := make([]list.Item, 0, len(st.Folder.Tags))
	for _, t := range st.Folder.Tags {
		items = append(items, tagItem{tag: t})
	}
	title := "Recolor tag"
	if purpose == tagRemove {
		title = "Remove tag"
	}
	m.picker = newList(title, items)
	m.tagPurpose = purpose
	m.modal = modalPickTag
	m.resizePicker()
	return nil
}

func (m *appModel) resizePicker() {
	if m.modal != modalPickPerson && m.modal != modalPickTag {
		return
	}
	h := m.height - 10
	if h > 16 {
		h = 16
	}
	if h < 4 {
		h = 4
	}
	m.picker.SetSize(modalBodyWidth(m.width), h)
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.input.Blur()
	m.input2.Blur()
	m.pendingDeletePaths = nil
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalHelp:
		if key.Matches(msg, m.keys.Back, m.keys.Help, m.keys.Quit, m.keys.Confirm) {
			m.closeModal()
		}
		return m, nil
	case modalPreview:
		return m.updatePreview(msg)
	case modalPickPerson, modalPickTag:
		return m.updatePicker(msg)
	case modalConfirmDelete, modalConfirmRemoveFolder, modalConfirmRemoveTag:
		return m.updateConfirm(msg)
	}
	return m.updateInputModal(msg)
}

func (m appModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.gallery.State().Images)
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Open), key.Matches(msg, m.keys.Quit):
		m.closeModal()
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
		if m.previewIndex > 0 {
			m.previewIndex--
		}
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
		if m.previewIndex < n-1 {
			m.previewIndex++
		}
	case key.Matches(msg, m.keys.PreviewToggle), key.Matches(msg, m.keys.Select):
		return m, m.selectImage(m.previewIndex)
	}
	m.grid.cursor = m.previewIndex
	m.grid.clamp(n)
	return m, nil
}

func (m appModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.picker.FilterState() == list.FilterApplied {
			m.picker.ResetFilter()
			return m, nil
		}
		m.closeModal()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		item := m.picker.SelectedItem()
		m.closeModal()
		switch it := item.(type) {
		case personItem:
			return m.pickPerson(it.person)
		case tagItem:
			return m.pickTag(it.tag)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m appModel) pickPerson(p model.Person) (tea.Model, tea.Cmd) {
	switch m.pickPurpose {
	case pickForTree:
		if !m.filter.TogglePerson(p.ID) {
			m.tree.setRoots(m.filter.Tree(), false)
			return m, m.setFlash("Person filter cleared")
		}
		return m, m.foldersByPersonCmd(p.ID)
	case pickForTagging:
		if err := m.gallery.SelectPerson(p); err != nil {
			return m, m.setFlash(modeHint(err))
		}
		m.grid.clamp(len(m.gallery.State().Images))
		return m, nil
	case pickForFilter:
		t, fetch, err := m.gallery.FilterByPerson(p.ID)
		if err != nil {
			return m, m.setFlash(modeHint(err))
		}
		m.grid.reset()
		if !fetch {
			return m, nil
		}
		return m, m.searchCmd(t, m.gallery.FolderID(), p.ID)
	}
	return m, nil
}

func (m appModel) pickTag(t model.Tag) (tea.Model, tea.Cmd) {
	m.pendingTag = t
	if m.tagPurpose == tagRemove {
		return m, m.openConfirm(modalConfirmRemoveTag)
	}
	m.input.SetValue(t.Color.String())
	m.input.Placeholder = "#rrggbb"
	return m, m.openInputModal(modalRecolorTag)
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeModal()
		return m, nil
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case !key.Matches(msg, m.keys.Confirm):
		return m, nil
	}
	kind, paths, t := m.modal, m.pendingDeletePaths, m.pendingDelete
	m.closeModal()
	if m.confirmFocus != confirmFocusConfirm {
		return m, nil
	}
	switch kind {
	case modalConfirmDelete:
		return m, m.deleteCmd(t, paths)
	case modalConfirmRemoveFolder:
		return m, m.actionCmd(gallery.ActionRemoveFolder)
	case modalConfirmRemoveTag:
		tk, url, tag, err := m.gallery.BeginRemoveTag(m.pendingTag.Value)
		if err != nil {
			return m, m.setFlash(modeHint(err))
		}
		return m, m.tagCmd(tk, url, tag)
	}
	return m, nil
}

func (m appModel) updateInputModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	twoFields := m.modal == modalAddTag || m.modal == modalEditDetails
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeModal()
		return m, nil
	case twoFields && key.Matches(msg, m.keys.Focus):
		m.inputFocus = 1 - m.inputFocus
		if m.inputFocus == 0 {
			m.input2.Blur()
			return m, m.input.Focus()
		}
		m.input.Blur()
		return m, m.input2.Focus()
	case key.Matches(msg, m.keys.Confirm):
		return m.submitInput()
	}
	var cmd tea.Cmd
	if m.inputFocus == 1 {
		m.input2, cmd = m.input2.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// submitInput runs the operation of the open input modal. Validation errors keep the
// modal open.
func (m appModel) submitInput() (tea.Model, tea.Cmd) {
	value, value2 := m.input.Value(), m.input2.Value()
	switch m.modal {
	case modalTreeFilter:
		m.closeModal()
		m.treeSeq++
		if value == "" {
			m.tree.setRoots(m.filter.FilterText("", nil), false)
			return m, nil
		}
		return m, m.filterTreeCmd(m.treeSeq, value)
	case modalAddPerson:
		m.closeModal()
		return m, m.addPersonCmd(value)
	case modalAddTag:
		t, url, tag, err := m.gallery.BeginAddTag(value, value2)
		if err != nil {
			return m, m.setFlash(modeHint(err))
		}
		m.closeModal()
		return m, m.tagCmd(t, url, tag)
	case modalRecolorTag:
		t, url, tag, err := m.gallery.BeginRecolorTag(m.pendingTag.Value, value)
		if err != nil {
			return m, m.setFlash(modeHint(err))
		}
		m.closeModal()
		return m, m.tagCmd(t, url, tag)
	case modalEditDetails:
		t, d, err := m.gallery.BeginEditDetails(value, value2)
		if err != nil {
			return m, m.setFlash(modeHint(err))
		}
		m.closeModal()
		return m, m.detailsCmd(t, d)
	}
	m.closeModal()
	return m, nil
}
