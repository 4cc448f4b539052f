// Package selection decides what a click on a media item means in the current mode.
package selection

import (
	"photos-cli/internal/model"
	"photos-cli/internal/tagging"
)

type Kind int

const (
	KindBrowse Kind = iota
	KindTagAssign
)

func (k Kind) String() string {
	switch k {
	case KindBrowse:
		return "browse"
	case KindTagAssign:
		return "tag"
	default:
		return "unknown"
	}
}

// State is the slice of gallery state a mode may transform.
type State struct {
	Images  []model.MediaItem
	Tagging tagging.Context
}

type Action int

const (
	ActionAddPerson Action = iota
	ActionSave
	ActionClose
	ActionDeleteSelected
	ActionToggleFilter
	ActionTagMode
)

type PersonRow struct {
	Person model.Person
	Count  int
	Active bool
	// Mismatch reports that the pending deltas disagree with the baseline.
	Mismatch bool
}

// Panel is the side panel content for a mode.
type Panel struct {
	Title   string
	People  []PersonRow
	Actions []Action
	Pending bool
}

type Mode interface {
	Kind() Kind
	Select(s State, index int) State
	Reset(s State) State
	ShowFullMenu() bool
	SidePanel(s State) Panel
}

var modes = map[Kind]Mode{
	KindBrowse:    BrowseSelect{},
	KindTagAssign: TagAssign{},
}

// For returns the mode registered for k, falling back to BrowseSelect.
func For(k Kind) Mode {
	if m, ok := modes[k]; ok {
		return m
	}
	return modes[KindBrowse]
}

func toggle(images []model.MediaItem, index int) []model.MediaItem {
	if index < 0 || index >= len(images) {
		return images
	}
	out := append([]model.MediaItem(nil), images...)
	out[index].Selected = !out[index].Selected
	return out
}

// Selected returns the paths of the selected images in display order.
func Selected(images []model.MediaItem) []string {
	var out []string
	for _, img := range images {
		if img.Selected {
			out = append(out, img.Path)
		}
	}
	return out
}

// BrowseSelect is the default mode; its selection feeds "delete selected".
type BrowseSelect struct{}

func (BrowseSelect) Kind() Kind { return KindBrowse }

func (BrowseSelect) Select(s State, index int) State {
	s.Images = toggle(s.Images, index)
	return s
}

func (BrowseSelect) Reset(s State) State { return s }

func (BrowseSelect) ShowFullMenu() bool { return true }

func (BrowseSelect) SidePanel(s State) Panel {
	return Panel{
		Title:   "Folder",
		Actions: []Action{ActionDeleteSelected, ActionToggleFilter, ActionTagMode},
	}
}

// TagAssign records people tagging toggles against the folder baseline.
type TagAssign struct{}

func (TagAssign) Kind() Kind { return KindTagAssign }

// Select does nothing until a person is active.
func (TagAssign) Select(s State, index int) State {
	if index < 0 || index >= len(s.Images) || s.Tagging.CurrentTag == nil {
		return s
	}
	s.Tagging = tagging.Assign(s.Tagging, index, s.Images[index])
	s.Images = toggle(s.Images, index)
	return s
}

func (TagAssign) Reset(s State) State {
	s.Tagging = tagging.Reset(s.Tagging)
	return s
}

func (TagAssign) ShowFullMenu() bool { return false }

func (TagAssign) SidePanel(s State) Panel {
	p := Panel{
		Title:   "People",
		Actions: []Action{ActionAddPerson, ActionSave, ActionClose},
		Pending: s.Tagging.HasPending(),
	}
	for _, person := range s.Tagging.People {
		n, err := tagging.CountAssigned(s.Tagging, person.ID)
		p.People = append(p.People, PersonRow{
			Person:   person,
			Count:    n,
			Active:   s.Tagging.CurrentTag != nil && s.Tagging.CurrentTag.ID == person.ID,
			Mismatch: err != nil,
		})
	}
	return p
}
