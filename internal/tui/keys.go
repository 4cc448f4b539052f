package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap is built once per program. Handlers match against it instead of registering
// listeners per render.
type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	SwitchPane key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Open       key.Binding
	Select     key.Binding
	Reload     key.Binding

	TreeFilter   key.Binding
	PersonFilter key.Binding

	PrevGroup    key.Binding
	NextGroup    key.Binding
	ScrollBack   key.Binding
	ScrollAhead  key.Binding
	Thumbnails   key.Binding
	ToggleFilter key.Binding
	PickPerson   key.Binding

	TagMode   key.Binding
	AddPerson key.Binding
	Save      key.Binding

	DeleteSelected key.Binding
	RemoveFolder   key.Binding
	UpdateFolder   key.Binding
	UpdateExif     key.Binding
	AddTag         key.Binding
	RecolorTag     key.Binding
	RemoveTag      key.Binding
	EditDetails    key.Binding

	// PreviewToggle toggles the selection of the image shown in the preview.
	PreviewToggle key.Binding
	Back          key.Binding
	Confirm       key.Binding
	Focus         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "pane")),
		Up:         key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left/collapse")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right/expand")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Select:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),

		TreeFilter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter tree")),
		PersonFilter: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "folders of person")),

		PrevGroup:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev group")),
		NextGroup:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next group")),
		ScrollBack:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "scroll timeline back")),
		ScrollAhead:  key.NewBinding(key.WithKeys("."), key.WithHelp(".", "scroll timeline ahead")),
		Thumbnails:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "grid/list")),
		ToggleFilter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "people filter")),
		PickPerson:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pick person")),

		TagMode:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tag mode")),
		AddPerson: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add person")),
		Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save tags")),

		DeleteSelected: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete selected")),
		RemoveFolder:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "remove folder")),
		UpdateFolder:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update folder")),
		UpdateExif:     key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "update exif")),
		AddTag:         key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "add tag")),
		RecolorTag:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "recolor tag")),
		RemoveTag:      key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "remove tag")),
		EditDetails:    key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "edit details")),

		PreviewToggle: key.NewBinding(key.WithKeys("delete", "x"), key.WithHelp("del/x", "toggle selection")),
		Back:          key.NewBinding(key.WithKeys("esc", "ctrl+g"), key.WithHelp("esc", "back")),
		Confirm:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Focus:         key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "focus")),
	}
}

// ShortHelp and FullHelp make keyMap a help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchPane, k.Open, k.Select, k.TagMode, k.ToggleFilter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Open, k.SwitchPane, k.Reload},
		{k.TreeFilter, k.PersonFilter, k.PrevGroup, k.NextGroup, k.ScrollBack, k.ScrollAhead, k.Thumbnails},
		{k.Select, k.ToggleFilter, k.PickPerson, k.TagMode, k.AddPerson, k.Save},
		{k.DeleteSelected, k.RemoveFolder, k.UpdateFolder, k.UpdateExif, k.AddTag, k.RecolorTag, k.RemoveTag, k.EditDetails},
		{k.PreviewToggle, k.Back, k.Help, k.Quit},
	}
}
