package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"photos-cli/internal/model"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalTreeFilter
	modalPickPerson
	modalPickTag
	modalAddPerson
	modalAddTag
	modalRecolorTag
	modalEditDetails
	modalConfirmDelete
	modalConfirmRemoveFolder
	modalConfirmRemoveTag
	modalPreview
	modalHelp
)

// pickPurpose says what a chosen person is for.
type pickPurpose int

const (
	pickForTree pickPurpose = iota
	pickForTagging
	pickForFilter
)

// tagPurpose says what a chosen folder tag is for.
type tagPurpose int

const (
	tagRecolor tagPurpose = iota
	tagRemove
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func (f confirmModalFocus) toggle() confirmModalFocus {
	if f == confirmFocusConfirm {
		return confirmFocusCancel
	}
	return confirmFocusConfirm
}

type personItem struct {
	person model.Person
	note   string
}

func (i personItem) FilterValue() string { return i.person.Name }
func (i personItem) Title() string       { return i.person.Name }
func (i personItem) Description() string { return i.note }

type tagItem struct {
	tag model.Tag
}

func (i tagItem) FilterValue() string { return i.tag.Value }
func (i tagItem) Title() string       { return i.tag.Value }
func (i tagItem) Description() string { return i.tag.Color.String() }

func newList(title string, items []list.Item) list.Model {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	l := list.New(items, d, 0, 0)
	l.Title = title
	// The app renders its own chrome and footer.
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	// ESC means back/cancel here, not quit.
	l.KeyMap.Quit.SetKeys("q")
	return l
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = "> "
	return in
}

func modalBodyWidth(width int) int {
	w := width - 10
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderModalBox(width int, title, content string) string {
	bodyW := modalBodyWidth(width)
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccentFg).
		Background(colorAccent).
		Padding(0, 1).
		Width(bodyW).
		Render(title)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Padding(0, 1).
		Width(bodyW + 2)
	return box.Render(head + "\n\n" + content)
}

func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)
	help := styleMuted().Width(modalBodyWidth(width)).Render("tab: focus   enter: select   esc: cancel")
	return renderModalBox(width, title, strings.Join([]string{body, "", controls, "", help}, "\n"))
}

func renderInputModal(width int, title, hint string, inputs ...textinput.Model) string {
	parts := make([]string, 0, len(inputs)+2)
	for _, in := range inputs {
		parts = append(parts, in.View())
	}
	parts = append(parts, "", styleMuted().Width(modalBodyWidth(width)).Render(hint))
	return renderModalBox(width, title, strings.Join(parts, "\n"))
}

func deleteConfirmBody(paths []string) string {
	switch len(paths) {
	case 0:
		return "Nothing selected."
	case 1:
		return fmt.Sprintf("Delete %s?\nThis cannot be undone.", model.Basename(paths[0]))
	default:
		return fmt.Sprintf("Delete %d images?\nThis cannot be undone.", len(paths))
	}
}

// placeOverlay centers a modal over the full screen.
func placeOverlay(width, height int, modal string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
