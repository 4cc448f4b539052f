package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"photos-cli/internal/gallery"
	"photos-cli/internal/model"
	"photos-cli/internal/selection"
)

var actionLabels = map[selection.Action]string{
	selection.ActionAddPerson:      "a  add person",
	selection.ActionSave:           "s  save",
	selection.ActionClose:          "t  close",
	selection.ActionDeleteSelected: "D  delete selected",
	selection.ActionToggleFilter:   "f  people filter",
	selection.ActionTagMode:        "t  tag people",
}

// renderSidePanel draws the mode panel and, in browse mode, the folder details.
func renderSidePanel(st gallery.State, mode selection.Mode, width int) string {
	panel := mode.SidePanel(selection.State{Images: st.Images, Tagging: st.Tagging})
	var b strings.Builder
	b.WriteString(styleHeading().Render(panel.Title))
	b.WriteByte('\n')

	switch {
	case mode.Kind() == selection.KindTagAssign:
		if len(panel.People) == 0 {
			b.WriteString(styleMuted().Render("No people yet. Press a to add one."))
			b.WriteByte('\n')
		}
		for _, row := range panel.People {
			b.WriteString(fitWidth(personRowLine(row), width))
			b.WriteByte('\n')
		}
		if panel.Pending {
			b.WriteString(lipgloss.NewStyle().Foreground(colorWarn).Render("unsaved changes"))
			b.WriteByte('\n')
		}
	case st.FilterEnabled:
		b.WriteString(styleMuted().Render("Filter by person (p):"))
		b.WriteByte('\n')
		for _, p := range st.Tagging.People {
			line := "  " + p.Name
			if st.Tagging.FilterTag != nil && *st.Tagging.FilterTag == p.ID {
				line = stylePicked().Render("> " + p.Name)
			}
			b.WriteString(fitWidth(line, width))
			b.WriteByte('\n')
		}
	default:
		b.WriteString(renderFolderInfo(st.Folder, width))
	}

	if mode.ShowFullMenu() && st.CanAdmin {
		b.WriteByte('\n')
		for _, a := range panel.Actions {
			b.WriteString(styleMuted().Render(fitWidth(actionLabels[a], width)))
			b.WriteByte('\n')
		}
		for _, l := range []string{"R  remove folder", "u  update", "U  update exif", "T/C/X  tags", "E  edit details"} {
			b.WriteString(styleMuted().Render(fitWidth(l, width)))
			b.WriteByte('\n')
		}
	} else if !mode.ShowFullMenu() {
		b.WriteByte('\n')
		for _, a := range panel.Actions {
			b.WriteString(styleMuted().Render(fitWidth(actionLabels[a], width)))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func personRowLine(row selection.PersonRow) string {
	count := fmt.Sprintf("%d", row.Count)
	if row.Mismatch {
		count = glyphWarn() + count
	}
	line := fmt.Sprintf("  %s (%s)", row.Person.Name, count)
	if row.Active {
		return stylePicked().Render(fmt.Sprintf("> %s (%s)", row.Person.Name, count))
	}
	return line
}

func renderFolderInfo(f model.FolderInfo, width int) string {
	var b strings.Builder
	if f.Title != "" {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(fitWidth(f.Title, width)))
		b.WriteByte('\n')
	}
	if f.Path != "" {
		b.WriteString(styleMuted().Render(fitWidth(f.Path, width)))
		b.WriteByte('\n')
	}
	if len(f.Tags) > 0 {
		chips := make([]string, 0, len(f.Tags))
		for _, t := range f.Tags {
			chips = append(chips, tagStyle(t.Color).Render(t.Value))
		}
		b.WriteString(lipgloss.NewStyle().Width(width).Render(strings.Join(chips, " ")))
		b.WriteByte('\n')
	}
	if md := renderMarkdown(f.Description, width); md != "" {
		b.WriteString(md)
		b.WriteByte('\n')
	}
	return b.String()
}
