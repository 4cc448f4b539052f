package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"photos-cli/internal/model"
	"photos-cli/internal/timeline"
)

const (
	cardWidth  = 22
	cardHeight = 4
)

// gridPane shows the images of the open folder, as cards or as a compact list.
type gridPane struct {
	cursor int
	offset int // first visible row
	cards  bool
}

func (g gridPane) columns(width int) int {
	if !g.cards {
		return 1
	}
	c := width / cardWidth
	if c < 1 {
		c = 1
	}
	return c
}

func (g *gridPane) clamp(n int) {
	if g.cursor >= n {
		g.cursor = n - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
}

func (g *gridPane) move(dx, dy, n, width int) {
	if n == 0 {
		g.cursor = 0
		return
	}
	g.cursor += dx + dy*g.columns(width)
	g.clamp(n)
}

func (g *gridPane) reset() {
	g.cursor = 0
	g.offset = 0
}

func (g *gridPane) view(images []model.MediaItem, width, height int, focused bool) string {
	if len(images) == 0 {
		return ""
	}
	cols := g.columns(width)
	rowH := 1
	if g.cards {
		rowH = cardHeight
	}
	visibleRows := height / rowH
	if visibleRows < 1 {
		visibleRows = 1
	}
	row := g.cursor / cols
	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+visibleRows {
		g.offset = row - visibleRows + 1
	}

	var lines []string
	for r := g.offset; r < g.offset+visibleRows; r++ {
		from := r * cols
		if from >= len(images) {
			break
		}
		to := from + cols
		if to > len(images) {
			to = len(images)
		}
		if !g.cards {
			lines = append(lines, g.listRow(images[from], from == g.cursor && focused, width))
			continue
		}
		cells := make([]string, 0, cols)
		for i := from; i < to; i++ {
			cells = append(cells, renderCard(images[i], i == g.cursor && focused))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

func checkbox(selected bool) string {
	if selected {
		return stylePicked().Render(glyphChecked())
	}
	return glyphUnchecked()
}

func (g gridPane) listRow(it model.MediaItem, cursor bool, width int) string {
	date := ""
	if !it.Date.IsZero() {
		date = it.Date.Format("2006-01-02")
	}
	line := fmt.Sprintf("%s %s  %s", checkbox(it.Selected), it.Name, styleMuted().Render(date))
	line = fitWidth(line, width)
	if cursor {
		return styleSelectedRow().Render(xansi.Strip(line))
	}
	return line
}

func renderCard(it model.MediaItem, cursor bool) string {
	border := colorCardBorder
	if cursor {
		border = colorSelectedBorder
	}
	if it.Selected {
		border = colorPicked
	}
	inner := cardWidth - 2
	name := fitWidth(it.Name, inner)
	meta := ""
	if !it.Date.IsZero() {
		meta = it.Date.Format("2006-01-02")
	}
	if it.Width > 0 && it.Height > 0 {
		meta += fmt.Sprintf(" %dx%d", it.Width, it.Height)
	}
	head := checkbox(it.Selected)
	if meta != "" {
		head += " " + styleMuted().Render(meta)
	}
	body := fitWidth(head, inner) + "\n" + name
	st := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(inner)
	if cursor {
		st = st.Bold(true)
	}
	return st.Render(body)
}

// renderTimeline draws the scrubber: one slot per visible group, the chosen group highlighted.
func renderTimeline(tl *timeline.Timeline, width int) string {
	if tl == nil || tl.Len() == 0 {
		return ""
	}
	avail := width - 4
	from, to := tl.Visible(avail)
	var parts []string
	if from > 0 {
		parts = append(parts, glyphScrollLeft())
	} else {
		parts = append(parts, " ")
	}
	for i := from; i < to; i++ {
		g := tl.Groups[i]
		label := fitWidth(g.Label, tl.SlotWidth)
		switch {
		case i == tl.Selected():
			label = styleSelectedRow().Render(label)
		default:
			label = styleMuted().Render(label)
		}
		parts = append(parts, label)
	}
	if to < tl.Len() {
		parts = append(parts, glyphScrollRight())
	}
	return strings.Join(parts, " ")
}

// imageSummary is the one-line status shown under the grid.
func imageSummary(images []model.MediaItem, total int) string {
	selected := 0
	for _, it := range images {
		if it.Selected {
			selected++
		}
	}
	s := fmt.Sprintf("%s images", humanize.Comma(int64(len(images))))
	if total != len(images) {
		s = fmt.Sprintf("%s of %s images", humanize.Comma(int64(len(images))), humanize.Comma(int64(total)))
	}
	if selected > 0 {
		s += fmt.Sprintf(", %d selected", selected)
	}
	return s
}

// renderPreview shows one image in detail. Terminals cannot draw the photo itself, so the
// preview lists its metadata and links.
func renderPreview(it model.MediaItem, index, total, width int) string {
	lines := []string{
		styleHeading().Render(fmt.Sprintf("%s  (%d/%d)", it.Name, index+1, total)),
		"",
		checkbox(it.Selected) + " selected",
	}
	if !it.Date.IsZero() {
		lines = append(lines, fmt.Sprintf("Taken:  %s (%s)", it.Date.Format("2006-01-02 15:04"), humanize.Time(it.Date)))
	}
	if it.Width > 0 && it.Height > 0 {
		lines = append(lines, fmt.Sprintf("Size:   %d x %d (%s px)", it.Width, it.Height, humanize.Comma(int64(it.Width*it.Height))))
	}
	lines = append(lines,
		"Folder: "+it.FolderKey,
		"Image:  "+it.ImageURL,
		"HD:     "+it.Path,
	)
	for i := range lines {
		lines[i] = fitWidth(lines[i], width)
	}
	return strings.Join(lines, "\n")
}
