package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall, so lipgloss.JoinHorizontal lines the panes up.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitWidth(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitWidth truncates with an ellipsis or pads ln to exactly width cells.
func fitWidth(ln string, width int) string {
	if width <= 0 {
		return ""
	}
	// Bound the cost of StringWidth on pathological lines.
	if len(ln) > 8192 {
		ln = xansi.Cut(ln, 0, width+1)
	}
	w := xansi.StringWidth(ln)
	if w > width {
		ell := glyphEllipsis()
		if ew := xansi.StringWidth(ell); width > ew {
			ln = xansi.Cut(ln, 0, width-ew) + ell
		} else {
			ln = xansi.Cut(ln, 0, width)
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// split divides total into a left part of the given ratio (clamped) and the rest.
func split(total int, ratio float64, minLeft, minRight int) (int, int) {
	left := int(float64(total) * ratio)
	if left < minLeft {
		left = minLeft
	}
	if total-left < minRight {
		left = total - minRight
	}
	if left < 0 {
		left = 0
	}
	return left, total - left
}
