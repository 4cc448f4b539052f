package tui

import (
	"strings"

	"photos-cli/internal/model"
)

type treeRow struct {
	node     model.FolderNode
	depth    int
	expanded bool
}

// treePane is the folder tree on the left. Expansion is tracked by node key so it survives
// refetches and filtering.
type treePane struct {
	roots    []model.FolderNode
	expanded map[string]bool
	// expandAll shows every node open, used while a filter is active.
	expandAll bool

	rows   []treeRow
	cursor int
	offset int
}

func newTreePane(expanded map[string]bool) treePane {
	if expanded == nil {
		expanded = map[string]bool{}
	}
	return treePane{expanded: expanded}
}

func (t *treePane) setRoots(roots []model.FolderNode, expandAll bool) {
	var key string
	if n, ok := t.selected(); ok {
		key = n.Key
	}
	t.roots = roots
	t.expandAll = expandAll
	t.flatten()
	t.selectKey(key)
}

func (t *treePane) flatten() {
	t.rows = make([]treeRow, 0, len(t.rows))
	var walk func(nodes []model.FolderNode, depth int)
	walk = func(nodes []model.FolderNode, depth int) {
		for _, n := range nodes {
			open := !n.IsLeaf() && (t.expandAll || t.expanded[n.Key])
			t.rows = append(t.rows, treeRow{node: n, depth: depth, expanded: open})
			if open {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(t.roots, 0)
	t.clamp()
}

func (t *treePane) clamp() {
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

func (t *treePane) selectKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range t.rows {
		if r.node.Key == key {
			t.cursor = i
			return true
		}
	}
	return false
}

func (t treePane) selected() (model.FolderNode, bool) {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return model.FolderNode{}, false
	}
	return t.rows[t.cursor].node, true
}

func (t *treePane) move(delta int) {
	t.cursor += delta
	t.clamp()
}

// expand opens the node under the cursor, or steps into its first child when already open.
func (t *treePane) expand() {
	n, ok := t.selected()
	if !ok || n.IsLeaf() {
		return
	}
	if t.rows[t.cursor].expanded {
		t.move(1)
		return
	}
	t.expanded[n.Key] = true
	t.flatten()
}

// collapse closes the node under the cursor, or jumps to its parent.
func (t *treePane) collapse() {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return
	}
	row := t.rows[t.cursor]
	if row.expanded && !t.expandAll {
		delete(t.expanded, row.node.Key)
		t.flatten()
		return
	}
	for i := t.cursor - 1; i >= 0; i-- {
		if t.rows[i].depth < row.depth {
			t.cursor = i
			return
		}
	}
}

func (t *treePane) toggle() {
	n, ok := t.selected()
	if !ok || n.IsLeaf() {
		return
	}
	if t.expanded[n.Key] {
		delete(t.expanded, n.Key)
	} else {
		t.expanded[n.Key] = true
	}
	t.flatten()
}

func (t *treePane) scrollTo(height int) {
	if height <= 0 {
		return
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+height {
		t.offset = t.cursor - height + 1
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

func (t *treePane) view(width, height int, focused bool, openKey string) string {
	if len(t.rows) == 0 {
		return styleMuted().Render("No folders.")
	}
	t.scrollTo(height)
	end := t.offset + height
	if end > len(t.rows) {
		end = len(t.rows)
	}
	var b strings.Builder
	for i := t.offset; i < end; i++ {
		r := t.rows[i]
		twisty := glyphLeaf()
		switch {
		case r.node.IsLeaf():
		case r.expanded:
			twisty = glyphTwistyExpanded()
		default:
			twisty = glyphTwistyCollapsed()
		}
		line := strings.Repeat("  ", r.depth) + twisty + " " + r.node.Title
		line = fitWidth(line, width)
		switch {
		case i == t.cursor && focused:
			line = styleSelectedRow().Render(line)
		case r.node.Key == openKey:
			line = stylePicked().Render(line)
		case i == t.cursor:
			line = styleHeading().Render(line)
		}
		b.WriteString(line)
		if i != end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
