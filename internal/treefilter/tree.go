package treefilter

import (
	"strings"

	"photos-cli/internal/model"
)

// Tree is an arena representation of a folder forest. Nodes are stored in pre-order, so a
// parent always has a lower index than its descendants; reverse index order is a valid
// bottom-up traversal.
type Tree struct {
	nodes []arenaNode
	roots []int
}

type arenaNode struct {
	folder   model.FolderNode // Children is always nil here; structure lives in children.
	parent   int
	children []int
	// path is the accumulated title path: root/child/.../node.
	path string
}

// Build copies a forest into an arena. The input is not retained.
func Build(roots []model.FolderNode) *Tree {
	t := &Tree{}
	var add func(n model.FolderNode, parent int, parentPath string) int
	add = func(n model.FolderNode, parent int, parentPath string) int {
		idx := len(t.nodes)
		path := n.Title
		if parentPath != "" {
			path = parentPath + "/" + n.Title
		}
		flat := n
		flat.Children = nil
		t.nodes = append(t.nodes, arenaNode{folder: flat, parent: parent, path: path})
		for _, ch := range n.Children {
			c := add(ch, idx, path)
			t.nodes[idx].children = append(t.nodes[idx].children, c)
		}
		return idx
	}
	for _, r := range roots {
		t.roots = append(t.roots, add(r, -1, ""))
	}
	return t
}

func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Forest rebuilds the full tree.
func (t *Tree) Forest() []model.FolderNode {
	return t.Prune(func(int) bool { return true })
}

// Prune returns a new forest containing exactly the nodes that match or have a matching
// descendant. Sibling order is preserved.
func (t *Tree) Prune(match func(i int) bool) []model.FolderNode {
	if t.Len() == 0 {
		return []model.FolderNode{}
	}
	keep := make([]bool, len(t.nodes))
	for i := len(t.nodes) - 1; i >= 0; i-- {
		if !keep[i] && match(i) {
			keep[i] = true
		}
		if keep[i] && t.nodes[i].parent >= 0 {
			keep[t.nodes[i].parent] = true
		}
	}

	built := make([]model.FolderNode, len(t.nodes))
	for i := len(t.nodes) - 1; i >= 0; i-- {
		if !keep[i] {
			continue
		}
		n := t.nodes[i].folder
		for _, c := range t.nodes[i].children {
			if keep[c] {
				n.Children = append(n.Children, built[c])
			}
		}
		built[i] = n
	}

	out := make([]model.FolderNode, 0, len(t.roots))
	for _, r := range t.roots {
		if keep[r] {
			out = append(out, built[r])
		}
	}
	return out
}

// MatchText matches nodes whose title contains query (case-insensitive) or whose
// accumulated path is one of the server-returned prefixes.
func (t *Tree) MatchText(query string, serverPaths []string) func(i int) bool {
	q := strings.ToLower(query)
	flagged := make(map[string]bool, len(serverPaths))
	for _, p := range serverPaths {
		flagged[strings.ReplaceAll(p, "_", " ")] = true
	}
	return func(i int) bool {
		n := t.nodes[i]
		if strings.Contains(strings.ToLower(n.folder.Title), q) {
			return true
		}
		return flagged[n.path]
	}
}

// MatchIDs matches nodes whose folder id is in ids.
func (t *Tree) MatchIDs(ids []int) func(i int) bool {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(i int) bool {
		_, ok := set[t.nodes[i].folder.ID]
		return ok
	}
}
