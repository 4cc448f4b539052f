package treefilter

import (
	"sort"
	"strings"

	"photos-cli/internal/model"
)

// Engine holds the baseline tree of the last fetch and the currently displayed (filtered) tree.
// The baseline is never mutated by filtering.
type Engine struct {
	original *Tree
	current  []model.FolderNode

	query  string
	person *model.PersonID
}

func NewEngine(roots []model.FolderNode) *Engine {
	e := &Engine{}
	e.Reset(roots)
	return e
}

// Reset installs a freshly fetched tree and clears every filter.
func (e *Engine) Reset(roots []model.FolderNode) {
	e.original = Build(roots)
	e.current = e.original.Forest()
	e.query = ""
	e.person = nil
}

func (e *Engine) Tree() []model.FolderNode { return e.current }

func (e *Engine) Original() []model.FolderNode { return e.original.Forest() }

func (e *Engine) Query() string { return e.query }

func (e *Engine) ActivePerson() (model.PersonID, bool) {
	if e.person == nil {
		return 0, false
	}
	return *e.person, true
}

// FilterText prunes the baseline by name or by server-flagged path. An empty query restores
// the baseline.
func (e *Engine) FilterText(query string, serverPaths []string) []model.FolderNode {
	e.query = strings.TrimSpace(query)
	e.person = nil
	if e.query == "" && len(serverPaths) == 0 {
		e.current = e.original.Forest()
		return e.current
	}
	e.current = e.original.Prune(e.original.MatchText(e.query, serverPaths))
	return e.current
}

// TogglePerson selects a person filter. Toggling the active person clears the filter,
// restores the baseline and reports false (nothing to fetch).
func (e *Engine) TogglePerson(id model.PersonID) (needsFetch bool) {
	if e.person != nil && *e.person == id {
		e.person = nil
		e.current = e.original.Forest()
		return false
	}
	e.person = &id
	e.query = ""
	return true
}

// ApplyPerson prunes the baseline to the folders returned for a person. Results for a person
// that is no longer active are ignored.
func (e *Engine) ApplyPerson(id model.PersonID, folderIDs []int) bool {
	if e.person == nil || *e.person != id {
		return false
	}
	e.current = e.original.Prune(e.original.MatchIDs(folderIDs))
	return true
}

// Select converts a node choice into a folder load. Leaves and folders that directly hold
// images load; purely structural folders do not.
func Select(n model.FolderNode) (model.LoadRequest, bool) {
	if !n.IsLeaf() && !n.HasImages {
		return model.LoadRequest{}, false
	}
	return model.LoadRequest{Key: n.Key, TagsURL: n.TagsURL, Path: n.Path, Title: n.Title}, true
}

// Adapt converts the backend folder listing into FolderNodes. Links are resolved against
// baseURL, titles show underscores as spaces and children are sorted by name.
func Adapt(baseURL string, raw []model.RawFolder) []model.FolderNode {
	out := make([]model.FolderNode, 0, len(raw))
	for _, r := range raw {
		out = append(out, adaptOne(baseURL, r))
	}
	return out
}

func adaptOne(baseURL string, r model.RawFolder) model.FolderNode {
	n := model.FolderNode{
		ID:        r.ID,
		Title:     strings.ReplaceAll(r.Name, "_", " "),
		Key:       baseURL + r.Link,
		Path:      r.Path,
		HasImages: r.HasImages,
	}
	if r.LinkTags != "" {
		n.TagsURL = baseURL + r.LinkTags
	}
	if len(r.Children) == 0 {
		return n
	}
	children := append([]model.RawFolder(nil), r.Children...)
	sort.SliceStable(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	for _, c := range children {
		n.Children = append(n.Children, adaptOne(baseURL, c))
	}
	return n
}

// Find returns the node with the given key.
func Find(roots []model.FolderNode, key string) (model.FolderNode, bool) {
	for _, n := range roots {
		if n.Key == key {
			return n, true
		}
		if found, ok := Find(n.Children, key); ok {
			return found, true
		}
	}
	return model.FolderNode{}, false
}
