package treefilter

import (
	"reflect"
	"strings"
	"testing"

	"photos-cli/internal/model"
)

func leaf(id int, title string) model.FolderNode {
	return model.FolderNode{ID: id, Title: title, Key: "/browserf/" + title}
}

func folder(id int, title string, children ...model.FolderNode) model.FolderNode {
	return model.FolderNode{ID: id, Title: title, Key: "/browserf/" + title, Children: children}
}

func sampleForest() []model.FolderNode {
	return []model.FolderNode{
		folder(1, "2021",
			folder(2, "summer",
				folder(3, "trip",
					leaf(4, "beach day"),
					leaf(5, "museum"),
				),
			),
			leaf(6, "winter"),
		),
		folder(7, "2022",
			leaf(8, "birthday"),
		),
	}
}

func titles(forest []model.FolderNode) []string {
	var out []string
	var walk func(n model.FolderNode, prefix string)
	walk = func(n model.FolderNode, prefix string) {
		p := n.Title
		if prefix != "" {
			p = prefix + "/" + n.Title
		}
		out = append(out, p)
		for _, c := range n.Children {
			walk(c, p)
		}
	}
	for _, r := range forest {
		walk(r, "")
	}
	return out
}

func TestFilterText_GreatGrandchildMatchKeepsAncestors(t *testing.T) {
	e := NewEngine(sampleForest())

	got := titles(e.FilterText("beach", nil))
	want := []string{"2021", "2021/summer", "2021/summer/trip", "2021/summer/trip/beach day"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pruned tree mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestFilterText_EmptyQueryIsStructurallyEqual(t *testing.T) {
	forest := sampleForest()
	e := NewEngine(forest)
	e.FilterText("beach", nil)

	got := e.FilterText("", nil)
	if !reflect.DeepEqual(got, forest) {
		t.Fatalf("expected empty query to restore the original tree\n got: %#v\nwant: %#v", got, forest)
	}
}

func TestFilterText_CaseInsensitive(t *testing.T) {
	e := NewEngine(sampleForest())
	got := titles(e.FilterText("MUSEUM", nil))
	if len(got) == 0 || got[len(got)-1] != "2021/summer/trip/museum" {
		t.Fatalf("expected museum branch, got %v", got)
	}
}

func TestFilterText_ServerFlaggedAccumulatedPath(t *testing.T) {
	e := NewEngine(sampleForest())

	// Server flags paths with underscores; "2021/summer" matches by accumulated path even
	// though neither segment contains the query.
	got := titles(e.FilterText("zzz", []string{"2021/summer"}))
	want := []string{"2021", "2021/summer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Only the node's own segment flagged is not enough: paths are accumulated from the root.
	got = titles(e.FilterText("zzz", []string{"summer"}))
	if len(got) != 0 {
		t.Fatalf("expected no match for bare segment, got %v", got)
	}

	got = titles(e.FilterText("zzz", []string{"2021/summer/trip/beach_day"}))
	if got[len(got)-1] != "2021/summer/trip/beach day" {
		t.Fatalf("expected underscore-normalized server path to match, got %v", got)
	}
}

func TestPrune_NodePresentIffSelfOrDescendantMatches(t *testing.T) {
	tree := Build(sampleForest())
	for _, q := range []string{"", "a", "trip", "20", "birthday", "nothing", "e"} {
		match := tree.MatchText(q, nil)
		pruned := titles(tree.Prune(match))
		present := map[string]bool{}
		for _, p := range pruned {
			present[p] = true
		}
		for i, n := range tree.nodes {
			want := subtreeMatches(tree, i, match)
			if present[n.path] != want {
				t.Fatalf("query %q node %q: present=%v want %v", q, n.path, present[n.path], want)
			}
		}
	}
}

func subtreeMatches(tree *Tree, i int, match func(int) bool) bool {
	if match(i) {
		return true
	}
	for _, c := range tree.nodes[i].children {
		if subtreeMatches(tree, c, match) {
			return true
		}
	}
	return false
}

func TestPrune_DoesNotMutateBaseline(t *testing.T) {
	forest := sampleForest()
	e := NewEngine(forest)
	before := e.Original()
	e.FilterText("museum", nil)
	e.TogglePerson(3)
	e.ApplyPerson(3, []int{8})
	if !reflect.DeepEqual(e.Original(), before) {
		t.Fatalf("baseline changed after filtering")
	}
}

func TestTogglePerson_SecondToggleRestoresBaseline(t *testing.T) {
	e := NewEngine(sampleForest())

	if !e.TogglePerson(42) {
		t.Fatalf("expected first toggle to request a fetch")
	}
	if !e.ApplyPerson(42, []int{5}) {
		t.Fatalf("expected result for active person to apply")
	}
	got := titles(e.Tree())
	want := []string{"2021", "2021/summer", "2021/summer/trip", "2021/summer/trip/museum"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if e.TogglePerson(42) {
		t.Fatalf("expected second toggle to clear without fetching")
	}
	if _, ok := e.ActivePerson(); ok {
		t.Fatalf("expected no active person")
	}
	if !reflect.DeepEqual(e.Tree(), sampleForest()) {
		t.Fatalf("expected baseline tree after clearing person filter")
	}
}

func TestApplyPerson_IgnoresStaleResult(t *testing.T) {
	e := NewEngine(sampleForest())
	e.TogglePerson(1)
	e.TogglePerson(2)
	if e.ApplyPerson(1, []int{8}) {
		t.Fatalf("expected stale person result to be ignored")
	}
	if !reflect.DeepEqual(e.Tree(), sampleForest()) {
		t.Fatalf("tree changed by stale result")
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		node model.FolderNode
		load bool
	}{
		{name: "leaf", node: leaf(1, "a"), load: true},
		{name: "structural", node: folder(2, "b", leaf(3, "c")), load: false},
		{name: "folder with images", node: func() model.FolderNode {
			n := folder(4, "d", leaf(5, "e"))
			n.HasImages = true
			return n
		}(), load: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, ok := Select(tt.node)
			if ok != tt.load {
				t.Fatalf("Select load=%v, want %v", ok, tt.load)
			}
			if ok && req.Key != tt.node.Key {
				t.Fatalf("expected key %q, got %q", tt.node.Key, req.Key)
			}
		})
	}
}

func TestAdapt_SortsChildrenAndResolvesLinks(t *testing.T) {
	raw := []model.RawFolder{{
		ID:       1,
		Name:     "family_photos",
		Link:     "/browserf/family_photos",
		LinkTags: "/tagsByFolder/family_photos",
		Children: []model.RawFolder{
			{ID: 3, Name: "zoo", Link: "/browserf/family_photos/zoo"},
			{ID: 2, Name: "beach_2020", Link: "/browserf/family_photos/beach_2020", HasImages: true},
		},
	}}
	got := Adapt("http://host", raw)
	if got[0].Title != "family photos" {
		t.Fatalf("expected underscores replaced, got %q", got[0].Title)
	}
	if got[0].Key != "http://host/browserf/family_photos" || got[0].TagsURL != "http://host/tagsByFolder/family_photos" {
		t.Fatalf("unexpected links: %+v", got[0])
	}
	if got[0].Children[0].Title != "beach 2020" || got[0].Children[1].Title != "zoo" {
		t.Fatalf("expected children sorted by name, got %v", titles(got))
	}
	if !strings.HasPrefix(got[0].Children[0].Key, "http://host/") {
		t.Fatalf("expected child key resolved, got %q", got[0].Children[0].Key)
	}
	if got[0].Children[1].Children != nil {
		t.Fatalf("expected leaf children to stay nil")
	}
}

func TestFind(t *testing.T) {
	roots := sampleForest()
	n, ok := Find(roots, "/browserf/museum")
	if !ok || n.ID != 5 {
		t.Fatalf("Find museum = %+v, %v", n, ok)
	}
	if _, ok := Find(roots, "/browserf/nowhere"); ok {
		t.Fatalf("Find should miss unknown keys")
	}
}
