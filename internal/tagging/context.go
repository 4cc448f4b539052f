// Package tagging reconciles per-folder people tagging against the last baseline
// fetched from the server. Every operation takes a Context and returns a new one;
// inputs are never modified.
package tagging

import (
	"sort"

	"photos-cli/internal/model"
)

type Context struct {
	FolderID   model.FolderID
	CurrentTag *model.Person
	// Paths holds pending deltas only, keyed by person.
	Paths map[model.PersonID][]model.PathAssignment
	// OriginalPaths is the last server-confirmed baseline (path suffixes, usually basenames).
	OriginalPaths map[model.PersonID][]string
	// AllImages is the image set before any person filter was applied.
	AllImages []model.MediaItem
	People    []model.Person
	// FilterTag is the person used by the filter view, if any.
	FilterTag *model.PersonID
}

// Clone returns a deep copy.
func (c Context) Clone() Context {
	out := c
	if c.CurrentTag != nil {
		p := *c.CurrentTag
		out.CurrentTag = &p
	}
	if c.FilterTag != nil {
		id := *c.FilterTag
		out.FilterTag = &id
	}
	if c.Paths != nil {
		out.Paths = make(map[model.PersonID][]model.PathAssignment, len(c.Paths))
		for k, v := range c.Paths {
			out.Paths[k] = append([]model.PathAssignment(nil), v...)
		}
	}
	if c.OriginalPaths != nil {
		out.OriginalPaths = make(map[model.PersonID][]string, len(c.OriginalPaths))
		for k, v := range c.OriginalPaths {
			out.OriginalPaths[k] = append([]string(nil), v...)
		}
	}
	out.AllImages = append([]model.MediaItem(nil), c.AllImages...)
	out.People = append([]model.Person(nil), c.People...)
	return out
}

// HasPending reports whether any uncommitted delta exists.
func (c Context) HasPending() bool {
	for _, v := range c.Paths {
		if len(v) > 0 {
			return true
		}
	}
	return false
}

// Reset clears the active person and discards uncommitted deltas.
func Reset(c Context) Context {
	next := c.Clone()
	next.CurrentTag = nil
	next.Paths = nil
	return next
}

// WithBaseline replaces the baseline wholesale.
func WithBaseline(c Context, baseline map[model.PersonID][]string) Context {
	next := c.Clone()
	next.OriginalPaths = make(map[model.PersonID][]string, len(baseline))
	for k, v := range baseline {
		next.OriginalPaths[k] = append([]string(nil), v...)
	}
	return next
}

// WithPerson appends a person confirmed by the server to the catalog.
func WithPerson(c Context, p model.Person) Context {
	next := c.Clone()
	for _, existing := range next.People {
		if existing.ID == p.ID {
			return next
		}
	}
	next.People = append(next.People, p)
	return next
}

func (c Context) FindPerson(id model.PersonID) (model.Person, bool) {
	for _, p := range c.People {
		if p.ID == id {
			return p, true
		}
	}
	return model.Person{}, false
}

func inBaseline(baseline []string, path string) bool {
	for _, entry := range baseline {
		if model.PathMatches(path, entry) {
			return true
		}
	}
	return false
}

func sortedPersonIDs[V any](m map[model.PersonID]V) []model.PersonID {
	ids := make([]model.PersonID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
