package tagging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"photos-cli/internal/model"
)

// ErrBaselineMismatch means the pending deltas remove more assignments than the baseline holds.
var ErrBaselineMismatch = errors.New("tagging: pending deltas do not match baseline")

type ValidationError struct {
	Field string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

func ValidatePersonName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "person name"}
	}
	return nil
}

func ValidateTagValue(value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: "tag value"}
	}
	return nil
}

// Saver persists a batched tag change set.
type Saver interface {
	SaveAssignments(ctx context.Context, batch []model.TagAssignment) error
}

// SelectPerson makes p the active tag and returns AllImages with the selection overlay for p:
// an image is selected when it is in the baseline and not pending removal, or pending addition.
func SelectPerson(c Context, p model.Person) (Context, []model.MediaItem) {
	next := c.Clone()
	next.CurrentTag = &p
	return next, Overlay(next, p.ID, next.AllImages)
}

// Overlay computes the tagged state of each image for a person.
func Overlay(c Context, id model.PersonID, images []model.MediaItem) []model.MediaItem {
	adds := map[int]bool{}
	deletes := map[int]bool{}
	for _, d := range c.Paths[id] {
		if d.PendingDelete {
			deletes[d.Index] = true
		} else {
			adds[d.Index] = true
		}
	}
	baseline := c.OriginalPaths[id]
	out := make([]model.MediaItem, len(images))
	for i, img := range images {
		img.Selected = adds[i] || (!deletes[i] && inBaseline(baseline, img.Path))
		out[i] = img
	}
	return out
}

// Assign records a toggle of the image at index for the active person. A second toggle of the
// same index undoes the first. Toggling an image that is already in the baseline schedules
// its removal.
func Assign(c Context, index int, item model.MediaItem) Context {
	if c.CurrentTag == nil {
		return c
	}
	next := c.Clone()
	id := next.CurrentTag.ID
	if next.Paths == nil {
		next.Paths = map[model.PersonID][]model.PathAssignment{}
	}
	list := next.Paths[id]
	for i, d := range list {
		if d.Index == index {
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(next.Paths, id)
			} else {
				next.Paths[id] = list
			}
			return next
		}
	}
	next.Paths[id] = append(list, model.PathAssignment{
		Path:          item.Path,
		Index:         index,
		PendingDelete: inBaseline(next.OriginalPaths[id], item.Path),
	})
	return next
}

// CountAssigned returns how many images carry the person once pending deltas apply.
// A negative total is clamped to zero and reported as ErrBaselineMismatch.
func CountAssigned(c Context, id model.PersonID) (int, error) {
	count := len(c.OriginalPaths[id])
	for _, d := range c.Paths[id] {
		if d.PendingDelete {
			count--
		} else {
			count++
		}
	}
	if count < 0 {
		return 0, ErrBaselineMismatch
	}
	return count, nil
}

// SavePayload builds one entry per person with pending deltas, ordered by person id.
// Paths are sent as basenames.
func SavePayload(c Context) []model.TagAssignment {
	var out []model.TagAssignment
	for _, id := range sortedPersonIDs(c.Paths) {
		deltas := c.Paths[id]
		if len(deltas) == 0 {
			continue
		}
		entry := model.TagAssignment{
			Tag:     id,
			Folder:  c.FolderID,
			Paths:   []string{},
			Deleted: []string{},
		}
		for _, d := range deltas {
			if d.PendingDelete {
				entry.Deleted = append(entry.Deleted, model.Basename(d.Path))
			} else {
				entry.Paths = append(entry.Paths, model.Basename(d.Path))
			}
		}
		out = append(out, entry)
	}
	return out
}

// Save submits all pending deltas in one request. On success the deltas are merged into the
// baseline and cleared; on failure the returned context is c unchanged.
func Save(ctx context.Context, c Context, s Saver) (Context, error) {
	batch := SavePayload(c)
	if len(batch) == 0 {
		return c, nil
	}
	if err := s.SaveAssignments(ctx, batch); err != nil {
		return c, err
	}
	next := mergeBaseline(c)
	next.Paths = nil
	return next, nil
}

// Commit folds deltas that were saved from an earlier snapshot into c's baseline and
// drops them from c's pending set. Everything else in c is kept.
func Commit(c Context, saved map[model.PersonID][]model.PathAssignment) Context {
	if len(saved) == 0 {
		return c
	}
	next := c.Clone()
	next.Paths = saved
	next = mergeBaseline(next)
	next.Paths = nil
	for id, deltas := range c.Paths {
		var left []model.PathAssignment
		for _, d := range deltas {
			if !containsDelta(saved[id], d) {
				left = append(left, d)
			}
		}
		if len(left) > 0 {
			if next.Paths == nil {
				next.Paths = map[model.PersonID][]model.PathAssignment{}
			}
			next.Paths[id] = left
		}
	}
	return next
}

func containsDelta(list []model.PathAssignment, d model.PathAssignment) bool {
	for _, e := range list {
		if e == d {
			return true
		}
	}
	return false
}

func mergeBaseline(c Context) Context {
	next := c.Clone()
	if next.OriginalPaths == nil {
		next.OriginalPaths = map[model.PersonID][]string{}
	}
	for id, deltas := range c.Paths {
		baseline := next.OriginalPaths[id]
		for _, d := range deltas {
			if d.PendingDelete {
				kept := baseline[:0:0]
				for _, entry := range baseline {
					if !model.PathMatches(d.Path, entry) {
						kept = append(kept, entry)
					}
				}
				baseline = kept
				continue
			}
			if !inBaseline(baseline, d.Path) {
				baseline = append(baseline, model.Basename(d.Path))
			}
		}
		next.OriginalPaths[id] = baseline
	}
	return next
}

// FilterImages keeps the images whose basename is in the server-returned set.
func FilterImages(all []model.MediaItem, basenames []string) []model.MediaItem {
	set := make(map[string]struct{}, len(basenames))
	for _, b := range basenames {
		set[model.Basename(b)] = struct{}{}
	}
	out := []model.MediaItem{}
	for _, img := range all {
		if _, ok := set[model.Basename(img.Path)]; ok {
			out = append(out, img)
		}
	}
	return out
}
