// Package timeline partitions a flat image list into per-folder groups ordered by
// recency and models the horizontal scrubber used to pick one group at a time.
package timeline

import (
	"sort"

	"photos-cli/internal/model"
)

// DefaultCharWidth is the width of one label character, in terminal cells.
const DefaultCharWidth = 1

type Group struct {
	Key   string
	Label string
	Items []model.MediaItem
}

// First returns the group's first item in input order.
func (g Group) First() model.MediaItem {
	if len(g.Items) == 0 {
		return model.MediaItem{}
	}
	return g.Items[0]
}

type Options struct {
	// Titles maps a folder key to a server-supplied title. Empty titles are ignored.
	Titles map[string]string
	// CharWidth is the width of one label character. Defaults to DefaultCharWidth.
	CharWidth int
}

type Timeline struct {
	Groups    []Group
	SlotWidth int

	offset   int
	selected int
}

// New groups items by folder key, orders groups by their first item's date (most recent
// first, ties keep first-seen order) and sizes every slot after the longest label.
func New(items []model.MediaItem, opts Options) *Timeline {
	charW := opts.CharWidth
	if charW <= 0 {
		charW = DefaultCharWidth
	}

	index := map[string]int{}
	var groups []Group
	for _, it := range items {
		key := model.FolderKey(it.FolderKey)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Items = append(groups[i].Items, it)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].First().Date.After(groups[j].First().Date)
	})

	maxLen := 0
	for i := range groups {
		groups[i].Label = label(groups[i].Key, opts.Titles)
		if n := len([]rune(groups[i].Label)); n > maxLen {
			maxLen = n
		}
	}

	return &Timeline{
		Groups:    groups,
		SlotWidth: maxLen * charW,
		selected:  -1,
	}
}

func label(key string, titles map[string]string) string {
	if t := titles[key]; t != "" {
		return t
	}
	return model.DisplayFolderName(key)
}

func (t *Timeline) Len() int { return len(t.Groups) }

func (t *Timeline) Offset() int { return t.offset }

// Selected returns the selected group index, or -1.
func (t *Timeline) Selected() int { return t.selected }

// Select makes group i active and returns its items as the new image set.
func (t *Timeline) Select(i int) ([]model.MediaItem, bool) {
	if i < 0 || i >= len(t.Groups) {
		return nil, false
	}
	t.selected = i
	return append([]model.MediaItem(nil), t.Groups[i].Items...), true
}

func (t *Timeline) step() int { return 2 * t.SlotWidth }

// Advance scrolls toward later slots. It stops once every remaining slot already fits.
func (t *Timeline) Advance(visibleWidth int) bool {
	if t.step() == 0 || len(t.Groups)*t.SlotWidth+t.offset < visibleWidth {
		return false
	}
	t.offset -= t.step()
	return true
}

// Retreat scrolls back toward the first slot and stops at the start.
func (t *Timeline) Retreat() bool {
	if t.offset >= 0 {
		return false
	}
	t.offset += t.step()
	return true
}

// Visible returns the half-open range of slot indices fully or partly inside the viewport.
func (t *Timeline) Visible(visibleWidth int) (from, to int) {
	if t.SlotWidth <= 0 || len(t.Groups) == 0 {
		return 0, len(t.Groups)
	}
	from = -t.offset / t.SlotWidth
	if from < 0 {
		from = 0
	}
	if from > len(t.Groups) {
		from = len(t.Groups)
	}
	to = (visibleWidth - t.offset + t.SlotWidth - 1) / t.SlotWidth
	if to > len(t.Groups) {
		to = len(t.Groups)
	}
	if to < from {
		to = from
	}
	return from, to
}
