package gallery

import (
	"sort"
	"strings"

	"photos-cli/internal/model"
)

// AdaptImages turns raw folder entries into media items: entries without an image
// link are dropped and the rest are ordered by date, oldest first.
func AdaptImages(resolve func(string) string, files []model.RawImage) []model.MediaItem {
	if resolve == nil {
		resolve = func(s string) string { return s }
	}
	out := make([]model.MediaItem, 0, len(files))
	for _, f := range files {
		if f.ImageLink == "" {
			continue
		}
		path := f.HdLink
		if path == "" {
			path = f.ImageLink
		}
		item := model.MediaItem{
			Path:      path,
			Name:      f.Name,
			FolderKey: model.FolderOf(path, f.Name),
			Date:      f.Date,
			ImageURL:  resolve(f.ImageLink),
			Width:     f.Width,
			Height:    f.Height,
		}
		if f.ThumbnailLink != "" {
			item.ThumbnailURL = resolve(f.ThumbnailLink)
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// IsMultiFolder reports whether the raw entries come from more than one source folder.
func IsMultiFolder(files []model.RawImage) bool {
	seen := map[string]struct{}{}
	for _, f := range files {
		if f.HdLink == "" {
			continue
		}
		seen[strings.Replace(f.HdLink, f.Name, "", 1)] = struct{}{}
		if len(seen) > 1 {
			return true
		}
	}
	return false
}

// SortedTags orders folder tags by value.
func SortedTags(tags []model.Tag) []model.Tag {
	out := append([]model.Tag(nil), tags...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

func clearSelected(items []model.MediaItem) []model.MediaItem {
	if items == nil {
		return nil
	}
	out := make([]model.MediaItem, len(items))
	for i, it := range items {
		it.Selected = false
		out[i] = it
	}
	return out
}

func withoutPaths(items []model.MediaItem, removed map[string]struct{}) []model.MediaItem {
	if items == nil {
		return nil
	}
	out := make([]model.MediaItem, 0, len(items))
	for _, it := range items {
		if _, gone := removed[it.Path]; !gone {
			out = append(out, it)
		}
	}
	return out
}
