package model

import "time"

type PersonID int

type FolderID int

type MediaItem struct {
	// Path is the server-relative HD link (e.g. /imagehd/vacation/day1/a.jpg). Unique per item.
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	FolderKey    string    `json:"folderKey"`
	Date         time.Time `json:"date"`
	Selected     bool      `json:"selected"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
}

type FolderNode struct {
	ID        int          `json:"id"`
	Title     string       `json:"title"`
	Key       string       `json:"key"`
	TagsURL   string       `json:"tagsUrl,omitempty"`
	Path      string       `json:"path,omitempty"`
	HasImages bool         `json:"hasImages"`
	Children  []FolderNode `json:"children,omitempty"`
}

func (n FolderNode) IsLeaf() bool { return len(n.Children) == 0 }

type Tag struct {
	Value string   `json:"value"`
	Color RGBColor `json:"color"`
}

type Person struct {
	ID   PersonID `json:"id"`
	Name string   `json:"name"`
}

// PathAssignment is one pending tagging delta for a person.
type PathAssignment struct {
	Path          string `json:"path"`
	Index         int    `json:"index"`
	PendingDelete bool   `json:"pendingDelete"`
}

// TagAssignment is the batched save request entry for one person in one folder.
type TagAssignment struct {
	Tag     PersonID `json:"tag"`
	Folder  FolderID `json:"folder"`
	Paths   []string `json:"paths"`
	Deleted []string `json:"deleted"`
}

type DeleteResult struct {
	Success int `json:"success"`
	Errors  int `json:"errors"`
}

// LoadRequest asks the gallery to open a folder.
type LoadRequest struct {
	Key     string `json:"key"`
	TagsURL string `json:"tagsUrl,omitempty"`
	Path    string `json:"path,omitempty"`
	Title   string `json:"title,omitempty"`
}

func (r LoadRequest) Empty() bool { return r.Key == "" }

// FolderInfo is the non-image part of a folder payload.
type FolderInfo struct {
	ID            FolderID `json:"id"`
	Path          string   `json:"path"`
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Tags          []Tag    `json:"tags"`
	UpdateURL     string   `json:"updateUrl,omitempty"`
	UpdateExifURL string   `json:"updateExifUrl,omitempty"`
	RemoveURL     string   `json:"removeUrl,omitempty"`
}
