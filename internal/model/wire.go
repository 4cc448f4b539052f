package model

import "time"

// Raw* types mirror the backend JSON. Field matching is case-insensitive in encoding/json,
// so both {"Id":..} and {"id":..} decode.

type RawFolder struct {
	ID        int         `json:"Id"`
	Name      string      `json:"Name"`
	Link      string      `json:"Link"`
	LinkTags  string      `json:"LinkTags"`
	Path      string      `json:"Path"`
	HasImages bool        `json:"HasImages"`
	Children  []RawFolder `json:"Children"`
}

type RawImage struct {
	Name          string    `json:"Name"`
	ThumbnailLink string    `json:"ThumbnailLink"`
	ImageLink     string    `json:"ImageLink"`
	HdLink        string    `json:"HdLink"`
	Width         int       `json:"Width"`
	Height        int       `json:"Height"`
	Date          time.Time `json:"Date"`
	Orientation   int       `json:"Orientation"`
}

type RawTag struct {
	Value    string `json:"Value"`
	Color    string `json:"Color"`
	ToRemove bool   `json:"ToRemove,omitempty"`
}

type FolderPayload struct {
	ID              int        `json:"Id"`
	Files           []RawImage `json:"Files"`
	Tags            []RawTag   `json:"Tags"`
	FolderPath      string     `json:"FolderPath"`
	UpdateURL       string     `json:"UpdateUrl"`
	UpdateExifURL   string     `json:"UpdateExifUrl"`
	RemoveFolderURL string     `json:"RemoveFolderUrl"`
	Title           string     `json:"Title,omitempty"`
	Description     string     `json:"Description,omitempty"`
}

// Info extracts the folder metadata; tags with unparseable colors fall back to the default color.
func (p FolderPayload) Info() FolderInfo {
	tags := make([]Tag, 0, len(p.Tags))
	for _, t := range p.Tags {
		c, err := ParseColor(t.Color)
		if err != nil {
			c = DefaultTagColor
		}
		tags = append(tags, Tag{Value: t.Value, Color: c})
	}
	return FolderInfo{
		ID:            FolderID(p.ID),
		Path:          p.FolderPath,
		Title:         p.Title,
		Description:   p.Description,
		Tags:          tags,
		UpdateURL:     p.UpdateURL,
		UpdateExifURL: p.UpdateExifURL,
		RemoveURL:     p.RemoveFolderURL,
	}
}

// FolderDetails is the editable title and description of a folder.
type FolderDetails struct {
	Path        string `json:"Path"`
	Title       string `json:"Title"`
	Description string `json:"Description"`
}
