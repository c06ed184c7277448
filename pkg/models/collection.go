package models

import "fmt"

// CollectionSearchField selects which name a collection lookup matches.
type CollectionSearchField string

const (
	CollectionByName   CollectionSearchField = "COLLECTION_NAME"
	CollectionByEngine CollectionSearchField = "ENGINE_NAME"
)

func ParseCollectionSearchField(s string) (CollectionSearchField, error) {
	switch f := CollectionSearchField(s); f {
	case "":
		return CollectionByName, nil
	case CollectionByName, CollectionByEngine:
		return f, nil
	}
	return "", fmt.Errorf("unknown collection search field %q", s)
}

// CollectionBasic identifies a collection: media sharing one insight label
// from one engine.
type CollectionBasic struct {
	Name       string `json:"name"`
	EngineName string `json:"engine_name"`
}

// CollectionPreview lists a collection's media with the first one's
// thumbnail.
type CollectionPreview struct {
	Name             string   `json:"name"`
	EngineName       string   `json:"engine_name"`
	MediaList        []string `json:"media_list"`
	Thumbnail        *string  `json:"thumbnail,omitempty"`
	ThumbnailMediaID string   `json:"thumbnail_media_id,omitempty"`
}

// Key identifies the collection within a result map.
func (c CollectionBasic) Key() string { return c.EngineName + "_" + c.Name }
