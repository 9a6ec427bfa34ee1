package domain

import (
	"sort"
	"time"
)

type MediaObjectID string

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	return k == MediaKindImage || k == MediaKindVideo
}

// MediaObject is one placed image or video on a canvas. Position and size are
// in the pixel space of the canvas resolution, rotation in degrees.
type MediaObject struct {
	ID        MediaObjectID `json:"id"`
	CanvasID  CanvasID      `json:"canvas_id"`
	URL       string        `json:"url"`
	Kind      MediaKind     `json:"kind"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Rotation  float64       `json:"rotation"`
	ZIndex    int           `json:"z_index"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// MediaObjectUpdate carries the mutable subset of a media object for
// drag/resize/rotate/restack operations. Nil fields are left untouched.
type MediaObjectUpdate struct {
	URL      *string  `json:"url,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	ZIndex   *int     `json:"z_index,omitempty"`
}

// SortMediaObjects orders objects for rendering: ascending z-index, ties broken
// by insertion time.
func SortMediaObjects(objects []*MediaObject) {
	sort.SliceStable(objects, func(i, j int) bool {
		if objects[i].ZIndex != objects[j].ZIndex {
			return objects[i].ZIndex < objects[j].ZIndex
		}
		return objects[i].CreatedAt.Before(objects[j].CreatedAt)
	})
}
