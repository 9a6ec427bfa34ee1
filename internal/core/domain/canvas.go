package domain

import (
	"time"
)

type CanvasID string

// Resolution is the fixed stage size of a canvas. The overlay client renders
// media objects in the pixel space of this resolution.
type Resolution string

const (
	ResolutionHD           Resolution = "HD"
	ResolutionFullHD       Resolution = "FULL_HD"
	ResolutionQHD          Resolution = "QHD"
	ResolutionUHD          Resolution = "UHD"
	ResolutionUltrawideFHD Resolution = "ULTRAWIDE_FHD"
	ResolutionUltrawideQHD Resolution = "ULTRAWIDE_QHD"
)

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var resolutionDimensions = map[Resolution]Dimensions{
	ResolutionHD:           {Width: 1280, Height: 720},
	ResolutionFullHD:       {Width: 1920, Height: 1080},
	ResolutionQHD:          {Width: 2560, Height: 1440},
	ResolutionUHD:          {Width: 3840, Height: 2160},
	ResolutionUltrawideFHD: {Width: 2560, Height: 1080},
	ResolutionUltrawideQHD: {Width: 3440, Height: 1440},
}

// Dimensions returns the pixel size of the resolution. The second return value
// is false for unknown resolutions.
func (r Resolution) Dimensions() (Dimensions, bool) {
	d, ok := resolutionDimensions[r]
	return d, ok
}

func (r Resolution) Valid() bool {
	_, ok := resolutionDimensions[r]
	return ok
}

type Canvas struct {
	ID      CanvasID `json:"id"`
	OwnerID UserID   `json:"owner_id"`
	// OwnerBroadcasterID is the Twitch channel the owner broadcasts on; it is
	// the channel consulted for moderator-based access.
	OwnerBroadcasterID BroadcasterID `json:"owner_broadcaster_id"`
	Name               string        `json:"name"`
	Resolution         Resolution    `json:"resolution"`
	BackgroundColor    string        `json:"background_color"`
	ShowNameTag        bool          `json:"show_name_tag"`
	AutoFit            bool          `json:"auto_fit"`
	Locked             bool          `json:"locked"`
	AllowMods          bool          `json:"allow_mods"`
	AllowViewers       bool          `json:"allow_viewers"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// CanvasSettings carries the mutable subset of a canvas. Nil fields are left
// untouched on update.
type CanvasSettings struct {
	Name            *string     `json:"name,omitempty"`
	Resolution      *Resolution `json:"resolution,omitempty"`
	BackgroundColor *string     `json:"background_color,omitempty"`
	ShowNameTag     *bool       `json:"show_name_tag,omitempty"`
	AutoFit         *bool       `json:"auto_fit,omitempty"`
	Locked          *bool       `json:"locked,omitempty"`
	AllowMods       *bool       `json:"allow_mods,omitempty"`
	AllowViewers    *bool       `json:"allow_viewers,omitempty"`
}

// AllowedUser is an explicit edit grant for a non-owner user, independent of
// moderator status.
type AllowedUser struct {
	CanvasID  CanvasID  `json:"canvas_id"`
	UserID    UserID    `json:"user_id"`
	GrantedAt time.Time `json:"granted_at"`
}
