package model

import "time"

// Video types. The backend keeps exactly one active video per type.
const (
	VideoDesktop = "desktop"
	VideoMobile  = "mobile"
)

type Video struct {
	ID           string    `json:"_id,omitempty"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
}

func (v Video) Key() string { return v.ID }

// CurrentVideos are the hero video URLs served to the home page.
type CurrentVideos struct {
	Desktop string `json:"desktop"`
	Mobile  string `json:"mobile"`
}
