package model

import "time"

// Timestamps are the backend-managed creation and update times.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}
