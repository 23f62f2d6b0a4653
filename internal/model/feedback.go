package model

import "time"

// MaxFeaturedFeedback is the number of testimonials the home page shows.
// The admin UI enforces it; the backend is not known to.
const MaxFeaturedFeedback = 5

// Feedback is a testimonial submitted by a visitor and curated by an admin.
type Feedback struct {
	ID        string    `json:"_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Workplace string    `json:"workplace"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"` // 1..5, 0 means not rated yet
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

func (f Feedback) Key() string { return f.ID }
