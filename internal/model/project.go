package model

// Project statuses.
const (
	ProjectActive    = "active"
	ProjectUpcoming  = "upcoming"
	ProjectCompleted = "completed"
	ProjectArchived  = "archived"
)

// ProjectStatuses lists every valid Project.Status value.
var ProjectStatuses = []string{ProjectActive, ProjectUpcoming, ProjectCompleted, ProjectArchived}

type Project struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Date        string   `json:"date"` // free-form display date, e.g. "March 2024"
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	Link        string   `json:"link"`
	Featured    bool     `json:"featured"`
	Status      string   `json:"status"`
	Order       int      `json:"order"`
}

func (p Project) Key() string { return p.ID }

// ProjectShowcase is the public Projects page split into its three sections.
type ProjectShowcase struct {
	Featured *Project
	Upcoming []Project
	Previous []Project
}
