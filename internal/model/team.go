package model

// TeamMember is a member of the collective shown on the About page.
type TeamMember struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Image string `json:"image"`
	Bio   string `json:"bio"`
	Order int    `json:"order"`
}

func (m TeamMember) Key() string { return m.ID }

// TeamApplication is a join-team submission.
type TeamApplication struct {
	ID         string `json:"_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	LinkedIn   string `json:"linkedin"`
	Interest   string `json:"interest"`
	Comment    string `json:"comment"`
	Status     string `json:"status,omitempty"` // "new" | "reviewing" | "accepted" | "rejected"
	AdminNotes string `json:"adminNotes,omitempty"`
	Timestamps
}

func (a TeamApplication) Key() string { return a.ID }

// ApplicationStatuses lists the states an application can be moved to by an admin.
var ApplicationStatuses = []string{"new", "reviewing", "accepted", "rejected"}

// Interests are the areas a candidate can pick on the join-team form.
var Interests = []string{
	"Penetration Testing", "Malware Analysis", "Reverse Engineering", "Web Security",
	"Network Security", "Mobile Security", "IoT Security", "Cryptography", "Other",
}
