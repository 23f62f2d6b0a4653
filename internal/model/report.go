package model

// ReportStatuses lists the states an admin can move a project report to.
var ReportStatuses = []string{"new", "reviewing", "approved", "featured", "rejected"}

// ReportCategories are offered on the public report form.
var ReportCategories = []string{
	"Web Development", "Mobile App", "Desktop Application", "Machine Learning",
	"Data Science", "Cybersecurity", "Blockchain", "IoT", "Game Development",
	"Open Source", "Other",
}

// ProjectReport is a project submitted by a visitor through the report form.
type ProjectReport struct {
	ID            string `json:"_id,omitempty"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ReporterName  string `json:"reporterName"`
	ReporterEmail string `json:"reporterEmail"`
	Category      string `json:"category"`
	ProjectURL    string `json:"projectUrl"`
	Status        string `json:"status,omitempty"`
	AdminNotes    string `json:"adminNotes,omitempty"`
	Timestamps
}

func (r ProjectReport) Key() string { return r.ID }
