package model

// DashboardStats are the aggregate counts shown on the admin dashboard.
type DashboardStats struct {
	Contacts            int `json:"contacts"`
	UnreadContacts      int `json:"unreadContacts"`
	Subscriptions       int `json:"subscriptions"`
	TeamApplications    int `json:"teamApplications"`
	PendingApplications int `json:"pendingApplications"`
	TeamMembers         int `json:"teamMembers"`
	Projects            int `json:"projects"`
	Reports             int `json:"reports"`
	NewReports          int `json:"newReports"`
	Feedback            int `json:"feedback"`
	PendingFeedback     int `json:"pendingFeedback"`
	Videos              int `json:"videos"`
}

// Credentials are exchanged for an admin bearer token.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
