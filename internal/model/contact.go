package model

// Contact message statuses.
const (
	ContactUnread  = "unread"
	ContactRead    = "read"
	ContactReplied = "replied"
)

// ContactStatuses lists every valid ContactMessage.Status value.
var ContactStatuses = []string{ContactUnread, ContactRead, ContactReplied}

// ContactMessage represents a message submitted via the contact form.
type ContactMessage struct {
	ID            string `json:"_id,omitempty"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	Status        string `json:"status,omitempty"`
	AdminResponse string `json:"adminResponse,omitempty"`
	Timestamps
}

func (m ContactMessage) Key() string { return m.ID }

// Subscription is a newsletter subscriber.
type Subscription struct {
	ID       string `json:"_id,omitempty"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
	Timestamps
}

func (s Subscription) Key() string { return s.ID }

// BulkEmail is a campaign sent to every active subscriber.
type BulkEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// BulkEmailResult reports how many subscribers the campaign reached.
type BulkEmailResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed,omitempty"`
	Total  int `json:"total,omitempty"`
}

// ContactSubjects maps the contact form's subject values to their labels.
var ContactSubjects = []Option{
	{Value: "general", Label: "General Inquiry"},
	{Value: "services", Label: "Security Services"},
	{Value: "join", Label: "Join Our Team"},
	{Value: "vulnerability", Label: "Report Vulnerability"},
	{Value: "other", Label: "Other"},
}

// Option is a value/label pair for select inputs.
type Option struct {
	Value string
	Label string
}
