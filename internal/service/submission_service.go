package service

import (
	"context"

	"github.com/cyberpit/site/internal/model"
)

// Banner texts shown after a visitor submission.
const (
	MsgContactSent     = "Message sent successfully! We'll get back to you soon."
	MsgContactFailed   = "Failed to send message. Please try again."
	MsgSubscribed      = "Successfully subscribed!"
	MsgSubscribeFailed = "Failed to subscribe. Please try again."
	MsgFeedbackSent    = "Thank you for your feedback! It will be reviewed by our team."
	MsgFeedbackFailed  = "Failed to submit feedback. Please try again."
	MsgApplicationSent = "Application submitted successfully! We'll be in touch soon."
	MsgApplicationFail = "Failed to submit application. Please try again."
	MsgReportSent      = "Project report submitted successfully! Our team will review it."
	MsgReportFailed    = "Failed to submit report. Please try again."
	MsgRequiredFields  = "Please fill in all required fields"
)

// SubmissionService forwards visitor forms to the backend. Every method
// validates first; a *validate.Errors means nothing was sent.
type SubmissionService interface {
	Contact(ctx context.Context, msg model.ContactMessage, privacyAgreed bool) error
	// Subscribe returns the backend's confirmation text, or MsgSubscribed
	// when it sent none.
	Subscribe(ctx context.Context, email string) (string, error)
	Feedback(ctx context.Context, fb model.Feedback) error
	Apply(ctx context.Context, app model.TeamApplication, termsAgreed bool) error
	Report(ctx context.Context, r model.ProjectReport, termsAgreed bool) error
	// Like adds one like to a blog post. Deduplication is the caller's job.
	Like(ctx context.Context, blogID string) error
}
