package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cyberpit/site/internal/model"
	"github.com/cyberpit/site/internal/validate"
	"github.com/cyberpit/site/pkg/api"
)

func validContact() model.ContactMessage {
	return model.ContactMessage{Name: "Ada", Email: "ada@example.com", Subject: "general", Message: "Hello"}
}

// ---------------------------------------------------------------------------
// Contact
// ---------------------------------------------------------------------------

func TestSubmission_Contact_InvalidIssuesNoCall(t *testing.T) {
	called := false
	b := mockBackend()
	b.Contact = &mockContact{submitFunc: func(context.Context, model.ContactMessage) api.Result[api.Empty] {
		called = true
		return api.Result[api.Empty]{}
	}}
	err := NewSubmissionService(b).Contact(context.Background(), validContact(), false)

	var verr *validate.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validate.Errors, got %v", err)
	}
	if verr.Field("privacy") == "" {
		t.Error("expected privacy error")
	}
	if called {
		t.Error("backend must not be called for an invalid form")
	}
}

func TestSubmission_Contact_TrimsAndSends(t *testing.T) {
	var sent model.ContactMessage
	b := mockBackend()
	b.Contact = &mockContact{submitFunc: func(_ context.Context, msg model.ContactMessage) api.Result[api.Empty] {
		sent = msg
		return api.Result[api.Empty]{}
	}}
	msg := validContact()
	msg.Name = "  Ada  "
	if err := NewSubmissionService(b).Contact(context.Background(), msg, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent.Name != "Ada" {
		t.Errorf("expected trimmed name, got %q", sent.Name)
	}
}

func TestSubmission_Contact_BackendFailureKeepsMessage(t *testing.T) {
	b := mockBackend()
	b.Contact = &mockContact{submitFunc: func(context.Context, model.ContactMessage) api.Result[api.Empty] {
		return api.Result[api.Empty]{Err: errBackendDown}
	}}
	err := NewSubmissionService(b).Contact(context.Background(), validContact(), true)
	if got := api.MessageOr(err, MsgContactFailed); got != "backend down" {
		t.Errorf("expected backend message, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// Subscribe
// ---------------------------------------------------------------------------

func TestSubmission_Subscribe_ReturnsBackendMessage(t *testing.T) {
	b := mockBackend()
	b.Subscriptions = &mockSubscriptions{subscribeFunc: func(_ context.Context, email string) api.Result[api.Empty] {
		if email != "x@example.com" {
			t.Errorf("unexpected email %q", email)
		}
		return api.Result[api.Empty]{Message: "Welcome aboard"}
	}}
	msg, err := NewSubmissionService(b).Subscribe(context.Background(), " x@example.com ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Welcome aboard" {
		t.Errorf("expected backend message, got %q", msg)
	}
}

func TestSubmission_Subscribe_DefaultMessage(t *testing.T) {
	msg, err := NewSubmissionService(mockBackend()).Subscribe(context.Background(), "x@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != MsgSubscribed {
		t.Errorf("expected %q, got %q", MsgSubscribed, msg)
	}
}

func TestSubmission_Subscribe_EmptyEmail(t *testing.T) {
	_, err := NewSubmissionService(mockBackend()).Subscribe(context.Background(), "  ")
	var verr *validate.Errors
	if !errors.As(err, &verr) || verr.Field("email") != "Please enter your email address" {
		t.Errorf("unexpected error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Feedback / Apply / Report / Like
// ---------------------------------------------------------------------------

func TestSubmission_Feedback_NeverFeatured(t *testing.T) {
	var sent model.Feedback
	b := mockBackend()
	b.Feedback = &mockFeedback{submitFunc: func(_ context.Context, fb model.Feedback) api.Result[api.Empty] {
		sent = fb
		return api.Result[api.Empty]{}
	}}
	fb := model.Feedback{Name: "Ada", Email: "ada@example.com", Comment: "Great", Rating: 5, Featured: true}
	if err := NewSubmissionService(b).Feedback(context.Background(), fb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent.Featured {
		t.Error("visitor feedback must not be sent as featured")
	}
}

func TestSubmission_Apply_RequiresTerms(t *testing.T) {
	app := model.TeamApplication{
		Name: "Ada", Email: "ada@example.com", Phone: "123", LinkedIn: "ada",
		Interest: model.Interests[0], Comment: "hi",
	}
	err := NewSubmissionService(mockBackend()).Apply(context.Background(), app, false)
	var verr *validate.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmission_Report_WrapsBackendError(t *testing.T) {
	b := mockBackend()
	b.Reports = &mockReports{submitFunc: func(context.Context, model.ProjectReport) api.Result[api.Empty] {
		return api.Result[api.Empty]{Err: errBackendDown}
	}}
	r := model.ProjectReport{
		Title: "Tool", Description: "desc", ReporterName: "Ada", ReporterEmail: "ada@example.com",
		Category: model.ReportCategories[0], ProjectURL: "https://github.com/x/y",
	}
	err := NewSubmissionService(b).Report(context.Background(), r, true)
	if !errors.Is(err, errBackendDown) {
		t.Errorf("expected wrapped backend error, got %v", err)
	}
}

func TestSubmission_Like_MissingID(t *testing.T) {
	if err := NewSubmissionService(mockBackend()).Like(context.Background(), ""); !errors.Is(err, ErrMissingID) {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
}
