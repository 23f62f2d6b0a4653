package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/cyberpit/site/internal/model"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *Errors
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Errors, got %v", err)
	}
	return verr.Fields
}

func TestContact_RequiresEveryFieldAndPrivacy(t *testing.T) {
	fields := fieldsOf(t, Contact(model.ContactMessage{}, false))
	for _, f := range []string{"name", "email", "subject", "message", "privacy"} {
		if fields[f] == "" {
			t.Errorf("expected error for %s", f)
		}
	}
	if fields["privacy"] != "Please agree to the privacy policy" {
		t.Errorf("unexpected privacy message %q", fields["privacy"])
	}
}

func TestContact_Valid(t *testing.T) {
	err := Contact(model.ContactMessage{
		Name: "Ada", Email: "ada@example.com", Subject: "general", Message: "Hi",
	}, true)
	if err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func TestContact_BadEmail(t *testing.T) {
	fields := fieldsOf(t, Contact(model.ContactMessage{
		Name: "Ada", Email: "not-an-email", Subject: "general", Message: "Hi",
	}, true))
	if len(fields) != 1 || fields["email"] != "Enter a valid email address" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestSubscribe_EmptyEmail(t *testing.T) {
	err := Subscribe("  ")
	var verr *Errors
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Errors, got %v", err)
	}
	if got := verr.Summary("x"); got != "Please enter your email address" {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestFeedback_RatingRequiredOnPublicForm(t *testing.T) {
	fb := model.Feedback{Name: "A", Email: "a@example.com", Comment: "Great"}
	fields := fieldsOf(t, Feedback(fb))
	if fields["rating"] == "" {
		t.Error("expected rating error")
	}
	if err := AdminFeedback(fb); err != nil {
		t.Errorf("admin editor should accept an unset rating, got %v", err)
	}
	fb.Rating = 4
	if err := Feedback(fb); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func TestApplication_InterestMustBeListed(t *testing.T) {
	app := model.TeamApplication{
		Name: "A", Email: "a@example.com", Phone: "1", LinkedIn: "linkedin.com/in/a",
		Interest: "Juggling", Comment: "c",
	}
	fields := fieldsOf(t, Application(app, true))
	if fields["interest"] == "" || len(fields) != 1 {
		t.Errorf("unexpected fields %v", fields)
	}
	app.Interest = model.Interests[0]
	if err := Application(app, true); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	if fields := fieldsOf(t, Application(app, false)); fields["terms"] == "" {
		t.Error("expected terms error")
	}
}

func TestReport_ProjectURLMustBeHTTP(t *testing.T) {
	r := model.ProjectReport{
		Title: "T", ReporterName: "R", ReporterEmail: "r@example.com",
		Category: "Cybersecurity", ProjectURL: "ftp://x", Description: "d",
	}
	if fields := fieldsOf(t, Report(r, true)); fields["projectUrl"] == "" {
		t.Error("expected projectUrl error")
	}
	r.ProjectURL = "https://github.com/x/y"
	if err := Report(r, true); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func TestTeamMember_RequiredFields(t *testing.T) {
	fields := fieldsOf(t, TeamMember(model.TeamMember{Name: "A"}))
	for _, f := range []string{"role", "image", "bio"} {
		if fields[f] == "" {
			t.Errorf("expected error for %s", f)
		}
	}
	if _, ok := fields["name"]; ok {
		t.Error("name was provided")
	}
}

func TestProject_StatusMustBeKnown(t *testing.T) {
	p := model.Project{Title: "T", Date: "2024", Category: "c", Image: "i", Description: "d", Status: "lost"}
	if fields := fieldsOf(t, Project(p)); fields["status"] == "" {
		t.Error("expected status error")
	}
	p.Status = model.ProjectUpcoming
	if err := Project(p); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func TestBlogPost_ExternalPostNeedsNoContent(t *testing.T) {
	b := model.BlogPost{Title: "T", Author: "A", Category: "CTF"}
	if fields := fieldsOf(t, BlogPost(b)); fields["content"] == "" {
		t.Error("expected content error")
	}
	b.BlogURL = "https://medium.com/p/1"
	if err := BlogPost(b); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func TestVideo_TypeAndSize(t *testing.T) {
	if fields := fieldsOf(t, Video("desktop", "image/png", 10)); fields["video"] != "Please select a valid video file" {
		t.Errorf("unexpected fields %v", fields)
	}
	if fields := fieldsOf(t, Video("mobile", "video/mp4", MaxVideoBytes+1)); !strings.Contains(fields["video"], "150MB") {
		t.Errorf("unexpected fields %v", fields)
	}
	if fields := fieldsOf(t, Video("tablet", "video/mp4", 1)); fields["type"] == "" {
		t.Error("expected type error")
	}
	if err := Video("mobile", "video/mp4", MaxVideoBytes); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func TestErrors_MessageIsDeterministic(t *testing.T) {
	err := &Errors{Fields: map[string]string{"b": "2", "a": "1"}}
	if got := err.Error(); got != "validation failed: a: 1; b: 2" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestURLRule_AcceptsAbsoluteHTTPOnly(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"https://github.com/x/y", true},
		{"http://localhost:3000/a", true},
		{"ftp://x", false},
		{"github.com/x", false},
		{"javascript:alert(1)", false},
	}
	for _, tc := range cases {
		var c checker
		c.url("link", tc.in)
		if got := c.err() == nil; got != tc.ok {
			t.Errorf("%q: expected ok=%v, got %v", tc.in, tc.ok, c.fields)
		}
	}
}

func TestAdminFeedback_RatingOutOfRange(t *testing.T) {
	fb := model.Feedback{Name: "A", Email: "a@example.com", Comment: "Great", Rating: 6}
	if fields := fieldsOf(t, AdminFeedback(fb)); fields["rating"] != "Rating must be between 1 and 5" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestImage_SizeAndType(t *testing.T) {
	if fields := fieldsOf(t, Image("image/png", MaxImageBytes+1)); fields["image"] != "Image must be smaller than 5MB" {
		t.Errorf("unexpected fields %v", fields)
	}
	if fields := fieldsOf(t, Image("application/pdf", 10)); fields["image"] == "" {
		t.Error("expected type error")
	}
	if err := Image("image/webp", MaxImageBytes); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}
