package validate

import (
	"strconv"
	"strings"

	"github.com/cyberpit/site/internal/model"
)

// MaxVideoBytes is the upload ceiling for hero videos.
const MaxVideoBytes = 150 << 20

// MaxImageBytes is the upload ceiling for team, project and blog images.
const MaxImageBytes = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

func Contact(m model.ContactMessage, privacyAgreed bool) error {
	var c checker
	c.required("name", m.Name)
	c.email("email", m.Email)
	c.required("subject", m.Subject)
	c.required("message", m.Message)
	c.agreed("privacy", privacyAgreed, "Please agree to the privacy policy")
	return c.err()
}

func Subscribe(email string) error {
	var c checker
	if strings.TrimSpace(email) == "" {
		c.fail("email", "Please enter your email address")
		return c.err()
	}
	c.email("email", email)
	return c.err()
}

// Feedback is the public testimonial form. A rating is mandatory there.
func Feedback(f model.Feedback) error {
	var c checker
	c.required("name", f.Name)
	c.email("email", f.Email)
	c.required("comment", f.Comment)
	c.between("rating", f.Rating, "min=1,max=5", "Please provide a rating")
	return c.err()
}

// AdminFeedback is the dashboard editor; rating may be left unset.
func AdminFeedback(f model.Feedback) error {
	var c checker
	c.required("name", f.Name)
	c.email("email", f.Email)
	c.required("comment", f.Comment)
	c.between("rating", f.Rating, "min=0,max=5", "Rating must be between 1 and 5")
	return c.err()
}

func Application(a model.TeamApplication, termsAgreed bool) error {
	var c checker
	c.required("name", a.Name)
	c.email("email", a.Email)
	c.required("phone", a.Phone)
	c.required("linkedin", a.LinkedIn)
	c.required("interest", a.Interest)
	c.oneOf("interest", a.Interest, model.Interests)
	c.required("comment", a.Comment)
	c.agreed("terms", termsAgreed, "Please accept the terms and conditions")
	return c.err()
}

func Report(r model.ProjectReport, termsAgreed bool) error {
	var c checker
	c.required("title", r.Title)
	c.required("reporterName", r.ReporterName)
	c.email("reporterEmail", r.ReporterEmail)
	c.required("category", r.Category)
	c.oneOf("category", r.Category, model.ReportCategories)
	c.required("projectUrl", r.ProjectURL)
	c.url("projectUrl", r.ProjectURL)
	c.required("description", r.Description)
	c.agreed("terms", termsAgreed, "Please accept the terms and conditions")
	return c.err()
}

func TeamMember(m model.TeamMember) error {
	var c checker
	c.required("name", m.Name)
	c.required("role", m.Role)
	c.required("image", m.Image)
	c.required("bio", m.Bio)
	return c.err()
}

func Project(p model.Project) error {
	var c checker
	c.required("title", p.Title)
	c.required("date", p.Date)
	c.required("category", p.Category)
	c.required("image", p.Image)
	c.required("description", p.Description)
	c.oneOf("status", p.Status, model.ProjectStatuses)
	c.url("link", p.Link)
	return c.err()
}

func BlogPost(b model.BlogPost) error {
	var c checker
	c.required("title", b.Title)
	c.required("author", b.Author)
	c.required("category", b.Category)
	if b.BlogURL == "" {
		c.required("content", b.Content)
	}
	c.url("blogUrl", b.BlogURL)
	return c.err()
}

func BulkEmail(m model.BulkEmail) error {
	var c checker
	if strings.TrimSpace(m.Subject) == "" || strings.TrimSpace(m.Body) == "" {
		c.fail("subject", "Please provide both subject and message")
	}
	return c.err()
}

func Credentials(cred model.Credentials) error {
	var c checker
	c.email("email", cred.Email)
	c.required("password", cred.Password)
	return c.err()
}

// Video checks an upload before it is streamed to the backend.
func Video(kind, contentType string, size int64) error {
	var c checker
	c.oneOf("type", kind, []string{model.VideoDesktop, model.VideoMobile})
	c.required("type", kind)
	if !strings.HasPrefix(contentType, "video/") {
		c.fail("video", "Please select a valid video file")
	} else if size > MaxVideoBytes {
		c.fail("video", "File size must be less than 150MB")
	}
	return c.err()
}

// Image checks an image upload.
func Image(contentType string, size int64) error {
	var c checker
	c.oneOf("image", contentType, allowedImageTypes)
	if contentType == "" {
		c.fail("image", "Please select an image file")
	}
	c.between("image", int(size), "max="+strconv.Itoa(MaxImageBytes), "Image must be smaller than 5MB")
	return c.err()
}
