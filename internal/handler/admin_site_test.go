package handler

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/cyberpit/site/internal/model"
	"github.com/cyberpit/site/pkg/auth"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n0000")

func TestAdmin_InvalidSaveWithImageSkipsUpload(t *testing.T) {
	fb := &fakeBackend{}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/projects").Body.String())
	rec := b.upload("/admin/projects/save", url.Values{"view": {view}, "title": {""}, "date": {"May 2024"}},
		"imageFile", "shot.png", "image/png", pngBytes)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if n := fb.count("POST /admin/projects/upload-image"); n != 0 {
		t.Errorf("invalid form must not upload the image, got %d", n)
	}
	if n := fb.count("POST /admin/projects"); n != 0 {
		t.Errorf("invalid form must not create, got %d", n)
	}
	page := b.get(rec.Header().Get("Location")).Body.String()
	if !strings.Contains(page, "Please fill in all required fields") {
		t.Error("validation banner missing")
	}
	if !strings.Contains(page, `value="May 2024"`) {
		t.Error("editor should keep the entered values")
	}
}

func TestAdmin_SaveWithImageUploadsThenCreates(t *testing.T) {
	fb := &fakeBackend{}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/projects").Body.String())
	rec := b.upload("/admin/projects/save", url.Values{
		"view": {view}, "title": {"Red Team Lab"}, "date": {"May 2024"},
		"category": {"Offense"}, "description": {"Hands-on lab"},
	}, "imageFile", "shot.png", "image/png", pngBytes)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	fb.mu.Lock()
	calls := slices.Clone(fb.calls)
	image := fb.lastProject.Image
	fb.mu.Unlock()

	up := slices.Index(calls, "POST /admin/projects/upload-image")
	create := slices.Index(calls, "POST /admin/projects")
	if up < 0 || create < 0 || up > create {
		t.Fatalf("expected upload before create, got %v", calls)
	}
	if image != "https://cdn.example/p.png" {
		t.Errorf("create should carry the uploaded URL, got %q", image)
	}
}

func TestAdmin_BlogListPagesThroughBackend(t *testing.T) {
	fb := &fakeBackend{}
	b := newTestSite(t, fb, false)
	b.login()

	rec := b.get("/admin/blog")
	page := rec.Body.String()
	if got := fb.lastAdminQuery.Get("limit"); got != "10" {
		t.Errorf("expected limit=10, got %q", got)
	}
	if got := fb.lastAdminQuery.Get("page"); got != "1" {
		t.Errorf("expected page=1, got %q", got)
	}
	if !strings.Contains(page, "Page 1 of 2 (11 posts)") {
		t.Error("pager summary missing")
	}
	if !strings.Contains(page, `rel="next"`) || strings.Contains(page, `rel="prev"`) {
		t.Error("first page should link next only")
	}
	if strings.Contains(page, "/admin/blog/clear") {
		t.Error("paged list must not offer clear-all")
	}
	view := viewID(t, page)

	page = b.get("/admin/blog?view=" + url.QueryEscape(view) + "&page=2").Body.String()
	if got := fb.lastAdminQuery.Get("page"); got != "2" {
		t.Errorf("expected page=2, got %q", got)
	}
	if !strings.Contains(page, "Admin post 2") || !strings.Contains(page, `rel="prev"`) || strings.Contains(page, `rel="next"`) {
		t.Error("second page should list its post and link back only")
	}

	// リダイレクト後の再表示は同じページのまま
	page = b.get("/admin/blog?view=" + url.QueryEscape(view)).Body.String()
	if n := fb.count("GET /admin/blogs"); n != 2 {
		t.Errorf("plain redisplay must not refetch, got %d list calls", n)
	}
	if !strings.Contains(page, "Page 2 of 2") {
		t.Error("view should stay on page 2")
	}

	b.get("/admin/blog?view=" + url.QueryEscape(view) + "&page=1&search=+csp+")
	if got := fb.lastAdminQuery.Get("search"); got != "csp" {
		t.Errorf("expected trimmed search, got %q", got)
	}

	rec = b.post("/admin/blog/clear", url.Values{"view": {view}, "confirm": {"yes"}})
	if rec.Code == http.StatusSeeOther || rec.Code == http.StatusOK {
		t.Errorf("clear-all should not be routed, got %d", rec.Code)
	}
}

func TestAdmin_VideoUploadRejectsNonVideo(t *testing.T) {
	fb := &fakeBackend{}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/videos").Body.String())
	rec := b.upload("/admin/videos/upload?view="+url.QueryEscape(view),
		url.Values{"type": {model.VideoDesktop}, "name": {"Hero"}}, "video", "notes.txt", "text/plain", []byte("not a video"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if n := fb.count("POST /admin/videos/upload"); n != 0 {
		t.Errorf("rejected file must not be sent, got %d", n)
	}
	page := b.get(rec.Header().Get("Location")).Body.String()
	if !strings.Contains(page, "Please select a valid video file") {
		t.Error("rejection banner missing")
	}
}

func TestAdmin_VideoUploadRejectsUnknownType(t *testing.T) {
	fb := &fakeBackend{}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/videos").Body.String())
	rec := b.upload("/admin/videos/upload?view="+url.QueryEscape(view),
		url.Values{"type": {"tablet"}}, "video", "hero.mp4", "video/mp4", []byte("mp4"))

	if n := fb.count("POST /admin/videos/upload"); n != 0 {
		t.Errorf("unknown type must not be sent, got %d", n)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
}

func TestAdmin_VideoUploadReloadsList(t *testing.T) {
	fb := &fakeBackend{videos: []model.Video{{ID: "v1", Name: "Old hero", Type: model.VideoDesktop, IsActive: true}}}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/videos").Body.String())
	rec := b.upload("/admin/videos/upload?view="+url.QueryEscape(view),
		url.Values{"type": {model.VideoDesktop}, "name": {"New hero"}}, "video", "hero.mp4", "video/mp4", []byte("mp4"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if n := fb.count("POST /admin/videos/upload"); n != 1 {
		t.Errorf("expected one upload, got %d", n)
	}
	if n := fb.count("GET /admin/videos"); n != 2 {
		t.Errorf("list should be reloaded after upload, got %d list calls", n)
	}
	page := b.get(rec.Header().Get("Location")).Body.String()
	if !strings.Contains(page, "desktop video uploaded successfully!") {
		t.Error("success banner missing")
	}
	if !strings.Contains(page, "New hero") || !strings.Contains(page, "hero.mp4") {
		t.Error("uploaded video should be listed")
	}
}

func TestAdmin_BulkEmailWithoutActiveSubscribers(t *testing.T) {
	fb := &fakeBackend{subscriptions: []model.Subscription{{ID: "s1", Email: "a@example.com", IsActive: false}}}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/subscriptions").Body.String())
	rec := b.post("/admin/subscriptions/bulk-email", url.Values{"view": {view}, "subject": {"News"}, "body": {"Hello"}})

	if n := fb.count("POST /admin/subscriptions/bulk-email"); n != 0 {
		t.Errorf("no mail expected without active subscribers, got %d", n)
	}
	page := b.get(rec.Header().Get("Location")).Body.String()
	if !strings.Contains(page, "No active subscribers found") {
		t.Error("banner missing")
	}
}

func TestAdmin_BulkEmailRequiresSubjectAndBody(t *testing.T) {
	fb := &fakeBackend{subscriptions: []model.Subscription{{ID: "s1", Email: "a@example.com", IsActive: true}}}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/subscriptions").Body.String())
	rec := b.post("/admin/subscriptions/bulk-email", url.Values{"view": {view}, "subject": {"  "}, "body": {""}})

	if n := fb.count("POST /admin/subscriptions/bulk-email"); n != 0 {
		t.Errorf("incomplete mail must not be sent, got %d", n)
	}
	page := b.get(rec.Header().Get("Location")).Body.String()
	if !strings.Contains(page, "Please provide both subject and message") {
		t.Error("validation banner missing")
	}
}

func TestAdmin_BulkEmailReportsSentCount(t *testing.T) {
	fb := &fakeBackend{subscriptions: []model.Subscription{
		{ID: "s1", Email: "a@example.com", IsActive: true},
		{ID: "s2", Email: "b@example.com", IsActive: true},
		{ID: "s3", Email: "c@example.com", IsActive: false},
	}}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/subscriptions").Body.String())
	rec := b.post("/admin/subscriptions/bulk-email", url.Values{"view": {view}, "subject": {"News"}, "body": {"Hello"}})

	if n := fb.count("POST /admin/subscriptions/bulk-email"); n != 1 {
		t.Fatalf("expected one send, got %d", n)
	}
	page := b.get(rec.Header().Get("Location")).Body.String()
	if !strings.Contains(page, "Email sent successfully to 2 subscribers!") {
		t.Error("sent count banner missing")
	}
}

func TestAdmin_BulkEmailUnauthorizedEndsSession(t *testing.T) {
	fb := &fakeBackend{subscriptions: []model.Subscription{{ID: "s1", Email: "a@example.com", IsActive: true}}}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/subscriptions").Body.String())
	fb.mu.Lock()
	fb.rejectTokens = true
	fb.mu.Unlock()

	rec := b.post("/admin/subscriptions/bulk-email", url.Values{"view": {view}, "subject": {"News"}, "body": {"Hello"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != auth.LoginPath+"?expired=1" {
		t.Fatalf("expected redirect to expired login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if _, ok := b.cookies[auth.TokenCookieName]; ok {
		t.Error("session cookie should be cleared")
	}
}

func TestAdmin_SetupDefaultTeamReloads(t *testing.T) {
	fb := &fakeBackend{}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/team").Body.String())
	rec := b.post("/admin/team/setup-defaults", url.Values{"view": {view}})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if n := fb.count("POST /admin/setup-default-team"); n != 1 {
		t.Errorf("expected one setup call, got %d", n)
	}
	if n := fb.count("GET /admin/team"); n != 2 {
		t.Errorf("team should be reloaded, got %d list calls", n)
	}
	page := b.get(rec.Header().Get("Location")).Body.String()
	if !strings.Contains(page, "Default team members created successfully") {
		t.Error("success banner missing")
	}
	if !strings.Contains(page, "Asha Rao") || !strings.Contains(page, "Leo Park") {
		t.Error("seeded members should be listed")
	}
}

func TestAdmin_DeleteSelectedConfirmsThenDeletes(t *testing.T) {
	fb := &fakeBackend{subscriptions: []model.Subscription{
		{ID: "sa", Email: "a@example.com", IsActive: true},
		{ID: "sb", Email: "b@example.com", IsActive: true},
		{ID: "sc", Email: "keep@example.com", IsActive: true},
	}}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/subscriptions").Body.String())
	rec := b.post("/admin/subscriptions/delete-selected", url.Values{"view": {view}, "ids": {"sa", "sb"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected confirm page, got %d", rec.Code)
	}
	confirm := rec.Body.String()
	if !strings.Contains(confirm, "Delete 2 selected items?") {
		t.Error("confirm heading missing")
	}
	if !strings.Contains(confirm, `value="sa"`) || !strings.Contains(confirm, `value="sb"`) {
		t.Error("confirm page should carry the selected ids")
	}
	if n := fb.count("DELETE /admin/subscriptions/batch"); n != 0 {
		t.Errorf("no delete expected before confirmation, got %d", n)
	}

	rec = b.post("/admin/subscriptions/delete-selected", url.Values{"view": {view}, "ids": {"sa", "sb"}, "confirm": {"yes"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("confirmed delete: expected 303, got %d", rec.Code)
	}
	if n := fb.count("DELETE /admin/subscriptions/batch"); n != 1 {
		t.Errorf("expected one batch call, got %d", n)
	}
	page := b.get(rec.Header().Get("Location")).Body.String()
	if !strings.Contains(page, "2 subscriptions deleted successfully") {
		t.Error("success banner missing")
	}
	if strings.Contains(page, "a@example.com") || !strings.Contains(page, "keep@example.com") {
		t.Error("only the selected rows should be removed")
	}
}

func TestAdmin_DeleteSelectedWithoutIDs(t *testing.T) {
	fb := &fakeBackend{subscriptions: twelveSubscriptions()}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/subscriptions").Body.String())
	rec := b.post("/admin/subscriptions/delete-selected", url.Values{"view": {view}})

	page := b.get(rec.Header().Get("Location")).Body.String()
	if !strings.Contains(page, "Please select items to delete") {
		t.Error("selection hint missing")
	}
	if n := fb.count("DELETE /admin/subscriptions/batch"); n != 0 {
		t.Errorf("no delete expected, got %d", n)
	}
}

func TestAdmin_UnauthorizedEndsSessionOnEveryPage(t *testing.T) {
	paths := []string{
		"/admin",
		"/admin/feedback",
		"/admin/team",
		"/admin/projects",
		"/admin/blog",
		"/admin/messages",
		"/admin/videos",
		"/admin/subscriptions",
		"/admin/reports",
		"/admin/applications",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			fb := &fakeBackend{rejectTokens: true}
			b := newTestSite(t, fb, false)
			b.login()

			rec := b.get(path)
			if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != auth.LoginPath+"?expired=1" {
				t.Fatalf("expected redirect to expired login, got %d %q", rec.Code, rec.Header().Get("Location"))
			}
			if _, ok := b.cookies[auth.TokenCookieName]; ok {
				t.Error("session cookie should be cleared")
			}
		})
	}
}

func TestAdmin_MessageDetailShowsAdminResponse(t *testing.T) {
	fb := &fakeBackend{contacts: []model.ContactMessage{
		{ID: "m1", Name: "Ari", Email: "ari@example.com", Subject: "general", Message: "Hello there",
			Status: model.ContactRead, AdminResponse: "Replied by email"},
		{ID: "m2", Name: "Bo", Email: "bo@example.com", Subject: "other", Message: "Hi", Status: model.ContactRead},
	}}
	b := newTestSite(t, fb, false)
	b.login()

	view := viewID(t, b.get("/admin/messages").Body.String())
	rec := b.post("/admin/messages/m1/open", url.Values{"view": {view}})
	page := b.get(rec.Header().Get("Location")).Body.String()
	if !strings.Contains(page, "<dt>Admin response</dt>") || !strings.Contains(page, "Replied by email") {
		t.Error("detail pane should show the admin response")
	}

	rec = b.post("/admin/messages/m2/open", url.Values{"view": {view}})
	page = b.get(rec.Header().Get("Location")).Body.String()
	if strings.Contains(page, "<dt>Admin response</dt>") {
		t.Error("empty admin response should not get a row")
	}
}

func TestAdmin_PostWithoutCSRFTokenIsForbidden(t *testing.T) {
	cases := map[string]string{"missing": "", "forged": "bm90LWEtcmVhbC10b2tlbg=="}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			fb := &fakeBackend{projects: []model.Project{{ID: "p1", Title: "Red Team Lab"}}}
			b := newTestSite(t, fb, false)
			b.login()

			view := viewID(t, b.get("/admin/projects").Body.String())
			rec := b.post("/admin/projects/p1/delete", url.Values{
				"view": {view}, "confirm": {"yes"}, csrfFieldName: {token},
			})

			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}
			if n := fb.count("DELETE /admin/projects/p1"); n != 0 {
				t.Errorf("rejected request must not reach the backend, got %d", n)
			}
		})
	}
}

func TestAdmin_FormsCarryCSRFToken(t *testing.T) {
	fb := &fakeBackend{subscriptions: twelveSubscriptions()}
	b := newTestSite(t, fb, false)

	if !strings.Contains(b.get("/admin/login").Body.String(), `name="`+csrfFieldName+`"`) {
		t.Error("login form should carry the token")
	}
	b.login()
	page := b.get("/admin/subscriptions").Body.String()
	forms := strings.Count(page, `method="post"`)
	tokens := strings.Count(page, `name="`+csrfFieldName+`"`)
	if forms == 0 || tokens != forms {
		t.Errorf("every admin form needs a token: %d forms, %d tokens", forms, tokens)
	}
}

func TestPublicFormsNeedNoCSRFToken(t *testing.T) {
	b := newTestSite(t, &fakeBackend{}, false)

	if strings.Contains(b.get("/contact").Body.String(), csrfFieldName) {
		t.Error("public pages should not render admin tokens")
	}
	rec := b.post("/contact", url.Values{
		"name": {"Ada"}, "email": {"ada@example.com"}, "subject": {"general"},
		"message": {"Hi"}, "privacy": {"on"},
	})
	if rec.Code == http.StatusForbidden {
		t.Error("public POST must not be CSRF checked")
	}
}
