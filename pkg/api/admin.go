package api

import (
	"context"
	"io"
	"net/http"

	"github.com/cyberpit/site/internal/model"
)

// resource is the list/create/update/delete shape shared by most admin
// groups. Groups embed it and add their extra operations.
type resource[T any] struct {
	c    *Client
	op   string // metric/log prefix, e.g. "admin.team"
	base string
	// listKeys and itemKeys are the envelope keys tried in order.
	listKeys []string
	itemKeys []string
}

func (r resource[T]) List(ctx context.Context) Result[[]T] {
	return list[T](ctx, r.c, r.op+".list", r.base, nil, r.listKeys...)
}

// Create posts v. Value is the zero T when the backend echoes no entity.
func (r resource[T]) Create(ctx context.Context, v T) Result[T] {
	return call[T](ctx, r.c, r.op+".create", http.MethodPost, r.base, nil, v, r.itemKeys...)
}

// Update sends a partial or full body as PATCH. Value is the zero T when the
// backend echoes no entity.
func (r resource[T]) Update(ctx context.Context, id string, body any) Result[T] {
	return call[T](ctx, r.c, r.op+".update", http.MethodPatch, idPath(r.base, id), nil, body, r.itemKeys...)
}

func (r resource[T]) Delete(ctx context.Context, id string) Result[Empty] {
	return exec(ctx, r.c, r.op+".delete", http.MethodDelete, idPath(r.base, id), nil)
}

func (r resource[T]) get(ctx context.Context, id string) Result[T] {
	return call[T](ctx, r.c, r.op+".get", http.MethodGet, idPath(r.base, id), nil, nil, r.itemKeys...)
}

func (r resource[T]) deleteAll(ctx context.Context) Result[Empty] {
	return exec(ctx, r.c, r.op+".delete_all", http.MethodDelete, r.base, nil)
}

// Upload is a file sent to a multipart upload endpoint.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

func (r resource[T]) uploadImage(ctx context.Context, img Upload) Result[string] {
	op := r.op + ".upload_image"
	env, err := r.c.upload(ctx, op, r.base+"/upload-image", nil, filePart{
		Field: "image", Filename: img.Filename, ContentType: img.ContentType, Body: img.Body,
	})
	if err != nil {
		return errResult[string](err)
	}
	u, err := decode[string](op, env, "imageUrl", "url")
	if err != nil {
		return errResult[string](err)
	}
	return okResult(u, env.message)
}

// AdminAPI groups the dashboard operations. All of them need a session token.
type AdminAPI struct {
	c *Client

	Contacts      *AdminContactsAPI
	Videos        *AdminVideosAPI
	Subscriptions *AdminSubscriptionsAPI
	Feedback      *AdminFeedbackAPI
	Team          *AdminTeamAPI
	Projects      *AdminProjectsAPI
	Blogs         *AdminBlogsAPI
	Applications  *AdminApplicationsAPI
	Reports       *AdminReportsAPI
}

func newAdminAPI(c *Client) *AdminAPI {
	return &AdminAPI{
		c: c,
		Contacts: &AdminContactsAPI{resource[model.ContactMessage]{
			c: c, op: "admin.contacts", base: "/admin/contacts",
			listKeys: []string{"contacts", "data", ""}, itemKeys: []string{"contact", "data"},
		}},
		Videos: &AdminVideosAPI{resource[model.Video]{
			c: c, op: "admin.videos", base: "/admin/videos",
			listKeys: []string{"videos", "data", ""}, itemKeys: []string{"video", "data"},
		}},
		Subscriptions: &AdminSubscriptionsAPI{resource[model.Subscription]{
			c: c, op: "admin.subscriptions", base: "/admin/subscriptions",
			listKeys: []string{"subscriptions", "data", ""}, itemKeys: []string{"subscription", "data"},
		}},
		Feedback: &AdminFeedbackAPI{resource[model.Feedback]{
			c: c, op: "admin.feedback", base: "/admin/feedback",
			listKeys: []string{"feedbacks", "feedback", "data", ""}, itemKeys: []string{"feedback", "data"},
		}},
		Team: &AdminTeamAPI{resource[model.TeamMember]{
			c: c, op: "admin.team", base: "/admin/team",
			listKeys: []string{"data", "team", ""}, itemKeys: []string{"member", "data"},
		}},
		Projects: &AdminProjectsAPI{resource[model.Project]{
			c: c, op: "admin.projects", base: "/admin/projects",
			listKeys: []string{"data", "projects", ""}, itemKeys: []string{"project", "data"},
		}},
		Blogs: &AdminBlogsAPI{resource[model.BlogPost]{
			c: c, op: "admin.blogs", base: "/admin/blogs",
			listKeys: []string{"blogs", "data"}, itemKeys: []string{"blog", "data"},
		}},
		Applications: &AdminApplicationsAPI{resource[model.TeamApplication]{
			c: c, op: "admin.applications", base: "/admin/applications",
			listKeys: []string{"applications", "data", ""}, itemKeys: []string{"application", "data"},
		}},
		Reports: &AdminReportsAPI{resource[model.ProjectReport]{
			c: c, op: "admin.reports", base: "/admin/reports",
			listKeys: []string{"reports", "data", ""}, itemKeys: []string{"report", "data"},
		}},
	}
}

// OnlyAdminLogin exchanges the shared admin credentials for a bearer token.
func (a *AdminAPI) OnlyAdminLogin(ctx context.Context, cred model.Credentials) Result[string] {
	return call[string](ctx, a.c, "admin.login", http.MethodPost, "/admin/only_admin/login", nil, cred, "token")
}

func (a *AdminAPI) Dashboard(ctx context.Context) Result[model.DashboardStats] {
	return call[model.DashboardStats](ctx, a.c, "admin.dashboard", http.MethodGet, "/admin/dashboard", nil, nil, "stats", "data")
}

type AdminContactsAPI struct{ resource[model.ContactMessage] }

func (a *AdminContactsAPI) UpdateStatus(ctx context.Context, id, status string) Result[model.ContactMessage] {
	return a.Update(ctx, id, map[string]string{"status": status})
}

// DeleteAll removes every contact message.
func (a *AdminContactsAPI) DeleteAll(ctx context.Context) Result[Empty] { return a.deleteAll(ctx) }

type AdminVideosAPI struct{ resource[model.Video] }

// VideoUpload is a hero video sent to the upload endpoint.
type VideoUpload struct {
	Type string // model.VideoDesktop or model.VideoMobile
	Name string
	Upload
}

// Upload sends the file as multipart fields video, type and name. The
// backend deactivates the previous video of the same type.
func (a *AdminVideosAPI) Upload(ctx context.Context, v VideoUpload) Result[model.Video] {
	op := a.op + ".upload"
	env, err := a.c.upload(ctx, op, a.base+"/upload",
		map[string]string{"type": v.Type, "name": v.Name},
		filePart{Field: "video", Filename: v.Filename, ContentType: v.ContentType, Body: v.Body})
	if err != nil {
		return errResult[model.Video](err)
	}
	video, err := decode[model.Video](op, env, a.itemKeys...)
	if err != nil {
		return errResult[model.Video](err)
	}
	return okResult(video, env.message)
}

type AdminSubscriptionsAPI struct{ resource[model.Subscription] }

// DeleteMany removes ids in one call.
func (a *AdminSubscriptionsAPI) DeleteMany(ctx context.Context, ids []string) Result[Empty] {
	return exec(ctx, a.c, a.op+".delete_many", http.MethodDelete, a.base+"/batch", map[string][]string{"ids": ids})
}

func (a *AdminSubscriptionsAPI) SendBulkEmail(ctx context.Context, mail model.BulkEmail) Result[model.BulkEmailResult] {
	return call[model.BulkEmailResult](ctx, a.c, a.op+".bulk_email", http.MethodPost, a.base+"/bulk-email", nil, mail, "details")
}

type AdminFeedbackAPI struct{ resource[model.Feedback] }

type AdminTeamAPI struct{ resource[model.TeamMember] }

func (a *AdminTeamAPI) UploadImage(ctx context.Context, img Upload) Result[string] {
	return a.uploadImage(ctx, img)
}

// SetupDefaults seeds the default roster on the backend.
func (a *AdminTeamAPI) SetupDefaults(ctx context.Context) Result[Empty] {
	return exec(ctx, a.c, a.op+".setup_defaults", http.MethodPost, "/admin/setup-default-team", nil)
}

type AdminProjectsAPI struct{ resource[model.Project] }

func (a *AdminProjectsAPI) UploadImage(ctx context.Context, img Upload) Result[string] {
	return a.uploadImage(ctx, img)
}

// SetupDefaults seeds the default project list on the backend.
func (a *AdminProjectsAPI) SetupDefaults(ctx context.Context) Result[Empty] {
	return exec(ctx, a.c, a.op+".setup_defaults", http.MethodPost, "/admin/setup-default-projects", nil)
}

type AdminBlogsAPI struct{ resource[model.BlogPost] }

// Page lists posts including drafts.
func (a *AdminBlogsAPI) Page(ctx context.Context, q model.BlogQuery) Result[model.BlogPage] {
	return blogPage(ctx, a.c, a.op+".list", a.base, q)
}

func (a *AdminBlogsAPI) Get(ctx context.Context, id string) Result[model.BlogPost] {
	return a.get(ctx, id)
}

func (a *AdminBlogsAPI) UploadImage(ctx context.Context, img Upload) Result[string] {
	return a.uploadImage(ctx, img)
}

type AdminApplicationsAPI struct{ resource[model.TeamApplication] }

func (a *AdminApplicationsAPI) Get(ctx context.Context, id string) Result[model.TeamApplication] {
	return a.get(ctx, id)
}

func (a *AdminApplicationsAPI) DeleteAll(ctx context.Context) Result[Empty] { return a.deleteAll(ctx) }

type AdminReportsAPI struct{ resource[model.ProjectReport] }

func (a *AdminReportsAPI) Get(ctx context.Context, id string) Result[model.ProjectReport] {
	return a.get(ctx, id)
}

func (a *AdminReportsAPI) DeleteAll(ctx context.Context) Result[Empty] { return a.deleteAll(ctx) }
