package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cyberpit/site/internal/model"
)

// ContactAPI submits contact-form messages.
type ContactAPI struct{ c *Client }

func (a *ContactAPI) Submit(ctx context.Context, msg model.ContactMessage) Result[Empty] {
	return exec(ctx, a.c, "contact.submit", http.MethodPost, "/contact", msg)
}

// SubscriptionAPI handles newsletter sign-ups.
type SubscriptionAPI struct{ c *Client }

// Subscribe registers email. The backend's confirmation text is in Message.
func (a *SubscriptionAPI) Subscribe(ctx context.Context, email string) Result[Empty] {
	return exec(ctx, a.c, "subscriptions.subscribe", http.MethodPost, "/subscriptions",
		map[string]string{"email": email})
}

// TeamAPI reads the team roster and accepts applications.
type TeamAPI struct{ c *Client }

func (a *TeamAPI) Apply(ctx context.Context, app model.TeamApplication) Result[Empty] {
	return exec(ctx, a.c, "team.apply", http.MethodPost, "/team/apply", app)
}

// List reads the roster for the About page. The backend only exposes it under
// /admin/team; it does not require a token for GET.
func (a *TeamAPI) List(ctx context.Context) Result[[]model.TeamMember] {
	return list[model.TeamMember](ctx, a.c, "team.list", "/admin/team", nil, "data", "team", "")
}

type ProjectAPI struct{ c *Client }

func (a *ProjectAPI) List(ctx context.Context) Result[[]model.Project] {
	return list[model.Project](ctx, a.c, "projects.list", "/projects", nil, "projects", "data", "")
}

func (a *ProjectAPI) Featured(ctx context.Context) Result[[]model.Project] {
	return list[model.Project](ctx, a.c, "projects.featured", "/projects/featured", nil, "projects", "data", "")
}

type ReportAPI struct{ c *Client }

func (a *ReportAPI) Submit(ctx context.Context, report model.ProjectReport) Result[Empty] {
	return exec(ctx, a.c, "reports.submit", http.MethodPost, "/reports", report)
}

type VideoAPI struct{ c *Client }

// Current returns the active hero videos. Either URL may be empty.
func (a *VideoAPI) Current(ctx context.Context) Result[model.CurrentVideos] {
	return call[model.CurrentVideos](ctx, a.c, "videos.current", http.MethodGet, "/videos/current", nil, nil, "videos")
}

type FeedbackAPI struct{ c *Client }

func (a *FeedbackAPI) List(ctx context.Context) Result[[]model.Feedback] {
	return list[model.Feedback](ctx, a.c, "feedback.list", "/feedback", nil, "feedback", "feedbacks", "")
}

func (a *FeedbackAPI) Submit(ctx context.Context, fb model.Feedback) Result[Empty] {
	return exec(ctx, a.c, "feedback.submit", http.MethodPost, "/feedback", fb)
}

type BlogAPI struct{ c *Client }

// List fetches one page of published posts. Pagination is returned verbatim.
func (a *BlogAPI) List(ctx context.Context, q model.BlogQuery) Result[model.BlogPage] {
	return blogPage(ctx, a.c, "blogs.list", "/blogs", q)
}

func (a *BlogAPI) Categories(ctx context.Context) Result[[]string] {
	return list[string](ctx, a.c, "blogs.categories", "/blogs/categories", nil, "categories")
}

func (a *BlogAPI) Like(ctx context.Context, id string) Result[Empty] {
	return exec(ctx, a.c, "blogs.like", http.MethodPost, idPath("/blogs", id)+"/like", nil)
}

func blogPage(ctx context.Context, c *Client, op, path string, q model.BlogQuery) Result[model.BlogPage] {
	env, err := c.do(ctx, op, http.MethodGet, path, blogValues(q), nil)
	if err != nil {
		return errResult[model.BlogPage](err)
	}
	blogs, err := decode[[]model.BlogPost](op, env, "blogs", "data")
	if err != nil {
		return errResult[model.BlogPage](err)
	}
	pagination, err := decode[model.Pagination](op, env, "pagination")
	if err != nil {
		return errResult[model.BlogPage](err)
	}
	if blogs == nil {
		blogs = []model.BlogPost{}
	}
	return okResult(model.BlogPage{Blogs: blogs, Pagination: pagination}, env.message)
}

func blogValues(q model.BlogQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" && q.Category != "all" {
		v.Set("category", q.Category)
	}
	return v
}

// AuthAPI is the generic auth endpoint pair.
type AuthAPI struct{ c *Client }

func (a *AuthAPI) Login(ctx context.Context, cred model.Credentials) Result[string] {
	return call[string](ctx, a.c, "auth.login", http.MethodPost, "/auth/login", nil, cred, "token")
}

// Verify checks the bearer token carried by ctx.
func (a *AuthAPI) Verify(ctx context.Context) Result[Empty] {
	return exec(ctx, a.c, "auth.verify", http.MethodGet, "/auth/verify", nil)
}
