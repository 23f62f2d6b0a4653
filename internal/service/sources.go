package service

import (
	"context"

	"github.com/cyberpit/site/internal/model"
	"github.com/cyberpit/site/pkg/api"
)

// The interfaces below are the slices of the Resource Client each service
// needs. The api resource groups satisfy them directly.

type VideoSource interface {
	Current(ctx context.Context) api.Result[model.CurrentVideos]
}

type FeedbackSource interface {
	List(ctx context.Context) api.Result[[]model.Feedback]
	Submit(ctx context.Context, fb model.Feedback) api.Result[api.Empty]
}

type TeamSource interface {
	List(ctx context.Context) api.Result[[]model.TeamMember]
	Apply(ctx context.Context, app model.TeamApplication) api.Result[api.Empty]
}

type ProjectSource interface {
	List(ctx context.Context) api.Result[[]model.Project]
}

type BlogSource interface {
	List(ctx context.Context, q model.BlogQuery) api.Result[model.BlogPage]
	Categories(ctx context.Context) api.Result[[]string]
	Like(ctx context.Context, id string) api.Result[api.Empty]
}

type ContactSink interface {
	Submit(ctx context.Context, msg model.ContactMessage) api.Result[api.Empty]
}

type SubscriptionSink interface {
	Subscribe(ctx context.Context, email string) api.Result[api.Empty]
}

type ReportSink interface {
	Submit(ctx context.Context, r model.ProjectReport) api.Result[api.Empty]
}

// Backend bundles the sources. NewBackend fills it from an api.Client.
type Backend struct {
	Videos        VideoSource
	Feedback      FeedbackSource
	Team          TeamSource
	Projects      ProjectSource
	Blogs         BlogSource
	Contact       ContactSink
	Subscriptions SubscriptionSink
	Reports       ReportSink
}

func NewBackend(c *api.Client) Backend {
	return Backend{
		Videos:        c.Videos,
		Feedback:      c.Feedback,
		Team:          c.Team,
		Projects:      c.Projects,
		Blogs:         c.Blogs,
		Contact:       c.Contact,
		Subscriptions: c.Subscriptions,
		Reports:       c.Reports,
	}
}
