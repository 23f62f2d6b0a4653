package service

import (
	"context"

	"github.com/cyberpit/site/internal/model"
	"github.com/cyberpit/site/pkg/api"
)

// ---------------------------------------------------------------------------
// Hand-written backend mocks. A nil func field returns a zero, successful Result.
// ---------------------------------------------------------------------------

type mockVideos struct {
	currentFunc func(ctx context.Context) api.Result[model.CurrentVideos]
}

func (m *mockVideos) Current(ctx context.Context) api.Result[model.CurrentVideos] {
	if m.currentFunc != nil {
		return m.currentFunc(ctx)
	}
	return api.Result[model.CurrentVideos]{}
}

type mockFeedback struct {
	listFunc   func(ctx context.Context) api.Result[[]model.Feedback]
	submitFunc func(ctx context.Context, fb model.Feedback) api.Result[api.Empty]
}

func (m *mockFeedback) List(ctx context.Context) api.Result[[]model.Feedback] {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return api.Result[[]model.Feedback]{Value: []model.Feedback{}}
}

func (m *mockFeedback) Submit(ctx context.Context, fb model.Feedback) api.Result[api.Empty] {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, fb)
	}
	return api.Result[api.Empty]{}
}

type mockTeam struct {
	listFunc  func(ctx context.Context) api.Result[[]model.TeamMember]
	applyFunc func(ctx context.Context, app model.TeamApplication) api.Result[api.Empty]
}

func (m *mockTeam) List(ctx context.Context) api.Result[[]model.TeamMember] {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return api.Result[[]model.TeamMember]{Value: []model.TeamMember{}}
}

func (m *mockTeam) Apply(ctx context.Context, app model.TeamApplication) api.Result[api.Empty] {
	if m.applyFunc != nil {
		return m.applyFunc(ctx, app)
	}
	return api.Result[api.Empty]{}
}

type mockProjects struct {
	listFunc func(ctx context.Context) api.Result[[]model.Project]
}

func (m *mockProjects) List(ctx context.Context) api.Result[[]model.Project] {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return api.Result[[]model.Project]{Value: []model.Project{}}
}

type mockBlogs struct {
	listFunc       func(ctx context.Context, q model.BlogQuery) api.Result[model.BlogPage]
	categoriesFunc func(ctx context.Context) api.Result[[]string]
	likeFunc       func(ctx context.Context, id string) api.Result[api.Empty]
}

func (m *mockBlogs) List(ctx context.Context, q model.BlogQuery) api.Result[model.BlogPage] {
	if m.listFunc != nil {
		return m.listFunc(ctx, q)
	}
	return api.Result[model.BlogPage]{}
}

func (m *mockBlogs) Categories(ctx context.Context) api.Result[[]string] {
	if m.categoriesFunc != nil {
		return m.categoriesFunc(ctx)
	}
	return api.Result[[]string]{Value: []string{}}
}

func (m *mockBlogs) Like(ctx context.Context, id string) api.Result[api.Empty] {
	if m.likeFunc != nil {
		return m.likeFunc(ctx, id)
	}
	return api.Result[api.Empty]{}
}

type mockContact struct {
	submitFunc func(ctx context.Context, msg model.ContactMessage) api.Result[api.Empty]
}

func (m *mockContact) Submit(ctx context.Context, msg model.ContactMessage) api.Result[api.Empty] {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, msg)
	}
	return api.Result[api.Empty]{}
}

type mockSubscriptions struct {
	subscribeFunc func(ctx context.Context, email string) api.Result[api.Empty]
}

func (m *mockSubscriptions) Subscribe(ctx context.Context, email string) api.Result[api.Empty] {
	if m.subscribeFunc != nil {
		return m.subscribeFunc(ctx, email)
	}
	return api.Result[api.Empty]{}
}

type mockReports struct {
	submitFunc func(ctx context.Context, r model.ProjectReport) api.Result[api.Empty]
}

func (m *mockReports) Submit(ctx context.Context, r model.ProjectReport) api.Result[api.Empty] {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, r)
	}
	return api.Result[api.Empty]{}
}

// mockBackend returns a Backend whose every source is a zero mock.
func mockBackend() Backend {
	return Backend{
		Videos:        &mockVideos{},
		Feedback:      &mockFeedback{},
		Team:          &mockTeam{},
		Projects:      &mockProjects{},
		Blogs:         &mockBlogs{},
		Contact:       &mockContact{},
		Subscriptions: &mockSubscriptions{},
		Reports:       &mockReports{},
	}
}

var errBackendDown = &api.Error{Op: "test", StatusCode: 503, Message: "backend down"}
