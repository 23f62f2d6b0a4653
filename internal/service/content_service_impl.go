package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cyberpit/site/internal/model"
	"github.com/cyberpit/site/internal/repository"
	"golang.org/x/sync/errgroup"
)

// contentServiceImpl is the production implementation of ContentService.
type contentServiceImpl struct {
	backend   Backend
	snapshots repository.SnapshotRepository
}

// NewContentService creates a ContentService. snapshots backs the About and
// Projects fallback.
func NewContentService(backend Backend, snapshots repository.SnapshotRepository) ContentService {
	return &contentServiceImpl{backend: backend, snapshots: snapshots}
}

// Home loads the hero videos and featured testimonials concurrently.
func (s *contentServiceImpl) Home(ctx context.Context) HomePage {
	var page HomePage
	var g errgroup.Group
	g.Go(func() error {
		res := s.backend.Videos.Current(ctx)
		page.Videos, page.VideosErr = res.Value, res.Err
		return nil
	})
	g.Go(func() error {
		res := s.backend.Feedback.List(ctx)
		if res.Err != nil {
			page.FeedbackErr = res.Err
			return nil
		}
		page.FeaturedFeedback = Featured(res.Value)
		return nil
	})
	_ = g.Wait()

	if page.VideosErr != nil {
		slog.WarnContext(ctx, "home videos unavailable", "error", page.VideosErr)
	}
	if page.FeedbackErr != nil {
		slog.WarnContext(ctx, "home feedback unavailable", "error", page.FeedbackErr)
	}
	return page
}

// Featured keeps the testimonials marked featured, in backend order.
func Featured(all []model.Feedback) []model.Feedback {
	out := make([]model.Feedback, 0, model.MaxFeaturedFeedback)
	for _, f := range all {
		if f.Featured {
			out = append(out, f)
		}
	}
	return out
}

func (s *contentServiceImpl) About(ctx context.Context) (AboutPage, error) {
	res := s.backend.Team.List(ctx)
	if res.Err == nil {
		s.saveSnapshot(ctx, repository.SnapshotTeam, res.Value)
		return AboutPage{Members: res.Value}, nil
	}

	var members []model.TeamMember
	snap, err := s.loadSnapshot(ctx, repository.SnapshotTeam, &members)
	if err != nil {
		return AboutPage{}, fmt.Errorf("load team: %w", res.Err)
	}
	slog.WarnContext(ctx, "serving team from snapshot", "error", res.Err, "saved_at", snap.SavedAt)
	return AboutPage{Members: members, Stale: true, SavedAt: snap.SavedAt}, nil
}

func (s *contentServiceImpl) Projects(ctx context.Context) (ProjectsPage, error) {
	res := s.backend.Projects.List(ctx)
	if res.Err == nil {
		s.saveSnapshot(ctx, repository.SnapshotProjects, res.Value)
		return ProjectsPage{Showcase: Partition(res.Value)}, nil
	}

	var projects []model.Project
	snap, err := s.loadSnapshot(ctx, repository.SnapshotProjects, &projects)
	if err != nil {
		return ProjectsPage{}, fmt.Errorf("load projects: %w", res.Err)
	}
	slog.WarnContext(ctx, "serving projects from snapshot", "error", res.Err, "saved_at", snap.SavedAt)
	return ProjectsPage{Showcase: Partition(projects), Stale: true, SavedAt: snap.SavedAt}, nil
}

// Partition splits projects into the showcase sections: the first featured
// project (or the first project), the upcoming ones, and the completed ones
// other than the featured project.
func Partition(projects []model.Project) model.ProjectShowcase {
	show := model.ProjectShowcase{Upcoming: []model.Project{}, Previous: []model.Project{}}
	if len(projects) == 0 {
		return show
	}
	featured := projects[0]
	for _, p := range projects {
		if p.Featured {
			featured = p
			break
		}
	}
	show.Featured = &featured
	for _, p := range projects {
		switch {
		case p.Status == model.ProjectUpcoming:
			show.Upcoming = append(show.Upcoming, p)
		case p.Status == model.ProjectCompleted && p.ID != featured.ID:
			show.Previous = append(show.Previous, p)
		}
	}
	return show
}

func (s *contentServiceImpl) Blog(ctx context.Context, q model.BlogQuery) (model.BlogPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = BlogPageSize
	}
	return s.backend.Blogs.List(ctx, q).Unwrap()
}

func (s *contentServiceImpl) BlogCategories(ctx context.Context) ([]string, error) {
	return s.backend.Blogs.Categories(ctx).Unwrap()
}

func (s *contentServiceImpl) saveSnapshot(ctx context.Context, key string, v any) {
	if s.snapshots == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(ctx, "encode snapshot failed", "key", key, "error", err)
		return
	}
	if err := s.snapshots.Save(ctx, key, b); err != nil {
		slog.WarnContext(ctx, "save snapshot failed", "key", key, "error", err)
	}
}

func (s *contentServiceImpl) loadSnapshot(ctx context.Context, key string, dst any) (*repository.Snapshot, error) {
	if s.snapshots == nil {
		return nil, repository.ErrNotFound
	}
	snap, err := s.snapshots.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.WarnContext(ctx, "load snapshot failed", "key", key, "error", err)
		}
		return nil, err
	}
	if err := json.Unmarshal(snap.Payload, dst); err != nil {
		slog.ErrorContext(ctx, "decode snapshot failed", "key", key, "error", err)
		return nil, err
	}
	return snap, nil
}
