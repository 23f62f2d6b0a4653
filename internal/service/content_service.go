package service

import (
	"context"
	"time"

	"github.com/cyberpit/site/internal/model"
)

// HomePage is the data behind the landing page. A section whose load failed
// is left empty and its error recorded; the page still renders.
type HomePage struct {
	Videos           model.CurrentVideos
	FeaturedFeedback []model.Feedback
	VideosErr        error
	FeedbackErr      error
}

// AboutPage is the team roster. Stale is set when the roster came from the
// last snapshot because the backend call failed.
type AboutPage struct {
	Members []model.TeamMember
	Stale   bool
	SavedAt time.Time
}

// ProjectsPage is the partitioned project list.
type ProjectsPage struct {
	Showcase model.ProjectShowcase
	Stale    bool
	SavedAt  time.Time
}

// BlogPageSize is the number of posts per public blog page.
const BlogPageSize = 9

// ContentService serves the read-only public pages.
type ContentService interface {
	Home(ctx context.Context) HomePage
	// About returns the roster, falling back to the last snapshot. The error
	// is non-nil only when neither the backend nor a snapshot is available.
	About(ctx context.Context) (AboutPage, error)
	// Projects returns the showcase, falling back to the last snapshot.
	Projects(ctx context.Context) (ProjectsPage, error)
	// Blog returns one page of published posts exactly as the backend sent it.
	Blog(ctx context.Context, q model.BlogQuery) (model.BlogPage, error)
	BlogCategories(ctx context.Context) ([]string, error)
}
