// Package handler renders the public site and the admin dashboard as HTML
// over the backend client, the session gate and the CRUD controllers.
package handler

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cyberpit/site/internal/crud"
	"github.com/cyberpit/site/internal/repository"
	"github.com/cyberpit/site/internal/service"
	"github.com/cyberpit/site/internal/validate"
	"github.com/cyberpit/site/pkg/api"
	"github.com/cyberpit/site/pkg/auth"
)

// Options wires a Server.
type Options struct {
	Content     service.ContentService
	Submissions service.SubmissionService
	Client      *api.Client
	Gate        *auth.Gate
	Views       *crud.ViewStore
	// DB is pinged by /healthz when set.
	DB repository.DB
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// RateLimitPerMin caps visitor form POSTs and admin logins per IP.
	RateLimitPerMin int
	BlogEnabled     bool
	AcademyURL      string
	// CSRFKey signs the admin CSRF cookie. A random key is used when empty,
	// so open admin forms stop working after a restart.
	CSRFKey []byte
	// SecureCookies marks the CSRF cookie Secure.
	SecureCookies bool
}

// Server holds the page handlers.
type Server struct {
	content     service.ContentService
	submissions service.SubmissionService
	client      *api.Client
	gate        *auth.Gate
	views       *crud.ViewStore
	db          repository.DB
	metrics     http.Handler
	limiter     *RateLimiter
	blogEnabled bool
	academyURL  string
	pages       *renderer
	resources   []adminResource

	csrfKey       []byte
	secureCookies bool
}

// New parses the templates and builds the admin resources.
func New(opts Options) (*Server, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}
	if opts.RateLimitPerMin <= 0 {
		opts.RateLimitPerMin = 10
	}
	if opts.Views == nil {
		opts.Views = crud.NewViewStore(0)
	}
	if len(opts.CSRFKey) == 0 {
		opts.CSRFKey = make([]byte, 32)
		if _, err := rand.Read(opts.CSRFKey); err != nil {
			return nil, err
		}
	}
	s := &Server{
		content:     opts.Content,
		submissions: opts.Submissions,
		client:      opts.Client,
		gate:        opts.Gate,
		views:       opts.Views,
		db:          opts.DB,
		metrics:     opts.Metrics,
		limiter:     NewRateLimiter(opts.RateLimitPerMin),
		blogEnabled: opts.BlogEnabled,
		academyURL:  opts.AcademyURL,
		pages:       pages,

		csrfKey:       opts.CSRFKey,
		secureCookies: opts.SecureCookies,
	}
	s.resources = s.adminResources()
	return s, nil
}

// unauthorized ends the admin session after the backend rejected its token
// and sends the browser to the login page.
func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request) {
	owner := auth.FromContext(r.Context()).Owner()
	if n := s.views.DropOwner(owner); n > 0 {
		slog.DebugContext(r.Context(), "dropped admin views", "count", n)
	}
	s.gate.Invalidate(w, r)
	http.Redirect(w, r, auth.LoginPath+"?expired=1", http.StatusSeeOther)
}

// handleAuthError normalizes a backend 401. It reports whether the response
// has been written.
func (s *Server) handleAuthError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err != nil && api.IsUnauthorized(err) {
		s.unauthorized(w, r)
		return true
	}
	return false
}

// fieldErrors flattens a validation failure for templates.
func fieldErrors(err error) map[string]string {
	var verr *validate.Errors
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

func isValidation(err error) bool {
	var verr *validate.Errors
	return errors.As(err, &verr)
}

func errorNotice(text string) *crud.Notice {
	return &crud.Notice{Kind: crud.NoticeError, Text: text}
}

func successNotice(text string) *crud.Notice {
	return &crud.Notice{Kind: crud.NoticeSuccess, Text: text, DismissAfter: publicDismiss}
}
