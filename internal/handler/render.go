package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	"github.com/cyberpit/site/internal/crud"
	"github.com/cyberpit/site/pkg/auth"
)

//go:embed templates static
var assets embed.FS

// publicDismiss is how long success banners stay on visitor pages.
const publicDismiss = 5 * time.Second

type navLink struct {
	Label    string
	Href     string
	External bool
}

// pageData is what every template receives.
type pageData struct {
	Title         string
	Path          string
	Nav           []navLink
	AcademyURL    string
	Admin         bool
	Authenticated bool
	Notice        *crud.Notice
	// CSRFField is the hidden token input for admin forms; empty elsewhere.
	CSRFField template.HTML
	Data      any
}

type renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"dismissMs": func(n *crud.Notice) int64 {
		if n == nil {
			return 0
		}
		return n.DismissAfter.Milliseconds()
	},
	"join":     strings.Join,
	"truncate": truncate,
	"date":     formatDate,
	"add":      func(a, b int) int { return a + b },
	"stars":    stars,
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}

// newRenderer parses layout.html with each page template into its own set,
// so every page can define "content" and "title".
func newRenderer() (*renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(assets, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	files, err := fs.Glob(assets, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	rd := &renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(assets, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		rd.pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return rd, nil
}

// render executes page into a buffer first so a template error never leaves
// a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	t, ok := s.pages.pages[page]
	if !ok {
		slog.ErrorContext(r.Context(), "unknown template", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data.Path = r.URL.Path
	data.AcademyURL = s.academyURL
	data.Nav = s.nav()
	data.Authenticated = auth.FromContext(r.Context()).Authenticated
	data.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		slog.ErrorContext(r.Context(), "render failed", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// nav lists /blog even when the route is disabled; it then renders not-found.
func (s *Server) nav() []navLink {
	return []navLink{
		{Label: "Home", Href: "/"},
		{Label: "About", Href: "/about"},
		{Label: "Projects", Href: "/projects"},
		{Label: "Blog", Href: "/blog"},
		{Label: "Academy", Href: s.academyURL, External: true},
		{Label: "Report", Href: "/report"},
		{Label: "Join Us", Href: "/join-team"},
		{Label: "Contact", Href: "/contact"},
	}
}

func staticFS() http.FileSystem {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
