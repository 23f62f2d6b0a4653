package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cyberpit/site/internal/model"
	"github.com/cyberpit/site/internal/validate"
	"github.com/cyberpit/site/pkg/api"
	"github.com/cyberpit/site/pkg/auth"
)

const msgSessionExpired = "Authentication failed. Please login again."

type loginView struct {
	Email  string
	Errors map[string]string
}

// LoginPage handles GET /admin/login. An authenticated session goes straight
// to the dashboard.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if auth.FromContext(r.Context()).Authenticated {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	data := pageData{Title: "Admin Login", Admin: true, Data: loginView{}}
	if r.URL.Query().Get("expired") == "1" {
		data.Notice = errorNotice(msgSessionExpired)
	}
	s.render(w, r, http.StatusOK, "admin_login", data)
}

// Login handles POST /admin/login: the credentials are exchanged with the
// backend and the returned token is persisted by the gate.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	cred := model.Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	fail := func(status int, text string, errs map[string]string) {
		s.render(w, r, status, "admin_login", pageData{
			Title:  "Admin Login",
			Admin:  true,
			Notice: errorNotice(text),
			Data:   loginView{Email: cred.Email, Errors: errs},
		})
	}

	if err := validate.Credentials(cred); err != nil {
		fail(http.StatusUnprocessableEntity, "Please enter your email and password", fieldErrors(err))
		return
	}
	res := s.client.Admin.OnlyAdminLogin(r.Context(), cred)
	if res.Err != nil {
		slog.InfoContext(r.Context(), "admin login rejected", "status", api.StatusCode(res.Err))
		fail(http.StatusUnauthorized, api.MessageOr(res.Err, "Login failed. Please check your credentials."), nil)
		return
	}
	if res.Value == "" {
		fail(http.StatusBadGateway, "Login failed. Please try again.", nil)
		return
	}

	s.gate.Login(w, r, res.Value)
	slog.InfoContext(r.Context(), "admin logged in")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout handles POST /admin/logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	owner := auth.FromContext(r.Context()).Owner()
	s.views.DropOwner(owner)
	s.gate.Logout(w, r)
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}

type dashboardView struct {
	Stats     model.DashboardStats
	Resources []resourceLink
}

type resourceLink struct {
	Title string
	Href  string
}

// Dashboard handles GET /admin.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	res := s.client.Admin.Dashboard(r.Context())
	if s.handleAuthError(w, r, res.Err) {
		return
	}
	links := make([]resourceLink, 0, len(s.resources))
	for _, ar := range s.resources {
		links = append(links, resourceLink{Title: ar.title(), Href: ar.base()})
	}
	data := pageData{
		Title: "Admin Dashboard",
		Admin: true,
		Data:  dashboardView{Stats: res.Value, Resources: links},
	}
	if res.Err != nil {
		data.Notice = errorNotice(api.MessageOr(res.Err, "Failed to load dashboard stats"))
	}
	s.render(w, r, http.StatusOK, "admin_dashboard", data)
}
