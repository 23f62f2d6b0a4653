package handler

import (
	"net/http"
)

// Routes builds the site's handler chain: request logging, security headers,
// session restore, the admin CSRF check, then the route table.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.Health)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(staticFS())))

	// 公開ページ
	limited := func(h http.HandlerFunc) http.Handler { return s.limiter.Middleware(h) }
	mux.HandleFunc("GET /{$}", s.Home)
	mux.Handle("POST /subscribe", limited(s.Subscribe))
	mux.HandleFunc("GET /about", s.About)
	mux.HandleFunc("GET /projects", s.Projects)
	mux.HandleFunc("GET /contact", s.Contact)
	mux.Handle("POST /contact", limited(s.SubmitContact))
	mux.Handle("POST /feedback", limited(s.SubmitFeedback))
	mux.HandleFunc("GET /report", s.Report)
	mux.Handle("POST /report", limited(s.SubmitReport))
	mux.HandleFunc("GET /join-team", s.JoinTeam)
	mux.Handle("POST /join-team", limited(s.SubmitApplication))
	if s.blogEnabled {
		mux.HandleFunc("GET /blog", s.Blog)
		mux.Handle("POST /blog/{id}/like", limited(s.LikeBlog))
	}

	// 管理画面（ログイン以外は認証必須）
	mux.HandleFunc("GET /admin/login", s.LoginPage)
	mux.Handle("POST /admin/login", limited(s.Login))
	mux.HandleFunc("POST /admin/logout", s.Logout)
	mux.Handle("GET /admin", s.gate.Require(http.HandlerFunc(s.Dashboard)))
	for _, res := range s.resources {
		res.register(mux, s)
	}

	mux.HandleFunc("/", s.NotFound)

	return RequestLogger(SecurityHeaders(s.gate.Middleware(AdminCSRF(s.csrfKey, s.secureCookies)(mux))))
}
