package handler

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/cyberpit/site/internal/crud"
	"github.com/cyberpit/site/internal/model"
	"github.com/cyberpit/site/internal/service"
	"github.com/cyberpit/site/pkg/api"
)

// formState is a visitor form as re-rendered after a POST. Values is empty
// after a successful submission.
type formState struct {
	Values map[string]string
	Errors map[string]string
}

func freshForm() formState { return formState{Values: map[string]string{}} }

type homeView struct {
	Videos    model.CurrentVideos
	Feedback  []model.Feedback
	Subscribe formState
}

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	s.renderHome(w, r, http.StatusOK, freshForm(), nil)
}

// Subscribe handles POST /subscribe from the home page footer form.
func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	msg, err := s.submissions.Subscribe(r.Context(), email)
	switch {
	case err == nil:
		s.renderHome(w, r, http.StatusOK, freshForm(), successNotice(msg))
	case isValidation(err):
		form := formState{Values: map[string]string{"email": email}, Errors: fieldErrors(err)}
		s.renderHome(w, r, http.StatusUnprocessableEntity, form, errorNotice(form.Errors["email"]))
	default:
		form := formState{Values: map[string]string{"email": email}}
		s.renderHome(w, r, http.StatusBadGateway, form, errorNotice(api.MessageOr(err, service.MsgSubscribeFailed)))
	}
}

func (s *Server) renderHome(w http.ResponseWriter, r *http.Request, status int, form formState, notice *crud.Notice) {
	home := s.content.Home(r.Context())
	s.render(w, r, status, "home", pageData{
		Title:  "CyberPiT",
		Notice: notice,
		Data:   homeView{Videos: home.Videos, Feedback: home.FeaturedFeedback, Subscribe: form},
	})
}

type aboutView struct {
	Members []model.TeamMember
	Stale   bool
}

// About handles GET /about.
func (s *Server) About(w http.ResponseWriter, r *http.Request) {
	page, err := s.content.About(r.Context())
	data := pageData{Title: "About Us", Data: aboutView{Members: page.Members, Stale: page.Stale}}
	if err != nil {
		data.Notice = errorNotice("Failed to load team members")
	}
	s.render(w, r, http.StatusOK, "about", data)
}

type projectsView struct {
	model.ProjectShowcase
	Stale bool
}

// Projects handles GET /projects.
func (s *Server) Projects(w http.ResponseWriter, r *http.Request) {
	page, err := s.content.Projects(r.Context())
	data := pageData{Title: "Projects", Data: projectsView{ProjectShowcase: page.Showcase, Stale: page.Stale}}
	if err != nil {
		data.Notice = errorNotice("Failed to load projects")
	}
	s.render(w, r, http.StatusOK, "projects", data)
}

type blogView struct {
	Posts      []model.BlogPost
	Pagination model.Pagination
	Categories []string
	Search     string
	Category   string
	PrevURL    string
	NextURL    string
	Liked      map[string]bool
	// Self is where a like returns to.
	Self string
}

// Blog handles GET /blog when the route is enabled.
func (s *Server) Blog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	query := model.BlogQuery{
		Page:     page,
		Limit:    service.BlogPageSize,
		Search:   strings.TrimSpace(q.Get("search")),
		Category: q.Get("category"),
	}
	if query.Category == "" {
		query.Category = "all"
	}

	view := blogView{Search: query.Search, Category: query.Category, Liked: likedSet(r), Self: r.URL.RequestURI()}
	data := pageData{Title: "Blog"}

	result, err := s.content.Blog(r.Context(), query)
	if err != nil {
		data.Notice = errorNotice(api.MessageOr(err, "Failed to load blog posts"))
		view.Posts = []model.BlogPost{}
	} else {
		view.Posts = result.Blogs
		view.Pagination = result.Pagination
		if result.Pagination.HasPrev {
			view.PrevURL = blogURL(query, result.Pagination.Current-1)
		}
		if result.Pagination.HasNext {
			view.NextURL = blogURL(query, result.Pagination.Current+1)
		}
	}
	if cats, err := s.content.BlogCategories(r.Context()); err == nil {
		view.Categories = cats
	}
	data.Data = view
	s.render(w, r, http.StatusOK, "blog", data)
}

func blogURL(q model.BlogQuery, page int) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" && q.Category != "all" {
		v.Set("category", q.Category)
	}
	return "/blog?" + v.Encode()
}

// likedCookie holds the ids liked in this browser session.
const likedCookie = "liked_blogs"

func likedSet(r *http.Request) map[string]bool {
	set := map[string]bool{}
	c, err := r.Cookie(likedCookie)
	if err != nil {
		return set
	}
	for _, id := range strings.Split(c.Value, ".") {
		if id != "" {
			set[id] = true
		}
	}
	return set
}

// LikeBlog handles POST /blog/{id}/like. A second like from the same browser
// session is ignored without calling the backend.
func (s *Server) LikeBlog(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	back := r.PostFormValue("return")
	if !strings.HasPrefix(back, "/blog") || strings.HasPrefix(back, "//") {
		back = "/blog"
	}

	liked := likedSet(r)
	if liked[id] {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if err := s.submissions.Like(r.Context(), id); err != nil {
		s.render(w, r, http.StatusBadGateway, "message", pageData{
			Title:  "Blog",
			Notice: errorNotice(api.MessageOr(err, "Failed to like post")),
			Data:   messageView{Heading: "Something went wrong", Link: back},
		})
		return
	}
	liked[id] = true
	ids := make([]string, 0, len(liked))
	for k := range liked {
		ids = append(ids, k)
	}
	slices.Sort(ids)
	http.SetCookie(w, &http.Cookie{
		Name:     likedCookie,
		Value:    strings.Join(ids, "."),
		Path:     "/blog",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, back, http.StatusSeeOther)
}

type contactView struct {
	Subjects []model.Option
	Contact  formState
	Feedback formState
}

// Contact handles GET /contact.
func (s *Server) Contact(w http.ResponseWriter, r *http.Request) {
	s.renderContact(w, r, http.StatusOK, freshForm(), freshForm(), nil)
}

// SubmitContact handles POST /contact.
func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	msg := model.ContactMessage{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}
	agreed := r.PostFormValue("privacy") == "on"
	err := s.submissions.Contact(r.Context(), msg, agreed)
	if err == nil {
		s.renderContact(w, r, http.StatusOK, freshForm(), freshForm(), successNotice(service.MsgContactSent))
		return
	}
	form := formState{Values: map[string]string{
		"name": msg.Name, "email": msg.Email, "subject": msg.Subject, "message": msg.Message,
		"privacy": checkbox(agreed),
	}}
	status, notice := submissionFailure(err, &form, service.MsgContactFailed)
	s.renderContact(w, r, status, form, freshForm(), notice)
}

// SubmitFeedback handles POST /feedback from the contact page.
func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	rating, _ := strconv.Atoi(r.PostFormValue("rating"))
	fb := model.Feedback{
		Name:      r.PostFormValue("name"),
		Email:     r.PostFormValue("email"),
		Role:      r.PostFormValue("role"),
		Workplace: r.PostFormValue("workplace"),
		Comment:   r.PostFormValue("comment"),
		Rating:    rating,
	}
	err := s.submissions.Feedback(r.Context(), fb)
	if err == nil {
		s.renderContact(w, r, http.StatusOK, freshForm(), freshForm(), successNotice(service.MsgFeedbackSent))
		return
	}
	form := formState{Values: map[string]string{
		"name": fb.Name, "email": fb.Email, "role": fb.Role, "workplace": fb.Workplace,
		"comment": fb.Comment, "rating": r.PostFormValue("rating"),
	}}
	status, notice := submissionFailure(err, &form, service.MsgFeedbackFailed)
	s.renderContact(w, r, status, freshForm(), form, notice)
}

func (s *Server) renderContact(w http.ResponseWriter, r *http.Request, status int, contact, feedback formState, notice *crud.Notice) {
	s.render(w, r, status, "contact", pageData{
		Title:  "Contact Us",
		Notice: notice,
		Data:   contactView{Subjects: model.ContactSubjects, Contact: contact, Feedback: feedback},
	})
}

type reportView struct {
	Categories []string
	Form       formState
}

// Report handles GET /report.
func (s *Server) Report(w http.ResponseWriter, r *http.Request) {
	s.renderReport(w, r, http.StatusOK, freshForm(), nil)
}

// SubmitReport handles POST /report.
func (s *Server) SubmitReport(w http.ResponseWriter, r *http.Request) {
	rep := model.ProjectReport{
		Title:         r.PostFormValue("title"),
		Description:   r.PostFormValue("description"),
		ReporterName:  r.PostFormValue("reporterName"),
		ReporterEmail: r.PostFormValue("reporterEmail"),
		Category:      r.PostFormValue("category"),
		ProjectURL:    r.PostFormValue("projectUrl"),
	}
	agreed := r.PostFormValue("terms") == "on"
	err := s.submissions.Report(r.Context(), rep, agreed)
	if err == nil {
		s.renderReport(w, r, http.StatusOK, freshForm(), successNotice(service.MsgReportSent))
		return
	}
	form := formState{Values: map[string]string{
		"title": rep.Title, "description": rep.Description, "reporterName": rep.ReporterName,
		"reporterEmail": rep.ReporterEmail, "category": rep.Category, "projectUrl": rep.ProjectURL,
		"terms": checkbox(agreed),
	}}
	status, notice := submissionFailure(err, &form, service.MsgReportFailed)
	s.renderReport(w, r, status, form, notice)
}

func (s *Server) renderReport(w http.ResponseWriter, r *http.Request, status int, form formState, notice *crud.Notice) {
	s.render(w, r, status, "report", pageData{
		Title:  "Report a Project",
		Notice: notice,
		Data:   reportView{Categories: model.ReportCategories, Form: form},
	})
}

type joinView struct {
	Interests []string
	Form      formState
}

// JoinTeam handles GET /join-team.
func (s *Server) JoinTeam(w http.ResponseWriter, r *http.Request) {
	s.renderJoin(w, r, http.StatusOK, freshForm(), nil)
}

// SubmitApplication handles POST /join-team.
func (s *Server) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	app := model.TeamApplication{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Phone:    r.PostFormValue("phone"),
		LinkedIn: r.PostFormValue("linkedin"),
		Interest: r.PostFormValue("interest"),
		Comment:  r.PostFormValue("comment"),
	}
	agreed := r.PostFormValue("terms") == "on"
	err := s.submissions.Apply(r.Context(), app, agreed)
	if err == nil {
		s.renderJoin(w, r, http.StatusOK, freshForm(), successNotice(service.MsgApplicationSent))
		return
	}
	form := formState{Values: map[string]string{
		"name": app.Name, "email": app.Email, "phone": app.Phone, "linkedin": app.LinkedIn,
		"interest": app.Interest, "comment": app.Comment, "terms": checkbox(agreed),
	}}
	status, notice := submissionFailure(err, &form, service.MsgApplicationFail)
	s.renderJoin(w, r, status, form, notice)
}

func (s *Server) renderJoin(w http.ResponseWriter, r *http.Request, status int, form formState, notice *crud.Notice) {
	s.render(w, r, status, "join", pageData{
		Title:  "Join Our Team",
		Notice: notice,
		Data:   joinView{Interests: model.Interests, Form: form},
	})
}

type messageView struct {
	Heading string
	Body    string
	Link    string
}

// NotFound renders the 404 page for every unmatched path.
func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "message", pageData{
		Title: "Page Not Found",
		Data: messageView{
			Heading: "404",
			Body:    "The page you are looking for does not exist.",
			Link:    "/",
		},
	})
}

// submissionFailure maps a submit error to the response status and banner,
// recording field errors on form. The form stays filled either way.
func submissionFailure(err error, form *formState, fallback string) (int, *crud.Notice) {
	if isValidation(err) {
		form.Errors = fieldErrors(err)
		if len(form.Errors) == 1 {
			for _, msg := range form.Errors {
				return http.StatusUnprocessableEntity, errorNotice(msg)
			}
		}
		return http.StatusUnprocessableEntity, errorNotice(service.MsgRequiredFields)
	}
	return http.StatusBadGateway, errorNotice(api.MessageOr(err, fallback))
}

func checkbox(on bool) string {
	if on {
		return "on"
	}
	return ""
}
