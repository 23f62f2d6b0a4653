package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/cyberpit/site/internal/crud"
	"github.com/cyberpit/site/internal/validate"
	"github.com/cyberpit/site/pkg/api"
	"github.com/cyberpit/site/pkg/auth"
)

// adminResource is one dashboard section mounted under /admin/{name}.
type adminResource interface {
	name() string
	title() string
	base() string
	register(mux *http.ServeMux, s *Server)
}

type column[T any] struct {
	Header string
	Value  func(T) string
}

// formField is one input of a resource editor.
type formField struct {
	Name     string
	Label    string
	Kind     string // text, email, url, number, textarea, select, checkbox, file
	Options  []string
	Required bool
}

type detailRow struct {
	Label string
	Value string
	Long  bool
}

type toggle[T any] struct {
	crud.BoolField[T]
	Label string
}

// imageUpload sends the form's "imageFile" part before the entity is saved.
type imageUpload[T any] struct {
	Upload func(ctx context.Context, img api.Upload) api.Result[string]
	Set    func(*T, string)
}

// resource describes a dashboard section over one endpoint group.
type resource[T crud.Keyed] struct {
	Name     string
	Title    string
	Endpoint crud.Lister[T]
	Options  crud.Options[T]
	Columns  []column[T]

	// Form, Values and Parse are set for editable resources.
	Form   []formField
	Values func(T) map[string]string
	Parse  func(r *http.Request) T
	Image  *imageUpload[T]

	Toggles  []toggle[T]
	Status   *crud.StatusField[T]
	StatusOf func(T) string
	// Detail enables the detail pane opened with /{id}/open.
	Detail func(T) []detailRow
	// OnOpen returns the status an item moves to when opened, if any.
	OnOpen func(T) (string, bool)
	// Selectable adds row checkboxes for /delete-selected.
	Selectable bool
	// Panels names extra page sections, e.g. "bulk-email".
	Panels []string
	// Extra registers resource-specific routes.
	Extra func(mux *http.ServeMux, s *Server, res *resource[T])
	// PanelData supplies data for Panels.
	PanelData func(v crud.View[T]) any
	// NewEndpoint, when set, gives every mounted view its own endpoint in
	// place of Endpoint.
	NewEndpoint func() crud.Lister[T]

	srv *Server
}

func (res *resource[T]) name() string  { return res.Name }
func (res *resource[T]) title() string { return res.Title }
func (res *resource[T]) base() string  { return "/admin/" + res.Name }

func (res *resource[T]) register(mux *http.ServeMux, s *Server) {
	res.srv = s
	b := res.base()
	admin := func(h http.HandlerFunc) http.Handler { return s.gate.Require(h) }

	mux.Handle("GET "+b, admin(res.list))
	mux.Handle("POST "+b+"/{id}/delete", admin(res.delete))
	// paged views hold a single page, so clear-all is not offered there
	if res.NewEndpoint == nil {
		mux.Handle("POST "+b+"/clear", admin(res.clear))
	}
	mux.Handle("POST "+b+"/reload", admin(res.reload))
	if res.Form != nil {
		mux.Handle("POST "+b+"/save", admin(res.save))
	}
	if len(res.Toggles) > 0 {
		mux.Handle("POST "+b+"/{id}/toggle/{field}", admin(res.toggle))
	}
	if res.Status != nil {
		mux.Handle("POST "+b+"/{id}/status", admin(res.setStatus))
	}
	if res.Detail != nil {
		mux.Handle("POST "+b+"/{id}/open", admin(res.open))
		mux.Handle("POST "+b+"/close", admin(res.close))
	}
	if res.Selectable {
		mux.Handle("POST "+b+"/delete-selected", admin(res.deleteSelected))
	}
	if res.Extra != nil {
		res.Extra(mux, s, res)
	}
}

// controller returns the view's controller, mounting and loading a new one
// when the view id is unknown or expired. ok is false when the response has
// been written.
func (res *resource[T]) controller(w http.ResponseWriter, r *http.Request) (ctrl *crud.Controller[T], viewID string, ok bool) {
	owner := auth.FromContext(r.Context()).Owner()
	viewID = r.FormValue("view")
	if c, found := crud.Lookup[T](res.srv.views, viewID, owner, res.Name); found {
		return c, viewID, true
	}
	ep := res.Endpoint
	if res.NewEndpoint != nil {
		ep = res.NewEndpoint()
	}
	if pe, paged := ep.(pagedEndpoint); paged && r.Method == http.MethodGet {
		seek(pe, r)
	}
	ctrl = crud.New[T](ep, res.Options)
	viewID = res.srv.views.Mount(owner, res.Name, ctrl)
	if err := ctrl.Load(r.Context()); res.srv.handleAuthError(w, r, err) {
		return nil, "", false
	}
	return ctrl, viewID, true
}

// done finishes a mutation: a 401 ends the session, anything else returns to
// the list where the banner is shown.
func (res *resource[T]) done(w http.ResponseWriter, r *http.Request, viewID string, err error, extra url.Values) {
	if res.srv.handleAuthError(w, r, err) {
		return
	}
	if err != nil && !errors.Is(err, crud.ErrCeiling) && !isValidation(err) {
		slog.WarnContext(r.Context(), "admin action failed", "resource", res.Name, "error", err)
	}
	q := url.Values{"view": {viewID}}
	for k, v := range extra {
		q[k] = v
	}
	http.Redirect(w, r, res.base()+"?"+q.Encode(), http.StatusSeeOther)
}

func (res *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	ctrl, viewID, ok := res.controller(w, r)
	if !ok {
		return
	}
	pe, paged := ctrl.Endpoint().(pagedEndpoint)
	if paged && seek(pe, r) {
		if err := ctrl.Load(r.Context()); res.srv.handleAuthError(w, r, err) {
			return
		}
	}
	q := r.URL.Query()
	v := ctrl.View()

	page := res.page(v, viewID)
	if paged {
		page.Pager = newPagerView(res.base(), viewID, pe)
		page.CanClear = false
	}
	switch {
	case v.Draft != nil:
		page.Form = res.formView(v.Draft.ID, v.Draft.Value, v.Draft.Errors)
	case q.Get("edit") != "":
		if item, found := ctrl.Find(q.Get("edit")); found {
			page.Form = res.formView(item.Key(), item, nil)
		}
	case q.Get("new") == "1" && res.Form != nil:
		var zero T
		page.Form = res.formView("", zero, nil)
	}
	res.srv.render(w, r, http.StatusOK, "admin_resource", pageData{
		Title:  res.Title,
		Admin:  true,
		Notice: v.Notice,
		Data:   page,
	})
}

func (res *resource[T]) reload(w http.ResponseWriter, r *http.Request) {
	ctrl, viewID, ok := res.controller(w, r)
	if !ok {
		return
	}
	res.done(w, r, viewID, ctrl.Load(r.Context()), nil)
}

func (res *resource[T]) save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(validate.MaxImageBytes + 1<<20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ctrl, viewID, ok := res.controller(w, r)
	if !ok {
		return
	}
	id := r.FormValue("id")
	v := res.Parse(r)

	if res.Image != nil {
		file, header, err := attachedImage(r)
		if file != nil {
			defer file.Close()
		}
		if err == nil {
			err = res.precheck(ctrl, id, v, file != nil)
		}
		if isValidation(err) {
			res.done(w, r, viewID, err, nil)
			return
		}
		if err == nil && file != nil {
			err = res.uploadImage(r, file, header, &v)
		}
		if err != nil {
			if res.srv.handleAuthError(w, r, err) {
				return
			}
			ctrl.Reject(err, "Failed to upload image")
			edit := url.Values{}
			if id != "" {
				edit.Set("edit", id)
			} else {
				edit.Set("new", "1")
			}
			res.done(w, r, viewID, err, edit)
			return
		}
	}
	res.done(w, r, viewID, ctrl.Save(r.Context(), id, v), nil)
}

// pendingImage stands in for the URL of an attachment that has not been
// uploaded yet.
const pendingImage = "upload://pending"

// precheck validates the form before any upload. An attached file counts as
// the image field being filled.
func (res *resource[T]) precheck(ctrl *crud.Controller[T], id string, v T, attached bool) error {
	if res.Options.Validate == nil {
		return nil
	}
	candidate := v
	if attached {
		res.Image.Set(&candidate, pendingImage)
	}
	if err := res.Options.Validate(candidate); err != nil {
		ctrl.Invalid(id, v, err)
		return err
	}
	return nil
}

// attachedImage returns the form's "imageFile" part. file is nil when none
// was sent.
func attachedImage(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile("imageFile")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if header.Size == 0 {
		file.Close()
		return nil, nil, nil
	}
	return file, header, nil
}

// uploadImage checks and sends an attached image, then stores its URL on v.
func (res *resource[T]) uploadImage(r *http.Request, file multipart.File, header *multipart.FileHeader, v *T) error {
	contentType := partType(header)
	if err := validate.Image(contentType, header.Size); err != nil {
		return err
	}
	up := res.Image.Upload(r.Context(), api.Upload{Filename: header.Filename, ContentType: contentType, Body: file})
	if up.Err != nil {
		return up.Err
	}
	res.Image.Set(v, up.Value)
	return nil
}

func partType(h *multipart.FileHeader) string {
	return h.Header.Get("Content-Type")
}

func (res *resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	ctrl, viewID, ok := res.controller(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	conf := crud.ConfirmationFrom(r.FormValue("confirm") == "yes", "")
	if conf < crud.Confirmed {
		res.confirm(w, r, confirmView{
			Heading: "Delete " + strings.ToLower(res.Options.Noun) + "?",
			Body:    "This cannot be undone.",
			Action:  r.URL.Path,
			View:    viewID,
			Back:    res.base() + "?view=" + url.QueryEscape(viewID),
		})
		return
	}
	res.done(w, r, viewID, ctrl.Delete(r.Context(), id, conf), nil)
}

func (res *resource[T]) clear(w http.ResponseWriter, r *http.Request) {
	ctrl, viewID, ok := res.controller(w, r)
	if !ok {
		return
	}
	phrase := r.FormValue("phrase")
	conf := crud.ConfirmationFrom(r.FormValue("confirm") == "yes", phrase)
	if conf < crud.StronglyConfirmed {
		cv := confirmView{
			Heading: "Delete all " + strings.ToLower(res.Title) + "?",
			Body:    fmt.Sprintf("Type %q to confirm. This cannot be undone.", crud.ClearPhrase),
			Action:  r.URL.Path,
			View:    viewID,
			Phrase:  true,
			Back:    res.base() + "?view=" + url.QueryEscape(viewID),
		}
		if r.FormValue("confirm") == "yes" {
			cv.Error = fmt.Sprintf("Please type %s exactly", crud.ClearPhrase)
		}
		res.confirm(w, r, cv)
		return
	}
	result, err := ctrl.Clear(r.Context(), conf)
	if err == nil && result.Unauthorized() {
		err = &api.Error{Op: res.Name + ".clear", StatusCode: http.StatusUnauthorized}
	}
	res.done(w, r, viewID, err, nil)
}

func (res *resource[T]) deleteSelected(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ctrl, viewID, ok := res.controller(w, r)
	if !ok {
		return
	}
	ids := r.PostForm["ids"]
	if len(ids) == 0 {
		ctrl.Inform(crud.NoticeInfo, "Please select items to delete")
		res.done(w, r, viewID, nil, nil)
		return
	}
	conf := crud.ConfirmationFrom(r.FormValue("confirm") == "yes", "")
	if conf < crud.Confirmed {
		res.confirm(w, r, confirmView{
			Heading: fmt.Sprintf("Delete %d selected items?", len(ids)),
			Body:    "This cannot be undone.",
			Action:  r.URL.Path,
			View:    viewID,
			IDs:     ids,
			Back:    res.base() + "?view=" + url.QueryEscape(viewID),
		})
		return
	}
	result, err := ctrl.DeleteMany(r.Context(), ids, conf)
	if err == nil && result.Unauthorized() {
		err = &api.Error{Op: res.Name + ".delete_many", StatusCode: http.StatusUnauthorized}
	}
	res.done(w, r, viewID, err, nil)
}

func (res *resource[T]) toggle(w http.ResponseWriter, r *http.Request) {
	ctrl, viewID, ok := res.controller(w, r)
	if !ok {
		return
	}
	field := r.PathValue("field")
	for _, t := range res.Toggles {
		if t.Name == field {
			res.done(w, r, viewID, ctrl.Toggle(r.Context(), r.PathValue("id"), t.BoolField), nil)
			return
		}
	}
	http.NotFound(w, r)
}

func (res *resource[T]) setStatus(w http.ResponseWriter, r *http.Request) {
	ctrl, viewID, ok := res.controller(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	err := ctrl.SetStatus(r.Context(), id, *res.Status, r.FormValue("status"))
	if errors.Is(err, crud.ErrInvalidValue) {
		ctrl.Reject(err, "Invalid status")
	}
	res.done(w, r, viewID, err, nil)
}

func (res *resource[T]) open(w http.ResponseWriter, r *http.Request) {
	ctrl, viewID, ok := res.controller(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if !ctrl.Select(id) {
		res.done(w, r, viewID, nil, nil)
		return
	}
	var err error
	if res.OnOpen != nil && res.Status != nil {
		if item, found := ctrl.Find(id); found {
			if status, change := res.OnOpen(item); change {
				err = ctrl.SetStatus(r.Context(), id, *res.Status, status)
			}
		}
	}
	res.done(w, r, viewID, err, nil)
}

func (res *resource[T]) close(w http.ResponseWriter, r *http.Request) {
	ctrl, viewID, ok := res.controller(w, r)
	if !ok {
		return
	}
	ctrl.Deselect()
	res.done(w, r, viewID, nil, nil)
}

type confirmView struct {
	Heading string
	Body    string
	Action  string
	View    string
	Phrase  bool
	Error   string
	IDs     []string
	Back    string
}

// confirm renders the confirmation step of a destructive action. Nothing is
// sent to the backend until the page is submitted with confirm=yes.
func (res *resource[T]) confirm(w http.ResponseWriter, r *http.Request, cv confirmView) {
	res.srv.render(w, r, http.StatusOK, "admin_confirm", pageData{
		Title: res.Title,
		Admin: true,
		Data:  cv,
	})
}

// ------------------------------------------------------------------
// view models
// ------------------------------------------------------------------

type resourcePage struct {
	Name       string
	Title      string
	Base       string
	View       string
	Phase      string
	Loading    bool
	LoadError  bool
	Headers    []string
	Rows       []resourceRow
	Count      int
	Editable   bool
	Form       *formView
	HasDetail  bool
	Detail     []detailRow
	DetailID   string
	DetailStat string
	Statuses   []string
	HasStatus  bool
	Selectable bool
	CanDelete  bool
	CanClear   bool
	Panels     map[string]bool
	PanelData  any
	Pager      *pagerView
}

type resourceRow struct {
	ID       string
	Cells    []string
	Toggles  []toggleCell
	Status   string
	Selected bool
}

type toggleCell struct {
	Field    string
	Label    string
	On       bool
	Disabled bool
}

type formView struct {
	ID     string
	Fields []fieldView
}

type fieldView struct {
	formField
	Value   string
	Checked bool
	Error   string
}

func (res *resource[T]) page(v crud.View[T], viewID string) resourcePage {
	p := resourcePage{
		Name:       res.Name,
		Title:      res.Title,
		Base:       res.base(),
		View:       viewID,
		Phase:      v.Phase.String(),
		Loading:    v.Phase == crud.Loading,
		LoadError:  v.Phase == crud.LoadError,
		Count:      len(v.Items),
		Editable:   res.Form != nil && v.Caps.Create,
		HasStatus:  res.Status != nil,
		HasDetail:  res.Detail != nil,
		Selectable: res.Selectable,
		CanDelete:  v.Caps.Delete,
		CanClear:   v.Caps.Clear,
		Panels:     map[string]bool{},
	}
	if res.Status != nil {
		p.Statuses = res.Status.Allowed
	}
	for _, c := range res.Columns {
		p.Headers = append(p.Headers, c.Header)
	}
	for _, name := range res.Panels {
		p.Panels[name] = true
	}
	if res.PanelData != nil {
		p.PanelData = res.PanelData(v)
	}

	// 上限判定は一覧全体で行う
	enabled := make(map[string]int, len(res.Toggles))
	for _, t := range res.Toggles {
		for _, it := range v.Items {
			if t.Get(it) {
				enabled[t.Name]++
			}
		}
	}

	selectedID := ""
	if v.Selected != nil {
		selectedID = (*v.Selected).Key()
	}
	p.Rows = make([]resourceRow, 0, len(v.Items))
	for _, it := range v.Items {
		row := resourceRow{ID: it.Key(), Selected: it.Key() == selectedID}
		for _, c := range res.Columns {
			row.Cells = append(row.Cells, c.Value(it))
		}
		for _, t := range res.Toggles {
			on := t.Get(it)
			row.Toggles = append(row.Toggles, toggleCell{
				Field:    t.Name,
				Label:    t.Label,
				On:       on,
				Disabled: !on && t.Ceiling > 0 && enabled[t.Name] >= t.Ceiling,
			})
		}
		if res.StatusOf != nil {
			row.Status = res.StatusOf(it)
		}
		p.Rows = append(p.Rows, row)
	}

	if v.Selected != nil && res.Detail != nil {
		p.Detail = res.Detail(*v.Selected)
		p.DetailID = selectedID
		if res.StatusOf != nil {
			p.DetailStat = res.StatusOf(*v.Selected)
		}
	}
	return p
}

func (res *resource[T]) formView(id string, v T, errs *validate.Errors) *formView {
	values := map[string]string{}
	if res.Values != nil {
		values = res.Values(v)
	}
	f := &formView{ID: id}
	for _, field := range res.Form {
		fv := fieldView{formField: field, Value: values[field.Name], Error: errs.Field(field.Name)}
		if field.Kind == "checkbox" {
			fv.Checked = values[field.Name] == "on"
		}
		f.Fields = append(f.Fields, fv)
	}
	return f
}
