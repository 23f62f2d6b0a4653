package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/cyberpit/site/internal/model"
	"github.com/cyberpit/site/pkg/api"
)

// adminBlogLimit is the page size of the admin blog list.
const adminBlogLimit = 10

// pagedEndpoint is a per-view endpoint that lists one backend page at a time.
type pagedEndpoint interface {
	// Seek moves to page and search and reports whether the query changed.
	Seek(page int, search string) bool
	Paging() (model.BlogQuery, model.Pagination)
}

// blogPages lists admin blog posts one backend page at a time. Each mounted
// view owns one, so every open tab keeps its own page and search.
type blogPages struct {
	*api.AdminBlogsAPI

	mu         sync.Mutex
	query      model.BlogQuery
	pagination model.Pagination
}

func newBlogPages(a *api.AdminBlogsAPI) *blogPages {
	return &blogPages{AdminBlogsAPI: a, query: model.BlogQuery{Page: 1, Limit: adminBlogLimit}}
}

// List fetches the current page and keeps its pagination as received.
func (p *blogPages) List(ctx context.Context) api.Result[[]model.BlogPost] {
	p.mu.Lock()
	q := p.query
	p.mu.Unlock()

	res := p.Page(ctx, q)
	if res.Err != nil {
		return api.Result[[]model.BlogPost]{Err: res.Err}
	}
	p.mu.Lock()
	p.pagination = res.Value.Pagination
	p.mu.Unlock()
	return api.Result[[]model.BlogPost]{Value: res.Value.Blogs, Message: res.Message}
}

func (p *blogPages) Seek(page int, search string) bool {
	if page < 1 {
		page = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.query.Page == page && p.query.Search == search {
		return false
	}
	p.query.Page = page
	p.query.Search = search
	return true
}

func (p *blogPages) Paging() (model.BlogQuery, model.Pagination) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query, p.pagination
}

// seek applies ?page= and ?search= from a list request. A request carrying
// neither keeps the current query, so redirects after a mutation stay on
// the same page.
func seek(pe pagedEndpoint, r *http.Request) bool {
	q := r.URL.Query()
	if !q.Has("page") && !q.Has("search") {
		return false
	}
	page, _ := strconv.Atoi(q.Get("page"))
	return pe.Seek(page, strings.TrimSpace(q.Get("search")))
}

type pagerView struct {
	Search  string
	Current int
	Pages   int
	Total   int
	HasPrev bool
	HasNext bool
	PrevURL string
	NextURL string
}

func newPagerView(base, viewID string, pe pagedEndpoint) *pagerView {
	q, pg := pe.Paging()
	link := func(page int) string {
		v := url.Values{"view": {viewID}, "page": {strconv.Itoa(page)}}
		if q.Search != "" {
			v.Set("search", q.Search)
		}
		return base + "?" + v.Encode()
	}
	return &pagerView{
		Search:  q.Search,
		Current: pg.Current,
		Pages:   pg.Pages,
		Total:   pg.Total,
		HasPrev: pg.HasPrev,
		HasNext: pg.HasNext,
		PrevURL: link(q.Page - 1),
		NextURL: link(q.Page + 1),
	}
}
