package crud

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ViewStore keeps mounted controllers alive between a page's GET and the
// POSTs made from it. Each view is bound to the owner that mounted it.
type ViewStore struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	views map[string]*mountedView
}

type mountedView struct {
	owner    string
	resource string
	ctrl     any
	expires  time.Time
}

// NewViewStore creates a store whose views expire ttl after last use.
func NewViewStore(ttl time.Duration) *ViewStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ViewStore{
		ttl:   ttl,
		now:   time.Now,
		views: make(map[string]*mountedView),
	}
}

// Mount stores ctrl and returns its view id.
func (s *ViewStore) Mount(owner, resource string, ctrl any) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.views[id] = &mountedView{owner: owner, resource: resource, ctrl: ctrl, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return id
}

// Lookup returns the controller mounted under id for owner and resource and
// extends its lifetime. Missing, expired or foreign views report false.
func Lookup[T Keyed](s *ViewStore, id, owner, resource string) (*Controller[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	if !ok {
		return nil, false
	}
	if s.now().After(v.expires) {
		delete(s.views, id)
		return nil, false
	}
	if v.owner != owner || v.resource != resource {
		return nil, false
	}
	ctrl, ok := v.ctrl.(*Controller[T])
	if !ok {
		return nil, false
	}
	v.expires = s.now().Add(s.ttl)
	return ctrl, true
}

// Drop removes a single view.
func (s *ViewStore) Drop(id string) {
	s.mu.Lock()
	delete(s.views, id)
	s.mu.Unlock()
}

// DropOwner removes every view of owner, e.g. on logout.
func (s *ViewStore) DropOwner(owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, v := range s.views {
		if v.owner == owner {
			delete(s.views, id)
			n++
		}
	}
	return n
}

// Len returns the number of live views.
func (s *ViewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Sweep removes expired views and returns how many were removed.
func (s *ViewStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, v := range s.views {
		if now.After(v.expires) {
			delete(s.views, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *ViewStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("expired admin views removed", "count", n)
			}
		}
	}
}
