package crud

import (
	"testing"
	"time"
)

func TestViewStore_MountAndLookup(t *testing.T) {
	s := NewViewStore(time.Minute)
	ctrl := New[item](newEndpoint(), Options[item]{})
	id := s.Mount("owner-1", "team", ctrl)

	got, ok := Lookup[item](s, id, "owner-1", "team")
	if !ok || got != ctrl {
		t.Fatal("expected mounted controller")
	}
	if _, ok := Lookup[item](s, id, "owner-2", "team"); ok {
		t.Error("another owner must not see the view")
	}
	if _, ok := Lookup[item](s, id, "owner-1", "projects"); ok {
		t.Error("another resource must not see the view")
	}
	if _, ok := Lookup[item](s, "missing", "owner-1", "team"); ok {
		t.Error("unknown id must miss")
	}
}

func TestViewStore_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewViewStore(time.Minute)
	s.now = func() time.Time { return now }
	id := s.Mount("o", "team", New[item](newEndpoint(), Options[item]{}))

	now = now.Add(50 * time.Second)
	if _, ok := Lookup[item](s, id, "o", "team"); !ok {
		t.Fatal("expected live view")
	}
	// Lookup extended the lifetime.
	now = now.Add(50 * time.Second)
	if n := s.Sweep(); n != 0 {
		t.Errorf("expected nothing swept, got %d", n)
	}
	now = now.Add(2 * time.Minute)
	if n := s.Sweep(); n != 1 {
		t.Errorf("expected 1 swept, got %d", n)
	}
	if s.Len() != 0 {
		t.Error("expected empty store")
	}
}

func TestViewStore_DropOwner(t *testing.T) {
	s := NewViewStore(time.Minute)
	s.Mount("a", "team", New[item](newEndpoint(), Options[item]{}))
	s.Mount("a", "projects", New[item](newEndpoint(), Options[item]{}))
	s.Mount("b", "team", New[item](newEndpoint(), Options[item]{}))

	if n := s.DropOwner("a"); n != 2 {
		t.Errorf("expected 2 dropped, got %d", n)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 left, got %d", s.Len())
	}
}
