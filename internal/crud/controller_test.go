package crud

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cyberpit/site/internal/validate"
	"github.com/cyberpit/site/pkg/api"
)

type item struct {
	ID       string
	Name     string
	Featured bool
	Status   string
}

func (i item) Key() string { return i.ID }

// mockEndpoint implements Lister, Creator, Updater and Deleter.
type mockEndpoint struct {
	listFn   func(ctx context.Context) api.Result[[]item]
	createFn func(ctx context.Context, v item) api.Result[item]
	updateFn func(ctx context.Context, id string, body any) api.Result[item]
	deleteFn func(ctx context.Context, id string) api.Result[api.Empty]

	lists, creates, updates, deletes atomic.Int32
}

func (m *mockEndpoint) List(ctx context.Context) api.Result[[]item] {
	m.lists.Add(1)
	return m.listFn(ctx)
}

func (m *mockEndpoint) Create(ctx context.Context, v item) api.Result[item] {
	m.creates.Add(1)
	return m.createFn(ctx, v)
}

func (m *mockEndpoint) Update(ctx context.Context, id string, body any) api.Result[item] {
	m.updates.Add(1)
	return m.updateFn(ctx, id, body)
}

func (m *mockEndpoint) Delete(ctx context.Context, id string) api.Result[api.Empty] {
	m.deletes.Add(1)
	return m.deleteFn(ctx, id)
}

type listOnly struct {
	items []item
}

func (l listOnly) List(context.Context) api.Result[[]item] { return api.Result[[]item]{Value: l.items} }

type batchEndpoint struct {
	*mockEndpoint
	batchFn func(ctx context.Context, ids []string) api.Result[api.Empty]
	batches atomic.Int32
}

func (b *batchEndpoint) DeleteMany(ctx context.Context, ids []string) api.Result[api.Empty] {
	b.batches.Add(1)
	return b.batchFn(ctx, ids)
}

type clearEndpoint struct {
	*mockEndpoint
	clears atomic.Int32
}

func (c *clearEndpoint) DeleteAll(context.Context) api.Result[api.Empty] {
	c.clears.Add(1)
	return api.Result[api.Empty]{}
}

func fixed(items ...item) func(context.Context) api.Result[[]item] {
	return func(context.Context) api.Result[[]item] {
		return api.Result[[]item]{Value: append([]item(nil), items...)}
	}
}

func okRes[T any](v T) api.Result[T] { return api.Result[T]{Value: v} }

func errRes[T any](status int, msg string) api.Result[T] {
	return api.Result[T]{Err: &api.Error{Op: "test", StatusCode: status, Message: msg}}
}

func newEndpoint(items ...item) *mockEndpoint {
	return &mockEndpoint{
		listFn: fixed(items...),
		createFn: func(_ context.Context, v item) api.Result[item] {
			v.ID = "new"
			return okRes(v)
		},
		updateFn: func(context.Context, string, any) api.Result[item] { return okRes(item{}) },
		deleteFn: func(context.Context, string) api.Result[api.Empty] { return okRes(api.Empty{}) },
	}
}

func loaded(t *testing.T, ep Lister[item], opts Options[item]) *Controller[item] {
	t.Helper()
	c := New[item](ep, opts)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return c
}

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

// ------------------------------------------------------------------
// Load
// ------------------------------------------------------------------

func TestLoad_ReplacesCollectionVerbatim(t *testing.T) {
	ep := newEndpoint(item{ID: "1", Name: "a"}, item{ID: "2", Name: "b"}, item{ID: "3", Name: "c"})
	c := loaded(t, ep, Options[item]{})

	v := c.View()
	if len(v.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(v.Items))
	}
	if v.Phase != Ready {
		t.Errorf("expected ready, got %s", v.Phase)
	}
	if ep.lists.Load() != 1 {
		t.Errorf("expected exactly one list call, got %d", ep.lists.Load())
	}
}

func TestLoad_ErrorKeepsBackendMessage(t *testing.T) {
	ep := newEndpoint()
	ep.listFn = func(context.Context) api.Result[[]item] { return errRes[[]item](500, "db down") }
	c := New[item](ep, Options[item]{Noun: "Team member"})

	if err := c.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	v := c.View()
	if v.Phase != LoadError {
		t.Errorf("expected load-error, got %s", v.Phase)
	}
	if v.Notice == nil || v.Notice.Text != "db down" || v.Notice.Kind != NoticeError {
		t.Errorf("unexpected notice %+v", v.Notice)
	}
}

func TestLoad_FallbackMessageWithoutBackendMessage(t *testing.T) {
	ep := newEndpoint()
	ep.listFn = func(context.Context) api.Result[[]item] { return errRes[[]item](0, "") }
	c := New[item](ep, Options[item]{Noun: "team member"})
	_ = c.Load(context.Background())

	if v := c.View(); v.Notice == nil || v.Notice.Text != "Failed to load team member list" {
		t.Errorf("unexpected notice %+v", v.Notice)
	}
}

func TestLoad_SupersededLoadIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	ep := newEndpoint()
	ep.listFn = func(context.Context) api.Result[[]item] {
		if calls.Add(1) == 1 {
			<-release
			return okRes([]item{{ID: "old", Name: "stale"}})
		}
		return okRes([]item{{ID: "new", Name: "fresh"}})
	}
	c := New[item](ep, Options[item]{})

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = c.Load(context.Background())
	}()
	for c.Phase() != Loading {
		time.Sleep(time.Millisecond)
	}
	for calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}
	close(release)
	wg.Wait()

	if !errors.Is(firstErr, ErrSuperseded) {
		t.Errorf("expected ErrSuperseded, got %v", firstErr)
	}
	if got := names(c.View().Items); len(got) != 1 || got[0] != "fresh" {
		t.Errorf("expected fresh list, got %v", got)
	}
}

// ------------------------------------------------------------------
// Create / Update
// ------------------------------------------------------------------

func TestCreate_InvalidIssuesNoCall(t *testing.T) {
	ep := newEndpoint()
	c := loaded(t, ep, Options[item]{Validate: func(v item) error {
		if v.Name == "" {
			return &validate.Errors{Fields: map[string]string{"name": "This field is required"}}
		}
		return nil
	}})

	err := c.Create(context.Background(), item{})
	var verr *validate.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ep.creates.Load() != 0 {
		t.Error("expected no create call")
	}
	v := c.View()
	if v.Draft == nil || v.Draft.Errors.Field("name") == "" {
		t.Errorf("expected draft with field error, got %+v", v.Draft)
	}
}

func TestCreate_AppendsReturnedEntity(t *testing.T) {
	ep := newEndpoint(item{ID: "1", Name: "a"})
	c := loaded(t, ep, Options[item]{Noun: "Team member"})

	if err := c.Create(context.Background(), item{Name: "b"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	v := c.View()
	if len(v.Items) != 2 || v.Items[1].ID != "new" {
		t.Errorf("unexpected items %+v", v.Items)
	}
	if v.Notice == nil || v.Notice.Text != "Team member added successfully" || v.Notice.DismissAfter != 3*time.Second {
		t.Errorf("unexpected notice %+v", v.Notice)
	}
}

func TestCreate_NoEchoReloads(t *testing.T) {
	ep := newEndpoint(item{ID: "1", Name: "a"})
	ep.createFn = func(context.Context, item) api.Result[item] { return okRes(item{}) }
	c := loaded(t, ep, Options[item]{})

	ep.listFn = fixed(item{ID: "1", Name: "a"}, item{ID: "2", Name: "b"})
	if err := c.Create(context.Background(), item{Name: "b"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ep.lists.Load() != 2 {
		t.Errorf("expected reload, got %d list calls", ep.lists.Load())
	}
	if len(c.View().Items) != 2 {
		t.Error("expected reloaded list")
	}
}

func TestCreate_FailureLeavesCollectionAndKeepsDraft(t *testing.T) {
	ep := newEndpoint(item{ID: "1", Name: "a"})
	ep.createFn = func(context.Context, item) api.Result[item] { return errRes[item](400, "Name taken") }
	c := loaded(t, ep, Options[item]{})

	if err := c.Create(context.Background(), item{Name: "a"}); err == nil {
		t.Fatal("expected error")
	}
	v := c.View()
	if len(v.Items) != 1 {
		t.Errorf("collection changed: %+v", v.Items)
	}
	if v.Phase != SubmitError {
		t.Errorf("expected submit-error, got %s", v.Phase)
	}
	if v.Notice == nil || v.Notice.Text != "Name taken" {
		t.Errorf("unexpected notice %+v", v.Notice)
	}
	if v.Draft == nil || v.Draft.Value.Name != "a" {
		t.Errorf("expected draft kept, got %+v", v.Draft)
	}
}

func TestUpdate_AppliesSubmittedValuesWhenNotEchoed(t *testing.T) {
	ep := newEndpoint(item{ID: "1", Name: "a"}, item{ID: "2", Name: "b"})
	c := loaded(t, ep, Options[item]{})

	if err := c.Save(context.Background(), "2", item{ID: "2", Name: "B"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := names(c.View().Items); got[1] != "B" {
		t.Errorf("expected replaced item, got %v", got)
	}
}

func TestUpdate_PrefersEchoedEntity(t *testing.T) {
	ep := newEndpoint(item{ID: "1", Name: "a"})
	ep.updateFn = func(_ context.Context, id string, _ any) api.Result[item] {
		return okRes(item{ID: id, Name: "server"})
	}
	c := loaded(t, ep, Options[item]{})

	_ = c.Update(context.Background(), "1", item{ID: "1", Name: "client"})
	if got := names(c.View().Items); got[0] != "server" {
		t.Errorf("expected server copy, got %v", got)
	}
}

// ------------------------------------------------------------------
// Toggle / status
// ------------------------------------------------------------------

var featured = BoolField[item]{
	Name:    "featured",
	Get:     func(i item) bool { return i.Featured },
	Set:     func(i *item, v bool) { i.Featured = v },
	Ceiling: 2,
}

func TestToggle_TwiceRestoresValue(t *testing.T) {
	var bodies []map[string]bool
	ep := newEndpoint(item{ID: "1"})
	ep.updateFn = func(_ context.Context, _ string, body any) api.Result[item] {
		bodies = append(bodies, body.(map[string]bool))
		return okRes(item{})
	}
	c := loaded(t, ep, Options[item]{})

	_ = c.Toggle(context.Background(), "1", featured)
	if it, _ := c.Find("1"); !it.Featured {
		t.Fatal("expected featured after first toggle")
	}
	_ = c.Toggle(context.Background(), "1", featured)
	if it, _ := c.Find("1"); it.Featured {
		t.Error("expected original value after second toggle")
	}
	if len(bodies) != 2 || !bodies[0]["featured"] || bodies[1]["featured"] {
		t.Errorf("unexpected partial updates %v", bodies)
	}
}

func TestToggle_CeilingBlocksBeforeCall(t *testing.T) {
	ep := newEndpoint(item{ID: "1", Featured: true}, item{ID: "2", Featured: true}, item{ID: "3"})
	c := loaded(t, ep, Options[item]{})

	if c.CanEnable(featured) {
		t.Error("expected CanEnable=false at ceiling")
	}
	if err := c.Toggle(context.Background(), "3", featured); !errors.Is(err, ErrCeiling) {
		t.Fatalf("expected ErrCeiling, got %v", err)
	}
	if ep.updates.Load() != 0 {
		t.Error("expected no update call")
	}
	// Turning one off is always allowed.
	if err := c.Toggle(context.Background(), "1", featured); err != nil {
		t.Errorf("expected disable to pass, got %v", err)
	}
}

func TestSetStatus_RejectsUnknownValue(t *testing.T) {
	ep := newEndpoint(item{ID: "1", Status: "new"})
	c := loaded(t, ep, Options[item]{})
	status := StatusField[item]{
		Name:    "status",
		Allowed: []string{"new", "reviewing"},
		Set:     func(i *item, s string) { i.Status = s },
	}

	if err := c.SetStatus(context.Background(), "1", status, "lost"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if err := c.SetStatus(context.Background(), "1", status, "reviewing"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if it, _ := c.Find("1"); it.Status != "reviewing" {
		t.Errorf("expected reviewing, got %q", it.Status)
	}
}

// ------------------------------------------------------------------
// Delete
// ------------------------------------------------------------------

func TestDelete_NotConfirmedIssuesNoCall(t *testing.T) {
	ep := newEndpoint(item{ID: "1"}, item{ID: "2"})
	c := loaded(t, ep, Options[item]{})

	if err := c.Delete(context.Background(), "1", NotConfirmed); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if ep.deletes.Load() != 0 {
		t.Error("expected no delete call")
	}
	if len(c.View().Items) != 2 {
		t.Error("expected list unchanged")
	}
}

func TestDelete_RemovesAndClearsSelection(t *testing.T) {
	ep := newEndpoint(item{ID: "1"}, item{ID: "2"})
	c := loaded(t, ep, Options[item]{})
	c.Select("2")

	if err := c.Delete(context.Background(), "2", Confirmed); err != nil {
		t.Fatalf("delete: %v", err)
	}
	v := c.View()
	if len(v.Items) != 1 || v.Items[0].ID != "1" {
		t.Errorf("unexpected items %+v", v.Items)
	}
	if v.Selected != nil {
		t.Error("expected selection cleared")
	}
}

func TestDelete_FailureKeepsItem(t *testing.T) {
	ep := newEndpoint(item{ID: "1"})
	ep.deleteFn = func(context.Context, string) api.Result[api.Empty] {
		return errRes[api.Empty](http.StatusUnauthorized, "Token expired")
	}
	c := loaded(t, ep, Options[item]{})

	err := c.Delete(context.Background(), "1", Confirmed)
	if !api.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(c.View().Items) != 1 {
		t.Error("expected item kept")
	}
}

func TestUnsupportedOperation(t *testing.T) {
	c := loaded(t, listOnly{items: []item{{ID: "1"}}}, Options[item]{})
	if err := c.Create(context.Background(), item{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if err := c.Delete(context.Background(), "1", Confirmed); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if caps := c.Capabilities(); caps.Create || caps.Delete || caps.Clear {
		t.Errorf("unexpected capabilities %+v", caps)
	}
}

// ------------------------------------------------------------------
// Perform
// ------------------------------------------------------------------

func TestPerform_ReloadsAfterSideEffects(t *testing.T) {
	ep := newEndpoint(item{ID: "v1", Featured: true})
	c := loaded(t, ep, Options[item]{})

	ep.listFn = fixed(item{ID: "v1"}, item{ID: "v2", Featured: true})
	err := c.Perform(context.Background(), func(context.Context) error { return nil }, "Video uploaded", "Upload failed")
	if err != nil {
		t.Fatalf("perform: %v", err)
	}
	v := c.View()
	if len(v.Items) != 2 || v.Items[0].Featured {
		t.Errorf("expected reloaded list, got %+v", v.Items)
	}
	if v.Notice == nil || v.Notice.Text != "Video uploaded" {
		t.Errorf("unexpected notice %+v", v.Notice)
	}
}

func TestView_ConsumesNotice(t *testing.T) {
	c := loaded(t, newEndpoint(), Options[item]{})
	c.Inform(NoticeInfo, "hello")
	if c.View().Notice == nil {
		t.Fatal("expected notice")
	}
	if c.View().Notice != nil {
		t.Error("expected notice consumed")
	}
}

func TestConfirmationFrom(t *testing.T) {
	if ConfirmationFrom(false, ClearPhrase) != NotConfirmed {
		t.Error("unchecked box must not confirm")
	}
	if ConfirmationFrom(true, "delete all") != Confirmed {
		t.Error("wrong phrase gives plain confirmation")
	}
	if ConfirmationFrom(true, ClearPhrase) != StronglyConfirmed {
		t.Error("exact phrase gives strong confirmation")
	}
}
