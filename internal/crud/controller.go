package crud

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/cyberpit/site/internal/validate"
	"github.com/cyberpit/site/pkg/api"
)

// Options configures a Controller.
type Options[T any] struct {
	// Noun names one item in default banner texts, e.g. "Team member".
	Noun     string
	Messages Messages
	// Validate runs before Create and Update. It should return *validate.Errors.
	Validate func(T) error
	// BulkConcurrency caps per-item deletes when the endpoint has no batch
	// operation. Defaults to 4.
	BulkConcurrency int
}

// Controller holds one mounted list page. Local state only changes after the
// backend reports success.
type Controller[T Keyed] struct {
	ep   Lister[T]
	caps Capabilities
	opts Options[T]
	msgs Messages

	mu       sync.Mutex
	phase    Phase
	items    []T
	gen      uint64
	selected string
	notice   *Notice
	draft    *Draft[T]
}

// Draft is a form that failed validation or submission and is shown again.
type Draft[T any] struct {
	ID     string
	Value  T
	Errors *validate.Errors
}

// New creates a Controller in the Idle phase.
func New[T Keyed](ep Lister[T], opts Options[T]) *Controller[T] {
	if opts.BulkConcurrency <= 0 {
		opts.BulkConcurrency = 4
	}
	noun := opts.Noun
	if noun == "" {
		noun = "Item"
	}
	return &Controller[T]{
		ep:    ep,
		caps:  capabilitiesOf(ep),
		opts:  opts,
		msgs:  opts.Messages.withDefaults(noun),
		phase: Idle,
	}
}

// Endpoint returns the endpoint the controller was built over.
func (c *Controller[T]) Endpoint() Lister[T] { return c.ep }

// Capabilities reports the endpoint's optional operations.
func (c *Controller[T]) Capabilities() Capabilities { return c.caps }

// Load fetches the collection with exactly one list call and replaces the
// local copy with the result. A load that finishes after a newer load or
// mutation started returns ErrSuperseded and changes nothing.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.phase = Loading
	c.mu.Unlock()

	res := c.ep.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return ErrSuperseded
	}
	if res.Err != nil {
		c.phase = LoadError
		c.setError(res.Err, c.msgs.LoadFailed)
		return res.Err
	}
	c.items = res.Value
	c.phase = Ready
	return nil
}

// Save creates v when id is empty and updates id otherwise.
func (c *Controller[T]) Save(ctx context.Context, id string, v T) error {
	if id == "" {
		return c.Create(ctx, v)
	}
	return c.Update(ctx, id, v)
}

// Create validates and posts v. The returned entity is appended; when the
// backend does not echo one the list is reloaded.
func (c *Controller[T]) Create(ctx context.Context, v T) error {
	creator, ok := c.ep.(Creator[T])
	if !ok {
		return ErrUnsupported
	}
	if err := c.check("", v); err != nil {
		return err
	}

	c.begin()
	res := creator.Create(ctx, v)
	if res.Err != nil {
		c.fail(res.Err, c.msgs.SaveFailed, &Draft[T]{Value: v})
		return res.Err
	}

	created := res.Value
	if created.Key() == "" {
		if err := c.reload(ctx); err != nil {
			return err
		}
		c.succeed(c.msgs.Created)
		return nil
	}
	c.apply(func() {
		c.items = append(c.items, created)
	})
	c.succeed(c.msgs.Created)
	return nil
}

// Update validates and sends v as the full replacement of id. When the
// backend echoes no entity and v does not carry id, the list is reloaded.
func (c *Controller[T]) Update(ctx context.Context, id string, v T) error {
	if err := c.check(id, v); err != nil {
		return err
	}
	var apply func(T) T
	if v.Key() == id {
		apply = func(T) T { return v }
	}
	return c.patch(ctx, id, v, apply, c.msgs.Updated, c.msgs.SaveFailed, &Draft[T]{ID: id, Value: v})
}

// Patch sends body as a partial update of id. apply derives the local item
// from the current one when the backend does not echo the entity.
func (c *Controller[T]) Patch(ctx context.Context, id string, body any, apply func(T) T) error {
	if _, ok := c.find(id); !ok {
		return ErrNotFound
	}
	return c.patch(ctx, id, body, apply, c.msgs.Updated, c.msgs.UpdateFailed, nil)
}

func (c *Controller[T]) patch(ctx context.Context, id string, body any, apply func(T) T, okMsg, failMsg string, draft *Draft[T]) error {
	updater, ok := c.ep.(Updater[T])
	if !ok {
		return ErrUnsupported
	}

	c.begin()
	res := updater.Update(ctx, id, body)
	if res.Err != nil {
		c.fail(res.Err, failMsg, draft)
		return res.Err
	}

	if res.Value.Key() != id && apply == nil {
		if err := c.reload(ctx); err != nil {
			return err
		}
		c.succeed(okMsg)
		return nil
	}
	c.apply(func() {
		i := c.indexOf(id)
		switch {
		case i < 0:
		case res.Value.Key() == id:
			c.items[i] = res.Value
		default:
			c.items[i] = apply(c.items[i])
		}
	})
	c.succeed(okMsg)
	return nil
}

// BoolField describes a boolean attribute that can be flipped in place.
type BoolField[T any] struct {
	Name string // JSON field sent to the backend
	Get  func(T) bool
	Set  func(*T, bool)
	// Ceiling limits how many items may have the field set; 0 means no limit.
	Ceiling int
	// CeilingMessage is shown when enabling would exceed Ceiling.
	CeilingMessage string
	// Enabled and Disabled override the success banner.
	Enabled, Disabled string
}

// Toggle flips f on id with a partial update. Enabling past the ceiling
// returns ErrCeiling without a network call.
func (c *Controller[T]) Toggle(ctx context.Context, id string, f BoolField[T]) error {
	item, ok := c.find(id)
	if !ok {
		return ErrNotFound
	}
	next := !f.Get(item)
	if next && !c.CanEnable(f) {
		msg := f.CeilingMessage
		if msg == "" {
			msg = fmt.Sprintf("At most %d items can be selected", f.Ceiling)
		}
		c.mu.Lock()
		c.notice = &Notice{Kind: NoticeError, Text: msg}
		c.mu.Unlock()
		return ErrCeiling
	}

	okMsg := c.msgs.Updated
	if next && f.Enabled != "" {
		okMsg = f.Enabled
	} else if !next && f.Disabled != "" {
		okMsg = f.Disabled
	}
	return c.patch(ctx, id, map[string]bool{f.Name: next}, func(cur T) T {
		f.Set(&cur, next)
		return cur
	}, okMsg, c.msgs.UpdateFailed, nil)
}

// CanEnable reports whether one more item may have f set.
func (c *Controller[T]) CanEnable(f BoolField[T]) bool {
	if f.Ceiling <= 0 {
		return true
	}
	return c.Count(f.Get) < f.Ceiling
}

// StatusField describes a status attribute restricted to Allowed values.
type StatusField[T any] struct {
	Name    string
	Allowed []string
	Set     func(*T, string)
}

// SetStatus moves id to status with a partial update.
func (c *Controller[T]) SetStatus(ctx context.Context, id string, f StatusField[T], status string) error {
	if !slices.Contains(f.Allowed, status) {
		return ErrInvalidValue
	}
	if _, ok := c.find(id); !ok {
		return ErrNotFound
	}
	return c.patch(ctx, id, map[string]string{f.Name: status}, func(cur T) T {
		f.Set(&cur, status)
		return cur
	}, c.msgs.Updated, c.msgs.UpdateFailed, nil)
}

// Delete removes id after the user confirmed. Without confirmation no call is
// made and the list is untouched.
func (c *Controller[T]) Delete(ctx context.Context, id string, conf Confirmation) error {
	if conf < Confirmed {
		return ErrNotConfirmed
	}
	deleter, ok := c.ep.(Deleter)
	if !ok {
		return ErrUnsupported
	}

	c.begin()
	res := deleter.Delete(ctx, id)
	if res.Err != nil {
		c.fail(res.Err, c.msgs.DeleteFailed, nil)
		return res.Err
	}
	c.apply(func() {
		c.remove([]string{id})
	})
	c.succeed(c.msgs.Deleted)
	return nil
}

// Perform runs a mutation with side effects on other rows, such as
// activating a video or seeding defaults, then reloads the list.
func (c *Controller[T]) Perform(ctx context.Context, call func(ctx context.Context) error, okMsg, failMsg string) error {
	c.begin()
	if err := call(ctx); err != nil {
		c.fail(err, failMsg, nil)
		return err
	}
	if err := c.reload(ctx); err != nil {
		return err
	}
	c.succeed(okMsg)
	return nil
}

// Reject records a failure detected before any backend call, such as an
// invalid upload, as an error banner.
func (c *Controller[T]) Reject(err error, fallback string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var verr *validate.Errors
	if errors.As(err, &verr) {
		c.notice = &Notice{Kind: NoticeError, Text: verr.Summary(fallback)}
		return
	}
	c.setError(err, fallback)
}

// Inform sets an info or success banner directly.
func (c *Controller[T]) Inform(kind NoticeKind, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := &Notice{Kind: kind, Text: text}
	if kind == NoticeSuccess {
		n.DismissAfter = c.msgs.DismissAfter
	}
	c.notice = n
}

// Select marks id as the item shown in the detail pane.
func (c *Controller[T]) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(id) < 0 {
		return false
	}
	c.selected = id
	return true
}

// Deselect clears the selection.
func (c *Controller[T]) Deselect() {
	c.mu.Lock()
	c.selected = ""
	c.mu.Unlock()
}

// Selected returns the selected item.
func (c *Controller[T]) Selected() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(c.selected); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Find returns the item with id.
func (c *Controller[T]) Find(id string) (T, bool) { return c.find(id) }

// Count returns how many items satisfy pred.
func (c *Controller[T]) Count(pred func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		if pred(it) {
			n++
		}
	}
	return n
}

// View is a point-in-time copy of the controller for rendering.
type View[T any] struct {
	Phase    Phase
	Items    []T
	Selected *T
	Notice   *Notice
	Draft    *Draft[T]
	Caps     Capabilities
}

// View returns the current state and consumes the pending notice and draft.
func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View[T]{
		Phase:  c.phase,
		Items:  slices.Clone(c.items),
		Notice: c.notice,
		Draft:  c.draft,
		Caps:   c.caps,
	}
	if v.Items == nil {
		v.Items = []T{}
	}
	if i := c.indexOf(c.selected); i >= 0 {
		sel := c.items[i]
		v.Selected = &sel
	}
	c.notice = nil
	c.draft = nil
	return v
}

// Phase returns the current phase.
// Invalid keeps v as the editor draft for id with the field errors carried
// by err. Nothing is sent.
func (c *Controller[T]) Invalid(id string, v T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := &Draft[T]{ID: id, Value: v}
	var verr *validate.Errors
	if errors.As(err, &verr) {
		d.Errors = verr
	}
	c.draft = d
	c.notice = &Notice{Kind: NoticeError, Text: "Please fill in all required fields"}
}

func (c *Controller[T]) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// ------------------------------------------------------------------
// internal state helpers
// ------------------------------------------------------------------

func (c *Controller[T]) check(id string, v T) error {
	if c.opts.Validate == nil {
		return nil
	}
	err := c.opts.Validate(v)
	if err == nil {
		return nil
	}
	c.Invalid(id, v, err)
	return err
}

func (c *Controller[T]) begin() {
	c.mu.Lock()
	c.phase = Submitting
	c.notice = nil
	c.mu.Unlock()
}

func (c *Controller[T]) fail(err error, fallback string, draft *Draft[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = SubmitError
	c.draft = draft
	c.setError(err, fallback)
}

func (c *Controller[T]) succeed(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = Ready
	c.draft = nil
	c.notice = &Notice{Kind: NoticeSuccess, Text: text, DismissAfter: c.msgs.DismissAfter}
}

// apply mutates the collection and supersedes any in-flight load.
func (c *Controller[T]) apply(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	fn()
}

func (c *Controller[T]) reload(ctx context.Context) error {
	if err := c.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return err
	}
	return nil
}

func (c *Controller[T]) setError(err error, fallback string) {
	c.notice = &Notice{Kind: NoticeError, Text: api.MessageOr(err, fallback)}
}

func (c *Controller[T]) find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// indexOf must be called with mu held.
func (c *Controller[T]) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(c.items, func(it T) bool { return it.Key() == id })
}

// remove must be called with mu held.
func (c *Controller[T]) remove(ids []string) {
	c.items = slices.DeleteFunc(c.items, func(it T) bool {
		return slices.Contains(ids, it.Key())
	})
	if slices.Contains(ids, c.selected) {
		c.selected = ""
	}
}
