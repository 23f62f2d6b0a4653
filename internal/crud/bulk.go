package crud

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cyberpit/site/pkg/api"
	"golang.org/x/sync/errgroup"
)

// BulkResult reports the outcome of DeleteMany or Clear.
type BulkResult struct {
	Requested int
	Deleted   []string
	Failed    map[string]error
}

// DeleteMany removes ids after confirmation, using the endpoint's batch call
// when it has one and per-item deletes otherwise.
func (c *Controller[T]) DeleteMany(ctx context.Context, ids []string, conf Confirmation) (BulkResult, error) {
	if conf < Confirmed {
		return BulkResult{}, ErrNotConfirmed
	}
	if len(ids) == 0 {
		return BulkResult{}, nil
	}
	return c.bulk(ctx, ids, c.msgs.DeletedMany)
}

// Clear removes the whole collection. It needs StronglyConfirmed.
func (c *Controller[T]) Clear(ctx context.Context, conf Confirmation) (BulkResult, error) {
	if conf < StronglyConfirmed {
		return BulkResult{}, ErrNotConfirmed
	}

	c.mu.Lock()
	ids := make([]string, 0, len(c.items))
	for _, it := range c.items {
		ids = append(ids, it.Key())
	}
	c.mu.Unlock()

	clearer, ok := c.ep.(Clearer)
	if !ok {
		if len(ids) == 0 {
			return BulkResult{}, nil
		}
		return c.bulk(ctx, ids, c.msgs.Cleared)
	}

	c.begin()
	res := clearer.DeleteAll(ctx)
	if res.Err != nil {
		c.fail(res.Err, c.msgs.ClearFailed, nil)
		return BulkResult{Requested: len(ids)}, res.Err
	}
	c.apply(func() {
		c.items = c.items[:0]
		c.selected = ""
	})
	c.succeed(c.msgs.Cleared)
	return BulkResult{Requested: len(ids), Deleted: ids}, nil
}

func (c *Controller[T]) bulk(ctx context.Context, ids []string, okMsg string) (BulkResult, error) {
	result := BulkResult{Requested: len(ids)}

	if batch, ok := c.ep.(BatchDeleter); ok {
		c.begin()
		res := batch.DeleteMany(ctx, ids)
		if res.Err != nil {
			// The batch is all-or-nothing from our side: keep the list.
			c.fail(res.Err, c.msgs.DeleteFailed, nil)
			return result, res.Err
		}
		result.Deleted = ids
		c.apply(func() { c.remove(ids) })
		c.succeed(bulkMessage(okMsg, len(ids)))
		return result, nil
	}

	deleter, ok := c.ep.(Deleter)
	if !ok {
		return result, ErrUnsupported
	}

	c.begin()
	var (
		mu     sync.Mutex
		g      errgroup.Group
		failed = map[string]error{}
	)
	g.SetLimit(c.opts.BulkConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			res := deleter.Delete(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if res.Err != nil {
				failed[id] = res.Err
				return nil
			}
			result.Deleted = append(result.Deleted, id)
			return nil
		})
	}
	_ = g.Wait()

	c.apply(func() { c.remove(result.Deleted) })
	if len(failed) == 0 {
		c.succeed(bulkMessage(okMsg, len(result.Deleted)))
		return result, nil
	}

	result.Failed = failed
	err := fmt.Errorf("%w: %d of %d failed", ErrPartial, len(failed), len(ids))
	c.fail(err, fmt.Sprintf("%s (%d of %d could not be deleted)", c.msgs.DeleteFailed, len(failed), len(ids)), nil)
	return result, err
}

func bulkMessage(format string, n int) string {
	if strings.Contains(format, "%d") {
		return fmt.Sprintf(format, n)
	}
	return format
}

// Unauthorized reports whether any per-item failure was a backend 401.
func (r BulkResult) Unauthorized() bool {
	for _, err := range r.Failed {
		if api.IsUnauthorized(err) {
			return true
		}
	}
	return false
}
