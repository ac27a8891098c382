package query

import (
	"context"
)

// Fetch reads spec through the cache. Fresh data is returned without a
// network call; stale data is returned immediately while one background
// re-fetch runs. Without data, Fetch starts or joins the in-flight fetch and
// waits for it or for ctx, whichever comes first. A disabled spec returns an
// idle result and never fetches.
func Fetch[T any](ctx context.Context, c *Client, spec Spec[T]) Result[T] {
	if spec.disabled() {
		c.recorder.CacheLookup(spec.Resource, LookupDisabled)
		return Result[T]{Status: StatusIdle}
	}
	if c.closed.Load() {
		return Result[T]{Status: StatusError, Err: ErrClosed}
	}

	e := entryFor(c, spec)
	if res, served := serve[T](c, e); served {
		return res
	}

	for {
		select {
		case <-c.start(e, startRead):
		case <-ctx.Done():
			res := snapshot[T](e)
			if !res.HasData {
				res.Status = StatusError
				res.Err = ctx.Err()
			}
			return res
		}

		// A superseded fetch may finish before the newer one; keep waiting
		// until the entry holds an outcome.
		res := snapshot[T](e)
		if res.HasData || res.Err != nil || !res.IsFetching {
			return res
		}
	}
}

// Peek is the non-blocking form of Fetch: it makes the same fetch decisions
// but returns the current snapshot right away.
func Peek[T any](c *Client, spec Spec[T]) Result[T] {
	if spec.disabled() {
		c.recorder.CacheLookup(spec.Resource, LookupDisabled)
		return Result[T]{Status: StatusIdle}
	}
	if c.closed.Load() {
		return Result[T]{Status: StatusError, Err: ErrClosed}
	}

	e := entryFor(c, spec)
	if res, served := serve[T](c, e); served {
		return res
	}

	c.start(e, startRead)
	res := snapshot[T](e)
	if res.Status == StatusLoading {
		res.IsFetching = true
	}
	return res
}

// serve answers a read from the cache when there is data to show, starting a
// background re-fetch for stale data. It reports false on a miss.
func serve[T any](c *Client, e *entry) (Result[T], bool) {
	e.mu.Lock()
	kind := e.classify(c.now())
	servedAt := e.updatedAt
	e.mu.Unlock()

	switch kind {
	case lookupFresh:
		c.recorder.CacheLookup(e.resource, LookupHit)
		return snapshot[T](e), true
	case lookupStale:
		c.recorder.CacheLookup(e.resource, LookupStale)
		c.start(e, startRead)
		res := snapshot[T](e)
		if res.UpdatedAt.Equal(servedAt) {
			// The re-fetch has not settled yet
			res.IsFetching = true
		}
		return res, true
	default:
		c.recorder.CacheLookup(e.resource, LookupMiss)
		return Result[T]{}, false
	}
}
