package query

import (
	"sync"
	"time"
)

// Observer follows one cache entry. While at least one observer of an entry
// is open, the entry never expires and, when its policy sets a
// RefetchInterval, re-fetches on that interval regardless of reads.
type Observer[T any] struct {
	// C receives a value after every applied fetch. Sends are coalesced and
	// C is never closed; stop selecting on it after Close.
	C <-chan struct{}

	ch     chan struct{}
	client *Client
	entry  *entry
	once   sync.Once
}

// Watch registers an observer for spec and starts a fetch if the entry has no
// fresh data. A disabled spec yields an observer that never fires.
func Watch[T any](c *Client, spec Spec[T]) *Observer[T] {
	ch := make(chan struct{}, 1)
	o := &Observer[T]{C: ch, ch: ch, client: c}

	if spec.disabled() {
		c.recorder.CacheLookup(spec.Resource, LookupDisabled)
		return o
	}
	if c.closed.Load() {
		return o
	}

	e := entryFor(c, spec)
	o.entry = e

	e.mu.Lock()
	if e.observers == nil {
		e.observers = make(map[chan struct{}]struct{})
	}
	e.observers[ch] = struct{}{}
	first := len(e.observers) == 1
	interval := e.opts.RefetchInterval
	if first && interval > 0 {
		e.stopTicker = make(chan struct{})
		c.wg.Add(1)
		go c.refetchEvery(e, interval, e.stopTicker)
	}
	// Pinning under e.mu keeps it ordered with a concurrent last Close
	if first {
		c.store.Pin(e.key)
	}
	e.mu.Unlock()

	c.recorder.ObserversChanged(e.resource, 1)

	Peek(c, spec)
	return o
}

// Result returns the entry's current snapshot
func (o *Observer[T]) Result() Result[T] {
	if o.entry == nil {
		if o.client.closed.Load() {
			return Result[T]{Status: StatusError, Err: ErrClosed}
		}
		return Result[T]{Status: StatusIdle}
	}
	return snapshot[T](o.entry)
}

// Close detaches the observer; results landing afterwards are not delivered
// to it. Closing the last observer stops the background re-fetch and lets the
// entry expire after the inactivity period.
func (o *Observer[T]) Close() {
	o.once.Do(func() {
		e := o.entry
		if e == nil {
			return
		}

		e.mu.Lock()
		delete(e.observers, o.ch)
		last := len(e.observers) == 0
		if last && e.stopTicker != nil {
			close(e.stopTicker)
			e.stopTicker = nil
		}
		if last {
			o.client.store.Unpin(e.key)
		}
		e.mu.Unlock()

		o.client.recorder.ObserversChanged(e.resource, -1)
	})
}

func (c *Client) refetchEvery(e *entry, interval time.Duration, stop <-chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.logger.Debug("query interval refetch", "key", e.key)
			c.start(e, startInterval)
		case <-stop:
			return
		case <-c.ctx.Done():
			return
		}
	}
}
