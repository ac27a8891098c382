package query

import (
	"sync"
	"time"
)

// entry is the shared state behind one cache key
type entry struct {
	id       uint64 // Distinguishes entries recreated after eviction
	key      string
	resource string

	mu         sync.Mutex
	fetch      fetchFunc
	opts       Options
	data       any
	hasData    bool
	err        error
	updatedAt  time.Time
	stale      bool // Invalidated
	fetching   int
	nextSeq    uint64
	settledSeq uint64
	observers  map[chan struct{}]struct{}
	stopTicker chan struct{}
}

type lookup int

const (
	lookupFresh lookup = iota
	lookupStale
	lookupMiss
)

// classify decides how a read is served; must hold mu
func (e *entry) classify(now time.Time) lookup {
	if !e.hasData {
		return lookupMiss
	}
	if e.stale || e.opts.StaleTime < 0 || now.Sub(e.updatedAt) >= e.opts.StaleTime {
		return lookupStale
	}
	return lookupFresh
}

// begin takes the next sequence number for a fetch about to be issued
func (e *entry) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextSeq++
	e.fetching++
	return e.nextSeq
}

// settle applies a completed fetch unless a more recently initiated one has
// already settled. It reports whether the result was applied.
func (e *entry) settle(seq uint64, val any, err error, now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.fetching--
	if seq <= e.settledSeq {
		return false
	}
	e.settledSeq = seq

	if err != nil {
		// Previous data stays visible
		e.err = err
	} else {
		e.data = val
		e.hasData = true
		e.err = nil
		e.updatedAt = now
		e.stale = false
	}

	for ch := range e.observers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return true
}

func snapshot[T any](e *entry) Result[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshotLocked[T](e)
}

func snapshotLocked[T any](e *entry) Result[T] {
	r := Result[T]{
		HasData:    e.hasData,
		Err:        e.err,
		IsFetching: e.fetching > 0,
		UpdatedAt:  e.updatedAt,
	}
	if e.hasData {
		r.Data, _ = e.data.(T)
	}

	switch {
	case e.err != nil:
		r.Status = StatusError
	case e.hasData:
		r.Status = StatusSuccess
	default:
		r.Status = StatusLoading
	}
	return r
}
