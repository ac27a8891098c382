// Package query is a process-wide keyed cache of backend reads with
// stale-while-revalidate semantics. Each (resource, parameters) pair maps to
// one entry; concurrent reads of an entry share one in-flight fetch, stale
// reads return the cached value while a single background re-fetch runs, and
// a per-entry sequence number makes the most recently initiated fetch win.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Status is the lifecycle state of a query result
type Status int

const (
	StatusIdle    Status = iota // Disabled, never executed
	StatusLoading               // No data yet, fetch in flight
	StatusSuccess               // Data available, last fetch succeeded
	StatusError                 // Last fetch failed; data may still hold the previous value
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is a snapshot of one cache entry
type Result[T any] struct {
	Data       T
	HasData    bool
	Err        error
	Status     Status
	IsFetching bool
	UpdatedAt  time.Time // When Data was stored; zero without data
}

// IsLoading reports whether the consumer has nothing to show yet
func (r Result[T]) IsLoading() bool {
	return r.Status == StatusLoading
}

// NoRetry disables retries for a spec; zero means the client default
const NoRetry = -1

// Options is a per-entry freshness and retry policy. Zero fields fall back
// to the client defaults.
type Options struct {
	StaleTime       time.Duration // Freshness window; negative means always stale
	RefetchInterval time.Duration // Background re-fetch period while observed; 0 disables
	Retry           int           // Retries after a failed attempt; NoRetry disables
	RetryDelay      time.Duration
}

// Spec describes one query: its key, how to fetch it and its policy
type Spec[T any] struct {
	Key      string
	Resource string // Metric and log label
	Fetch    func(ctx context.Context) (T, error)
	Disabled bool // A required parameter is missing; never executed
	Options  Options
}

func (s Spec[T]) disabled() bool {
	return s.Disabled || s.Fetch == nil || s.Key == ""
}

// erased adapts the typed fetch function for storage in an entry
func (s Spec[T]) erased() fetchFunc {
	fetch := s.Fetch
	return func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}
}

type fetchFunc func(ctx context.Context) (any, error)

// Key builds a cache key from a resource name and its ordered parameter
// values, e.g. ["investigations",20,0,"false",0.5]
func Key(resource string, params ...any) string {
	parts := make([]any, 0, len(params)+1)
	parts = append(parts, resource)
	parts = append(parts, params...)

	b, err := json.Marshal(parts)
	if err != nil {
		return fmt.Sprint(parts...)
	}
	return string(b)
}

// Recorder receives cache and fetch events
type Recorder interface {
	CacheLookup(resource, outcome string)
	FetchCompleted(resource, outcome string, duration time.Duration)
	ObserversChanged(resource string, delta int)
}

// Cache lookup outcomes
const (
	LookupHit      = "hit"
	LookupStale    = "stale"
	LookupMiss     = "miss"
	LookupDisabled = "disabled"
)

// Fetch outcomes
const (
	FetchSuccess   = "success"
	FetchError     = "error"
	FetchDiscarded = "discarded" // Superseded by a more recently initiated fetch
)

type nopRecorder struct{}

func (nopRecorder) CacheLookup(string, string)                   {}
func (nopRecorder) FetchCompleted(string, string, time.Duration) {}
func (nopRecorder) ObserversChanged(string, int)                 {}
