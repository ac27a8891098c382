package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type countingRecorder struct {
	mu        sync.Mutex
	lookups   map[string]int
	fetches   map[string]int
	observers int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{lookups: map[string]int{}, fetches: map[string]int{}}
}

func (r *countingRecorder) CacheLookup(resource, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[outcome]++
}

func (r *countingRecorder) FetchCompleted(resource, outcome string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches[outcome]++
}

func (r *countingRecorder) ObserversChanged(resource string, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers += delta
}

func (r *countingRecorder) fetchCount(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches[outcome]
}

func newTestClient(t *testing.T, clock *fakeClock, recorder Recorder) *Client {
	t.Helper()

	cfg := Config{
		StaleTime:  30 * time.Second,
		GCTime:     time.Minute,
		Retry:      1,
		RetryDelay: 0,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Recorder:   recorder,
	}
	if clock != nil {
		cfg.Now = clock.Now
	}

	c := NewClient(cfg)
	t.Cleanup(c.Close)
	return c
}

func counterSpec(key string, calls *atomic.Int32) Spec[int] {
	return Spec[int]{
		Key:      key,
		Resource: "stats",
		Fetch: func(ctx context.Context) (int, error) {
			return int(calls.Add(1)), nil
		},
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, `["investigations",20,0,"false",0.5]`, Key("investigations", 20, 0, "false", 0.5))
	assert.Equal(t, `["stats","7d"]`, Key("stats", "7d"))
	assert.NotEqual(t, Key("stats", "7d"), Key("stats", "24h"))
}

func TestFetch_FreshReadsMakeOneCall(t *testing.T) {
	clock := newFakeClock()
	c := newTestClient(t, clock, nil)

	var calls atomic.Int32
	spec := counterSpec(Key("stats", "24h"), &calls)

	first := Fetch(context.Background(), c, spec)
	require.NoError(t, first.Err)
	assert.Equal(t, StatusSuccess, first.Status)
	assert.Equal(t, 1, first.Data)

	clock.Advance(29 * time.Second)
	second := Fetch(context.Background(), c, spec)
	assert.Equal(t, 1, second.Data)
	assert.False(t, second.IsFetching)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_StaleWhileRevalidate(t *testing.T) {
	clock := newFakeClock()
	recorder := newCountingRecorder()
	c := newTestClient(t, clock, recorder)

	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	spec := Spec[string]{
		Key:      Key("investigations", 20, 0),
		Resource: "investigations",
		Fetch: func(ctx context.Context) (string, error) {
			n := calls.Add(1)
			if n == 1 {
				return "v1", nil
			}
			started <- struct{}{}
			<-release
			return "v2", nil
		},
	}

	require.Equal(t, "v1", Fetch(context.Background(), c, spec).Data)

	clock.Advance(31 * time.Second)

	stale := Fetch(context.Background(), c, spec)
	assert.Equal(t, "v1", stale.Data)
	assert.True(t, stale.IsFetching)

	<-started

	// Reads during the re-fetch keep the old value and join the same call
	again := Peek(c, spec)
	assert.Equal(t, "v1", again.Data)

	close(release)

	require.Eventually(t, func() bool {
		return Peek(c, spec).Data == "v2"
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, recorder.fetchCount(FetchSuccess))
}

func TestFetch_LastInitiatedWins(t *testing.T) {
	recorder := newCountingRecorder()
	c := newTestClient(t, newFakeClock(), recorder)

	var calls atomic.Int32
	releases := []chan struct{}{make(chan struct{}), make(chan struct{})}
	started := make(chan int, 2)
	spec := Spec[string]{
		Key:      Key("stats", "7d"),
		Resource: "stats",
		Options:  Options{Retry: NoRetry},
		Fetch: func(ctx context.Context) (string, error) {
			n := int(calls.Add(1)) - 1
			started <- n
			<-releases[n]
			return fmt.Sprintf("result-%d", n), nil
		},
	}

	// Fetch A
	res := Peek(c, spec)
	assert.Equal(t, StatusLoading, res.Status)
	require.Equal(t, 0, <-started)

	// Fetch B, initiated after A
	errB := make(chan error, 1)
	go func() { errB <- c.Refetch(context.Background(), spec.Key) }()
	require.Equal(t, 1, <-started)

	// B resolves first
	close(releases[1])
	require.NoError(t, <-errB)
	assert.Equal(t, "result-1", Peek(c, spec).Data)

	// A resolves last and must not overwrite B
	close(releases[0])
	require.Eventually(t, func() bool {
		return recorder.fetchCount(FetchDiscarded) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "result-1", Peek(c, spec).Data)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_ConcurrentReadsShareInFlightCall(t *testing.T) {
	c := newTestClient(t, newFakeClock(), nil)

	var calls atomic.Int32
	release := make(chan struct{})
	spec := Spec[int]{
		Key:      Key("articles", 20, 0),
		Resource: "articles",
		Fetch: func(ctx context.Context) (int, error) {
			calls.Add(1)
			<-release
			return 42, nil
		},
	}

	var wg sync.WaitGroup
	results := make([]Result[int], 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Fetch(context.Background(), c, spec)
		}(i)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, res := range results {
		assert.Equal(t, 42, res.Data)
	}
}

func TestFetch_DisabledNeverExecutes(t *testing.T) {
	recorder := newCountingRecorder()
	c := newTestClient(t, newFakeClock(), recorder)

	var calls atomic.Int32
	spec := counterSpec(Key("investigation", ""), &calls)
	spec.Disabled = true

	res := Fetch(context.Background(), c, spec)
	assert.Equal(t, StatusIdle, res.Status)
	assert.False(t, res.IsLoading())
	assert.False(t, res.HasData)
	assert.NoError(t, res.Err)

	assert.Equal(t, StatusIdle, Peek(c, spec).Status)

	o := Watch(c, spec)
	defer o.Close()
	assert.Equal(t, StatusIdle, o.Result().Status)

	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 3, recorder.lookups[LookupDisabled])
}

func TestFetch_RetriesOnceBeforeSucceeding(t *testing.T) {
	var delays []time.Duration
	origSleep := retrySleep
	retrySleep = func(ctx context.Context, d time.Duration) bool {
		delays = append(delays, d)
		return true
	}
	defer func() { retrySleep = origSleep }()

	c := newTestClient(t, newFakeClock(), nil)

	var calls atomic.Int32
	spec := Spec[string]{
		Key:      Key("claims", 20, 0),
		Resource: "claims",
		Options:  Options{RetryDelay: 250 * time.Millisecond},
		Fetch: func(ctx context.Context) (string, error) {
			if calls.Add(1) == 1 {
				return "", errors.New("connection reset")
			}
			return "ok", nil
		},
	}

	res := Fetch(context.Background(), c, spec)
	require.NoError(t, res.Err)
	assert.Equal(t, "ok", res.Data)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, delays)
}

func TestFetch_ErrorSurfacesAfterOneRetry(t *testing.T) {
	c := newTestClient(t, newFakeClock(), nil)

	var calls atomic.Int32
	boom := errors.New("backend down")
	spec := Spec[string]{
		Key:      Key("claims", 20, 20),
		Resource: "claims",
		Fetch: func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "", boom
		},
	}

	res := Fetch(context.Background(), c, spec)
	assert.ErrorIs(t, res.Err, boom)
	assert.Equal(t, StatusError, res.Status)
	assert.False(t, res.HasData)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_NoRetry(t *testing.T) {
	c := newTestClient(t, newFakeClock(), nil)

	var calls atomic.Int32
	spec := Spec[string]{
		Key:      Key("claims", 1, 0),
		Resource: "claims",
		Options:  Options{Retry: NoRetry},
		Fetch: func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "", errors.New("nope")
		},
	}

	res := Fetch(context.Background(), c, spec)
	assert.Error(t, res.Err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_BackgroundErrorKeepsData(t *testing.T) {
	clock := newFakeClock()
	c := newTestClient(t, clock, nil)

	var calls atomic.Int32
	spec := Spec[string]{
		Key:      Key("stats", "30d"),
		Resource: "stats",
		Fetch: func(ctx context.Context) (string, error) {
			if calls.Add(1) == 1 {
				return "snapshot", nil
			}
			return "", errors.New("timeout")
		},
	}

	require.Equal(t, "snapshot", Fetch(context.Background(), c, spec).Data)

	clock.Advance(time.Minute)
	Peek(c, spec)

	require.Eventually(t, func() bool {
		return Peek(c, spec).Err != nil
	}, time.Second, 5*time.Millisecond)

	res := Peek(c, spec)
	assert.Equal(t, StatusError, res.Status)
	assert.True(t, res.HasData)
	assert.Equal(t, "snapshot", res.Data)
}

func TestFetch_CallerContextDoesNotCancelFetch(t *testing.T) {
	c := newTestClient(t, newFakeClock(), nil)

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	spec := Spec[string]{
		Key:      Key("article", "a-1"),
		Resource: "article",
		Fetch: func(ctx context.Context) (string, error) {
			calls.Add(1)
			close(started)
			<-release
			return "article", ctx.Err()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	res := Fetch(ctx, c, spec)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.False(t, res.HasData)

	close(release)
	require.Eventually(t, func() bool {
		return Peek(c, spec).HasData
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatch_RefetchesOnInterval(t *testing.T) {
	recorder := newCountingRecorder()
	c := newTestClient(t, nil, recorder)

	var calls atomic.Int32
	spec := counterSpec(Key("stats", "24h"), &calls)
	spec.Options = Options{StaleTime: time.Hour, RefetchInterval: 20 * time.Millisecond}

	o := Watch(c, spec)

	select {
	case <-o.C:
	case <-time.After(time.Second):
		t.Fatal("observer was not notified of the initial fetch")
	}

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, o.Result().Data, 2)

	o.Close()
	stopped := calls.Load()
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), stopped+1)
	assert.Equal(t, 0, recorder.observers)
}

func TestWatch_IntervalRunsWhileAnyObserverIsOpen(t *testing.T) {
	c := newTestClient(t, nil, nil)

	var calls atomic.Int32
	spec := counterSpec(Key("investigations", 20, 0), &calls)
	spec.Options = Options{StaleTime: time.Hour, RefetchInterval: 20 * time.Millisecond}

	first := Watch(c, spec)
	second := Watch(c, spec)

	first.Close()
	before := calls.Load()
	require.Eventually(t, func() bool { return calls.Load() > before+1 }, 2*time.Second, 5*time.Millisecond)

	second.Close()
}

func TestObserver_ClosedObserverIsNotNotified(t *testing.T) {
	c := newTestClient(t, newFakeClock(), nil)

	release := make(chan struct{})
	spec := Spec[string]{
		Key:      Key("investigation", "i-1"),
		Resource: "investigation",
		Fetch: func(ctx context.Context) (string, error) {
			<-release
			return "detail", nil
		},
	}

	o := Watch(c, spec)
	assert.Equal(t, StatusLoading, o.Result().Status)
	o.Close()
	o.Close()

	close(release)
	require.Eventually(t, func() bool { return Peek(c, spec).HasData }, time.Second, 5*time.Millisecond)

	select {
	case <-o.C:
		t.Fatal("closed observer received a result")
	default:
	}
}

func TestClient_ObservedEntriesDoNotExpire(t *testing.T) {
	c := NewClient(Config{
		StaleTime: time.Hour,
		GCTime:    40 * time.Millisecond,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer c.Close()

	var watchedCalls, idleCalls atomic.Int32
	watched := counterSpec(Key("stats", "24h"), &watchedCalls)
	idle := counterSpec(Key("stats", "7d"), &idleCalls)

	o := Watch(c, watched)
	defer o.Close()
	require.Eventually(t, func() bool { return o.Result().HasData }, time.Second, 5*time.Millisecond)
	Fetch(context.Background(), c, idle)

	time.Sleep(150 * time.Millisecond)

	Fetch(context.Background(), c, watched)
	Fetch(context.Background(), c, idle)

	assert.Equal(t, int32(1), watchedCalls.Load())
	assert.Equal(t, int32(2), idleCalls.Load())
}

func TestWatch_ConcurrentOpenAndCloseKeepEntryPinned(t *testing.T) {
	c := NewClient(Config{
		StaleTime: time.Hour,
		GCTime:    40 * time.Millisecond,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer c.Close()

	var calls atomic.Int32
	spec := counterSpec(Key("investigations", 20, 0), &calls)

	held := Watch(c, spec)
	require.Eventually(t, func() bool { return held.Result().HasData }, time.Second, 5*time.Millisecond)

	// Churn observers so a last Close races a first Watch on the same entry
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				Watch(c, spec).Close()
			}
		}()
	}
	held.Close()
	wg.Wait()

	final := Watch(c, spec)
	defer final.Close()

	time.Sleep(150 * time.Millisecond)

	res := Fetch(context.Background(), c, spec)
	assert.True(t, res.HasData)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int32(1), calls.Load(), "an observed entry must not expire and be re-created")
}

func TestClient_Invalidate(t *testing.T) {
	c := newTestClient(t, newFakeClock(), nil)

	var calls atomic.Int32
	spec := counterSpec(Key("articles", 20, 0), &calls)

	require.Equal(t, 1, Fetch(context.Background(), c, spec).Data)

	c.Invalidate(spec.Key)
	c.Invalidate(Key("never", "read"))

	stale := Fetch(context.Background(), c, spec)
	assert.Equal(t, 1, stale.Data)

	require.Eventually(t, func() bool { return Peek(c, spec).Data == 2 }, time.Second, 5*time.Millisecond)
}

func TestClient_RefetchUnknownKey(t *testing.T) {
	c := newTestClient(t, newFakeClock(), nil)

	err := c.Refetch(context.Background(), Key("stats", "24h"))
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestClient_Close(t *testing.T) {
	c := NewClient(Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	var calls atomic.Int32
	spec := counterSpec(Key("stats", "24h"), &calls)
	spec.Options = Options{RefetchInterval: 10 * time.Millisecond}

	o := Watch(c, spec)
	require.Eventually(t, func() bool { return o.Result().HasData }, time.Second, 5*time.Millisecond)

	c.Close()
	c.Close()

	res := Fetch(context.Background(), c, spec)
	assert.ErrorIs(t, res.Err, ErrClosed)
	assert.ErrorIs(t, c.Refetch(context.Background(), spec.Key), ErrClosed)
	o.Close()
}

func TestConfigFromModel_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Minute, cfg.StaleTime)
	assert.Equal(t, 1, cfg.Retry)
}
