package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.CacheLookup("stats", "hit")
	m.CacheLookup("stats", "hit")
	m.CacheLookup("stats", "miss")
	m.FetchCompleted("stats", "success", 120*time.Millisecond)
	m.ObserversChanged("stats", 1)
	m.ObserversChanged("stats", 1)
	m.ObserversChanged("stats", -1)
	m.ObserveRequest("investigations", 200, 50*time.Millisecond)
	m.ObserveRequest("investigations", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("stats", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("stats", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues("stats", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Observers.WithLabelValues("stats")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIRequests.WithLabelValues("investigations", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIRequests.WithLabelValues("investigations", "0")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.CacheLookup("articles", "stale")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `factdash_query_cache_lookups_total{outcome="stale",resource="articles"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
