package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveParse(ParseIncremental, 3*time.Millisecond)
	pr.AddReuse(90, 100)
	pr.AddReuse(0, 50)
	pr.IncCacheLookup(true)
	pr.IncCacheLookup(false)
	pr.IncCacheLookup(false)
	pr.IncRequest("textDocument/foldingRange", false)

	assert.InDelta(t, 90, testutil.ToFloat64(pr.reusedBytes), 0)
	assert.InDelta(t, 150, testutil.ToFloat64(pr.parsedBytes), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.cacheLookups.WithLabelValues("hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.cacheLookups.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.requests.WithLabelValues("textDocument/foldingRange", "ok")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestHTTPHandler(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncCacheLookup(true)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "mdtree_cache_lookups_total"))
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = NoopRecorder{}
	r.ObserveParse(ParseFull, time.Second)
	r.AddReuse(1, 2)
	r.IncCacheLookup(true)
	r.IncRequest("x", true)
}
