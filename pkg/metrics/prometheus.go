package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mdtree"

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	parseDuration *prom.HistogramVec
	reusedBytes   prom.Counter
	parsedBytes   prom.Counter
	cacheLookups  *prom.CounterVec
	requests      *prom.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them with
// reg. A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		parseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Duration of document parses by kind",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"kind"}),
		reusedBytes: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reused_bytes_total",
			Help:      "Bytes covered by subtrees reused from earlier parses",
		}),
		parsedBytes: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "parsed_bytes_total",
			Help:      "Bytes of documents parsed incrementally",
		}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Tree cache lookups by result",
		}, []string{"result"}),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "lsp_requests_total",
			Help:      "Language server requests by method and outcome",
		}, []string{"method", "outcome"}),
	}
	reg.MustRegister(pr.parseDuration, pr.reusedBytes, pr.parsedBytes, pr.cacheLookups, pr.requests)
	return pr
}

func (p *PrometheusRecorder) ObserveParse(kind ParseKind, d time.Duration) {
	p.parseDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddReuse(reused, total int) {
	p.reusedBytes.Add(float64(reused))
	p.parsedBytes.Add(float64(total))
}

func (p *PrometheusRecorder) IncCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) IncRequest(method string, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	p.requests.WithLabelValues(method, outcome).Inc()
}

// NewRegistry returns a registry with the Go runtime and process
// collectors installed.
func NewRegistry() *prom.Registry {
	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// HTTPHandler serves the metrics of reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
