package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	entitiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsync_entities_total",
			Help: "Catalog records handled by sync passes, by kind and outcome.",
		},
		[]string{"kind", "action"},
	)
	pageFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopsync_page_fetch_duration_seconds",
			Help:    "Time spent fetching one page from the remote catalog.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsync_runs_total",
			Help: "Finished sync passes by status.",
		},
		[]string{"status"},
	)
	assetDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsync_asset_downloads_total",
			Help: "Asset downloads by result.",
		},
		[]string{"result"},
	)
)

// Entity outcomes.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionUnchanged = "unchanged"
	ActionDeleted   = "deleted"
	ActionFailed    = "failed"
	ActionSkipped   = "skipped"
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(entitiesTotal)
	prometheus.MustRegister(pageFetchDuration)
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(assetDownloadsTotal)
}

// RecordRequest records one served HTTP request.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

func RecordEntity(kind, action string) {
	entitiesTotal.WithLabelValues(kind, action).Inc()
}

func RecordPageFetch(resource string, duration time.Duration) {
	pageFetchDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

func RecordRun(status string) {
	runsTotal.WithLabelValues(status).Inc()
}

func RecordAssetDownload(err error) {
	if err != nil {
		assetDownloadsTotal.WithLabelValues("error").Inc()
		return
	}
	assetDownloadsTotal.WithLabelValues("ok").Inc()
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// MetricsHandler serves the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
