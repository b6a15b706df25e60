package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wedding_http_request_duration_seconds",
		Help:    "Duration of HTTP requests handled by the wedding site.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	rsvpSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wedding_rsvp_submissions_total",
		Help: "RSVP submissions by outcome.",
	}, []string{"outcome"})
)

func observeRequest(method, route string, elapsed time.Duration) {
	requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// routeLabel returns the route pattern the mux matched for r. Unmatched
// requests collapse into a single label so arbitrary paths cannot grow the
// metric's label set.
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return "unmatched"
}

func countSubmission(outcome string) {
	rsvpSubmissions.WithLabelValues(outcome).Inc()
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
