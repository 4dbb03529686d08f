// AngelaMos | 2026
// metrics.go

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "beanscore"

// Collector records HTTP traffic and authentication outcomes. It satisfies
// middleware.RequestRecorder and auth.Recorder.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	authAttempts    *prometheus.CounterVec
	tokenRejections *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Login and registration attempts by outcome.",
		}, []string{"operation", "outcome"}),
		tokenRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_token_rejections_total",
			Help:      "Bearer tokens rejected by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.authAttempts,
		c.tokenRejections,
	)

	return c
}

// RegisterRuntime adds the Go runtime and process collectors.
func RegisterRuntime(reg prometheus.Registerer) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func (c *Collector) ObserveRequest(
	method, route string,
	status int,
	duration time.Duration,
) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) AuthAttempt(operation, outcome string) {
	c.authAttempts.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) TokenRejected(reason string) {
	c.tokenRejections.WithLabelValues(reason).Inc()
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
