package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registra métricas del portal, de las llamadas al backend y de los mirrors de sesión.
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	apiCalls       *prometheus.CounterVec
	apiLatency     *prometheus.HistogramVec
	mirrorFailures *prometheus.CounterVec
	tokenRefreshes *prometheus.CounterVec
	logouts        prometheus.Counter
}

// NewCollector crea el Collector y registra las métricas en reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutorlink_portal_requests_total",
			Help: "Requests served by the portal",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tutorlink_portal_request_seconds",
			Help:    "Portal request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutorlink_api_calls_total",
			Help: "Calls issued to the marketplace backend",
		}, []string{"method", "path", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tutorlink_api_call_seconds",
			Help:    "Backend call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		mirrorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutorlink_session_mirror_failures_total",
			Help: "Failed writes or deletes against a session mirror",
		}, []string{"mirror", "op"}),
		tokenRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutorlink_token_refresh_total",
			Help: "Bearer token refresh attempts",
		}, []string{"result"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tutorlink_session_logouts_total",
			Help: "Sessions closed by a successful logout",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.apiCalls,
		c.apiLatency,
		c.mirrorFailures,
		c.tokenRefreshes,
		c.logouts,
	)
	return c
}

// ObserveRequest registra un request del portal.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveAPICall registra una llamada al backend. status 0 significa error de transporte.
func (c *Collector) ObserveAPICall(method, path string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.apiCalls.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.apiLatency.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordTokenRefresh registra el resultado de un intento de refresh.
func (c *Collector) RecordTokenRefresh(ok bool) {
	if c == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	c.tokenRefreshes.WithLabelValues(result).Inc()
}

// RecordMirrorFailure registra un fallo de escritura en un mirror de sesión.
func (c *Collector) RecordMirrorFailure(mirror, op string) {
	if c == nil {
		return
	}
	c.mirrorFailures.WithLabelValues(mirror, op).Inc()
}

func (c *Collector) RecordLogout() {
	if c == nil {
		return
	}
	c.logouts.Inc()
}

// Handler devuelve el handler de scrape de Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
