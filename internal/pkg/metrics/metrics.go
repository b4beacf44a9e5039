package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parcelmap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "parcelmap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "parcelmap",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Annotation session metrics
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "parcelmap",
		Subsystem: "session",
		Name:      "active",
		Help:      "Current number of open annotation sessions",
	})

	EventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parcelmap",
		Subsystem: "session",
		Name:      "events_total",
		Help:      "Total events processed by session loops",
	}, []string{"kind"})

	EventDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "parcelmap",
		Subsystem: "session",
		Name:      "event_duration_seconds",
		Help:      "Time spent handling one event on a session loop",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"kind"})

	StaleReferences = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parcelmap",
		Subsystem: "session",
		Name:      "stale_references_total",
		Help:      "Events ignored because they referenced a shape that no longer exists",
	}, []string{"kind"})

	ShapesRegistered = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "parcelmap",
		Subsystem: "session",
		Name:      "shapes",
		Help:      "Shapes held across all session registries",
	})

	VertexMarkers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "parcelmap",
		Subsystem: "session",
		Name:      "vertex_markers",
		Help:      "Vertex markers tracked across all sessions",
	})

	// Change feed
	FeedPublishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parcelmap",
		Subsystem: "feed",
		Name:      "publish_errors_total",
		Help:      "Shape changes that could not be published",
	}, []string{"kind"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "parcelmap",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	WebSocketMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parcelmap",
		Subsystem: "ws",
		Name:      "messages_total",
		Help:      "WebSocket messages by direction and type",
	}, []string{"direction", "type"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// fiber resolves the route pattern, which keeps label cardinality low
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
