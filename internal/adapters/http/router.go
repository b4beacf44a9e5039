package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/parcelmap/internal/pkg/metrics"
)

// sessionTimeout bounds how long a request waits for a busy session loop.
const sessionTimeout = 10 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// WebSocket map surface, registered ahead of compression and the
	// rate limiter which would interfere with the upgrade.
	app.Use("/ws", WebSocketUpgradeMiddleware(deps.Hub))
	app.Get("/ws", websocket.New(WebSocketHandler(deps.Hub)))

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, 429, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional polling
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness: no timeout, these never touch a session loop
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// Session reads and Save All wait on the session loop
	loop := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, sessionTimeout)
	}
	v1 := app.Group("/v1")
	v1.Get("/sessions", loop(ListSessionsHandler(deps)))
	v1.Get("/sessions/:id", loop(GetSessionHandler(deps)))
	v1.Get("/sessions/:id/shapes", loop(SessionShapesHandler(deps)))
	v1.Get("/sessions/:id/shapes.geojson", loop(SessionGeoJSONHandler(deps)))
	v1.Get("/sessions/:id/list", loop(SessionListPanelHandler(deps)))
	v1.Post("/sessions/:id/save-all", loop(SaveAllHandler(deps)))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	docsPath := deps.DocsPath
	if docsPath == "" {
		docsPath = "api/openapi.yaml"
	}
	SetupDocs(app, docsPath)
}
