package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/parcelmap/internal/adapters/http"
	natsadapter "github.com/samirrijal/parcelmap/internal/adapters/nats"
	"github.com/samirrijal/parcelmap/internal/core/ports"
	"github.com/samirrijal/parcelmap/internal/core/usecases"
	"github.com/samirrijal/parcelmap/internal/pkg/config"
	"github.com/samirrijal/parcelmap/internal/pkg/geospatial"
	"github.com/samirrijal/parcelmap/internal/pkg/logging"
	"github.com/samirrijal/parcelmap/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("parcelmap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		slog.Warn("telemetry init failed", "error", err)
	} else {
		defer shutdownTracer()
	}

	// NATS change feed (optional)
	var (
		publisher ports.ChangePublisher
		feed      http.FeedStatus
	)
	if cfg.NATS.Enabled {
		nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, change feed disabled", "error", err)
		} else {
			defer nc.Close()
			publisher, feed = nc, nc
		}
	}

	// Annotation sessions
	alignment, err := usecases.ParseAlignment(cfg.Session.MarkerAlignment)
	if err != nil {
		log.Fatalf("session config: %v", err)
	}
	hub := usecases.NewHub(usecases.HubConfig{
		MaxSessions:    cfg.Session.MaxSessions,
		HighlightColor: cfg.Session.HighlightColor,
		Alignment:      alignment,
		Area:           geospatial.RingArea,
		Publisher:      publisher,
		Logger:         logger,
	})

	deps := &http.Dependencies{
		Hub:  hub,
		Feed: feed,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Parcelmap API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, If-None-Match",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "max_sessions", cfg.Session.MaxSessions, "alignment", alignment.String())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Stop session loops first so websocket handlers unwind
	hub.CloseAll()

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
