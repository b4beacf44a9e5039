package http

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/core/usecases"
	"github.com/samirrijal/parcelmap/internal/pkg/metrics"
)

// WebSocketUpgradeMiddleware rejects plain HTTP requests to /ws and refuses
// upgrades once the hub is full.
func WebSocketUpgradeMiddleware(hub *usecases.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if limit := hub.Capacity(); limit > 0 && hub.Len() >= limit {
			return errUnavailable(c, domain.ErrTooManySessions.Error())
		}
		return c.Next()
	}
}

// WebSocketHandler returns a handler that attaches each connection to a new
// annotation session. The client forwards draw lifecycle and UI events as
// JSON messages, e.g. {"type":"draw:created","shape_id":"17","boundary":[...]},
// and applies the marker, style, popup, editor and list commands it receives.
// The session is discarded when the connection closes.
func WebSocketHandler(hub *usecases.Hub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		log := slog.Default().With("remote_addr", c.RemoteAddr().String())

		var mu sync.Mutex
		// Helper: thread-safe write
		write := func(data []byte) error {
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		surface := NewSurface(write)

		session, err := hub.Open(surface, surface)
		if err != nil {
			log.Warn("ws session rejected", "error", err)
			_ = surface.Error("", err)
			return
		}
		defer hub.Close(session.ID())
		log = log.With("session_id", session.ID())
		log.Info("ws client connected")

		if err := surface.Hello(session.ID()); err != nil {
			log.Warn("ws hello failed", "error", err)
			return
		}

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}
			typ := messageType(msg)
			metrics.WebSocketMessages.WithLabelValues("in", typ).Inc()

			evt, err := decodeMessage(msg)
			if err != nil {
				log.Debug("ws message rejected", "type", typ, "error", err)
				_ = surface.Error(typ, err)
				continue
			}

			if err := session.Dispatch(context.Background(), evt); err != nil {
				if errors.Is(err, domain.ErrSessionClosed) {
					break
				}
				_ = surface.Error(typ, err)
			}
		}

		log.Info("ws client disconnected")
	}
}
