package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"uptime":   time.Since(startedAt).String(),
			"version":  "dev",
			"sessions": deps.Hub.Len(),
		})
	}
}

// ReadyHandler checks the change feed connection and session capacity.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		checks := make(map[string]string)
		allOK := true

		// NATS change feed
		if deps.Feed != nil {
			if deps.Feed.IsConnected() {
				checks["nats"] = "ok"
			} else {
				checks["nats"] = "disconnected"
				allOK = false
			}
		} else {
			checks["nats"] = "not configured"
		}

		// Session capacity
		open, limit := deps.Hub.Len(), deps.Hub.Capacity()
		switch {
		case limit == 0:
			checks["sessions"] = fmt.Sprintf("ok (%d open, unlimited)", open)
		case open >= limit:
			checks["sessions"] = fmt.Sprintf("full (%d/%d)", open, limit)
			allOK = false
		default:
			checks["sessions"] = fmt.Sprintf("ok (%d/%d)", open, limit)
		}

		status := "ready"
		code := 200
		if !allOK {
			status = "not ready"
			code = 503
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
