package http_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	handler "github.com/samirrijal/parcelmap/internal/adapters/http"
)

func TestRequestIDLogMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(handler.RequestIDLogMiddleware())

	var gotID string
	var hasLogger bool
	app.Get("/echo", func(c *fiber.Ctx) error {
		gotID = handler.RequestIDFromCtx(c.UserContext())
		hasLogger = handler.LoggerFromCtx(c.UserContext()) != nil
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/echo", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	if _, err := app.Test(req, -1); err != nil {
		t.Fatal(err)
	}

	if gotID != "req-42" {
		t.Errorf("expected request id req-42, got %q", gotID)
	}
	if !hasLogger {
		t.Error("expected a request-scoped logger")
	}
}

func TestRequestIDFromCtx_Missing(t *testing.T) {
	app := fiber.New()
	app.Use(handler.RequestIDLogMiddleware())

	gotID := "unset"
	app.Get("/echo", func(c *fiber.Ctx) error {
		gotID = handler.RequestIDFromCtx(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	})

	if _, err := app.Test(httptest.NewRequest("GET", "/echo", nil), -1); err != nil {
		t.Fatal(err)
	}
	if gotID != "" {
		t.Errorf("expected no request id without the requestid middleware, got %q", gotID)
	}
}
