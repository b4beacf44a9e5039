package http

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
)

const (
	docsTitle   = "Parcelmap API - Swagger UI"
	docsSpecURL = "/docs/openapi.yaml"
	swaggerCDN  = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@5"
)

// swaggerPage renders the Swagger UI shell pointing at specURL.
func swaggerPage(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>%[1]s</title>
  <link rel="stylesheet" href="%[3]s/swagger-ui.css">
  <style>body{margin:0}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="%[3]s/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => SwaggerUIBundle({
      url: '%[2]s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      tryItOutEnabled: true,
    });
  </script>
</body>
</html>`, title, specURL, swaggerCDN)
}

// SetupDocs registers Swagger UI at /docs and serves the OpenAPI document
// at /docs/openapi.yaml. The document is re-read from specPath on every
// request so edits show up without a restart.
func SetupDocs(app *fiber.App, specPath string) {
	page := swaggerPage(docsTitle, docsSpecURL)

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.SendString(page)
	})

	app.Get(docsSpecURL, func(c *fiber.Ctx) error {
		data, err := os.ReadFile(specPath)
		if err != nil {
			return errNotFound(c, "OpenAPI document not available")
		}
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(data)
	})
}
