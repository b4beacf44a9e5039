package http

import (
	"github.com/samirrijal/parcelmap/internal/core/usecases"
)

// FeedStatus reports the health of the change feed connection.
type FeedStatus interface {
	IsConnected() bool
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Hub  *usecases.Hub
	Feed FeedStatus // nil when the change feed is disabled

	// DocsPath locates the OpenAPI document; defaults to api/openapi.yaml.
	DocsPath string
}
