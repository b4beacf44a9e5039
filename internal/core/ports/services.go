package ports

import (
	"context"

	"github.com/samirrijal/parcelmap/internal/core/domain"
)

// ChangePublisher publishes committed shape changes to a message broker.
type ChangePublisher interface {
	PublishShapeChange(ctx context.Context, change domain.ShapeChange) error
}
