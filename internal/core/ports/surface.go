package ports

import (
	"context"

	"github.com/samirrijal/parcelmap/internal/core/domain"
)

// MapSurface is the external map collaborator: it renders shape overlays and
// vertex markers and owns the live polygon geometry.
type MapSurface interface {
	AddMarker(ctx context.Context, id domain.MarkerID, at domain.GeoPoint, popup string) error
	MoveMarker(ctx context.Context, id domain.MarkerID, to domain.GeoPoint, popup string) error
	RemoveMarker(ctx context.Context, id domain.MarkerID) error
	// SetShapeStyle and BindShapePopup return domain.ErrOverlayNotFound when
	// the shape overlay no longer exists on the map.
	SetShapeStyle(ctx context.Context, shape domain.ShapeID, style domain.Style) error
	BindShapePopup(ctx context.Context, shape domain.ShapeID, html string) error
}

// View renders the side UI: the modal metadata editor and the list panel.
type View interface {
	ShowEditor(ctx context.Context, view domain.EditorView) error
	HideEditor(ctx context.Context) error
	RenderList(ctx context.Context, list domain.ListView) error
}

// AreaFunc returns the area of a ring in square meters.
type AreaFunc func(ring domain.Ring) float64
