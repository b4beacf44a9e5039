package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/core/ports"
)

type vertexMarker struct {
	id domain.MarkerID
	at domain.GeoPoint
}

// VertexMarkerTracker keeps one point marker per boundary vertex for every
// shape, positionally aligned with the live boundary.
//
// Marker ids are minted here, so the tracked list is complete even when the
// surface fails to apply a command; surface errors are returned after the
// tracked state has been updated.
type VertexMarkerTracker struct {
	surface ports.MapSurface
	align   Alignment
	markers map[domain.ShapeID][]vertexMarker
	newID   func() domain.MarkerID
}

// NewVertexMarkerTracker creates a tracker drawing markers on surface.
func NewVertexMarkerTracker(surface ports.MapSurface, align Alignment) *VertexMarkerTracker {
	return &VertexMarkerTracker{
		surface: surface,
		align:   align,
		markers: make(map[domain.ShapeID][]vertexMarker),
		newID:   func() domain.MarkerID { return domain.MarkerID(uuid.NewString()) },
	}
}

// Materialize creates one marker per vertex of a newly created shape. Any
// markers previously tracked under id are destroyed first.
func (t *VertexMarkerTracker) Materialize(ctx context.Context, id domain.ShapeID, boundary domain.Ring) error {
	var errs []error
	if _, ok := t.markers[id]; ok {
		errs = append(errs, t.Destroy(ctx, id))
	}

	set := make([]vertexMarker, 0, len(boundary))
	for _, p := range boundary {
		m, err := t.add(ctx, p)
		errs = append(errs, err)
		set = append(set, m)
	}
	t.markers[id] = set
	return errors.Join(errs...)
}

// Reconcile brings the marker set of id in line with newBoundary: surviving
// markers are repositioned, missing ones added and surplus ones removed.
// A shape with no tracked markers is unknown to the tracker.
func (t *VertexMarkerTracker) Reconcile(ctx context.Context, id domain.ShapeID, newBoundary domain.Ring) error {
	current, ok := t.markers[id]
	if !ok {
		return fmt.Errorf("reconcile markers of %s: %w", id, domain.ErrUnknownShape)
	}

	old := make(domain.Ring, len(current))
	for i, m := range current {
		old[i] = m.at
	}
	plan := t.align.assign(old, newBoundary)

	var errs []error
	kept := make([]bool, len(current))
	next := make([]vertexMarker, len(newBoundary))
	for _, i := range plan {
		if i >= 0 {
			kept[i] = true
		}
	}

	// Append, then reposition, then drop surplus markers.
	for j, i := range plan {
		if i < 0 {
			m, err := t.add(ctx, newBoundary[j])
			errs = append(errs, err)
			next[j] = m
		}
	}
	for j, i := range plan {
		if i < 0 {
			continue
		}
		m := current[i]
		if m.at != newBoundary[j] {
			m.at = newBoundary[j]
			errs = append(errs, t.surface.MoveMarker(ctx, m.id, m.at, CoordinatePopup(m.at)))
		}
		next[j] = m
	}
	for i := len(current) - 1; i >= 0; i-- {
		if !kept[i] {
			errs = append(errs, t.surface.RemoveMarker(ctx, current[i].id))
		}
	}

	t.markers[id] = next
	return errors.Join(errs...)
}

// Destroy detaches every marker of id from the surface and forgets them.
func (t *VertexMarkerTracker) Destroy(ctx context.Context, id domain.ShapeID) error {
	set, ok := t.markers[id]
	if !ok {
		return fmt.Errorf("destroy markers of %s: %w", id, domain.ErrUnknownShape)
	}
	delete(t.markers, id)

	var errs []error
	for _, m := range set {
		errs = append(errs, t.surface.RemoveMarker(ctx, m.id))
	}
	return errors.Join(errs...)
}

// Markers returns the marker handles of id in vertex order.
func (t *VertexMarkerTracker) Markers(id domain.ShapeID) []domain.MarkerID {
	set := t.markers[id]
	out := make([]domain.MarkerID, len(set))
	for i, m := range set {
		out[i] = m.id
	}
	return out
}

// Positions returns where the markers of id currently sit. After every
// reconciliation this is the shape's boundary.
func (t *VertexMarkerTracker) Positions(id domain.ShapeID) (domain.Ring, bool) {
	set, ok := t.markers[id]
	if !ok {
		return nil, false
	}
	out := make(domain.Ring, len(set))
	for i, m := range set {
		out[i] = m.at
	}
	return out, true
}

// Tracks reports whether id has a marker set.
func (t *VertexMarkerTracker) Tracks(id domain.ShapeID) bool {
	_, ok := t.markers[id]
	return ok
}

// Total returns the number of markers across all shapes.
func (t *VertexMarkerTracker) Total() int {
	n := 0
	for _, set := range t.markers {
		n += len(set)
	}
	return n
}

func (t *VertexMarkerTracker) add(ctx context.Context, at domain.GeoPoint) (vertexMarker, error) {
	m := vertexMarker{id: t.newID(), at: at}
	return m, t.surface.AddMarker(ctx, m.id, at, CoordinatePopup(at))
}
