package usecases_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/core/usecases"
)

func materialized(t *testing.T, align usecases.Alignment, boundary domain.Ring) (*usecases.VertexMarkerTracker, *fakeSurface) {
	t.Helper()
	surface := newFakeSurface()
	tr := usecases.NewVertexMarkerTracker(surface, align)
	require.NoError(t, tr.Materialize(context.Background(), "1", boundary))
	return tr, surface
}

// assertAligned checks one marker per vertex, marker i sitting on vertex i.
func assertAligned(t *testing.T, tr *usecases.VertexMarkerTracker, surface *fakeSurface, boundary domain.Ring) {
	t.Helper()
	handles := tr.Markers("1")
	require.Len(t, handles, len(boundary))
	for i, id := range handles {
		assert.Equal(t, boundary[i], surface.markers[id], "marker %d", i)
		assert.Equal(t, usecases.CoordinatePopup(boundary[i]), surface.popups[id], "popup %d", i)
	}
	pos, ok := tr.Positions("1")
	require.True(t, ok)
	assert.Equal(t, boundary, pos)
	assert.Equal(t, len(boundary), surface.markerCount(), "no orphaned markers on the surface")
}

func TestVertexMarkerTracker_Materialize(t *testing.T) {
	tr, surface := materialized(t, usecases.AlignNearest, triangle)

	assertAligned(t, tr, surface, triangle)
	assert.True(t, tr.Tracks("1"))
	assert.Equal(t, 3, tr.Total())
}

func TestVertexMarkerTracker_MaterializeReplacesExistingSet(t *testing.T) {
	tr, surface := materialized(t, usecases.AlignNearest, triangle)
	require.NoError(t, tr.Materialize(context.Background(), "1", square))

	assertAligned(t, tr, surface, square)
	assert.Equal(t, 3, surface.removes)
}

func TestVertexMarkerTracker_ReconcileGrowTail(t *testing.T) {
	tr, surface := materialized(t, usecases.AlignTail, triangle)
	before := tr.Markers("1")

	next := domain.Ring{ptA, ptB, ptBC, ptC}
	require.NoError(t, tr.Reconcile(context.Background(), "1", next))

	assertAligned(t, tr, surface, next)
	after := tr.Markers("1")
	assert.Equal(t, before, after[:3], "existing markers keep their index")
	assert.Equal(t, 1, surface.moves, "third marker moves onto the inserted vertex")
}

func TestVertexMarkerTracker_ReconcileGrowNearest(t *testing.T) {
	tr, surface := materialized(t, usecases.AlignNearest, triangle)
	before := tr.Markers("1")

	next := domain.Ring{ptA, ptB, ptBC, ptC}
	require.NoError(t, tr.Reconcile(context.Background(), "1", next))

	assertAligned(t, tr, surface, next)
	after := tr.Markers("1")
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[1], after[1])
	assert.Equal(t, before[2], after[3], "the marker on C stays on C")
	assert.NotContains(t, before, after[2])
	assert.Zero(t, surface.moves)
}

func TestVertexMarkerTracker_ReconcileShrinkTail(t *testing.T) {
	tr, surface := materialized(t, usecases.AlignTail, square)
	before := tr.Markers("1")

	require.NoError(t, tr.Reconcile(context.Background(), "1", triangle))

	assertAligned(t, tr, surface, triangle)
	assert.Equal(t, before[:3], tr.Markers("1"))
	assert.Equal(t, 1, surface.removes)
}

func TestVertexMarkerTracker_ReconcileShrinkNearest(t *testing.T) {
	start := domain.Ring{ptA, ptB, ptBC, ptC}
	tr, surface := materialized(t, usecases.AlignNearest, start)
	before := tr.Markers("1")

	require.NoError(t, tr.Reconcile(context.Background(), "1", triangle))

	assertAligned(t, tr, surface, triangle)
	assert.Equal(t, []domain.MarkerID{before[0], before[1], before[3]}, tr.Markers("1"))
	_, stillThere := surface.markers[before[2]]
	assert.False(t, stillThere, "the marker on the removed vertex is gone")
}

func TestVertexMarkerTracker_ReconcileSameCountMoves(t *testing.T) {
	tr, surface := materialized(t, usecases.AlignNearest, triangle)
	before := tr.Markers("1")

	moved := domain.Ring{ptA, ptB, ptD}
	require.NoError(t, tr.Reconcile(context.Background(), "1", moved))

	assertAligned(t, tr, surface, moved)
	assert.Equal(t, before, tr.Markers("1"))
	assert.Equal(t, 1, surface.moves, "unchanged vertices are not re-sent")
}

func TestVertexMarkerTracker_ReconcileUnknown(t *testing.T) {
	tr := usecases.NewVertexMarkerTracker(newFakeSurface(), usecases.AlignNearest)
	err := tr.Reconcile(context.Background(), "ghost", triangle)
	assert.ErrorIs(t, err, domain.ErrUnknownShape)
	assert.False(t, tr.Tracks("ghost"))
}

func TestVertexMarkerTracker_Destroy(t *testing.T) {
	tr, surface := materialized(t, usecases.AlignNearest, square)

	require.NoError(t, tr.Destroy(context.Background(), "1"))
	assert.False(t, tr.Tracks("1"))
	assert.Empty(t, tr.Markers("1"))
	assert.Zero(t, surface.markerCount())
	assert.Zero(t, tr.Total())

	assert.ErrorIs(t, tr.Destroy(context.Background(), "1"), domain.ErrUnknownShape)
}

func TestVertexMarkerTracker_SurfaceFailureKeepsState(t *testing.T) {
	surface := newFakeSurface()
	surface.addErr = errSurfaceDown
	tr := usecases.NewVertexMarkerTracker(surface, usecases.AlignNearest)

	err := tr.Materialize(context.Background(), "1", triangle)
	assert.ErrorIs(t, err, errSurfaceDown)
	assert.Len(t, tr.Markers("1"), 3, "tracked set stays aligned with the boundary")

	pos, ok := tr.Positions("1")
	require.True(t, ok)
	assert.Equal(t, triangle, pos)
}

func TestVertexMarkerTracker_MarkersAreIndependentPerShape(t *testing.T) {
	surface := newFakeSurface()
	tr := usecases.NewVertexMarkerTracker(surface, usecases.AlignNearest)
	ctx := context.Background()

	require.NoError(t, tr.Materialize(ctx, "1", triangle))
	require.NoError(t, tr.Materialize(ctx, "2", square))
	require.NoError(t, tr.Destroy(ctx, "1"))

	assert.Equal(t, 4, tr.Total())
	assert.Equal(t, 4, surface.markerCount())
}

func randomPoint(rng *rand.Rand) domain.GeoPoint {
	return domain.GeoPoint{Lat: 33 + rng.Float64(), Lng: 35 + rng.Float64()}
}

// nextRing edits prev the way a user drags, inserts and removes vertices.
func nextRing(rng *rand.Rand, prev domain.Ring) domain.Ring {
	next := append(domain.Ring(nil), prev...)
	for i := range next {
		if rng.Intn(3) == 0 {
			next[i].Lat += (rng.Float64() - 0.5) / 100
			next[i].Lng += (rng.Float64() - 0.5) / 100
		}
	}
	switch rng.Intn(3) {
	case 0:
		for n := 1 + rng.Intn(3); n > 0; n-- {
			at := rng.Intn(len(next) + 1)
			next = append(next[:at], append(domain.Ring{randomPoint(rng)}, next[at:]...)...)
		}
	case 1:
		for n := 1 + rng.Intn(3); n > 0 && len(next) > 3; n-- {
			at := rng.Intn(len(next))
			next = append(next[:at], next[at+1:]...)
		}
	}
	return next
}

func TestVertexMarkerTracker_RandomEditsStayAligned(t *testing.T) {
	for _, align := range []usecases.Alignment{usecases.AlignNearest, usecases.AlignTail} {
		t.Run(align.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(20261018))
			for trial := 0; trial < 25; trial++ {
				ring := make(domain.Ring, 3+rng.Intn(6))
				for i := range ring {
					ring[i] = randomPoint(rng)
				}
				tr, surface := materialized(t, align, ring)
				assertAligned(t, tr, surface, ring)

				for step := 0; step < 8; step++ {
					ring = nextRing(rng, ring)
					require.NoError(t, tr.Reconcile(context.Background(), "1", ring), "trial %d step %d", trial, step)
					assertAligned(t, tr, surface, ring)
				}
			}
		})
	}
}
