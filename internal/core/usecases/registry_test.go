package usecases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/core/usecases"
)

func ids(r *usecases.ShapeRegistry) []domain.ShapeID {
	var out []domain.ShapeID
	for s := range r.List() {
		out = append(out, s.ID)
	}
	return out
}

func TestShapeRegistry_Create(t *testing.T) {
	r := usecases.NewShapeRegistry(vertexArea)
	style := &domain.Style{Color: "#3388ff"}

	s := r.Create("1", triangle, style)
	assert.Equal(t, domain.ShapeID("1"), s.ID)
	assert.Equal(t, "3.00", s.Area)
	assert.Empty(t, s.Country)
	assert.Empty(t, s.Price)
	assert.False(t, s.Highlighted)
	assert.False(t, s.Annotated())
	require.NotNil(t, s.OriginalStyle)

	// The original style is a copy, not the caller's pointer.
	style.Color = "red"
	got, ok := r.Get("1")
	require.True(t, ok)
	assert.Equal(t, "#3388ff", got.OriginalStyle.Color)
}

func TestShapeRegistry_CreateWithoutStyle(t *testing.T) {
	r := usecases.NewShapeRegistry(vertexArea)
	s := r.Create("1", triangle, nil)
	assert.Nil(t, s.OriginalStyle)
}

func TestShapeRegistry_RecreateReplacesInPlace(t *testing.T) {
	r := usecases.NewShapeRegistry(vertexArea)
	r.Create("1", triangle, nil)
	r.Create("2", triangle, nil)
	_, err := r.SetMetadata("1", "Lebanon", "100")
	require.NoError(t, err)

	s := r.Create("1", square, nil)
	assert.Equal(t, "4.00", s.Area)
	assert.Empty(t, s.Country)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []domain.ShapeID{"1", "2"}, ids(r))
}

func TestShapeRegistry_UpdateArea(t *testing.T) {
	r := usecases.NewShapeRegistry(vertexArea)
	r.Create("1", triangle, nil)
	_, err := r.SetMetadata("1", "Lebanon", "100000")
	require.NoError(t, err)

	s, err := r.UpdateArea("1", square)
	require.NoError(t, err)
	assert.Equal(t, "4.00", s.Area)
	assert.Equal(t, "Lebanon", s.Country, "metadata survives a reshape")
}

func TestShapeRegistry_UnknownShape(t *testing.T) {
	r := usecases.NewShapeRegistry(vertexArea)

	_, err := r.UpdateArea("ghost", square)
	assert.ErrorIs(t, err, domain.ErrUnknownShape)
	_, err = r.SetMetadata("ghost", "x", "y")
	assert.ErrorIs(t, err, domain.ErrUnknownShape)
	_, err = r.ToggleHighlight("ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownShape)
	_, err = r.Delete("ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownShape)

	_, ok := r.Get("ghost")
	assert.False(t, ok)
}

func TestShapeRegistry_ToggleHighlight(t *testing.T) {
	r := usecases.NewShapeRegistry(vertexArea)
	r.Create("1", triangle, nil)

	s, err := r.ToggleHighlight("1")
	require.NoError(t, err)
	assert.True(t, s.Highlighted)

	s, err = r.ToggleHighlight("1")
	require.NoError(t, err)
	assert.False(t, s.Highlighted)
}

func TestShapeRegistry_DeleteKeepsOrder(t *testing.T) {
	r := usecases.NewShapeRegistry(vertexArea)
	for _, id := range []domain.ShapeID{"a", "b", "c", "d"} {
		r.Create(id, triangle, nil)
	}

	deleted, err := r.Delete("b")
	require.NoError(t, err)
	assert.Equal(t, domain.ShapeID("b"), deleted.ID)

	assert.Equal(t, []domain.ShapeID{"a", "c", "d"}, ids(r))
	assert.Equal(t, 3, r.Len())
	// List can be ranged over repeatedly.
	assert.Equal(t, ids(r), ids(r))
}

func TestShapeRegistry_ListStopsEarly(t *testing.T) {
	r := usecases.NewShapeRegistry(vertexArea)
	r.Create("a", triangle, nil)
	r.Create("b", triangle, nil)

	n := 0
	for range r.List() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestShapeRegistry_GetReturnsCopy(t *testing.T) {
	r := usecases.NewShapeRegistry(vertexArea)
	r.Create("1", triangle, nil)

	s, _ := r.Get("1")
	s.Country = "tampered"

	again, _ := r.Get("1")
	assert.Empty(t, again.Country)
}
