package usecases

import (
	"fmt"
	"iter"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/core/ports"
)

// ShapeRegistry is the single source of truth for which shapes exist and
// what is known about them. It is owned by one session and never shared
// across goroutines.
type ShapeRegistry struct {
	area   ports.AreaFunc
	order  []domain.ShapeID
	shapes map[domain.ShapeID]*domain.Shape
}

// NewShapeRegistry creates an empty registry computing areas with area.
func NewShapeRegistry(area ports.AreaFunc) *ShapeRegistry {
	return &ShapeRegistry{
		area:   area,
		shapes: make(map[domain.ShapeID]*domain.Shape),
	}
}

// Create registers a freshly drawn shape with an empty annotation. style is
// the overlay style at creation and becomes the shape's original style.
// Re-creating a known id replaces its entry in place.
func (r *ShapeRegistry) Create(id domain.ShapeID, boundary domain.Ring, style *domain.Style) domain.Shape {
	s := &domain.Shape{
		ID:   id,
		Area: FormatArea(r.area(boundary)),
	}
	if style != nil {
		orig := *style
		s.OriginalStyle = &orig
	}

	if _, exists := r.shapes[id]; !exists {
		r.order = append(r.order, id)
	}
	r.shapes[id] = s
	return *s
}

// UpdateArea recomputes a shape's area from its new boundary.
func (r *ShapeRegistry) UpdateArea(id domain.ShapeID, boundary domain.Ring) (domain.Shape, error) {
	s, ok := r.shapes[id]
	if !ok {
		return domain.Shape{}, fmt.Errorf("update area of %s: %w", id, domain.ErrUnknownShape)
	}
	s.Area = FormatArea(r.area(boundary))
	return *s, nil
}

// SetMetadata overwrites both country and price.
func (r *ShapeRegistry) SetMetadata(id domain.ShapeID, country, price string) (domain.Shape, error) {
	s, ok := r.shapes[id]
	if !ok {
		return domain.Shape{}, fmt.Errorf("set metadata of %s: %w", id, domain.ErrUnknownShape)
	}
	s.Country = country
	s.Price = price
	return *s, nil
}

// ToggleHighlight flips the highlight flag. Applying the matching style to
// the overlay is the caller's job.
func (r *ShapeRegistry) ToggleHighlight(id domain.ShapeID) (domain.Shape, error) {
	s, ok := r.shapes[id]
	if !ok {
		return domain.Shape{}, fmt.Errorf("toggle highlight of %s: %w", id, domain.ErrUnknownShape)
	}
	s.Highlighted = !s.Highlighted
	return *s, nil
}

// Delete removes a shape and returns its last state.
func (r *ShapeRegistry) Delete(id domain.ShapeID) (domain.Shape, error) {
	s, ok := r.shapes[id]
	if !ok {
		return domain.Shape{}, fmt.Errorf("delete %s: %w", id, domain.ErrUnknownShape)
	}
	delete(r.shapes, id)
	for i, known := range r.order {
		if known == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return *s, nil
}

// Get returns a copy of one shape.
func (r *ShapeRegistry) Get(id domain.ShapeID) (domain.Shape, bool) {
	s, ok := r.shapes[id]
	if !ok {
		return domain.Shape{}, false
	}
	return *s, true
}

// List yields copies of every shape in insertion order. The sequence can be
// ranged over again on every render.
func (r *ShapeRegistry) List() iter.Seq[domain.Shape] {
	return func(yield func(domain.Shape) bool) {
		for _, id := range r.order {
			if !yield(*r.shapes[id]) {
				return
			}
		}
	}
}

// Len returns the number of registered shapes.
func (r *ShapeRegistry) Len() int {
	return len(r.order)
}
