package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samirrijal/parcelmap/internal/core/domain"
)

// --- Fake map surface ---

type fakeSurface struct {
	mu sync.Mutex

	markers   map[domain.MarkerID]domain.GeoPoint
	popups    map[domain.MarkerID]string
	styles    map[domain.ShapeID][]domain.Style
	shapeHTML map[domain.ShapeID]string

	adds, moves, removes int

	addErr   error
	popupErr map[domain.ShapeID]error
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		markers:   make(map[domain.MarkerID]domain.GeoPoint),
		popups:    make(map[domain.MarkerID]string),
		styles:    make(map[domain.ShapeID][]domain.Style),
		shapeHTML: make(map[domain.ShapeID]string),
		popupErr:  make(map[domain.ShapeID]error),
	}
}

func (f *fakeSurface) AddMarker(ctx context.Context, id domain.MarkerID, at domain.GeoPoint, popup string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds++
	if f.addErr != nil {
		return f.addErr
	}
	f.markers[id] = at
	f.popups[id] = popup
	return nil
}

func (f *fakeSurface) MoveMarker(ctx context.Context, id domain.MarkerID, to domain.GeoPoint, popup string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves++
	if _, ok := f.markers[id]; !ok {
		return fmt.Errorf("move %s: %w", id, domain.ErrOverlayNotFound)
	}
	f.markers[id] = to
	f.popups[id] = popup
	return nil
}

func (f *fakeSurface) RemoveMarker(ctx context.Context, id domain.MarkerID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes++
	if _, ok := f.markers[id]; !ok {
		return fmt.Errorf("remove %s: %w", id, domain.ErrOverlayNotFound)
	}
	delete(f.markers, id)
	delete(f.popups, id)
	return nil
}

func (f *fakeSurface) SetShapeStyle(ctx context.Context, shape domain.ShapeID, style domain.Style) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.styles[shape] = append(f.styles[shape], style)
	return nil
}

func (f *fakeSurface) BindShapePopup(ctx context.Context, shape domain.ShapeID, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.popupErr[shape]; err != nil {
		return err
	}
	f.shapeHTML[shape] = html
	return nil
}

func (f *fakeSurface) markerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.markers)
}

func (f *fakeSurface) lastStyle(shape domain.ShapeID) (domain.Style, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	styles := f.styles[shape]
	if len(styles) == 0 {
		return domain.Style{}, false
	}
	return styles[len(styles)-1], true
}

// --- Fake view ---

type fakeView struct {
	mu     sync.Mutex
	editor *domain.EditorView
	lists  []domain.ListView
	hides  int
}

func (v *fakeView) ShowEditor(ctx context.Context, ev domain.EditorView) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editor = &ev
	return nil
}

func (v *fakeView) HideEditor(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editor = nil
	v.hides++
	return nil
}

func (v *fakeView) RenderList(ctx context.Context, lv domain.ListView) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lists = append(v.lists, lv)
	return nil
}

func (v *fakeView) lastList() domain.ListView {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.lists) == 0 {
		return domain.ListView{}
	}
	return v.lists[len(v.lists)-1]
}

func (v *fakeView) shownEditor() *domain.EditorView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editor
}

// --- Fake change publisher ---

type fakePublisher struct {
	mu      sync.Mutex
	changes []domain.ShapeChange
	err     error
}

func (p *fakePublisher) PublishShapeChange(ctx context.Context, c domain.ShapeChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.changes = append(p.changes, c)
	return nil
}

func (p *fakePublisher) kinds() []domain.ChangeKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ChangeKind, len(p.changes))
	for i, c := range p.changes {
		out[i] = c.Kind
	}
	return out
}

var errSurfaceDown = errors.New("surface down")

// --- Fixtures ---

// vertexArea makes areas predictable: one km² per vertex.
func vertexArea(r domain.Ring) float64 { return float64(len(r)) * 1_000_000 }

var (
	ptA  = domain.GeoPoint{Lat: 33.90, Lng: 35.50}
	ptB  = domain.GeoPoint{Lat: 33.90, Lng: 35.60}
	ptC  = domain.GeoPoint{Lat: 33.80, Lng: 35.60}
	ptD  = domain.GeoPoint{Lat: 33.80, Lng: 35.50}
	ptBC = domain.GeoPoint{Lat: 33.85, Lng: 35.60} // midpoint of the B-C edge

	triangle = domain.Ring{ptA, ptB, ptC}
	square   = domain.Ring{ptA, ptB, ptC, ptD}
)
