package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/core/ports"
	"github.com/samirrijal/parcelmap/internal/pkg/metrics"
)

// AnnotatorConfig configures one annotation session.
type AnnotatorConfig struct {
	SessionID      string
	HighlightColor string
	Alignment      Alignment
	Area           ports.AreaFunc
	Publisher      ports.ChangePublisher // optional
	Logger         *slog.Logger
}

// Annotator keeps the shape registry, the vertex markers, the metadata
// editor and the list panel consistent with each other. Handle must only be
// called from one goroutine; Session provides that guarantee.
type Annotator struct {
	sessionID string
	surface   ports.MapSurface
	view      ports.View
	publisher ports.ChangePublisher
	log       *slog.Logger

	registry *ShapeRegistry
	markers  *VertexMarkerTracker
	editor   *MetadataEditor
	list     *ListPanel
	editing  bool
}

// NewAnnotator wires the four components over a map surface and a view.
func NewAnnotator(surface ports.MapSurface, view ports.View, cfg AnnotatorConfig) *Annotator {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.HighlightColor == "" {
		cfg.HighlightColor = "red"
	}
	registry := NewShapeRegistry(cfg.Area)
	return &Annotator{
		sessionID: cfg.SessionID,
		surface:   surface,
		view:      view,
		publisher: cfg.Publisher,
		log:       log,
		registry:  registry,
		markers:   NewVertexMarkerTracker(surface, cfg.Alignment),
		editor:    NewMetadataEditor(),
		list:      NewListPanel(registry, surface, cfg.HighlightColor, log),
	}
}

// Handle processes one event to completion. References to shapes that no
// longer exist are ignored; the returned error only reports rejected input
// or a failing surface.
func (a *Annotator) Handle(ctx context.Context, evt domain.Event) error {
	switch evt.Kind {
	case domain.EventCreated:
		return a.onCreated(ctx, evt)
	case domain.EventReshapeCompleted:
		return a.onReshaped(ctx, evt.Reshapes)
	case domain.EventDeleted:
		return a.onDeleted(ctx, evt.Deleted)
	case domain.EventEditSessionStarted:
		a.editing = true
		return nil
	case domain.EventEditSessionEnded:
		a.editing = false
		return nil
	case domain.EventShapeClicked:
		return a.onShapeClicked(ctx, evt)
	case domain.EventEditorSubmitted:
		return a.onEditorSubmitted(ctx, evt)
	case domain.EventEditorCancelled:
		a.editor.Cancel()
		return a.view.HideEditor(ctx)
	case domain.EventListFieldEdited:
		return a.onListFieldEdited(ctx, evt)
	case domain.EventHighlightToggled:
		return a.onHighlightToggled(ctx, evt.ShapeID)
	case domain.EventSaveAllRequested:
		_, err := a.SaveAll(ctx)
		return err
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownEvent, evt.Kind)
	}
}

func (a *Annotator) onCreated(ctx context.Context, evt domain.Event) error {
	if evt.ShapeID == "" || len(evt.Boundary) == 0 {
		// Only polygons carry a boundary; other drawn layers are not tracked.
		return nil
	}

	shape := a.registry.Create(evt.ShapeID, evt.Boundary, evt.Style)
	errs := []error{a.markers.Materialize(ctx, shape.ID, evt.Boundary)}
	a.publish(ctx, domain.ChangeCreated, shape)

	errs = append(errs, a.openEditor(ctx, shape), a.renderList(ctx))
	return errors.Join(errs...)
}

func (a *Annotator) onReshaped(ctx context.Context, reshapes []domain.Reshape) error {
	var errs []error
	for _, r := range reshapes {
		shape, err := a.registry.UpdateArea(r.ID, r.Boundary)
		if err != nil {
			a.stale(ctx, domain.EventReshapeCompleted, r.ID, err)
			continue
		}
		if err := a.markers.Reconcile(ctx, r.ID, r.Boundary); err != nil {
			if !errors.Is(err, domain.ErrUnknownShape) {
				errs = append(errs, err)
			} else {
				a.stale(ctx, domain.EventReshapeCompleted, r.ID, err)
			}
		}
		a.publish(ctx, domain.ChangeReshaped, shape)
		errs = append(errs, a.openEditor(ctx, shape))
	}

	// The edit session closes with its reshape batch.
	a.editing = false
	errs = append(errs, a.renderList(ctx))
	return errors.Join(errs...)
}

func (a *Annotator) onDeleted(ctx context.Context, ids []domain.ShapeID) error {
	var errs []error
	for _, id := range ids {
		shape, err := a.registry.Delete(id)
		if err != nil {
			a.stale(ctx, domain.EventDeleted, id, err)
		} else {
			a.publish(ctx, domain.ChangeDeleted, shape)
		}
		if err := a.markers.Destroy(ctx, id); err != nil && !errors.Is(err, domain.ErrUnknownShape) {
			errs = append(errs, err)
		}
		a.list.Discard(id)
	}
	errs = append(errs, a.renderList(ctx))
	return errors.Join(errs...)
}

func (a *Annotator) onShapeClicked(ctx context.Context, evt domain.Event) error {
	if !a.editing {
		return nil
	}
	shape, ok := a.registry.Get(evt.ShapeID)
	if !ok {
		a.stale(ctx, domain.EventShapeClicked, evt.ShapeID, domain.ErrUnknownShape)
		return nil
	}
	var errs []error
	if len(evt.Boundary) > 0 {
		// The markers stay the shape's boundary, so they follow the area.
		shape, _ = a.registry.UpdateArea(evt.ShapeID, evt.Boundary)
		if err := a.markers.Reconcile(ctx, evt.ShapeID, evt.Boundary); err != nil && !errors.Is(err, domain.ErrUnknownShape) {
			errs = append(errs, err)
		}
	}
	errs = append(errs, a.openEditor(ctx, shape))
	return errors.Join(errs...)
}

func (a *Annotator) onEditorSubmitted(ctx context.Context, evt domain.Event) error {
	if _, open := a.editor.View(); !open {
		a.stale(ctx, domain.EventEditorSubmitted, "", domain.ErrEditorClosed)
		return nil
	}
	if err := a.editor.SetField(domain.FieldCountry, evt.Country); err != nil {
		return err
	}
	if err := a.editor.SetField(domain.FieldPrice, evt.Price); err != nil {
		return err
	}

	id, country, price, err := a.editor.Submit()
	if err != nil {
		return fmt.Errorf("submit metadata: %w", err)
	}

	errs := []error{a.view.HideEditor(ctx)}
	shape, err := a.registry.SetMetadata(id, country, price)
	if err != nil {
		// The shape was deleted while its editor was open.
		a.stale(ctx, domain.EventEditorSubmitted, id, err)
		return errors.Join(errs...)
	}
	a.list.Discard(id)
	a.publish(ctx, domain.ChangeAnnotated, shape)

	if err := a.surface.BindShapePopup(ctx, id, ShapePopup(shape)); err != nil && !errors.Is(err, domain.ErrOverlayNotFound) {
		errs = append(errs, err)
	}
	errs = append(errs, a.renderList(ctx))
	return errors.Join(errs...)
}

func (a *Annotator) onListFieldEdited(ctx context.Context, evt domain.Event) error {
	if err := a.list.Edit(evt.ShapeID, evt.Field, evt.Value); err != nil {
		if errors.Is(err, domain.ErrUnknownShape) {
			a.stale(ctx, domain.EventListFieldEdited, evt.ShapeID, err)
			return nil
		}
		return err
	}
	return a.renderList(ctx)
}

func (a *Annotator) onHighlightToggled(ctx context.Context, id domain.ShapeID) error {
	shape, err := a.list.ToggleHighlight(ctx, id)
	if errors.Is(err, domain.ErrUnknownShape) {
		a.stale(ctx, domain.EventHighlightToggled, id, err)
		return nil
	}

	var errs []error
	if err != nil && !errors.Is(err, domain.ErrOverlayNotFound) {
		errs = append(errs, err)
	}
	a.publish(ctx, domain.ChangeHighlighted, shape)
	errs = append(errs, a.renderList(ctx))
	return errors.Join(errs...)
}

// SaveAll commits every pending list edit and re-renders the list.
func (a *Annotator) SaveAll(ctx context.Context) (SaveReport, error) {
	report, err := a.list.SaveAll(ctx)
	for _, id := range report.Saved {
		if shape, ok := a.registry.Get(id); ok {
			a.publish(ctx, domain.ChangeAnnotated, shape)
		}
	}
	if err != nil {
		a.log.Warn("save all finished with failures", "failed", len(report.Failed), "error", err)
	}
	return report, errors.Join(err, a.renderList(ctx))
}

// Snapshot is a consistent read of a session's state.
type Snapshot struct {
	Shapes  []domain.Shape                 `json:"shapes"`
	List    domain.ListView                `json:"list"`
	Editor  *domain.EditorView             `json:"editor,omitempty"`
	Markers map[domain.ShapeID]int         `json:"markers"`
	Rings   map[domain.ShapeID]domain.Ring `json:"-"`
	Editing bool                           `json:"editing"`
}

// Snapshot copies the current state out of the annotator.
func (a *Annotator) Snapshot() Snapshot {
	snap := Snapshot{
		Shapes:  []domain.Shape{},
		List:    a.list.View(),
		Markers: make(map[domain.ShapeID]int),
		Rings:   make(map[domain.ShapeID]domain.Ring),
		Editing: a.editing,
	}
	for s := range a.registry.List() {
		snap.Shapes = append(snap.Shapes, s)
		if ring, ok := a.markers.Positions(s.ID); ok {
			snap.Markers[s.ID] = len(ring)
			snap.Rings[s.ID] = ring
		}
	}
	if v, ok := a.editor.View(); ok {
		snap.Editor = &v
	}
	return snap
}

// Size returns how many shapes and vertex markers the session holds.
func (a *Annotator) Size() (shapes, markers int) {
	return a.registry.Len(), a.markers.Total()
}

func (a *Annotator) openEditor(ctx context.Context, shape domain.Shape) error {
	a.editor.Bind(domain.EditorView{
		ShapeID: shape.ID,
		Area:    shape.Area,
		Country: shape.Country,
		Price:   shape.Price,
	})
	v, _ := a.editor.View()
	return a.view.ShowEditor(ctx, v)
}

func (a *Annotator) renderList(ctx context.Context) error {
	return a.view.RenderList(ctx, a.list.View())
}

func (a *Annotator) publish(ctx context.Context, kind domain.ChangeKind, shape domain.Shape) {
	if a.publisher == nil {
		return
	}
	change := domain.ShapeChange{SessionID: a.sessionID, Kind: kind, Shape: shape}
	if err := a.publisher.PublishShapeChange(ctx, change); err != nil {
		metrics.FeedPublishErrors.WithLabelValues(string(kind)).Inc()
		a.log.Warn("publish shape change", "kind", kind, "shape_id", shape.ID, "error", err)
	}
}

func (a *Annotator) stale(ctx context.Context, kind domain.EventKind, id domain.ShapeID, err error) {
	metrics.StaleReferences.WithLabelValues(kind.String()).Inc()
	a.log.DebugContext(ctx, "ignoring stale reference", "event", kind.String(), "shape_id", id, "error", err)
}
