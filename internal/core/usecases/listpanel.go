package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/core/ports"
)

// SaveReport summarises a Save All run. Saved lists shapes whose pending
// edit reached the registry; Failed lists shapes whose commit or overlay
// refresh failed. A shape can appear in both.
type SaveReport struct {
	Saved  []domain.ShapeID `json:"saved"`
	Failed []domain.ShapeID `json:"failed"`
}

// ListPanel shows fully annotated shapes, buffers inline edits as pending
// edits and commits them in bulk.
type ListPanel struct {
	registry       *ShapeRegistry
	surface        ports.MapSurface
	highlightColor string
	pending        map[domain.ShapeID]domain.PendingEdit
	log            *slog.Logger
}

// NewListPanel creates a list panel over registry.
func NewListPanel(registry *ShapeRegistry, surface ports.MapSurface, highlightColor string, log *slog.Logger) *ListPanel {
	if log == nil {
		log = slog.Default()
	}
	return &ListPanel{
		registry:       registry,
		surface:        surface,
		highlightColor: highlightColor,
		pending:        make(map[domain.ShapeID]domain.PendingEdit),
		log:            log,
	}
}

// View renders the panel. A row shows the pending value of a field when one
// is buffered and the committed value otherwise.
func (l *ListPanel) View() domain.ListView {
	view := domain.ListView{
		Rows:        []domain.ListRow{},
		ShowSaveAll: l.registry.Len() > 0,
	}
	for s := range l.registry.List() {
		if !s.Annotated() {
			continue
		}
		row := domain.ListRow{
			ShapeID:     s.ID,
			Area:        s.Area,
			Country:     s.Country,
			Price:       s.Price,
			Highlighted: s.Highlighted,
		}
		if p, ok := l.pending[s.ID]; ok {
			row.Pending = true
			row.Country = orDefault(p.Country, s.Country)
			row.Price = orDefault(p.Price, s.Price)
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// Edit buffers an inline change to one field of a listed shape. The
// committed registry values are not touched until SaveAll. Only annotated
// shapes have rows; any other id is unknown to the panel.
func (l *ListPanel) Edit(id domain.ShapeID, field domain.Field, value string) error {
	s, ok := l.registry.Get(id)
	if !ok || !s.Annotated() {
		return fmt.Errorf("edit %s: %w", id, domain.ErrUnknownShape)
	}

	p, ok := l.pending[id]
	if !ok {
		p = domain.PendingEdit{Country: s.Country, Price: s.Price}
	}
	switch field {
	case domain.FieldCountry:
		p.Country = value
	case domain.FieldPrice:
		p.Price = value
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	l.pending[id] = p
	return nil
}

// Pending returns the buffered edit for id, if any.
func (l *ListPanel) Pending(id domain.ShapeID) (domain.PendingEdit, bool) {
	p, ok := l.pending[id]
	return p, ok
}

// Discard drops the buffered edit for id.
func (l *ListPanel) Discard(id domain.ShapeID) {
	delete(l.pending, id)
}

// ToggleHighlight flips the highlight of id and restyles its overlay: the
// highlight color when turned on, the original style when turned off. A
// shape without an original style keeps whatever style it has.
func (l *ListPanel) ToggleHighlight(ctx context.Context, id domain.ShapeID) (domain.Shape, error) {
	s, err := l.registry.ToggleHighlight(id)
	if err != nil {
		return domain.Shape{}, err
	}

	switch {
	case s.Highlighted:
		err = l.surface.SetShapeStyle(ctx, id, domain.Style{Color: l.highlightColor})
	case s.OriginalStyle != nil:
		err = l.surface.SetShapeStyle(ctx, id, *s.OriginalStyle)
	}
	if err != nil {
		return s, fmt.Errorf("restyle %s: %w", id, err)
	}
	return s, nil
}

// SaveAll commits every pending edit into the registry and refreshes the
// shape's popup. Shapes are processed independently: a failure on one is
// recorded and the rest are still saved. Shapes without a pending edit are
// untouched.
func (l *ListPanel) SaveAll(ctx context.Context) (SaveReport, error) {
	var (
		report SaveReport
		errs   []error
	)

	for s := range l.registry.List() {
		p, ok := l.pending[s.ID]
		if !ok {
			continue
		}
		delete(l.pending, s.ID)

		saved, err := l.registry.SetMetadata(s.ID, orDefault(p.Country, s.Country), orDefault(p.Price, s.Price))
		if err != nil {
			report.Failed = append(report.Failed, s.ID)
			errs = append(errs, err)
			continue
		}
		report.Saved = append(report.Saved, s.ID)
		if err := l.surface.BindShapePopup(ctx, s.ID, ShapePopup(saved)); err != nil {
			l.log.Warn("popup refresh failed during save all", "shape_id", s.ID, "error", err)
			report.Failed = append(report.Failed, s.ID)
			errs = append(errs, fmt.Errorf("refresh popup of %s: %w", s.ID, err))
		}
	}

	// Edits buffered for shapes that are gone can never be saved.
	for id := range l.pending {
		if _, ok := l.registry.Get(id); !ok {
			delete(l.pending, id)
		}
	}

	return report, errors.Join(errs...)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
