package usecases

import (
	"fmt"
	"strings"

	"github.com/samirrijal/parcelmap/internal/core/domain"
)

// MetadataEditor is the modal form collecting country and price for one
// shape at a time. Area is display-only.
type MetadataEditor struct {
	open    bool
	shapeID domain.ShapeID
	area    string
	country string
	price   string
}

// NewMetadataEditor returns a closed editor.
func NewMetadataEditor() *MetadataEditor {
	return &MetadataEditor{}
}

// Bind opens the editor for a shape and re-synchronises its fields from
// view, discarding anything typed for a previously bound shape.
func (e *MetadataEditor) Bind(view domain.EditorView) {
	e.open = true
	e.shapeID = view.ShapeID
	e.area = view.Area
	e.country = view.Country
	e.price = view.Price
}

// View returns what the editor currently shows, or false when closed.
func (e *MetadataEditor) View() (domain.EditorView, bool) {
	if !e.open {
		return domain.EditorView{}, false
	}
	return domain.EditorView{
		ShapeID: e.shapeID,
		Area:    e.area,
		Country: e.country,
		Price:   e.price,
	}, true
}

// SetField updates one of the editable fields.
func (e *MetadataEditor) SetField(field domain.Field, value string) error {
	if !e.open {
		return domain.ErrEditorClosed
	}
	switch field {
	case domain.FieldCountry:
		e.country = value
	case domain.FieldPrice:
		e.price = value
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	return nil
}

// Submit validates the fields and closes the editor, returning the values to
// commit. A blank field leaves the editor open.
func (e *MetadataEditor) Submit() (domain.ShapeID, string, string, error) {
	if !e.open {
		return "", "", "", domain.ErrEditorClosed
	}
	if strings.TrimSpace(e.country) == "" || strings.TrimSpace(e.price) == "" {
		return "", "", "", domain.ErrEmptyField
	}
	id, country, price := e.shapeID, e.country, e.price
	e.close()
	return id, country, price, nil
}

// Cancel closes the editor without committing anything.
func (e *MetadataEditor) Cancel() {
	e.close()
}

func (e *MetadataEditor) close() {
	*e = MetadataEditor{}
}
