package http

import (
	"encoding/json"
	"fmt"

	"github.com/samirrijal/parcelmap/internal/core/domain"
)

// Messages received from the map client. The draw:* names mirror the
// Leaflet.draw lifecycle the client forwards.
const (
	msgCreated      = "draw:created"
	msgEdited       = "draw:edited"
	msgDeleted      = "draw:deleted"
	msgEditStart    = "draw:editstart"
	msgEditStop     = "draw:editstop"
	msgShapeClick   = "shape:click"
	msgEditorSubmit = "editor:submit"
	msgEditorCancel = "editor:cancel"
	msgListEdit     = "list:edit"
	msgHighlight    = "list:highlight"
	msgSaveAll      = "list:save_all"
)

var knownMessages = map[string]bool{
	msgCreated: true, msgEdited: true, msgDeleted: true,
	msgEditStart: true, msgEditStop: true, msgShapeClick: true,
	msgEditorSubmit: true, msgEditorCancel: true,
	msgListEdit: true, msgHighlight: true, msgSaveAll: true,
}

// wsMessage is one client-to-server message. Which fields are read
// depends on Type.
type wsMessage struct {
	Type     string           `json:"type"`
	ShapeID  domain.ShapeID   `json:"shape_id"`
	Boundary domain.Ring      `json:"boundary"`
	Style    *domain.Style    `json:"style"`
	Shapes   []domain.Reshape `json:"shapes"`
	ShapeIDs []domain.ShapeID `json:"shape_ids"`
	Country  string           `json:"country"`
	Price    string           `json:"price"`
	Field    domain.Field     `json:"field"`
	Value    string           `json:"value"`
}

// decodeMessage turns a raw client message into a core event.
func decodeMessage(data []byte) (domain.Event, error) {
	var m wsMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.Event{}, fmt.Errorf("invalid JSON: %w", err)
	}

	switch m.Type {
	case msgCreated:
		if m.ShapeID == "" {
			return domain.Event{}, fmt.Errorf("%s: shape_id is required", m.Type)
		}
		return domain.Event{
			Kind:     domain.EventCreated,
			ShapeID:  m.ShapeID,
			Boundary: m.Boundary,
			Style:    m.Style,
		}, nil

	case msgEdited:
		for i, r := range m.Shapes {
			if r.ID == "" {
				return domain.Event{}, fmt.Errorf("%s: shapes[%d].id is required", m.Type, i)
			}
		}
		return domain.Event{Kind: domain.EventReshapeCompleted, Reshapes: m.Shapes}, nil

	case msgDeleted:
		return domain.Event{Kind: domain.EventDeleted, Deleted: m.ShapeIDs}, nil

	case msgEditStart:
		return domain.Event{Kind: domain.EventEditSessionStarted}, nil

	case msgEditStop:
		return domain.Event{Kind: domain.EventEditSessionEnded}, nil

	case msgShapeClick:
		return domain.Event{Kind: domain.EventShapeClicked, ShapeID: m.ShapeID, Boundary: m.Boundary}, nil

	case msgEditorSubmit:
		return domain.Event{Kind: domain.EventEditorSubmitted, Country: m.Country, Price: m.Price}, nil

	case msgEditorCancel:
		return domain.Event{Kind: domain.EventEditorCancelled}, nil

	case msgListEdit:
		if m.Field != domain.FieldCountry && m.Field != domain.FieldPrice {
			return domain.Event{}, fmt.Errorf("%w: %q", domain.ErrUnknownField, m.Field)
		}
		return domain.Event{
			Kind:    domain.EventListFieldEdited,
			ShapeID: m.ShapeID,
			Field:   m.Field,
			Value:   m.Value,
		}, nil

	case msgHighlight:
		return domain.Event{Kind: domain.EventHighlightToggled, ShapeID: m.ShapeID}, nil

	case msgSaveAll:
		return domain.Event{Kind: domain.EventSaveAllRequested}, nil

	default:
		return domain.Event{}, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, m.Type)
	}
}

// messageType extracts the type of a raw client message for logging and
// metric labels. Malformed input is "invalid", unrecognised types "unknown".
func messageType(data []byte) string {
	var m struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(data, &m) != nil || m.Type == "" {
		return "invalid"
	}
	if !knownMessages[m.Type] {
		return "unknown"
	}
	return m.Type
}
