package http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/pkg/metrics"
)

// Commands sent to the map client.
const (
	cmdSession      = "session"
	cmdError        = "error"
	cmdAddMarker    = "marker:add"
	cmdMoveMarker   = "marker:move"
	cmdRemoveMarker = "marker:remove"
	cmdSetStyle     = "shape:style"
	cmdBindPopup    = "shape:popup"
	cmdEditorOpen   = "editor:open"
	cmdEditorClose  = "editor:close"
	cmdListRender   = "list:render"
)

// wsCommand is one server-to-client instruction. Which fields are set
// depends on Type.
type wsCommand struct {
	Type      string             `json:"type"`
	SessionID string             `json:"session_id,omitempty"`
	MarkerID  domain.MarkerID    `json:"marker_id,omitempty"`
	ShapeID   domain.ShapeID     `json:"shape_id,omitempty"`
	At        *domain.GeoPoint   `json:"at,omitempty"`
	Popup     string             `json:"popup,omitempty"`
	Style     *domain.Style      `json:"style,omitempty"`
	Editor    *domain.EditorView `json:"editor,omitempty"`
	List      *domain.ListView   `json:"list,omitempty"`
	Event     string             `json:"event,omitempty"`
	Message   string             `json:"message,omitempty"`
}

// Surface drives a connected map client. It implements both
// ports.MapSurface and ports.View by emitting commands the client applies.
type Surface struct {
	write func([]byte) error
}

// NewSurface returns a surface sending encoded commands through write.
// write must be safe for concurrent use.
func NewSurface(write func([]byte) error) *Surface {
	return &Surface{write: write}
}

func (s *Surface) send(cmd wsCommand) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode %s: %w", cmd.Type, err)
	}
	if err := s.write(data); err != nil {
		return fmt.Errorf("send %s: %w", cmd.Type, err)
	}
	metrics.WebSocketMessages.WithLabelValues("out", cmd.Type).Inc()
	return nil
}

func (s *Surface) AddMarker(_ context.Context, id domain.MarkerID, at domain.GeoPoint, popup string) error {
	return s.send(wsCommand{Type: cmdAddMarker, MarkerID: id, At: &at, Popup: popup})
}

func (s *Surface) MoveMarker(_ context.Context, id domain.MarkerID, to domain.GeoPoint, popup string) error {
	return s.send(wsCommand{Type: cmdMoveMarker, MarkerID: id, At: &to, Popup: popup})
}

func (s *Surface) RemoveMarker(_ context.Context, id domain.MarkerID) error {
	return s.send(wsCommand{Type: cmdRemoveMarker, MarkerID: id})
}

func (s *Surface) SetShapeStyle(_ context.Context, shape domain.ShapeID, style domain.Style) error {
	return s.send(wsCommand{Type: cmdSetStyle, ShapeID: shape, Style: &style})
}

func (s *Surface) BindShapePopup(_ context.Context, shape domain.ShapeID, html string) error {
	return s.send(wsCommand{Type: cmdBindPopup, ShapeID: shape, Popup: html})
}

func (s *Surface) ShowEditor(_ context.Context, v domain.EditorView) error {
	return s.send(wsCommand{Type: cmdEditorOpen, Editor: &v})
}

func (s *Surface) HideEditor(context.Context) error {
	return s.send(wsCommand{Type: cmdEditorClose})
}

func (s *Surface) RenderList(_ context.Context, v domain.ListView) error {
	return s.send(wsCommand{Type: cmdListRender, List: &v})
}

// Hello tells the client which session it is attached to.
func (s *Surface) Hello(sessionID string) error {
	return s.send(wsCommand{Type: cmdSession, SessionID: sessionID})
}

// Error reports a rejected client message.
func (s *Surface) Error(event string, err error) error {
	return s.send(wsCommand{Type: cmdError, Event: event, Message: err.Error()})
}
