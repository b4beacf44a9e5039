package domain

import "fmt"

// EventKind enumerates everything the annotation core reacts to.
type EventKind int

const (
	EventCreated EventKind = iota + 1
	EventReshapeCompleted
	EventDeleted
	EventEditSessionStarted
	EventEditSessionEnded
	EventShapeClicked
	EventEditorSubmitted
	EventEditorCancelled
	EventListFieldEdited
	EventHighlightToggled
	EventSaveAllRequested
)

var eventKindNames = map[EventKind]string{
	EventCreated:            "created",
	EventReshapeCompleted:   "reshape_completed",
	EventDeleted:            "deleted",
	EventEditSessionStarted: "edit_session_started",
	EventEditSessionEnded:   "edit_session_ended",
	EventShapeClicked:       "shape_clicked",
	EventEditorSubmitted:    "editor_submitted",
	EventEditorCancelled:    "editor_cancelled",
	EventListFieldEdited:    "list_field_edited",
	EventHighlightToggled:   "highlight_toggled",
	EventSaveAllRequested:   "save_all_requested",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(name string) (EventKind, bool) {
	for k, n := range eventKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Reshape is the new boundary of one polygon at the end of an edit session.
type Reshape struct {
	ID       ShapeID `json:"id"`
	Boundary Ring    `json:"boundary"`
}

// Event is a single discrete input to an annotation session. Which fields
// are meaningful depends on Kind.
type Event struct {
	Kind EventKind

	// Created, ShapeClicked, ListFieldEdited, HighlightToggled
	ShapeID  ShapeID
	Boundary Ring
	Style    *Style

	// ReshapeCompleted is batched per edit session.
	Reshapes []Reshape

	// Deleted may remove several shapes at once.
	Deleted []ShapeID

	// EditorSubmitted, ListFieldEdited
	Country string
	Price   string
	Field   Field
	Value   string
}
