package domain

import "errors"

var (
	// ErrUnknownShape marks a stale reference to a shape that is no longer tracked.
	ErrUnknownShape = errors.New("unknown shape")
	// ErrOverlayNotFound is returned by a Map Surface when the overlay is gone.
	ErrOverlayNotFound = errors.New("overlay not found")
	// ErrEditorClosed is returned when submitting an editor with no bound shape.
	ErrEditorClosed = errors.New("metadata editor is closed")
	// ErrEmptyField rejects a metadata submission with a blank country or price.
	ErrEmptyField = errors.New("country and price are required")
	// ErrUnknownField rejects a list edit naming neither country nor price.
	ErrUnknownField = errors.New("unknown metadata field")
	// ErrUnknownEvent is returned for an event kind with no handler.
	ErrUnknownEvent = errors.New("unknown event kind")
	// ErrSessionClosed is returned after a session's loop has stopped.
	ErrSessionClosed = errors.New("session closed")
	// ErrSessionNotFound is returned by the hub for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the hub is at capacity.
	ErrTooManySessions = errors.New("too many sessions")
)
