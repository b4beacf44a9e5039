package usecases

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/core/ports"
	"github.com/samirrijal/parcelmap/internal/pkg/metrics"
)

// HubConfig holds the settings shared by every session a hub opens.
type HubConfig struct {
	MaxSessions    int // 0 means unlimited
	HighlightColor string
	Alignment      Alignment
	Area           ports.AreaFunc
	Publisher      ports.ChangePublisher
	Logger         *slog.Logger
}

// Hub owns the live annotation sessions, one per connected map client.
type Hub struct {
	cfg HubConfig

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub creates an empty hub.
func NewHub(cfg HubConfig) *Hub {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Hub{cfg: cfg, sessions: make(map[string]*Session)}
}

// Open starts a new session drawing on surface and rendering into view.
func (h *Hub) Open(surface ports.MapSurface, view ports.View) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cfg.MaxSessions > 0 && len(h.sessions) >= h.cfg.MaxSessions {
		return nil, fmt.Errorf("open session: %w (max %d)", domain.ErrTooManySessions, h.cfg.MaxSessions)
	}

	id := uuid.NewString()
	log := h.cfg.Logger.With("session_id", id)
	annotator := NewAnnotator(surface, view, AnnotatorConfig{
		SessionID:      id,
		HighlightColor: h.cfg.HighlightColor,
		Alignment:      h.cfg.Alignment,
		Area:           h.cfg.Area,
		Publisher:      h.cfg.Publisher,
		Logger:         log,
	})
	s := newSession(id, annotator, log)
	h.sessions[id] = s
	metrics.SessionsActive.Inc()
	log.Info("session opened")
	return s, nil
}

// Get looks up a live session.
func (h *Hub) Get(id string) (*Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return s, nil
}

// Close stops a session and discards its state.
func (h *Hub) Close(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if ok {
		s.Close()
		metrics.SessionsActive.Dec()
		s.log.Info("session closed")
	}
}

// CloseAll stops every session.
func (h *Hub) CloseAll() {
	for _, s := range h.List() {
		h.Close(s.ID())
	}
}

// List returns the live sessions, oldest first.
func (h *Hub) List() []*Session {
	h.mu.RLock()
	out := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].openedAt.Equal(out[j].openedAt) {
			return out[i].id < out[j].id
		}
		return out[i].openedAt.Before(out[j].openedAt)
	})
	return out
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Capacity returns the configured session limit, 0 meaning unlimited.
func (h *Hub) Capacity() int {
	return h.cfg.MaxSessions
}
