package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/core/usecases"
	"github.com/samirrijal/parcelmap/internal/pkg/geospatial"
)

// SessionSummary is one entry of the session listing.
type SessionSummary struct {
	ID        string    `json:"id"`
	OpenedAt  time.Time `json:"opened_at"`
	Shapes    int       `json:"shapes"`
	Annotated int       `json:"annotated"`
	Editing   bool      `json:"editing"`
}

// ListSessionsHandler returns the live annotation sessions, oldest first.
func ListSessionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pg := parsePagination(c)
		sessions := page(deps.Hub.List(), &pg)

		out := make([]SessionSummary, 0, len(sessions))
		for _, s := range sessions {
			snap, err := s.Snapshot(c.UserContext())
			if err != nil {
				// closed between List and Snapshot
				continue
			}
			out = append(out, summarize(s, snap))
		}

		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: out, Pagination: pg})
	}
}

// GetSessionHandler returns a full snapshot of one session.
func GetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := snapshot(c, deps)
		if err != nil {
			return errSession(c, err)
		}
		return c.JSON(snap)
	}
}

// SessionShapesHandler returns every shape of a session in creation order.
func SessionShapesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := snapshot(c, deps)
		if err != nil {
			return errSession(c, err)
		}
		return c.JSON(snap.Shapes)
	}
}

// SessionGeoJSONHandler exports a session's shapes as a GeoJSON
// FeatureCollection built from the vertex marker positions.
func SessionGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := snapshot(c, deps)
		if err != nil {
			return errSession(c, err)
		}
		data, err := geospatial.FeatureCollection(snap.Shapes, snap.Rings).MarshalJSON()
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(data)
	}
}

// SessionListPanelHandler returns the rendered list panel of a session.
func SessionListPanelHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := snapshot(c, deps)
		if err != nil {
			return errSession(c, err)
		}
		return c.JSON(snap.List)
	}
}

// SaveAllHandler commits every pending list edit of a session. Partial
// failures are reported in the body; the request itself still succeeds.
func SaveAllHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.Hub.Get(c.Params("id"))
		if err != nil {
			return errSession(c, err)
		}
		report, err := s.SaveAll(c.UserContext())
		if errors.Is(err, domain.ErrSessionClosed) || errors.Is(err, context.DeadlineExceeded) {
			return errSession(c, err)
		}
		resp := fiber.Map{"saved": orEmpty(report.Saved), "failed": orEmpty(report.Failed)}
		if err != nil {
			LoggerFromCtx(c.UserContext()).Warn("save all partially failed", "session_id", s.ID(), "error", err)
			resp["error"] = err.Error()
		}
		return c.JSON(resp)
	}
}

func snapshot(c *fiber.Ctx, deps *Dependencies) (usecases.Snapshot, error) {
	s, err := deps.Hub.Get(c.Params("id"))
	if err != nil {
		return usecases.Snapshot{}, err
	}
	return s.Snapshot(c.UserContext())
}

func summarize(s *usecases.Session, snap usecases.Snapshot) SessionSummary {
	sum := SessionSummary{
		ID:       s.ID(),
		OpenedAt: s.OpenedAt(),
		Shapes:   len(snap.Shapes),
		Editing:  snap.Editing,
	}
	for _, shape := range snap.Shapes {
		if shape.Annotated() {
			sum.Annotated++
		}
	}
	return sum
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
