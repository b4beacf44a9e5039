package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/pkg/metrics"
	"github.com/samirrijal/parcelmap/internal/pkg/telemetry"
)

type job struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

// Session runs every mutation of one annotator on a single goroutine,
// strictly in submission order, each to completion before the next starts.
type Session struct {
	id        string
	openedAt  time.Time
	annotator *Annotator
	log       *slog.Logger

	jobs      chan job
	done      chan struct{}
	closeOnce sync.Once

	// last counts reported to the gauges; loop goroutine only
	shapes  int
	markers int
}

func newSession(id string, annotator *Annotator, log *slog.Logger) *Session {
	s := &Session{
		id:        id,
		openedAt:  time.Now(),
		annotator: annotator,
		log:       log,
		jobs:      make(chan job),
		done:      make(chan struct{}),
	}
	go s.run()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// OpenedAt returns when the session was opened.
func (s *Session) OpenedAt() time.Time { return s.openedAt }

func (s *Session) run() {
	for {
		select {
		case j := <-s.jobs:
			err := j.fn(j.ctx)
			s.reportSize()
			j.result <- err
		case <-s.done:
			metrics.ShapesRegistered.Sub(float64(s.shapes))
			metrics.VertexMarkers.Sub(float64(s.markers))
			return
		}
	}
}

func (s *Session) reportSize() {
	shapes, markers := s.annotator.Size()
	metrics.ShapesRegistered.Add(float64(shapes - s.shapes))
	metrics.VertexMarkers.Add(float64(markers - s.markers))
	s.shapes, s.markers = shapes, markers
}

// do hands fn to the loop and waits for it. Once the loop has accepted fn
// it runs to completion even if ctx is cancelled meanwhile.
func (s *Session) do(ctx context.Context, fn func(ctx context.Context) error) error {
	j := job{ctx: ctx, fn: fn, result: make(chan error, 1)}
	select {
	case s.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return domain.ErrSessionClosed
	}
	return <-j.result
}

// Dispatch processes one event on the session loop.
func (s *Session) Dispatch(ctx context.Context, evt domain.Event) error {
	kind := evt.Kind.String()
	return s.do(ctx, func(ctx context.Context) error {
		ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, telemetry.SpanDispatch)
		defer span.End()
		span.SetAttributes(
			attribute.String(telemetry.AttrSessionID, s.id),
			attribute.String(telemetry.AttrEventKind, kind),
		)

		start := time.Now()
		err := s.annotator.Handle(ctx, evt)
		metrics.EventDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		metrics.EventsDispatched.WithLabelValues(kind).Inc()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.log.Warn("event handling failed", "event", kind, "error", err)
		}
		return err
	})
}

// Snapshot reads the session state on the loop.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.do(ctx, func(context.Context) error {
		snap = s.annotator.Snapshot()
		return nil
	})
	return snap, err
}

// SaveAll runs Save All on the loop and returns its report.
func (s *Session) SaveAll(ctx context.Context) (SaveReport, error) {
	var report SaveReport
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		report, err = s.annotator.SaveAll(ctx)
		return err
	})
	return report, err
}

// Close stops the loop. Pending and later calls fail with ErrSessionClosed.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
