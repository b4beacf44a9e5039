package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/pkg/metrics"
)

const (
	// StreamName is the JetStream stream holding the shape change feed.
	StreamName = "PARCELMAP_SHAPES"
	// SubjectPrefix precedes the change kind in every feed subject.
	SubjectPrefix = "parcelmap.shapes."

	defaultBacklog     = 1024
	defaultPublishWait = 2 * time.Second
)

// ErrFeedBacklog is returned when the publish queue is full and a change
// is dropped.
var ErrFeedBacklog = errors.New("change feed backlog full")

// Publisher implements ports.ChangePublisher using NATS JetStream.
// PublishShapeChange only enqueues; a background goroutine publishes and
// waits for each ack for at most the publish wait, so callers never block
// on the broker.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	wait time.Duration

	queue     chan *nats.Msg
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewPublisher connects to NATS and makes sure the shape stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("parcelmap"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := StreamConfig()
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return newPublisher(conn, js, defaultBacklog, defaultPublishWait), nil
}

func newPublisher(conn *nats.Conn, js nats.JetStreamContext, backlog int, wait time.Duration) *Publisher {
	p := &Publisher{
		conn:  conn,
		js:    js,
		wait:  wait,
		queue: make(chan *nats.Msg, backlog),
		done:  make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for {
		select {
		case msg := <-p.queue:
			p.send(msg)
		case <-p.done:
			return
		}
	}
}

func (p *Publisher) send(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), p.wait)
	defer cancel()
	if _, err := p.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		kind := strings.TrimPrefix(msg.Subject, SubjectPrefix)
		metrics.FeedPublishErrors.WithLabelValues(kind).Inc()
		slog.Warn("publish shape change", "subject", msg.Subject, "error", err)
	}
}

// StreamConfig describes the shape change stream. Changes are only kept
// while a consumer is interested and for at most an hour.
func StreamConfig() nats.StreamConfig {
	return nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectPrefix + ">"},
		Retention: nats.InterestPolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.FileStorage,
	}
}

// Subject returns the subject a change of the given kind is published on.
func Subject(kind domain.ChangeKind) string {
	return SubjectPrefix + string(kind)
}

// PublishShapeChange queues one committed registry change for publishing.
// It never waits on the broker; a full queue drops the change.
func (p *Publisher) PublishShapeChange(_ context.Context, change domain.ShapeChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(Subject(change.Kind))
	msg.Data = data
	msg.Header.Set("Parcelmap-Session", change.SessionID)

	select {
	case <-p.done:
		return nats.ErrConnectionClosed
	default:
	}
	select {
	case p.queue <- msg:
		return nil
	default:
		return ErrFeedBacklog
	}
}

// IsConnected reports whether the underlying connection is up.
func (p *Publisher) IsConnected() bool {
	return p.conn.IsConnected()
}

// Close stops the publishing goroutine, dropping queued changes, and
// drains the connection.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		_ = p.conn.Drain()
	})
}
