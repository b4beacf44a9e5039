package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracer_DisabledInstallsNoop(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	shutdown()

	_, span := otel.Tracer(TracerName).Start(context.Background(), SpanDispatch)
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestInitTracer_RejectsUnknownExporter(t *testing.T) {
	_, err := InitTracer(context.Background(), Config{
		Enabled:     true,
		ServiceName: "parcelmap-test",
		Exporter:    "zipkin",
		SampleRatio: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported tracing exporter")
}
