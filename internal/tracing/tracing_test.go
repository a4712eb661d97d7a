package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/soundscape/internal/config"
)

func TestSetup_DisabledIsNoop(t *testing.T) {
	p, err := Setup(context.Background(), config.TracingConfig{}, "test")
	require.NoError(t, err)

	assert.IsType(t, noop.NewTracerProvider(), p.TracerProvider)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSetup_StdoutWritesSpansToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "spans.json")

	p, err := Setup(context.Background(), config.TracingConfig{
		Exporter: config.ExporterStdout,
		File:     path,
	}, "test")
	require.NoError(t, err)

	_, span := p.Tracer("test").Start(context.Background(), "audio.Load")
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Name":"audio.Load"`)
	assert.Contains(t, string(data), "soundscape")
}

func TestSetup_OTLPDoesNotDialEagerly(t *testing.T) {
	p, err := Setup(context.Background(), config.TracingConfig{
		Exporter: config.ExporterOTLP,
		Endpoint: "127.0.0.1:1",
	}, "test")
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = p.Shutdown(ctx)
	})
	assert.NotNil(t, p.Tracer("test"))
}

func TestSetup_UnknownExporter(t *testing.T) {
	_, err := Setup(context.Background(), config.TracingConfig{Exporter: "zipkin"}, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tracing exporter")
}
