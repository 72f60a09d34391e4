package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

func install(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp, err := NewProvider(context.Background(), DefaultConfig(), sdktrace.WithSyncer(exporter))
	require.NoError(t, err)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestRun(t *testing.T) {
	exporter := install(t)

	err := Run(context.Background(), "encode", func(ctx context.Context) error {
		return Run(ctx, "compress", func(context.Context) error {
			return errors.New(errors.ErrorTypeCompression, "corrupt block")
		})
	})
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	inner, outer := spans[0], spans[1]
	assert.Equal(t, "compress", inner.Name)
	assert.Equal(t, "encode", outer.Name)
	assert.Equal(t, outer.SpanContext.SpanID(), inner.Parent.SpanID())
	assert.Equal(t, codes.Error, inner.Status.Code)
	assert.Len(t, inner.Events, 1)

	found := false
	for _, attr := range inner.Attributes {
		if attr.Key == "error.type" {
			found = true
			assert.Equal(t, "compression", attr.Value.AsString())
		}
	}
	assert.True(t, found)

	exporter.Reset()
	require.NoError(t, Run(context.Background(), "ok", func(context.Context) error { return nil }))
	assert.Equal(t, codes.Ok, exporter.GetSpans()[0].Status.Code)
}

func TestInjectExtract(t *testing.T) {
	install(t)
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	ctx, span := Start(context.Background(), "publish")
	defer span.End()

	headers := map[string]string{}
	Inject(ctx, headers)
	require.Contains(t, headers, "traceparent")

	remote := Extract(context.Background(), headers)
	ctx2, child := Start(remote, "consume")
	defer child.End()
	_ = ctx2
	assert.Equal(t, span.SpanContext().TraceID(), child.SpanContext().TraceID())
}

func TestInit(t *testing.T) {
	shutdown, err := Init(context.Background(), DefaultConfig())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Output = filepath.Join(t.TempDir(), "spans.json")
	shutdown, err = Init(context.Background(), cfg)
	require.NoError(t, err)

	_, span := Start(context.Background(), "generate")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Name":"generate"`)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SamplingRate = 1.5
	assert.True(t, errors.IsType(cfg.Validate(), errors.ErrorTypeConfig))

	cfg = DefaultConfig()
	cfg.Enabled = true
	cfg.Exporter = "jaeger"
	assert.True(t, errors.IsType(cfg.Validate(), errors.ErrorTypeConfig))

	_, err := Init(context.Background(), cfg)
	assert.Error(t, err)
}
