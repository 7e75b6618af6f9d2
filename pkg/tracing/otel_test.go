package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitialize_DisabledStillServesATracer(t *testing.T) {
	config := DefaultConfig("test-service")
	config.Enabled = false

	tp, err := Initialize(context.Background(), config)

	require.NoError(t, err)
	require.NotNil(t, tp.Tracer())
	require.NoError(t, tp.Shutdown(context.Background()))

	ctx, span := tp.StartSpan(context.Background(), "test.operation")
	defer span.End()
	assert.NotNil(t, ctx)
}

func TestGetTraceID_EmptyWithoutSpan(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}

func TestSpanAttributeHelpers(t *testing.T) {
	assert.Len(t, HTTPSpanAttributes("GET", "/api/v1/ingredients", 200), 3)
	assert.Len(t, DatabaseSpanAttributes("mongodb", "smartdine", "transaction", "multi"), 4)
	assert.Len(t, MessagingSpanAttributes("kafka", "restaurant.stock.events", "publish"), 3)
}

func TestTracedOperation_PassesResultAndError(t *testing.T) {
	tracer := otel.Tracer("test")

	result, err := TracedOperation(context.Background(), tracer, "ok", func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)

	boom := errors.New("broker down")
	_, err = TracedOperation(context.Background(), tracer, "fail", func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestTracedVoidOperation_PassesError(t *testing.T) {
	tracer := otel.Tracer("test")

	require.NoError(t, TracedVoidOperation(context.Background(), tracer, "ok", func(ctx context.Context) error {
		return nil
	}))

	boom := errors.New("transient")
	assert.ErrorIs(t, TracedVoidOperation(context.Background(), tracer, "fail", func(ctx context.Context) error {
		return boom
	}), boom)
}
