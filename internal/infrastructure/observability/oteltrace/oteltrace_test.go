package oteltrace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestTracerRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := NewSDKProvider(recorder)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tr := NewWithProvider(tp, "")
	ctx, parent := tr.Start(context.Background(), "UC.PlaceOrder", attribute.Int("order.id", 1))
	require.True(t, trace.SpanContextFromContext(ctx).IsValid())

	_, child := tr.Start(ctx, "UC.ProcessPayment")
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "UC.ProcessPayment", spans[0].Name())
	assert.Equal(t, "UC.PlaceOrder", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Equal(t, defaultName, spans[1].InstrumentationScope().Name)
	assert.Contains(t, spans[1].Attributes(), attribute.Int("order.id", 1))
}
