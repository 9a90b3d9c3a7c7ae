package logctx

import (
	"context"

	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/google/uuid"
)

// WithEvent injects an event-scoped logger for in-process event dispatch.
// Dynamic fields only: event_id (generated if empty), trace_id/span_id (if the
// context carries a valid span), plus caller-provided low-cardinality attributes.
func WithEvent(ctx context.Context, base observability.Logger, attrs map[string]string) context.Context {
	if base == nil {
		base = FromOr(ctx, observability.NopLogger())
	}

	fields := make([]observability.Field, 0, 4+len(attrs))

	evtID := attrs["event_id"]
	if evtID == "" {
		evtID = uuid.NewString()
	}
	fields = append(fields, observability.F("event_id", evtID))
	fields = append(fields, SpanFields(ctx)...)

	for k, v := range attrs {
		if k == "event_id" || v == "" {
			continue
		}
		fields = append(fields, observability.F(k, v))
	}

	return With(ctx, base.With(fields...))
}
