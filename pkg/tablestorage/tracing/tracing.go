// Package tracing records storage selection decisions on the active
// OpenTelemetry span.
package tracing

import (
	"context"

	"github.com/tendant/table-storage/pkg/tablestorage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EventName is the span event added for each decision
const EventName = "storage.selected"

// SpanSink adds a storage.selected event to the span carried by ctx.
// Without a recording span it does nothing.
type SpanSink struct{}

// NewSpanSink creates the sink
func NewSpanSink() *SpanSink {
	return &SpanSink{}
}

// Emit adds the event
func (s *SpanSink) Emit(ctx context.Context, decision tablestorage.SelectionDecision) error {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil
	}

	span.AddEvent(EventName, trace.WithAttributes(
		attribute.String("storage.decision_id", decision.ID.String()),
		attribute.String("storage.namespace", decision.Namespace),
		attribute.String("storage.table", decision.Table),
		attribute.String("storage.type", decision.Type.String()),
		attribute.String("storage.strategy", decision.Strategy),
	), trace.WithTimestamp(decision.At))
	return nil
}
