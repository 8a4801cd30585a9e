package tracing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/table-storage/pkg/tablestorage"
	"github.com/tendant/table-storage/pkg/tablestorage/strategy"
	"github.com/tendant/table-storage/pkg/tablestorage/tracing"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newProvider() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)), recorder
}

func attrs(kvs []attribute.KeyValue) map[string]string {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value.AsString()
	}
	return out
}

func TestSpanSink_AddsEvent(t *testing.T) {
	tp, recorder := newProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "create table")

	d := tablestorage.SelectionDecision{
		ID:        uuid.New(),
		Namespace: "db1",
		Table:     "t1",
		Type:      tablestorage.StorageTypeS3,
		Strategy:  "namespace",
		At:        time.Now(),
	}
	require.NoError(t, tracing.NewSpanSink().Emit(ctx, d))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, tracing.EventName, events[0].Name)

	got := attrs(events[0].Attributes)
	assert.Equal(t, d.ID.String(), got["storage.decision_id"])
	assert.Equal(t, "db1", got["storage.namespace"])
	assert.Equal(t, "t1", got["storage.table"])
	assert.Equal(t, "s3", got["storage.type"])
	assert.Equal(t, "namespace", got["storage.strategy"])
}

func TestSpanSink_NoSpan(t *testing.T) {
	err := tracing.NewSpanSink().Emit(context.Background(), tablestorage.SelectionDecision{})
	assert.NoError(t, err)
}

func TestMiddleware_SelectorEventOnRequestSpan(t *testing.T) {
	tp, recorder := newProvider()

	registry, err := tablestorage.NewRegistry([]tablestorage.Descriptor{
		tablestorage.NewDescriptor(tablestorage.StorageTypeHDFS, nil),
	}, tablestorage.StorageTypeHDFS)
	require.NoError(t, err)
	defaultStrategy, err := strategy.NewDefault(registry)
	require.NoError(t, err)

	selector, err := tablestorage.New(defaultStrategy, tablestorage.WithDecisionSink(tracing.NewSpanSink()))
	require.NoError(t, err)

	handler := tracing.Middleware(tp)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := selector.SelectStorage(r.Context(), "db1", "t1")
		require.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/selection", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /selection", spans[0].Name())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, tracing.EventName, spans[0].Events()[0].Name)
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := tracing.Setup(context.Background(), "storage-selector", "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
