package metrics_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/table-storage/pkg/tablestorage"
	"github.com/tendant/table-storage/pkg/tablestorage/metrics"
	"github.com/tendant/table-storage/pkg/tablestorage/strategy"
)

func decision(typ tablestorage.StorageType) tablestorage.SelectionDecision {
	return tablestorage.SelectionDecision{
		ID:        uuid.New(),
		Namespace: "db1",
		Table:     "t1",
		Type:      typ,
		Strategy:  "default",
	}
}

func TestPrometheusSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPrometheusSink(reg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sink.Emit(ctx, decision(tablestorage.StorageTypeHDFS)))
	require.NoError(t, sink.Emit(ctx, decision(tablestorage.StorageTypeHDFS)))
	require.NoError(t, sink.Emit(ctx, decision(tablestorage.StorageTypeS3)))

	count, err := testutil.GatherAndCount(reg, "tablestorage_selections_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)

	totals := map[string]float64{}
	for _, m := range families[0].GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "type" {
				totals[l.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, totals["hdfs"])
	assert.Equal(t, 1.0, totals["s3"])
}

func TestPrometheusSink_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := metrics.NewPrometheusSink(reg)
	require.NoError(t, err)
	second, err := metrics.NewPrometheusSink(reg)
	require.NoError(t, err)

	require.NoError(t, first.Emit(context.Background(), decision(tablestorage.StorageTypeHDFS)))
	require.NoError(t, second.Emit(context.Background(), decision(tablestorage.StorageTypeHDFS)))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, 2.0, families[0].GetMetric()[0].GetCounter().GetValue())
}

func TestPrometheusSink_ConflictingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tablestorage",
		Name:      "selections_total",
		Help:      "Storage selection decisions by chosen backend type and strategy.",
	}, []string{"type", "strategy"}))

	sink, err := metrics.NewPrometheusSink(reg)
	assert.Error(t, err)
	assert.Nil(t, sink)
}

func TestPrometheusSink_WithSelector(t *testing.T) {
	registry, err := tablestorage.NewRegistry([]tablestorage.Descriptor{
		tablestorage.NewDescriptor(tablestorage.StorageTypeHDFS, nil),
	}, tablestorage.StorageTypeHDFS)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPrometheusSink(reg)
	require.NoError(t, err)

	defaultStrategy, err := strategy.NewDefault(registry)
	require.NoError(t, err)

	selector, err := tablestorage.New(defaultStrategy, tablestorage.WithDecisionSink(sink))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := selector.SelectStorage(context.Background(), "db1", "t1")
		require.NoError(t, err)
	}

	expected := `
# HELP tablestorage_selections_total Storage selection decisions by chosen backend type and strategy.
# TYPE tablestorage_selections_total counter
tablestorage_selections_total{strategy="default",type="hdfs"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "tablestorage_selections_total"))
}
