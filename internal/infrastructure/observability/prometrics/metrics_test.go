package prometrics

import (
	"strings"
	"testing"

	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterRegisteredOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg, "", "")

	first := r.Counter("orders_total", "Orders.", "kind")
	second := r.Counter("orders_total", "Orders.", "kind")

	first.Add(1, observability.L("kind", "sneakers"))
	second.Add(2, observability.L("kind", "sneakers"))
	second.Bind(observability.L("kind", "tshirt")).Add(1)

	expected := `
# HELP orders_total Orders.
# TYPE orders_total counter
orders_total{kind="sneakers"} 3
orders_total{kind="tshirt"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "orders_total"))
}

func TestNamespacedHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg, "minishop", "store")

	h := r.Histogram("latency_seconds", "Latency.", nil, "op")
	h.Observe(0.2, observability.L("op", "place"))
	h.Bind(observability.L("op", "place")).Observe(0.3)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "minishop_store_latency_seconds", families[0].GetName())

	metric := families[0].GetMetric()
	require.Len(t, metric, 1)
	assert.EqualValues(t, 2, metric[0].GetHistogram().GetSampleCount())
}

func TestStandardInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	counters, histograms := Standard(New(reg, "", ""))

	for _, key := range []observability.MetricKey{
		observability.MUsecaseRequests,
		observability.MHTTPRequests,
		observability.MEventHandlerFailure,
		observability.MSalesCompleted,
		observability.MSalesAmount,
	} {
		assert.Contains(t, counters, key)
	}
	assert.Contains(t, histograms, observability.MUsecaseDuration)
	assert.Contains(t, histograms, observability.MHTTPRequestDuration)

	counters[observability.MSalesCompleted].Bind().Add(1)
	counters[observability.MSalesAmount].Bind().Add(179.97)

	expected := `
# HELP sales_amount_total Sum of paid order totals recorded by the sales aggregator.
# TYPE sales_amount_total counter
sales_amount_total 179.97
# HELP sales_completed_total Count of paid orders recorded by the sales aggregator.
# TYPE sales_completed_total counter
sales_completed_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"sales_completed_total", "sales_amount_total"))
}

func TestStandardTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	Standard(New(reg, "", ""))

	assert.Panics(t, func() { Standard(New(reg, "", "")) })
}
