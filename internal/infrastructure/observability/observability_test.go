package observability

import (
	"context"
	"strings"
	"testing"

	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestProviderDefaults(t *testing.T) {
	p := New(nil, nil, nil, nil)

	require.NotNil(t, p.Tracer())
	require.NotNil(t, p.Logger())

	ctx, span := p.Tracer().Start(context.Background(), "noop")
	assert.NotNil(t, ctx)
	span.End()

	assert.NotPanics(t, func() {
		p.Metrics().Counter(observability.MSalesCompleted).Add(1)
		p.Metrics().Histogram(observability.MUsecaseDuration).Bind().Observe(0.1)
	})
}

func TestProviderResolvesRegisteredInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	counters, histograms := prometrics.Standard(prometrics.New(reg, "", ""))
	p := New(nil, nil, counters, histograms)

	p.Metrics().Counter(observability.MSalesCompleted).Add(2)

	expected := `
# HELP sales_completed_total Count of paid orders recorded by the sales aggregator.
# TYPE sales_completed_total counter
sales_completed_total 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "sales_completed_total"))
}

func TestProviderLogsMissingKeyOnce(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	counters := map[observability.MetricKey]observability.Counter{
		observability.MSalesCompleted: observability.NopCounter(),
		observability.MSalesAmount:    nil,
	}
	p := New(nil, zaplogger.Wrap(zap.New(core)), counters, nil)

	p.Counter(observability.MSalesAmount)
	p.Counter(observability.MSalesAmount)
	p.Histogram(observability.MSalesAmount)

	entries := logs.FilterMessage("metric_not_registered").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "counter", entries[0].ContextMap()["kind"])
	assert.Equal(t, "histogram", entries[1].ContextMap()["kind"])
	assert.Equal(t, string(observability.MSalesAmount), entries[0].ContextMap()["metric"])
}
