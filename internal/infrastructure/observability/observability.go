package observability

import (
	"sync"

	"github.com/Zhima-Mochi/minishop-store/internal/observability"
)

// Provider hands the store its tracer, logger and metric instruments. It
// resolves instruments by key and serves a no-op for any key it was not given.
type Provider struct {
	tracer     observability.Tracer
	logger     observability.Logger
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram

	// missing records keys looked up without a registered instrument; each is logged once.
	missing sync.Map
}

var (
	_ observability.Observability = (*Provider)(nil)
	_ observability.Metrics       = (*Provider)(nil)
)

// New assembles a Provider. A nil tracer or logger is replaced by a no-op and
// nil instruments in the maps are skipped.
func New(
	tracer observability.Tracer,
	logger observability.Logger,
	counters map[observability.MetricKey]observability.Counter,
	histograms map[observability.MetricKey]observability.Histogram,
) *Provider {
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	p := &Provider{
		tracer:     tracer,
		logger:     logger,
		counters:   make(map[observability.MetricKey]observability.Counter, len(counters)),
		histograms: make(map[observability.MetricKey]observability.Histogram, len(histograms)),
	}
	for k, c := range counters {
		if c != nil {
			p.counters[k] = c
		}
	}
	for k, h := range histograms {
		if h != nil {
			p.histograms[k] = h
		}
	}
	return p
}

func (p *Provider) Tracer() observability.Tracer { return p.tracer }

func (p *Provider) Logger() observability.Logger { return p.logger }

// Metrics returns p itself: instruments are looked up on the provider.
func (p *Provider) Metrics() observability.Metrics { return p }

func (p *Provider) Counter(key observability.MetricKey) observability.Counter {
	if c, ok := p.counters[key]; ok {
		return c
	}
	p.reportMissing(key, "counter")
	return observability.NopCounter()
}

func (p *Provider) Histogram(key observability.MetricKey) observability.Histogram {
	if h, ok := p.histograms[key]; ok {
		return h
	}
	p.reportMissing(key, "histogram")
	return observability.NopHistogram()
}

// reportMissing logs a lookup miss only when the provider has instruments at
// all; a provider built without metrics is silent.
func (p *Provider) reportMissing(key observability.MetricKey, kind string) {
	if len(p.counters) == 0 && len(p.histograms) == 0 {
		return
	}
	if _, seen := p.missing.LoadOrStore(kind+":"+string(key), struct{}{}); seen {
		return
	}
	p.logger.Debug("metric_not_registered",
		observability.F("metric", string(key)),
		observability.F("kind", kind),
	)
}
