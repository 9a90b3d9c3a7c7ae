package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/Zhima-Mochi/minishop-store/internal/domain/event"
	infraobs "github.com/Zhima-Mochi/minishop-store/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type pinged struct{}

func (pinged) EventName() string { return "test.pinged" }

type other struct{}

func (other) EventName() string { return "test.other" }

type fixture struct {
	bus  *Bus
	logs *observer.ObservedLogs
	reg  *prometheus.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zaplogger.Wrap(zap.New(core))

	reg := prometheus.NewRegistry()
	counters, histograms := prometrics.Standard(prometrics.New(reg, "", ""))
	tel := infraobs.New(nil, logger, counters, histograms)

	return fixture{bus: New(logger, tel), logs: logs, reg: reg}
}

func recorder(calls *[]string, name string) event.Handler {
	return func(context.Context, event.Event) error {
		*calls = append(*calls, name)
		return nil
	}
}

func TestPublishInRegistrationOrder(t *testing.T) {
	f := newFixture(t)
	var calls []string
	f.bus.Subscribe(pinged{}.EventName(), recorder(&calls, "first"))
	f.bus.Subscribe(pinged{}.EventName(), recorder(&calls, "second"))
	f.bus.Subscribe(other{}.EventName(), recorder(&calls, "unrelated"))
	f.bus.Subscribe(pinged{}.EventName(), recorder(&calls, "third"))

	require.NoError(t, f.bus.Publish(context.Background(), pinged{}))
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.bus.Publish(context.Background(), pinged{}))
	assert.NoError(t, f.bus.Publish(context.Background(), nil))
	assert.Equal(t, 1, f.logs.FilterMessage("event_dropped_no_subscriber").Len())
}

func TestFailingHandlersDoNotStopDispatch(t *testing.T) {
	f := newFixture(t)
	var calls []string
	boom := errors.New("boom")

	f.bus.Subscribe(pinged{}.EventName(), func(context.Context, event.Event) error {
		calls = append(calls, "erroring")
		return boom
	})
	f.bus.Subscribe(pinged{}.EventName(), func(context.Context, event.Event) error {
		calls = append(calls, "panicking")
		panic("listener exploded")
	})
	f.bus.Subscribe(pinged{}.EventName(), recorder(&calls, "healthy"))

	err := f.bus.Publish(context.Background(), pinged{})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrHandlerPanic)
	assert.Equal(t, []string{"erroring", "panicking", "healthy"}, calls)

	assert.Equal(t, 1, f.logs.FilterMessage("event_handler_error").Len())
	assert.Equal(t, 1, f.logs.FilterMessage("event_handler_panic").Len())

	failures, err := f.reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range failures {
		if mf.GetName() != string(observability.MEventHandlerFailure) {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(2), total)
}

func TestUnsubscribe(t *testing.T) {
	f := newFixture(t)
	var calls []string
	a := f.bus.Subscribe(pinged{}.EventName(), recorder(&calls, "a"))
	f.bus.Subscribe(pinged{}.EventName(), recorder(&calls, "b"))

	assert.True(t, f.bus.Unsubscribe(a))
	assert.False(t, f.bus.Unsubscribe(a))
	assert.False(t, f.bus.Unsubscribe(event.Subscription{}))
	assert.Equal(t, 1, f.bus.Subscribers(pinged{}.EventName()))

	require.NoError(t, f.bus.Publish(context.Background(), pinged{}))
	assert.Equal(t, []string{"b"}, calls)
}

func TestSubscribeDuringDispatchAppliesToNextPublish(t *testing.T) {
	f := newFixture(t)
	var calls []string
	f.bus.Subscribe(pinged{}.EventName(), func(context.Context, event.Event) error {
		calls = append(calls, "outer")
		f.bus.Subscribe(pinged{}.EventName(), recorder(&calls, "late"))
		return nil
	})

	require.NoError(t, f.bus.Publish(context.Background(), pinged{}))
	assert.Equal(t, []string{"outer"}, calls)
	assert.Equal(t, 2, f.bus.Subscribers(pinged{}.EventName()))
}

func TestNilHandlerIgnored(t *testing.T) {
	f := newFixture(t)
	sub := f.bus.Subscribe(pinged{}.EventName(), nil)
	assert.Empty(t, sub.ID)
	assert.Zero(t, f.bus.Subscribers(pinged{}.EventName()))
}

func TestHandlersReceiveEventScopedLogger(t *testing.T) {
	f := newFixture(t)
	f.bus.Subscribe(pinged{}.EventName(), func(context.Context, event.Event) error {
		return errors.New("fail")
	})

	_ = f.bus.Publish(context.Background(), pinged{})

	entries := f.logs.FilterMessage("event_handler_error").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.NotEmpty(t, fields["event_id"])
	assert.Equal(t, "test.pinged", fields["event"])
	assert.Equal(t, "fail", fields["error"])
}

func TestMetricsNotRequired(t *testing.T) {
	bus := New(nil, nil)
	bus.Subscribe(pinged{}.EventName(), func(context.Context, event.Event) error { panic("x") })
	assert.ErrorIs(t, bus.Publish(context.Background(), pinged{}), ErrHandlerPanic)
}
