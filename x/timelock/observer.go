package timelock

import (
	"strings"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/common"
)

// Observer is notified about every event emitted by an operation, once the
// changes of that operation are persisted. An observer cannot influence the
// outcome of the operation.
type Observer interface {
	Notify(ctx vault.Context, ev *Event)
}

// Observers is a collection of observers that is notified about events
// carried by the tags of a delivered transaction.
type Observers []Observer

// OnTags notifies all observers about every event represented by given
// tags. Tags that do not represent an event are ignored.
func (obs Observers) OnTags(ctx vault.Context, tags []common.KVPair) error {
	events, err := EventsFromTags(tags)
	if err != nil {
		return errors.Wrap(err, "cannot read events")
	}
	for _, ev := range events {
		for _, o := range obs {
			o.Notify(ctx, ev)
		}
	}
	return nil
}

// LoggingObserver writes every event to the context logger.
type LoggingObserver struct{}

var _ Observer = LoggingObserver{}

func (LoggingObserver) Notify(ctx vault.Context, ev *Event) {
	keyvals := []interface{}{"kind", ev.Kind.String(), "time", ev.Time}
	if len(ev.TransactionID) != 0 {
		keyvals = append(keyvals, "transaction", registry.FormatID(ev.TransactionID))
	}
	if len(ev.Approver) != 0 {
		keyvals = append(keyvals, "approver", ev.Approver)
	}
	switch ev.Kind {
	case EventDelayChanged:
		keyvals = append(keyvals, "delay", ev.Delay)
	case EventExecutionFailed:
		keyvals = append(keyvals, "reason", ev.Reason)
	}
	vault.GetLogger(ctx).Info("timelock event", keyvals...)
}

// MetricsObserver counts events by their kind and exposes the current time
// lock delay.
type MetricsObserver struct {
	events *prometheus.CounterVec
	delay  prometheus.Gauge
}

var _ Observer = (*MetricsObserver)(nil)

// NewMetricsObserver returns an observer with all collectors registered
// using given registerer.
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	m := &MetricsObserver{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vault",
			Subsystem: "timelock",
			Name:      "events_total",
			Help:      "Number of events emitted, by kind.",
		}, []string{"kind"}),
		delay: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vault",
			Subsystem: "timelock",
			Name:      "delay_seconds",
			Help:      "Time lock delay as of the last delay change.",
		}),
	}
	for _, c := range []prometheus.Collector{m.events, m.delay} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "cannot register collector: %s", err)
		}
	}
	return m, nil
}

func (m *MetricsObserver) Notify(ctx vault.Context, ev *Event) {
	m.events.WithLabelValues(strings.ToLower(ev.Kind.String())).Inc()
	if ev.Kind == EventDelayChanged {
		m.delay.Set(float64(ev.Delay))
	}
}

// SetDelay sets the delay gauge, for example to the value loaded on start.
func (m *MetricsObserver) SetDelay(delay uint64) {
	m.delay.Set(float64(delay))
}
