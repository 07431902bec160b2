package timelock

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/vaulttest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

type recordingObserver struct {
	events []*Event
}

func (r *recordingObserver) Notify(ctx vault.Context, ev *Event) {
	r.events = append(r.events, ev)
}

func TestObserversReceiveTaggedEvents(t *testing.T) {
	events := []*Event{
		{Kind: EventSubmitted, TransactionID: vaulttest.SequenceID(1), Approver: vaulttest.RandomAddr(), Time: 10},
		{Kind: EventDelayChanged, Delay: 42, Time: 11},
	}
	tags, err := EventTags(events)
	require.NoError(t, err)
	require.Equal(t, "timelock/submitted", string(tags[0].Key))
	require.Equal(t, "timelock/delay_changed", string(tags[1].Key))

	// Tags of other origin are ignored.
	tags = append(tags, common.KVPair{Key: []byte("other"), Value: []byte("value")})

	var a, b recordingObserver
	obs := Observers{&a, &b}
	require.NoError(t, obs.OnTags(vaulttest.Context(12), tags))
	require.Equal(t, events, a.events)
	require.Equal(t, events, b.events)

	broken := []common.KVPair{{Key: []byte("timelock/submitted"), Value: []byte{0xff}}}
	require.Error(t, obs.OnTags(vaulttest.Context(12), broken))
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	ctx := vault.WithLogger(vaulttest.Context(100), log.NewTMLogger(&buf))

	LoggingObserver{}.Notify(ctx, &Event{
		Kind:          EventExecutionFailed,
		TransactionID: vaulttest.SequenceID(3),
		Reason:        "insufficient amount",
		Time:          100,
	})
	out := buf.String()
	require.True(t, strings.Contains(out, "EXECUTION_FAILED"), out)
	require.True(t, strings.Contains(out, "insufficient amount"), out)
}

func TestMetricsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetricsObserver(reg)
	require.NoError(t, err)

	_, err = NewMetricsObserver(reg)
	require.Error(t, err, "collectors cannot be registered twice")

	ctx := vaulttest.Context(100)
	m.SetDelay(100)
	m.Notify(ctx, &Event{Kind: EventConfirmed})
	m.Notify(ctx, &Event{Kind: EventConfirmed})
	m.Notify(ctx, &Event{Kind: EventDelayChanged, Delay: 7})

	families, err := reg.Gather()
	require.NoError(t, err)

	counters := make(map[string]float64)
	var delay float64
	for _, f := range families {
		switch f.GetName() {
		case "vault_timelock_events_total":
			for _, metric := range f.GetMetric() {
				counters[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
			}
		case "vault_timelock_delay_seconds":
			delay = f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	require.Equal(t, map[string]float64{"confirmed": 2, "delay_changed": 1}, counters)
	require.Equal(t, float64(7), delay)
}
