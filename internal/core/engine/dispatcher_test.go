package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alertgate/alertgate/internal/core"
	"github.com/alertgate/alertgate/internal/core/gate"
)

type memorySink struct {
	name     string
	failWith error
	received []core.Notification
}

func (m *memorySink) Name() string { return m.name }

func (m *memorySink) Notify(_ context.Context, notification core.Notification) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.received = append(m.received, notification)
	return nil
}

type memoryHistory struct {
	failWith error
	records  []core.FireRecord
}

func (m *memoryHistory) RecordFire(_ context.Context, record core.FireRecord) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.records = append(m.records, record)
	return nil
}

func newTestDispatcher(now time.Time) (*Dispatcher, *memorySink, *memoryHistory) {
	clock := func() time.Time { return now }
	limiter := gate.New()
	limiter.Clock = clock

	sink := &memorySink{name: "memory"}
	history := &memoryHistory{}
	dispatcher := &Dispatcher{
		Gate: limiter,
		Triggers: []core.TriggerParams{
			{TriggerName: "restart-loop", AlertName: "CrashLoopBackOff", Throttle: time.Minute},
			{TriggerName: "catch-all"},
		},
		Sinks:   []Notifier{sink},
		History: history,
		Clock:   clock,
	}
	return dispatcher, sink, history
}

func TestDispatchFiresMatchingTriggers(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	dispatcher, sink, history := newTestDispatcher(now)

	event := core.AlertEvent{Name: "CrashLoopBackOff", Status: "firing", Pod: "payments-1"}
	evaluations, err := dispatcher.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Len(t, evaluations, 2)

	for _, eval := range evaluations {
		require.Equal(t, core.DecisionFired, eval.Decision)
		require.Equal(t, "payments-1", eval.Target)
	}

	require.Len(t, sink.received, 2)
	require.Equal(t, "restart-loop", sink.received[0].Trigger)
	require.Equal(t, now, sink.received[0].FiredAt)

	require.Len(t, history.records, 2)
	require.Equal(t, core.DecisionFired, history.records[0].Decision)
}

func TestDispatchSuppressesRepeatWithinThrottle(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	limiter := gate.New()
	limiter.Clock = clock

	sink := &memorySink{name: "memory"}
	history := &memoryHistory{}
	dispatcher := &Dispatcher{
		Gate:     limiter,
		Triggers: []core.TriggerParams{{TriggerName: "restart-loop", Throttle: time.Minute}},
		Sinks:    []Notifier{sink},
		History:  history,
		Clock:    clock,
	}

	event := core.AlertEvent{Name: "CrashLoopBackOff", Pod: "payments-1"}

	evaluations, err := dispatcher.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, core.DecisionFired, evaluations[0].Decision)

	now = now.Add(30 * time.Second)
	evaluations, err = dispatcher.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, core.DecisionSuppressed, evaluations[0].Decision)

	// Suppressed evaluations still land in history, but not in sinks.
	require.Len(t, sink.received, 1)
	require.Len(t, history.records, 2)
	require.Equal(t, core.DecisionSuppressed, history.records[1].Decision)

	now = now.Add(31 * time.Second)
	evaluations, err = dispatcher.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, core.DecisionFired, evaluations[0].Decision)
}

func TestDispatchIndependentTargets(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	dispatcher, _, _ := newTestDispatcher(now)
	dispatcher.Triggers = []core.TriggerParams{{TriggerName: "restart-loop", Throttle: time.Hour}}

	evalA, err := dispatcher.Dispatch(context.Background(), core.AlertEvent{Name: "CrashLoopBackOff", Pod: "pod-a"})
	require.NoError(t, err)
	require.Equal(t, core.DecisionFired, evalA[0].Decision)

	evalA, err = dispatcher.Dispatch(context.Background(), core.AlertEvent{Name: "CrashLoopBackOff", Pod: "pod-a"})
	require.NoError(t, err)
	require.Equal(t, core.DecisionSuppressed, evalA[0].Decision)

	evalB, err := dispatcher.Dispatch(context.Background(), core.AlertEvent{Name: "CrashLoopBackOff", Pod: "pod-b"})
	require.NoError(t, err)
	require.Equal(t, core.DecisionFired, evalB[0].Decision)
}

func TestDispatchNoMatchingTrigger(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	dispatcher, sink, history := newTestDispatcher(now)
	dispatcher.Triggers = []core.TriggerParams{{TriggerName: "restart-loop", AlertName: "CrashLoopBackOff"}}

	evaluations, err := dispatcher.Dispatch(context.Background(), core.AlertEvent{Name: "HighCPUAlert"})
	require.NoError(t, err)
	require.Empty(t, evaluations)
	require.Empty(t, sink.received)
	require.Empty(t, history.records)
}

func TestDispatchDefaultThrottle(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	dispatcher, _, _ := newTestDispatcher(now)
	dispatcher.Triggers = []core.TriggerParams{{TriggerName: "catch-all"}}
	dispatcher.DefaultThrottle = 5 * time.Minute

	evaluations, err := dispatcher.Dispatch(context.Background(), core.AlertEvent{Name: "HighCPUAlert"})
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, evaluations[0].Throttle)
}

func TestDispatchSinkFailureDoesNotStopOthers(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	limiter := gate.New()
	limiter.Clock = clock

	failing := &memorySink{name: "broken", failWith: errors.New("boom")}
	working := &memorySink{name: "ok"}
	dispatcher := &Dispatcher{
		Gate:     limiter,
		Triggers: []core.TriggerParams{{TriggerName: "catch-all"}},
		Sinks:    []Notifier{failing, working},
		Clock:    clock,
	}

	evaluations, err := dispatcher.Dispatch(context.Background(), core.AlertEvent{Name: "HighCPUAlert"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "SINK_DELIVERY_ERROR")
	require.Contains(t, err.Error(), "sink broken")
	require.Len(t, evaluations, 1)
	require.Equal(t, core.DecisionFired, evaluations[0].Decision)
	require.Len(t, working.received, 1)
}

func TestReplaceTriggersDuringDispatch(t *testing.T) {
	dispatcher := &Dispatcher{
		Gate:     gate.New(),
		Triggers: []core.TriggerParams{{TriggerName: "restart-loop", AlertName: "CrashLoopBackOff"}},
	}
	event := core.AlertEvent{Name: "CrashLoopBackOff", Pod: "payments-1"}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			dispatcher.ReplaceTriggers([]core.TriggerParams{
				{TriggerName: fmt.Sprintf("reload-%d", i), AlertName: "CrashLoopBackOff"},
			})
		}
	}()

	for i := 0; i < 500; i++ {
		_, err := dispatcher.Dispatch(context.Background(), event)
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()

	require.Equal(t, 1, dispatcher.TriggerCount())
}

func TestDispatchHistoryFailureIsReported(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	dispatcher, _, history := newTestDispatcher(now)
	history.failWith = errors.New("disk full")

	evaluations, err := dispatcher.Dispatch(context.Background(), core.AlertEvent{Name: "CrashLoopBackOff"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "record history")
	require.NotEmpty(t, evaluations)
}
