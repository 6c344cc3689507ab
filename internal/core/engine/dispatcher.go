package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alertgate/alertgate/internal/core"
	"github.com/alertgate/alertgate/internal/core/gate"
	errwrap "github.com/alertgate/alertgate/internal/errors"
	"github.com/alertgate/alertgate/internal/metrics"
)

// HistoryRecorder persists gate evaluations. The store satisfies it; tests
// use in-memory fakes.
type HistoryRecorder interface {
	RecordFire(ctx context.Context, record core.FireRecord) error
}

// Dispatcher routes alert events through the configured triggers. Every
// matching trigger is checked against the gate; permitted fires go to all
// sinks, and both outcomes land in history.
type Dispatcher struct {
	Gate *gate.RateLimiter
	// Triggers may be assigned directly before the dispatcher starts
	// serving. Once Dispatch runs on other goroutines, swap the set
	// through ReplaceTriggers instead.
	Triggers        []core.TriggerParams
	Sinks           []Notifier
	History         HistoryRecorder
	DefaultThrottle time.Duration
	Clock           func() time.Time

	mu sync.RWMutex
}

// ReplaceTriggers swaps the trigger set while dispatches may be in flight.
// In-progress dispatches keep the set they started with.
func (d *Dispatcher) ReplaceTriggers(triggers []core.TriggerParams) {
	d.mu.Lock()
	d.Triggers = triggers
	d.mu.Unlock()
}

// TriggerCount reports the number of currently configured triggers.
func (d *Dispatcher) TriggerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.Triggers)
}

func (d *Dispatcher) triggerSnapshot() []core.TriggerParams {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.Triggers
}

// Evaluation is the per-trigger outcome of dispatching one event.
type Evaluation struct {
	Trigger  string        `json:"trigger"`
	Target   string        `json:"target"`
	Decision core.Decision `json:"decision"`
	Throttle time.Duration `json:"throttle"`
}

// Dispatch evaluates the event against every trigger. A suppressed gate
// result is a normal outcome, not an error; the returned error aggregates
// sink and history failures only, and evaluations are complete even when
// it is non-nil.
func (d *Dispatcher) Dispatch(ctx context.Context, event core.AlertEvent) ([]Evaluation, error) {
	if d == nil || d.Gate == nil {
		return nil, errors.New("dispatcher is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := d.now()
	triggers := d.triggerSnapshot()
	evaluations := make([]Evaluation, 0, len(triggers))
	var errs []error

	for _, trigger := range triggers {
		if !trigger.Matches(event) {
			continue
		}
		metrics.RecordTriggerMatch(trigger.TriggerName)

		throttle := trigger.Throttle
		if throttle == 0 {
			throttle = d.DefaultThrottle
		}

		target := event.TargetID()
		decision := core.DecisionSuppressed
		if d.Gate.MarkAndTest(trigger.TriggerName, target, throttle) {
			decision = core.DecisionFired
			errs = append(errs, d.notify(ctx, trigger, event)...)
		}
		metrics.RecordGateDecision(trigger.TriggerName, string(decision))

		evaluations = append(evaluations, Evaluation{
			Trigger:  trigger.TriggerName,
			Target:   target,
			Decision: decision,
			Throttle: throttle,
		})

		if d.History != nil {
			record := core.FireRecord{
				Trigger:     trigger.TriggerName,
				Target:      target,
				Decision:    decision,
				Throttle:    throttle,
				EvaluatedAt: d.now(),
			}
			if err := d.History.RecordFire(ctx, record); err != nil {
				errs = append(errs, fmt.Errorf("record history for %s: %w", trigger.TriggerName, err))
			}
		}
	}

	metrics.RecordDispatchDuration(d.now().Sub(start))
	metrics.SetGateTrackedKeys(d.Gate.Len())

	return evaluations, errors.Join(errs...)
}

func (d *Dispatcher) notify(ctx context.Context, trigger core.TriggerParams, event core.AlertEvent) []error {
	notification := core.Notification{
		Trigger: trigger.TriggerName,
		Event:   event,
		Message: notificationMessage(trigger, event),
		FiredAt: d.now(),
	}

	var errs []error
	for _, sink := range d.Sinks {
		if sink == nil {
			continue
		}
		err := sink.Notify(ctx, notification)
		metrics.RecordSinkDelivery(sink.Name(), err == nil)
		if err != nil {
			errs = append(errs, errwrap.WrapSinkDelivery(ctx, err,
				fmt.Sprintf("sink %s delivery failed", sink.Name())))
		}
	}
	return errs
}

func notificationMessage(trigger core.TriggerParams, event core.AlertEvent) string {
	if event.Description != "" {
		return event.Description
	}
	return fmt.Sprintf("trigger %s fired for %s", trigger.TriggerName, event.TargetID())
}

func (d *Dispatcher) now() time.Time {
	if d != nil && d.Clock != nil {
		return d.Clock()
	}
	return time.Now().UTC()
}
