// Package metrics emits application metrics through the global telemetry
// system. All helpers are nil-safe so CLI commands that never initialize
// telemetry can share code paths with the server.
package metrics

import (
	"time"

	"github.com/alertgate/alertgate/internal/observability"
)

// Metric names following Prometheus conventions.
var (
	GateDecisionsTotal  = "gate_decisions_total"
	GateTrackedKeys     = "gate_tracked_keys"
	GatePrunedTotal     = "gate_prune_operations_total"
	EventsReceivedTotal = "events_received_total"
	TriggerMatchesTotal = "trigger_matches_total"
	SinkDeliveriesTotal = "sink_deliveries_total"
	SinkFailuresTotal   = "sink_failures_total"
	DispatchDurationMs  = "dispatch_duration_ms"
	ServerStartTime     = "app_server_start_time_seconds"
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"
)

// RecordGateDecision records one gate evaluation outcome per trigger.
func RecordGateDecision(trigger string, decision string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			GateDecisionsTotal,
			1,
			map[string]string{
				"trigger":  trigger,
				"decision": decision,
			},
		)
	}
}

// SetGateTrackedKeys reports the current number of tracked gate keys.
func SetGateTrackedKeys(count int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			GateTrackedKeys,
			float64(count),
			nil,
		)
	}
}

// RecordGatePrune records one admin prune operation.
func RecordGatePrune() {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			GatePrunedTotal,
			1,
			nil,
		)
	}
}

// RecordEventReceived records one inbound alert event.
func RecordEventReceived(source string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			EventsReceivedTotal,
			1,
			map[string]string{
				"source": source,
			},
		)
	}
}

// RecordTriggerMatch records a trigger matching an event.
func RecordTriggerMatch(trigger string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			TriggerMatchesTotal,
			1,
			map[string]string{
				"trigger": trigger,
			},
		)
	}
}

// RecordSinkDelivery records one sink delivery attempt.
func RecordSinkDelivery(sink string, success bool) {
	if observability.TelemetrySystem == nil {
		return
	}

	if success {
		_ = observability.TelemetrySystem.Counter(
			SinkDeliveriesTotal,
			1,
			map[string]string{"sink": sink},
		)
		return
	}
	_ = observability.TelemetrySystem.Counter(
		SinkFailuresTotal,
		1,
		map[string]string{"sink": sink},
	)
}

// RecordDispatchDuration records how long one dispatch took.
func RecordDispatchDuration(duration time.Duration) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Histogram(
			DispatchDurationMs,
			duration,
			nil,
		)
	}
}

// RecordHealthCheck records a health check execution.
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			HealthCheckTotal,
			1,
			map[string]string{
				"check":  checkName,
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			HealthCheckDuration,
			duration,
			map[string]string{
				"check": checkName,
			},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp).
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}
