package core

import (
	"strings"
	"time"
)

// OperationType classifies the Kubernetes object change that produced an
// event.
type OperationType string

const (
	OperationCreate OperationType = "create"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
)

// ParseOperationType normalizes an operation string. Empty input is valid
// and means "any operation".
func ParseOperationType(value string) (OperationType, bool) {
	switch OperationType(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return "", true
	case OperationCreate:
		return OperationCreate, true
	case OperationUpdate:
		return OperationUpdate, true
	case OperationDelete:
		return OperationDelete, true
	default:
		return "", false
	}
}

// AlertEvent is a normalized alert as received from monitoring or from the
// manual trigger endpoint.
type AlertEvent struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Status      string            `json:"status"`
	Description string            `json:"description,omitempty"`
	Pod         string            `json:"pod,omitempty"`
	Namespace   string            `json:"namespace,omitempty"`
	Kind        string            `json:"kind,omitempty"`
	Operation   OperationType     `json:"operation,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	StartsAt    time.Time         `json:"starts_at"`
}

// TargetID returns the identifier used to gate actions for this event:
// the pod when known, otherwise the alert name.
func (e AlertEvent) TargetID() string {
	if e.Pod != "" {
		return e.Pod
	}
	return e.Name
}

// Notification is the payload handed to sinks when a trigger fires.
type Notification struct {
	Trigger string     `json:"trigger"`
	Event   AlertEvent `json:"event"`
	Message string     `json:"message,omitempty"`
	FiredAt time.Time  `json:"fired_at"`
}

// Decision is the outcome of one gate evaluation.
type Decision string

const (
	DecisionFired      Decision = "fired"
	DecisionSuppressed Decision = "suppressed"
)

// FireRecord captures one gate evaluation for history and auditing.
type FireRecord struct {
	ID          int64         `json:"id,omitempty"`
	Trigger     string        `json:"trigger"`
	Target      string        `json:"target"`
	Decision    Decision      `json:"decision"`
	Throttle    time.Duration `json:"throttle"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
}
