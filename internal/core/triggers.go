package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TriggerParams defines when an automation trigger matches an event and
// how tightly repeat fires for the same target are throttled.
//
// All match fields are optional; an empty field matches everything, so an
// empty TriggerParams (apart from its name) matches every event.
type TriggerParams struct {
	TriggerName        string        `json:"trigger_name" yaml:"trigger_name" mapstructure:"trigger_name"`
	AlertName          string        `json:"alert_name,omitempty" yaml:"alert_name,omitempty" mapstructure:"alert_name"`
	PodNamePrefix      string        `json:"pod_name_prefix,omitempty" yaml:"pod_name_prefix,omitempty" mapstructure:"pod_name_prefix"`
	InstanceNamePrefix string        `json:"instance_name_prefix,omitempty" yaml:"instance_name_prefix,omitempty" mapstructure:"instance_name_prefix"`
	NamePrefix         string        `json:"name_prefix,omitempty" yaml:"name_prefix,omitempty" mapstructure:"name_prefix"`
	NamespacePrefix    string        `json:"namespace_prefix,omitempty" yaml:"namespace_prefix,omitempty" mapstructure:"namespace_prefix"`
	Status             string        `json:"status,omitempty" yaml:"status,omitempty" mapstructure:"status"`
	Kind               string        `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Operation          OperationType `json:"operation,omitempty" yaml:"operation,omitempty" mapstructure:"operation"`
	Repeat             int           `json:"repeat,omitempty" yaml:"repeat,omitempty" mapstructure:"repeat"`
	Throttle           time.Duration `json:"throttle,omitempty" yaml:"throttle,omitempty" mapstructure:"throttle"`
}

// Validate checks the trigger definition for structural problems.
func (t TriggerParams) Validate() error {
	if strings.TrimSpace(t.TriggerName) == "" {
		return errors.New("trigger_name is required")
	}
	if t.Throttle < 0 {
		return fmt.Errorf("trigger %q: throttle must not be negative", t.TriggerName)
	}
	if t.Repeat < 0 {
		return fmt.Errorf("trigger %q: repeat must not be negative", t.TriggerName)
	}
	if _, ok := ParseOperationType(string(t.Operation)); !ok {
		return fmt.Errorf("trigger %q: unknown operation %q", t.TriggerName, t.Operation)
	}
	return nil
}

// Matches reports whether the trigger applies to the event. Comparisons
// are exact for alert name, status, kind and operation, and prefix-based
// for pod, instance, generic name and namespace, mirroring how alerts
// reference workloads by generated-name prefixes.
func (t TriggerParams) Matches(event AlertEvent) bool {
	if t.AlertName != "" && t.AlertName != event.Name {
		return false
	}
	if t.Status != "" && !strings.EqualFold(t.Status, event.Status) {
		return false
	}
	if t.Kind != "" && !strings.EqualFold(t.Kind, event.Kind) {
		return false
	}
	if t.Operation != "" && t.Operation != event.Operation {
		return false
	}
	if t.PodNamePrefix != "" && !strings.HasPrefix(event.Pod, t.PodNamePrefix) {
		return false
	}
	if t.InstanceNamePrefix != "" && !strings.HasPrefix(instanceLabel(event), t.InstanceNamePrefix) {
		return false
	}
	if t.NamePrefix != "" && !strings.HasPrefix(event.Name, t.NamePrefix) {
		return false
	}
	if t.NamespacePrefix != "" && !strings.HasPrefix(event.Namespace, t.NamespacePrefix) {
		return false
	}
	return true
}

func instanceLabel(event AlertEvent) string {
	if event.Labels == nil {
		return ""
	}
	return event.Labels["instance"]
}
