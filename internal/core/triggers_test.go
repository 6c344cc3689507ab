package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTriggerParamsValidate(t *testing.T) {
	valid := TriggerParams{TriggerName: "restart-loop", Throttle: time.Minute}
	require.NoError(t, valid.Validate())

	require.Error(t, TriggerParams{}.Validate())
	require.Error(t, TriggerParams{TriggerName: "  "}.Validate())
	require.Error(t, TriggerParams{TriggerName: "x", Throttle: -time.Second}.Validate())
	require.Error(t, TriggerParams{TriggerName: "x", Repeat: -1}.Validate())
	require.Error(t, TriggerParams{TriggerName: "x", Operation: "recycle"}.Validate())
}

func TestTriggerParamsMatches(t *testing.T) {
	event := AlertEvent{
		Name:      "HighCPUAlert",
		Status:    "firing",
		Pod:       "payments-5d6f654bf9-jm2hx",
		Namespace: "prod-payments",
		Kind:      "Pod",
		Operation: OperationUpdate,
		Labels:    map[string]string{"instance": "node-3"},
	}

	cases := []struct {
		name    string
		trigger TriggerParams
		want    bool
	}{
		{"empty matches all", TriggerParams{TriggerName: "any"}, true},
		{"alert name exact", TriggerParams{TriggerName: "t", AlertName: "HighCPUAlert"}, true},
		{"alert name mismatch", TriggerParams{TriggerName: "t", AlertName: "OOMKilled"}, false},
		{"alert name is not prefixed", TriggerParams{TriggerName: "t", AlertName: "HighCPU"}, false},
		{"status case-insensitive", TriggerParams{TriggerName: "t", Status: "FIRING"}, true},
		{"status mismatch", TriggerParams{TriggerName: "t", Status: "resolved"}, false},
		{"pod prefix", TriggerParams{TriggerName: "t", PodNamePrefix: "payments-"}, true},
		{"pod prefix mismatch", TriggerParams{TriggerName: "t", PodNamePrefix: "billing-"}, false},
		{"namespace prefix", TriggerParams{TriggerName: "t", NamespacePrefix: "prod-"}, true},
		{"name prefix", TriggerParams{TriggerName: "t", NamePrefix: "High"}, true},
		{"instance prefix", TriggerParams{TriggerName: "t", InstanceNamePrefix: "node-"}, true},
		{"kind", TriggerParams{TriggerName: "t", Kind: "pod"}, true},
		{"operation", TriggerParams{TriggerName: "t", Operation: OperationUpdate}, true},
		{"operation mismatch", TriggerParams{TriggerName: "t", Operation: OperationDelete}, false},
		{"combined", TriggerParams{TriggerName: "t", AlertName: "HighCPUAlert", PodNamePrefix: "payments-", Status: "firing"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.trigger.Matches(event))
		})
	}
}

func TestTriggerParamsMatchesMissingInstanceLabel(t *testing.T) {
	trigger := TriggerParams{TriggerName: "t", InstanceNamePrefix: "node-"}
	event := AlertEvent{Name: "HighCPUAlert"}
	require.False(t, trigger.Matches(event))
}

func TestAlertEventTargetID(t *testing.T) {
	require.Equal(t, "pod-a", AlertEvent{Name: "HighCPUAlert", Pod: "pod-a"}.TargetID())
	require.Equal(t, "HighCPUAlert", AlertEvent{Name: "HighCPUAlert"}.TargetID())
}

func TestParseOperationType(t *testing.T) {
	op, ok := ParseOperationType(" Update ")
	require.True(t, ok)
	require.Equal(t, OperationUpdate, op)

	op, ok = ParseOperationType("")
	require.True(t, ok)
	require.Equal(t, OperationType(""), op)

	_, ok = ParseOperationType("recycle")
	require.False(t, ok)
}
