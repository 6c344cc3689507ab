package playbook

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alertgate/alertgate/internal/core"
)

const samplePlaybook = `
name: default
triggers:
  - trigger_name: restart-loop
    alert_name: CrashLoopBackOff
    pod_name_prefix: payments-
    namespace_prefix: prod-
    status: firing
    throttle: 15m
  - trigger_name: high-cpu
    alert_name: HighCPUAlert
    throttle: 60s
    repeat: 3
  - trigger_name: deleted-deployment
    kind: Deployment
    operation: delete
`

func TestParse(t *testing.T) {
	pb, err := Parse([]byte(samplePlaybook))
	require.NoError(t, err)
	require.Equal(t, "default", pb.Name)
	require.Len(t, pb.Triggers, 3)

	restart := pb.Triggers[0]
	require.Equal(t, "restart-loop", restart.TriggerName)
	require.Equal(t, "CrashLoopBackOff", restart.AlertName)
	require.Equal(t, "payments-", restart.PodNamePrefix)
	require.Equal(t, 15*time.Minute, restart.Throttle)

	cpu := pb.Triggers[1]
	require.Equal(t, time.Minute, cpu.Throttle)
	require.Equal(t, 3, cpu.Repeat)

	deleted := pb.Triggers[2]
	require.Equal(t, core.OperationDelete, deleted.Operation)
	require.Zero(t, deleted.Throttle)
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("triggers: ["))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid yaml")
}

func TestParseRejectsEmptyPlaybook(t *testing.T) {
	_, err := Parse([]byte("name: empty\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no triggers")
}

func TestParseRejectsInvalidTrigger(t *testing.T) {
	_, err := Parse([]byte(`
triggers:
  - alert_name: MissingName
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "trigger_name is required")
}

func TestParseRejectsDuplicateTriggers(t *testing.T) {
	_, err := Parse([]byte(`
triggers:
  - trigger_name: dup
  - trigger_name: dup
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate trigger")
}

func TestParseRejectsBadThrottle(t *testing.T) {
	_, err := Parse([]byte(`
triggers:
  - trigger_name: bad
    throttle: soon
`))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePlaybook), 0o600))

	pb, err := Load(path)
	require.NoError(t, err)
	require.Len(t, pb.Triggers, 3)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
