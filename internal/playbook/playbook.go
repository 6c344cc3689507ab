// Package playbook loads trigger definitions from YAML playbook files.
package playbook

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/alertgate/alertgate/internal/core"
)

// Playbook is a named set of trigger definitions.
type Playbook struct {
	Name     string               `mapstructure:"name"`
	Triggers []core.TriggerParams `mapstructure:"triggers"`
}

// Load reads and parses a playbook file.
func Load(path string) (*Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playbook: %w", err)
	}

	pb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse playbook %s: %w", path, err)
	}
	return pb, nil
}

// Parse decodes playbook YAML. Durations accept Go duration strings
// ("30s", "15m"). Trigger names must be unique within a playbook.
func Parse(data []byte) (*Playbook, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	pb := &Playbook{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           pb,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode playbook: %w", err)
	}

	if len(pb.Triggers) == 0 {
		return nil, fmt.Errorf("playbook defines no triggers")
	}

	seen := make(map[string]struct{}, len(pb.Triggers))
	for _, trigger := range pb.Triggers {
		if err := trigger.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[trigger.TriggerName]; dup {
			return nil, fmt.Errorf("duplicate trigger %q", trigger.TriggerName)
		}
		seen[trigger.TriggerName] = struct{}{}
	}

	return pb, nil
}
