package config

import (
	"fmt"
	"path/filepath"
	"strings"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// FromViper decodes the merged viper state (defaults + config file +
// environment + bound flags) into a typed Config. Duration fields accept
// Go duration strings ("30s", "15m").
func FromViper(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}

	cfg := &Config{}
	decoderOpt := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decoderOpt); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Gate.DefaultThrottle < 0 {
		return fmt.Errorf("gate.default_throttle must not be negative")
	}
	if c.Sinks.Webhook.Enabled && strings.TrimSpace(c.Sinks.Webhook.URL) == "" {
		return fmt.Errorf("sinks.webhook.url is required when the webhook sink is enabled")
	}
	return nil
}

// DefaultStorePath returns the default location of the local fire-history
// database, rooted in the platform data directory when one resolves.
func DefaultStorePath() string {
	dataDir := gfconfig.GetAppDataDir("alertgate")
	if strings.TrimSpace(dataDir) == "" {
		return "./alertgate.db"
	}
	return filepath.Join(dataDir, "alertgate.db")
}
