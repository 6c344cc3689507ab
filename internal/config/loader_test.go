package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("gate.default_throttle", "5m")
	v.SetDefault("sinks.log.enabled", true)
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(newTestViper())
	require.NoError(t, err)

	require.Equal(t, "localhost", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, 5*time.Minute, cfg.Gate.DefaultThrottle)
	require.True(t, cfg.Sinks.Log.Enabled)
	require.False(t, cfg.Sinks.Webhook.Enabled)
}

func TestFromViperOverrides(t *testing.T) {
	v := newTestViper()
	v.Set("server.port", 9999)
	v.Set("gate.default_throttle", "30s")
	v.Set("sinks.webhook.enabled", true)
	v.Set("sinks.webhook.url", "https://hooks.example.com/alertgate")
	v.Set("sinks.webhook.timeout", "2s")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, 30*time.Second, cfg.Gate.DefaultThrottle)
	require.True(t, cfg.Sinks.Webhook.Enabled)
	require.Equal(t, 2*time.Second, cfg.Sinks.Webhook.Timeout)
}

func TestFromViperRejectsInvalidPort(t *testing.T) {
	v := newTestViper()
	v.Set("server.port", 70000)

	_, err := FromViper(v)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid server port")
}

func TestFromViperRejectsWebhookWithoutURL(t *testing.T) {
	v := newTestViper()
	v.Set("sinks.webhook.enabled", true)

	_, err := FromViper(v)
	require.Error(t, err)
	require.Contains(t, err.Error(), "sinks.webhook.url")
}

func TestValidateNegativeThrottle(t *testing.T) {
	cfg := &Config{Gate: GateConfig{DefaultThrottle: -time.Second}}
	require.Error(t, cfg.Validate())
}
