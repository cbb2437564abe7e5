package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambda-feedback/appshim/adapter"
	"github.com/lambda-feedback/appshim/application"
	"github.com/lambda-feedback/appshim/config"
	"github.com/lambda-feedback/appshim/util/conf"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := conf.Parse[config.Config](conf.ParseOptions{
		Defaults:  config.DefaultConfig,
		EnvPrefix: "APPSHIM_TEST_CONFIG_",
	})
	require.NoError(t, err)

	assert.Equal(t, adapter.DefaultConfig, cfg.Adapter)
	assert.Equal(t, application.DefaultConfig.URL, cfg.App.URL)
	assert.Equal(t, 10*time.Second, cfg.App.Process.ReadyTimeout)
	assert.Equal(t, 5*time.Second, cfg.App.Process.StopTimeout)
	assert.Equal(t, "appshim", cfg.Telemetry.ServiceName)
	assert.Empty(t, cfg.Telemetry.MetricsPath)
}

func TestConfig_NestedEnv(t *testing.T) {
	t.Setenv("APPSHIM_TEST_NESTED_CORS__ALLOW_CREDENTIALS", "true")
	t.Setenv("APPSHIM_TEST_NESTED_APP__COMMAND", "gunicorn")
	t.Setenv("APPSHIM_TEST_NESTED_TELEMETRY__TRACING", "stdout")

	cfg, err := conf.Parse[config.Config](conf.ParseOptions{
		Defaults:  config.DefaultConfig,
		EnvPrefix: "APPSHIM_TEST_NESTED_",
	})
	require.NoError(t, err)

	assert.True(t, cfg.Adapter.Cors.AllowCredentials)
	assert.Equal(t, "gunicorn", cfg.App.Process.Command)
	assert.Equal(t, "stdout", cfg.Telemetry.Tracing)
}
