package config

import (
	"maps"

	"github.com/lambda-feedback/appshim/adapter"
	"github.com/lambda-feedback/appshim/application"
	"github.com/lambda-feedback/appshim/telemetry"
	"github.com/lambda-feedback/appshim/util/conf"
)

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// Adapter holds the cors, health and errors sections
	Adapter adapter.Config `conf:",squash"`

	// App is the wrapped application configuration
	App application.Config `conf:"app"`

	// Telemetry is the metrics, tracing and reporting configuration
	Telemetry telemetry.Config `conf:"telemetry"`
}

var DefaultConfig = defaultConfig()

func defaultConfig() conf.DefaultConfig {
	defaults := conf.DefaultConfig{
		"log_level":  "info",
		"log_format": "production",
	}

	sections := []conf.DefaultConfig{
		conf.MergeDefaults("cors", conf.DefaultConfig{
			"allow_origins":     adapter.DefaultConfig.Cors.AllowOrigins,
			"allow_methods":     adapter.DefaultConfig.Cors.AllowMethods,
			"allow_headers":     adapter.DefaultConfig.Cors.AllowHeaders,
			"max_age":           adapter.DefaultConfig.Cors.MaxAge,
			"allow_credentials": adapter.DefaultConfig.Cors.AllowCredentials,
		}),
		conf.MergeDefaults("health", conf.DefaultConfig{
			"paths":   adapter.DefaultConfig.Health.Paths,
			"message": adapter.DefaultConfig.Health.Message,
		}),
		conf.MergeDefaults("errors", conf.DefaultConfig{
			"expose_trace": adapter.DefaultConfig.Errors.ExposeTrace,
		}),
		conf.MergeDefaults("app", conf.DefaultConfig{
			"url":           application.DefaultConfig.URL,
			"ready_timeout": application.DefaultConfig.Process.ReadyTimeout,
			"stop_timeout":  application.DefaultConfig.Process.StopTimeout,
		}),
		conf.MergeDefaults("telemetry", conf.DefaultConfig{
			"service_name": telemetry.DefaultConfig.ServiceName,
		}),
	}

	for _, section := range sections {
		maps.Copy(defaults, section)
	}

	return defaults
}

// CliMap maps cli flag names to config keys.
var CliMap = map[string]string{
	"cors-origin":       "cors.allow_origins",
	"health-path":       "health.paths",
	"health-message":    "health.message",
	"expose-trace":      "errors.expose_trace",
	"app-url":           "app.url",
	"app-timeout":       "app.timeout",
	"app-command":       "app.command",
	"app-arg":           "app.args",
	"app-cwd":           "app.cwd",
	"app-reload":        "app.reload",
	"app-watch":         "app.watch",
	"app-ready-timeout": "app.ready_timeout",
	"metrics-path":      "telemetry.metrics_path",
	"tracing":           "telemetry.tracing",
	"otlp-endpoint":     "telemetry.endpoint",
}
