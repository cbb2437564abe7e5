package telemetry

// Tracing exporters.
const (
	TracingNone   = ""
	TracingStdout = "stdout"
	TracingOTLP   = "otlp"
)

type Config struct {
	// MetricsPath is the path the prometheus metrics are served at
	// by the standalone server. Empty disables the endpoint.
	MetricsPath string `conf:"metrics_path"`

	// Tracing is the span exporter, one of "", "stdout" or "otlp"
	Tracing string `conf:"tracing"`

	// Endpoint is the OTLP collector endpoint, host and port
	Endpoint string `conf:"endpoint"`

	// ServiceName is reported as the service.name resource attribute
	ServiceName string `conf:"service_name"`
}

var DefaultConfig = Config{
	ServiceName: "appshim",
}
