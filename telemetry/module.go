package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/appshim/adapter"
	"github.com/lambda-feedback/appshim/util/logging"
)

type TracingParams struct {
	fx.In

	Context context.Context
	Config  Config
	Log     *zap.Logger
}

// NewLifecycleTracerProvider creates the tracer provider and flushes
// pending spans when the app stops.
func NewLifecycleTracerProvider(params TracingParams, lc fx.Lifecycle) (*sdktrace.TracerProvider, error) {
	tp, err := NewTracerProvider(params.Context, params.Config)
	if err != nil || tp == nil {
		return tp, err
	}

	params.Log.Debug("tracing enabled", zap.String("exporter", params.Config.Tracing))

	lc.Append(fx.StopHook(func(ctx context.Context) error {
		return tp.Shutdown(ctx)
	}))

	return tp, nil
}

// Module provides metrics, tracing and error reporting.
func Module(config Config) fx.Option {
	return fx.Module(
		"telemetry",
		// rename logger for module
		logging.DecorateLogger("telemetry"),
		// provide telemetry config
		fx.Supply(config),
		// provide metrics, also as the adapter recorder
		fx.Provide(NewMetrics),
		fx.Provide(func(m *Metrics) adapter.Recorder { return m }),
		// provide the sentry reporter as the adapter reporter
		fx.Provide(fx.Annotate(
			func() *SentryReporter { return NewSentryReporter(nil) },
			fx.As(new(adapter.Reporter)),
		)),
		// set up tracing eagerly
		fx.Provide(NewLifecycleTracerProvider),
		fx.Invoke(func(*sdktrace.TracerProvider) {}),
	)
}
