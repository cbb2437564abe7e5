package standalone

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/appshim/adapter"
	"github.com/lambda-feedback/appshim/handler"
	"github.com/lambda-feedback/appshim/internal/server"
	"github.com/lambda-feedback/appshim/telemetry"
	"github.com/lambda-feedback/appshim/util/logging"
)

type MetricsRouteParams struct {
	fx.In

	Config  telemetry.Config
	Adapter *adapter.Adapter
	Metrics *telemetry.Metrics
	Log     *zap.Logger
}

// NewMetricsRoute exposes the metrics on the configured path, with
// the same CORS headers as the adapter. The route is only registered
// if a path is configured.
func NewMetricsRoute(params MetricsRouteParams) []*server.HttpHandler {
	if params.Config.MetricsPath == "" {
		return nil
	}

	params.Log.Debug("serving metrics", zap.String("path", params.Config.MetricsPath))

	return []*server.HttpHandler{{
		Name:    params.Config.MetricsPath,
		Handler: params.Adapter.WithCors(params.Metrics.Handler()),
	}}
}

func Module(config Config) fx.Option {
	return fx.Module(
		"serve",
		// rename logger for module
		logging.DecorateLogger("serve"),
		// provide handlers
		handler.Module(),
		// provide metrics route
		fx.Provide(fx.Annotate(
			NewMetricsRoute,
			fx.ResultTags(`group:"handlers,flatten"`),
		)),
		// provide server
		server.Module(config.HttpConfig),
	)
}
