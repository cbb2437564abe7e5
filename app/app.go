package app

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/lambda-feedback/appshim/adapter"
	"github.com/lambda-feedback/appshim/application"
	"github.com/lambda-feedback/appshim/config"
	"github.com/lambda-feedback/appshim/internal/shell"
	"github.com/lambda-feedback/appshim/telemetry"
	"github.com/lambda-feedback/appshim/util/conf"
	"github.com/lambda-feedback/appshim/util/logging"
)

func New(ctx *cli.Context) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	config, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	return shell.New(log, SharedModule(config)), nil
}

// SharedModule provides the adapter and its collaborators,
// shared by all hosts.
func SharedModule(config config.Config) fx.Option {
	return fx.Module(
		"shared",
		// provide global config
		fx.Supply(config),
		// provide telemetry
		telemetry.Module(config.Telemetry),
		// provide wrapped application
		application.Module(config.App),
		// provide adapter
		adapter.Module(config.Adapter),
	)
}
