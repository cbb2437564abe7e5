package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/lambda-feedback/appshim/app"
	"github.com/lambda-feedback/appshim/app/standalone"
	"github.com/lambda-feedback/appshim/util/conf"
	"github.com/lambda-feedback/appshim/util/logging"
)

var (
	serveCmdDescription = `The serve command starts a http server and handles incoming
requests the way the serverless handler does. This allows
the shim to be run locally or on platforms without a
serverless runtime.

The command will launch the http server and blocks indefin-
itely, processing incoming http requests.`
	serveCmd = &cli.Command{
		Name:        "serve",
		Usage:       "Start a http server and listen for requests.",
		Description: serveCmdDescription,
		Action:      serveAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "host",
				Aliases:  []string{"H"},
				Usage:    "The host to listen on.",
				Value:    "localhost",
				Category: "http",
				EnvVars:  []string{"HTTP_HOST"},
			},
			&cli.IntFlag{
				Name:     "port",
				Aliases:  []string{"P"},
				Usage:    "The port to listen on.",
				Value:    8080,
				Category: "http",
				EnvVars:  []string{"HTTP_PORT"},
			},
			&cli.BoolFlag{
				Name:     "h2c",
				Usage:    "Enable HTTP/2 cleartext upgrade.",
				Value:    false,
				Category: "http",
				EnvVars:  []string{"HTTP_H2C"},
			},
		},
	}
)

func serveAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	cfg, err := conf.Parse[standalone.Config](conf.ParseOptions{
		Log: log,
		Cli: ctx,
		Defaults: conf.DefaultConfig{
			"host": standalone.DefaultConfig.HttpConfig.Host,
			"port": standalone.DefaultConfig.HttpConfig.Port,
			"h2c":  standalone.DefaultConfig.HttpConfig.H2c,
		},
	})
	if err != nil {
		return err
	}

	return app.Run(ctx.Context, standalone.Module(cfg))
}

func init() {
	rootApp.Commands = append(rootApp.Commands, serveCmd)
}
