package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lambda-feedback/appshim/config"
	"github.com/lambda-feedback/appshim/internal/shell"
	"github.com/lambda-feedback/appshim/util/conf"
	"github.com/lambda-feedback/appshim/util/logging"
)

var (
	appName  = "appshim"
	appUsage = `A request adapter that runs a web application on serverless
platforms, answering CORS preflight and health check requests
itself and delegating everything else to the application.`
	rootApp = &cli.App{
		Name:            appName,
		Usage:           appUsage,
		HideHelpCommand: true,
		Args:            true,
		Flags: []cli.Flag{
			// general flags
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "set the log level. Options: debug, info, warn, error, panic, fatal.",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "set the log format. Options: production, development.",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.PathFlag{
				Name:    "config",
				Usage:   "load configuration from a json or .env file.",
				EnvVars: []string{"CONFIG_FILE"},
			},
			// application flags
			&cli.StringFlag{
				Name:     "app-url",
				Usage:    "the base url of the application's http server.",
				Category: "application",
				EnvVars:  []string{"APP_URL"},
			},
			&cli.DurationFlag{
				Name:     "app-timeout",
				Usage:    "the timeout for a single application request. 0 disables the timeout.",
				Category: "application",
				EnvVars:  []string{"APP_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:     "app-command",
				Usage:    "the command to invoke in order to start the application server.",
				Aliases:  []string{"c"},
				Category: "application",
				EnvVars:  []string{"APP_COMMAND"},
			},
			&cli.StringSliceFlag{
				Name:     "app-arg",
				Usage:    "additional arguments to pass to the application server.",
				Aliases:  []string{"a"},
				Category: "application",
				EnvVars:  []string{"APP_ARGS"},
			},
			&cli.StringFlag{
				Name:     "app-cwd",
				Usage:    "the working directory of the application server.",
				Category: "application",
				EnvVars:  []string{"APP_CWD"},
			},
			&cli.DurationFlag{
				Name:     "app-ready-timeout",
				Usage:    "the time to wait for the application server to accept connections.",
				Category: "application",
				EnvVars:  []string{"APP_READY_TIMEOUT"},
			},
			&cli.BoolFlag{
				Name:     "app-reload",
				Usage:    "restart the application server when source files change.",
				Category: "application",
				EnvVars:  []string{"APP_RELOAD"},
			},
			&cli.StringSliceFlag{
				Name:     "app-watch",
				Usage:    "the directories to watch for changes. Defaults to the working directory.",
				Category: "application",
				EnvVars:  []string{"APP_WATCH"},
			},
			// adapter flags
			&cli.StringSliceFlag{
				Name:     "cors-origin",
				Usage:    "the allowed origins. Use * to allow any origin.",
				Category: "adapter",
				EnvVars:  []string{"CORS_ALLOW_ORIGINS"},
			},
			&cli.StringSliceFlag{
				Name:     "health-path",
				Usage:    "the paths answered with a health check response.",
				Category: "adapter",
				EnvVars:  []string{"HEALTH_PATHS"},
			},
			&cli.StringFlag{
				Name:     "health-message",
				Usage:    "the message of the health check response.",
				Category: "adapter",
				EnvVars:  []string{"HEALTH_MESSAGE"},
			},
			&cli.BoolFlag{
				Name:     "expose-trace",
				Usage:    "include the stack trace of application panics in error responses.",
				Category: "adapter",
				EnvVars:  []string{"EXPOSE_TRACE"},
			},
			// telemetry flags
			&cli.StringFlag{
				Name:     "metrics-path",
				Usage:    "serve prometheus metrics on this path. Only used by the http server.",
				Category: "telemetry",
				EnvVars:  []string{"METRICS_PATH"},
			},
			&cli.StringFlag{
				Name:     "tracing",
				Usage:    "the span exporter. Options: stdout, otlp.",
				Category: "telemetry",
				EnvVars:  []string{"TRACING_EXPORTER"},
			},
			&cli.StringFlag{
				Name:     "otlp-endpoint",
				Usage:    "the OTLP collector endpoint, host and port.",
				Category: "telemetry",
				EnvVars:  []string{"OTLP_ENDPOINT"},
			},
		},
		Before: func(ctx *cli.Context) error {
			// create the logger
			log, err := createLogger(ctx)
			if err != nil {
				return err
			}

			// inject logger into cli context
			ctx.Context = logging.ContextWithLogger(ctx.Context, log)

			// parse config using defaults, file, env and flags
			cfg, err := conf.Parse[config.Config](conf.ParseOptions{
				Cli:      ctx,
				CliMap:   config.CliMap,
				Defaults: config.DefaultConfig,
				FileName: ctx.Path("config"),
				Log:      log,
			})
			if err != nil {
				return err
			}

			// inject the config into the cli context
			ctx.Context = conf.ContextWithConfig(ctx.Context, cfg)

			return nil
		},
		After: func(ctx *cli.Context) error {
			log, err := logging.LoggerFromContext(ctx.Context)
			if err != nil {
				return err
			}

			log.Sync()

			return nil
		},
	}
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "print the version",
		DisableDefaultText: true,
	}
}

type ExecuteParams struct {
	Version  string
	Compiled time.Time
}

// Execute runs the cli and returns the exit code.
func Execute(params ExecuteParams) int {
	rootApp.Version = params.Version
	rootApp.Compiled = params.Compiled

	return run(context.Background(), os.Args)
}

func run(ctx context.Context, args []string) int {
	err := rootApp.RunContext(ctx, args)

	// if app exited without error, return
	if err == nil {
		return 0
	}

	// if app exited with ExitError, exit with given exit code
	var exitErr *shell.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}

	fmt.Fprintf(os.Stderr, "exit error: %s\n", err.Error())

	// otherwise, exit with exit code 1
	return 1
}

func createLogger(ctx *cli.Context) (*zap.Logger, error) {
	level := getLogLevelFromCLI(ctx)
	format := getLogFormatFromCLI(ctx)

	var config zap.Config
	if format == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.InitialFields = map[string]any{
		"app": appName,
	}

	config.Level = level

	return config.Build()
}

func getLogFormatFromCLI(ctx *cli.Context) string {
	format := ctx.String("log-format")
	if format != "" {
		return format
	}

	return "production"
}

func getLogLevelFromCLI(ctx *cli.Context) zap.AtomicLevel {
	lvl := ctx.String("log-level")

	if atom, err := zap.ParseAtomicLevel(lvl); err == nil {
		return atom
	}

	return zap.NewAtomicLevelAt(zap.InfoLevel)
}
