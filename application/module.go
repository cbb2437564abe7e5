package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/appshim/internal/process"
	"github.com/lambda-feedback/appshim/util/logging"
)

// UpstreamParams defines the dependencies for the upstream application.
type UpstreamParams struct {
	fx.In

	// Context is the application context, the supervised
	// process is killed once it is cancelled
	Context context.Context

	Config Config

	Log *zap.Logger
}

// NewLifecycleUpstream creates the upstream application and, if a
// command is configured, starts the application process before any
// request is accepted.
func NewLifecycleUpstream(params UpstreamParams, lc fx.Lifecycle) (*Upstream, error) {
	upstream, err := NewUpstream(params.Config)
	if err != nil {
		return nil, err
	}

	if params.Config.Process.Command == "" {
		params.Log.Debug("using external application", zap.String("url", params.Config.URL))
		return upstream, nil
	}

	proc := process.New(params.Config.Process, params.Log)

	var watcher *process.Watcher

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := proc.Start(params.Context); err != nil {
				return err
			}

			if err := proc.WaitReady(ctx, upstream.Addr()); err != nil {
				proc.Stop(ctx)
				return fmt.Errorf("application did not become ready: %w", err)
			}

			params.Log.Info("application ready", zap.String("url", params.Config.URL))

			if !params.Config.Process.Reload {
				return nil
			}

			w, err := newReloadWatcher(params, proc, upstream)
			if err != nil {
				return err
			}

			watcher = w
			go watcher.Run(params.Context)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if watcher != nil {
				watcher.Close()
			}

			return proc.Stop(ctx)
		},
	})

	return upstream, nil
}

func newReloadWatcher(params UpstreamParams, proc *process.Process, upstream *Upstream) (*process.Watcher, error) {
	dirs := params.Config.Process.Watch
	if len(dirs) == 0 {
		dir := params.Config.Process.Cwd
		if dir == "" {
			dir = "."
		}
		dirs = []string{dir}
	}

	log := params.Log.With(zap.Strings("dirs", dirs))
	log.Info("watching for changes")

	return process.NewWatcher(dirs, 0, func() {
		log.Info("change detected, restarting application")

		err := proc.Restart(params.Context)
		if errors.Is(err, process.ErrStopped) {
			log.Debug("application stopped, skipping restart")
			return
		}
		if err != nil {
			log.Error("failed to restart application", zap.Error(err))
			return
		}

		if err := proc.WaitReady(params.Context, upstream.Addr()); err != nil {
			log.Error("application did not become ready", zap.Error(err))
		}
	}, params.Log)
}

// Module provides the wrapped application.
func Module(config Config) fx.Option {
	return fx.Module(
		"application",
		// rename logger for module
		logging.DecorateLogger("application"),
		// provide application config
		fx.Supply(config),
		// provide application
		fx.Provide(
			fx.Annotate(
				NewLifecycleUpstream,
				fx.As(new(Application)),
			),
		),
	)
}
