package process

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultStopTimeout = 5 * time.Second
	readyPollInterval  = 100 * time.Millisecond
	readyDialTimeout   = 500 * time.Millisecond
)

// Process supervises the application server process.
type Process struct {
	config Config

	procLock sync.Mutex
	proc     *proc
	stopping bool
	// stopped is set by Stop and cleared by Start.
	// Restart refuses to run while it is set.
	stopped bool

	log *zap.Logger
}

func New(config Config, log *zap.Logger) *Process {
	return &Process{
		config: config,
		log:    log.Named("process"),
	}
}

// Start starts the process. The process is killed when ctx is cancelled.
func (p *Process) Start(ctx context.Context) error {
	p.procLock.Lock()
	defer p.procLock.Unlock()

	if p.proc != nil {
		if _, exited := p.proc.Exited(); !exited {
			return ErrAlreadyStarted
		}
	}

	p.stopped = false

	return p.start(ctx)
}

func (p *Process) start(ctx context.Context) error {
	p.log.With(
		zap.String("command", p.config.Command),
		zap.Strings("args", p.config.Args),
		zap.String("cwd", p.config.Cwd),
	).Debug("starting process")

	// exit early if the context is already cancelled
	if ctx.Err() != nil {
		return fmt.Errorf("failed to start process: %w", ctx.Err())
	}

	proc, err := startProc(p.config, p.log)
	if err != nil {
		return fmt.Errorf("failed to start process: %w", err)
	}

	p.proc = proc
	p.stopping = false

	go p.monitor(ctx, proc)

	return nil
}

// monitor logs unexpected exits and kills
// the process once ctx is cancelled.
func (p *Process) monitor(ctx context.Context, proc *proc) {
	select {
	case <-ctx.Done():
		proc.Kill(-1)
	case <-proc.Done():
		exit, _ := proc.Exited()

		p.procLock.Lock()
		expected := p.stopping || p.proc != proc
		p.procLock.Unlock()

		if expected {
			return
		}

		log := p.log.With(zap.Int("pid", proc.pid))
		if exit.Code != nil {
			log = log.With(zap.Int("code", *exit.Code))
		}
		if exit.Signal != nil {
			log = log.With(zap.Int("signal", *exit.Signal))
		}
		log.Error("process exited unexpectedly")
	}
}

// Stop terminates the process, and kills it if it does
// not exit within the configured stop timeout. After Stop,
// Restart fails with ErrStopped until Start is called again.
func (p *Process) Stop(context.Context) error {
	p.procLock.Lock()
	defer p.procLock.Unlock()

	p.stopped = true

	return p.stop()
}

func (p *Process) stop() error {
	if p.proc == nil {
		return ErrNotStarted
	}

	p.stopping = true

	timeout := p.config.StopTimeout
	if timeout <= 0 {
		timeout = defaultStopTimeout
	}

	if err := p.proc.Terminate(timeout); err == nil {
		return nil
	}

	p.log.Warn("process did not terminate in time, killing")

	return p.proc.Kill(timeout)
}

// Restart stops the running process and starts a new one.
func (p *Process) Restart(ctx context.Context) error {
	p.procLock.Lock()
	defer p.procLock.Unlock()

	if p.stopped {
		return ErrStopped
	}

	if p.proc != nil {
		if err := p.stop(); err != nil {
			return err
		}
	}

	return p.start(ctx)
}

// Exited returns the exit event of the current process, if it exited.
func (p *Process) Exited() (ExitEvent, bool) {
	p.procLock.Lock()
	defer p.procLock.Unlock()

	if p.proc == nil {
		return ExitEvent{}, false
	}

	return p.proc.Exited()
}

// WaitReady blocks until the process accepts tcp connections on addr.
// It fails with ErrExited if the process exits first, and with
// ErrNotReady if the configured ready timeout elapses.
func (p *Process) WaitReady(ctx context.Context, addr string) error {
	p.procLock.Lock()
	proc := p.proc
	p.procLock.Unlock()

	if proc == nil {
		return ErrNotStarted
	}

	if p.config.ReadyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.ReadyTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	dialer := net.Dialer{Timeout: readyDialTimeout}

	for {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn.Close()
			p.log.Debug("process ready", zap.String("address", addr))
			return nil
		}

		select {
		case <-proc.Done():
			exit := proc.exit
			if exit.Code != nil {
				return fmt.Errorf("%w with code %d", ErrExited, *exit.Code)
			}
			return ErrExited
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %w", ErrNotReady, addr, ctx.Err())
		case <-ticker.C:
		}
	}
}
