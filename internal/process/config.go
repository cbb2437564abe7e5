package process

import (
	"errors"
	"time"
)

var (
	ErrNotStarted     = errors.New("process not started")
	ErrAlreadyStarted = errors.New("process already started")
	ErrExited         = errors.New("process exited")
	ErrNotReady       = errors.New("process not ready")
	ErrKillTimeout    = errors.New("kill timeout")
	ErrStopped        = errors.New("process stopped")
)

type Config struct {
	// Command is the path or name of the binary to execute
	Command string `conf:"command"`

	// Args is the list of arguments to pass to the command
	Args []string `conf:"args"`

	// Cwd is the working directory in which
	// the binary should be executed
	Cwd string `conf:"cwd"`

	// Env is a map of environment variables set in addition
	// to the environment of the shim
	Env map[string]string `conf:"env"`

	// ReadyTimeout is the duration to wait for the
	// process to accept connections
	ReadyTimeout time.Duration `conf:"ready_timeout"`

	// StopTimeout is the duration to wait for the process to
	// exit after SIGTERM, before it is killed
	StopTimeout time.Duration `conf:"stop_timeout"`

	// Reload restarts the process when watched files change
	Reload bool `conf:"reload"`

	// Watch is the list of directories watched for changes.
	// Defaults to Cwd, or the current directory.
	Watch []string `conf:"watch"`
}

// ExitEvent describes how a process exited.
type ExitEvent struct {
	// Code is the exit code of the process
	Code *int

	// Signal is the signal that caused the process to exit
	Signal *int
}
