package process

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type proc struct {
	pid  int
	done chan struct{}
	exit ExitEvent

	log *zap.Logger
}

func startProc(config Config, log *zap.Logger) (*proc, error) {
	cmd := exec.Command(config.Command, config.Args...)

	if config.Env != nil {
		env := os.Environ()
		for k, v := range config.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		cmd.Env = env
	}

	if config.Cwd != "" {
		cmd.Dir = config.Cwd
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	initCmd(cmd)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	log = log.Named("proc").With(zap.Int("pid", cmd.Process.Pid))

	process := &proc{
		pid:  cmd.Process.Pid,
		done: make(chan struct{}),
		log:  log,
	}

	// pipes must be drained before cmd.Wait is called
	var output sync.WaitGroup
	output.Add(2)
	go process.forward(&output, stdout, "stdout")
	go process.forward(&output, stderr, "stderr")

	go func() {
		output.Wait()

		// block until the process exits
		err := cmd.Wait()

		process.exit = getExitEvent(err)

		close(process.done)
	}()

	return process, nil
}

// forward logs the output of the process line by line.
func (p *proc) forward(wg *sync.WaitGroup, r io.Reader, stream string) {
	defer wg.Done()

	log := p.log.With(zap.String("stream", stream))

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		log.Info(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		log.Debug("failed to read output", zap.Error(err))
	}
}

// Done returns a channel that is closed once the process exited.
func (p *proc) Done() <-chan struct{} {
	return p.done
}

// Exited returns the exit event, if the process exited.
func (p *proc) Exited() (ExitEvent, bool) {
	select {
	case <-p.done:
		return p.exit, true
	default:
		return ExitEvent{}, false
	}
}

func (p *proc) Terminate(timeout time.Duration) error {
	// terminate should report success if the process
	// terminated by the time the request is received.
	if _, ok := p.Exited(); ok {
		p.log.Debug("process already terminated")
		return nil
	}

	p.kill(false)

	return p.waitForTermination(timeout)
}

func (p *proc) Kill(timeout time.Duration) error {
	if _, ok := p.Exited(); ok {
		p.log.Debug("process already terminated")
		return nil
	}

	p.kill(true)

	return p.waitForTermination(timeout)
}

func (p *proc) waitForTermination(timeout time.Duration) error {
	// if timeout is < 0, don't wait for the process to exit
	if timeout < 0 {
		return nil
	}

	// if timeout is 0, wait indefinitely
	if timeout == 0 {
		<-p.done
		return nil
	}

	select {
	case <-p.done:
		return nil
	case <-time.After(timeout):
		return ErrKillTimeout
	}
}

func (p *proc) kill(force bool) {
	log := p.log.With(zap.Bool("force", force))

	log.Info("sending signal")

	// best effort, ignore errors
	if err := p.sendKillSignal(force); err != nil {
		log.Error("signal failed", zap.Error(err))
	}
}

func getExitEvent(err error) ExitEvent {
	var cell int
	var exitStatus *int
	var signo *int

	if err == nil {
		// the process exited successfully, set the exit code to 0
		exitStatus = &cell
	} else if exitError, ok := err.(*exec.ExitError); ok {
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				cell = int(status.Signal())
				signo = &cell
			} else {
				cell = status.ExitStatus()
				exitStatus = &cell
			}
		}
	}

	if signo == nil && exitStatus == nil {
		// could not determine the exit status or signal,
		// set exit status to 1
		cell = 1
		exitStatus = &cell
	}

	return ExitEvent{
		Code:   exitStatus,
		Signal: signo,
	}
}
