package process

import (
	"os"
	"os/exec"
)

func (p *proc) sendKillSignal(_ bool) error {
	process, err := os.FindProcess(p.pid)
	if err != nil {
		return err
	}
	return process.Kill()
}

func initCmd(cmd *exec.Cmd) {
	// No-op on Windows.
}
