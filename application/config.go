package application

import (
	"time"

	"github.com/lambda-feedback/appshim/internal/process"
)

type Config struct {
	// URL is the base url of the application's HTTP server
	URL string `conf:"url"`

	// Timeout bounds each application call, 0 disables the timeout
	Timeout time.Duration `conf:"timeout"`

	// Process configures the optional supervised application process
	Process process.Config `conf:",squash"`
}

var DefaultConfig = Config{
	URL: "http://127.0.0.1:8000",
	Process: process.Config{
		ReadyTimeout: 10 * time.Second,
		StopTimeout:  5 * time.Second,
	},
}
