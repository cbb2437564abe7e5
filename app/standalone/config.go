package standalone

import "github.com/lambda-feedback/appshim/internal/server"

type Config struct {
	// HttpConfig represents the configuration for the HTTP server.
	HttpConfig server.HttpConfig `conf:",squash"`
}

var DefaultConfig = Config{
	HttpConfig: server.HttpConfig{
		Host: "localhost",
		Port: 8080,
	},
}
