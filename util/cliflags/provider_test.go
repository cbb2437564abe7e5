package cliflags

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runWithFlags(t *testing.T, args []string, cb func(string) string) map[string]any {
	var mp map[string]any

	app := &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info"},
			&cli.StringSliceFlag{Name: "cors-origin", EnvVars: []string{"TEST_CLIFLAGS_CORS_ORIGIN"}},
		},
		Commands: []*cli.Command{
			{
				Name: "serve",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "port", Value: 8080},
					&cli.DurationFlag{Name: "timeout"},
					&cli.BoolFlag{Name: "h2c"},
				},
				Action: func(ctx *cli.Context) error {
					var err error
					mp, err = Provider(ctx, ".", cb).Read()
					return err
				},
			},
		},
	}

	require.NoError(t, app.Run(append([]string{"test"}, args...)))

	return mp
}

func TestProvider_OnlySetFlags(t *testing.T) {
	mp := runWithFlags(t, []string{"serve", "--port", "9000", "--timeout", "3s"}, nil)

	assert.Equal(t, map[string]any{
		"port":    9000,
		"timeout": 3 * time.Second,
	}, mp)
}

func TestProvider_EnvVars(t *testing.T) {
	t.Setenv("TEST_CLIFLAGS_CORS_ORIGIN", "https://a.example.com,https://b.example.com")

	mp := runWithFlags(t, []string{"serve"}, nil)

	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, mp["cors-origin"])
}

func TestProvider_NestedKeys(t *testing.T) {
	cb := func(name string) string {
		if name == "cors-origin" {
			return "cors.allow_origins"
		}
		return name
	}

	mp := runWithFlags(t, []string{"--cors-origin", "https://a.example.com", "serve", "--h2c"}, cb)

	assert.Equal(t, map[string]any{
		"cors": map[string]any{"allow_origins": []string{"https://a.example.com"}},
		"h2c":  true,
	}, mp)
}
