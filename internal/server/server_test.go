package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/lambda-feedback/appshim/internal/server"
)

func TestServer_RoutesHandlers(t *testing.T) {
	var srv *server.HttpServer

	app := fxtest.New(t,
		fx.Supply(fx.Annotate(context.Background(), fx.As(new(context.Context)))),
		fx.Supply(zap.NewNop()),
		fx.Provide(func() server.HttpHandlerResult {
			return server.AsHttpHandler("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("root"))
			}))
		}),
		fx.Provide(func() server.HttpHandlerResult {
			return server.AsHttpHandler("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("metrics"))
			}))
		}),
		server.Module(server.HttpConfig{Host: "127.0.0.1", Port: 0}),
		fx.Populate(&srv),
	)

	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, srv.Addr())

	for path, expected := range map[string]string{"/": "root", "/other": "root", "/metrics": "metrics"} {
		res, err := http.Get("http://" + srv.Addr().String() + path)
		require.NoError(t, err)

		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, expected, string(body))
	}
}

func TestServer_ServeWithoutListen(t *testing.T) {
	srv := server.NewHttpServer(server.HttpServerParams{
		Context: context.Background(),
		Logger:  zap.NewNop(),
	})

	assert.Error(t, srv.Serve())
	assert.Nil(t, srv.Addr())
}
