package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/lambda-feedback/appshim/adapter"
	"github.com/lambda-feedback/appshim/app"
	"github.com/lambda-feedback/appshim/application"
	"github.com/lambda-feedback/appshim/config"
	"github.com/lambda-feedback/appshim/event"
	"github.com/lambda-feedback/appshim/telemetry"
)

func TestSharedModule(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer upstream.Close()

	cfg := config.Config{
		Adapter:   adapter.DefaultConfig,
		App:       application.Config{URL: upstream.URL},
		Telemetry: telemetry.DefaultConfig,
	}

	var a *adapter.Adapter
	var metrics *telemetry.Metrics

	fxApp := fxtest.New(t,
		fx.Supply(fx.Annotate(context.Background(), fx.As(new(context.Context)))),
		fx.Supply(zap.NewNop()),
		app.SharedModule(cfg),
		fx.Populate(&a, &metrics),
	)

	fxApp.RequireStart()
	defer fxApp.RequireStop()

	res := a.Handle(context.Background(), event.Request{Method: http.MethodGet, Path: "/coffee"})
	assert.Equal(t, http.StatusTeapot, res.StatusCode)
	assert.Equal(t, "*", res.Headers["Access-Control-Allow-Origin"])

	families, err := metrics.Registry().Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}
