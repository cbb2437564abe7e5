package handler

import (
	"go.uber.org/fx"

	"github.com/lambda-feedback/appshim/internal/server"
)

func NewRoute(handler *AdapterHandler) server.HttpHandlerResult {
	return server.AsHttpHandler("/", handler)
}

// Module provides the adapter http handler and its catch-all route.
func Module() fx.Option {
	return fx.Module("handler",
		fx.Provide(NewAdapterHandler),
		fx.Provide(NewRoute),
	)
}
