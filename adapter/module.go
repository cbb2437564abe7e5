package adapter

import "go.uber.org/fx"

// Module provides the adapter.
func Module(config Config) fx.Option {
	return fx.Module(
		"adapter",
		// provide adapter config
		fx.Supply(config),
		// provide adapter
		fx.Provide(New),
	)
}
