package bitget_websocket

import (
	"softsl_bot/internal/modules/bitget_websocket/service"
	"softsl_bot/internal/slwatch"

	"go.uber.org/fx"
)

// Module поднимает свечной стрим Bitget.
func Module() fx.Option {
	return fx.Module("bitget_websocket",
		fx.Provide(
			service.NewClient,
			// адаптер: *service.Client -> slwatch.CandleStream
			func(c *service.Client) slwatch.CandleStream {
				return c
			},
		),
	)
}
