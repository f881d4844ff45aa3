package slwatch

import (
	"context"

	"softsl_bot/internal/modules/config"

	"go.uber.org/fx"
)

// Module собирает ядро: Registry + Engine. Зависимости (стор, стрим,
// аккаунты, нотификации) приезжают из соседних модулей.
func Module() fx.Option {
	return fx.Module("slwatch",
		fx.Provide(
			NewRegistry,
			func(
				ctx context.Context,
				reg *Registry,
				store TriggerStore,
				stream CandleStream,
				accounts Accounts,
				sink Notifier,
				cfg *config.Config,
			) *Engine {
				e := NewEngine(ctx, reg, store, stream, accounts, sink)
				if cfg.CallTimeout > 0 {
					e.callTimeout = cfg.CallTimeout
				}
				return e
			},
		),
	)
}
